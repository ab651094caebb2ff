package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
	"github.com/sandeepkv93/statuspage-service/internal/security"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

type fakeSessions struct {
	session     *domain.Session
	validateErr error
	refresh     bool
	refreshErr  error
	validated   int
}

func (f *fakeSessions) Issue(context.Context, string) (*domain.Session, error) {
	return f.session, nil
}

func (f *fakeSessions) Validate(_ context.Context, token string) (*service.ValidatedSession, error) {
	f.validated++
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	if f.session == nil || token != f.session.ID {
		return nil, service.ErrInvalidSession
	}
	return &service.ValidatedSession{Session: f.session, User: &domain.User{ID: f.session.UserID}}, nil
}

func (f *fakeSessions) Refresh(_ context.Context, s *domain.Session) (bool, error) {
	if f.refreshErr != nil {
		return false, f.refreshErr
	}
	if f.refresh {
		s.ExpiresAt = s.ExpiresAt.Add(15 * 24 * time.Hour)
	}
	return f.refresh, nil
}

func (f *fakeSessions) Destroy(context.Context, string) (bool, error) { return true, nil }

func protectedHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth, ok := AuthFromContext(r.Context())
		if !ok || auth.User.ID != "user-1" {
			t.Fatalf("expected auth context for user-1, got %+v", auth)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func sessionRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: token})
	}
	return req
}

func TestRequireSessionMissingCookieAPIMode(t *testing.T) {
	h := RequireSession(&fakeSessions{}, security.CookieOptions{}, AuthModeAPI)(protectedHandler(t))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, sessionRequest(""))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected json envelope, got %q", rr.Header().Get("Content-Type"))
	}
}

func TestRequireSessionPageModeRedirects(t *testing.T) {
	h := RequireSession(&fakeSessions{}, security.CookieOptions{}, AuthModePage)(protectedHandler(t))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, sessionRequest("stale"))

	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != LoginPath {
		t.Fatalf("expected 303 to %s, got %d %q", LoginPath, rr.Code, rr.Header().Get("Location"))
	}
}

func TestRequireSessionValidWithoutRefreshSetsNoCookie(t *testing.T) {
	sessions := &fakeSessions{session: &domain.Session{ID: "tok", UserID: "user-1", ExpiresAt: time.Now().Add(20 * 24 * time.Hour)}}
	h := RequireSession(sessions, security.CookieOptions{}, AuthModeAPI)(protectedHandler(t))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, sessionRequest("tok"))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Fatalf("no refresh means no cookie, got %v", rr.Result().Cookies())
	}
}

func TestRequireSessionRefreshReissuesCookie(t *testing.T) {
	expires := time.Now().Add(10 * 24 * time.Hour).UTC().Truncate(time.Second)
	sessions := &fakeSessions{session: &domain.Session{ID: "tok", UserID: "user-1", ExpiresAt: expires}, refresh: true}
	h := RequireSession(sessions, security.CookieOptions{Secure: true}, AuthModeAPI)(protectedHandler(t))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, sessionRequest("tok"))

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %v", cookies)
	}
	c := cookies[0]
	if c.Name != security.SessionCookieName || c.Value != "tok" || !c.HttpOnly || !c.Secure {
		t.Fatalf("unexpected cookie %+v", c)
	}
	if !c.Expires.Equal(expires.Add(15 * 24 * time.Hour)) {
		t.Fatalf("cookie must carry the refreshed expiry, got %v", c.Expires)
	}
}

func TestRequireSessionStoreFailureIs500(t *testing.T) {
	sessions := &fakeSessions{validateErr: errors.New("db down")}
	h := RequireSession(sessions, security.CookieOptions{}, AuthModePage)(protectedHandler(t))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, sessionRequest("tok"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("infrastructure failures must not look like logouts, got %d", rr.Code)
	}
}
