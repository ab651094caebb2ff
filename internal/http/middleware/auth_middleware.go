package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sandeepkv93/statuspage-service/internal/http/response"
	"github.com/sandeepkv93/statuspage-service/internal/security"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

type contextKey string

const (
	AuthContextKey contextKey = "auth"
)

// AuthMode selects how an unauthenticated request is answered.
type AuthMode int

const (
	// AuthModeAPI answers with a 401 envelope.
	AuthModeAPI AuthMode = iota
	// AuthModePage redirects the browser to the login form.
	AuthModePage
)

const LoginPath = "/login"

func RequireSession(sessions service.SessionManager, cookies security.CookieOptions, mode AuthMode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := security.GetCookie(r, security.SessionCookieName)
			validated, err := sessions.Validate(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrInvalidSession) {
					rejectUnauthenticated(w, r, mode)
					return
				}
				slog.ErrorContext(r.Context(), "session validation failed", "error", err)
				response.Error(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "session lookup failed", nil)
				return
			}
			refreshed, err := sessions.Refresh(r.Context(), validated.Session)
			if err != nil {
				if errors.Is(err, service.ErrInvalidSession) {
					rejectUnauthenticated(w, r, mode)
					return
				}
				slog.ErrorContext(r.Context(), "session refresh failed", "error", err)
				response.Error(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "session refresh failed", nil)
				return
			}
			if refreshed {
				security.SetSessionCookie(w, validated.Session.ID, validated.Session.ExpiresAt, cookies)
			}
			ctx := context.WithValue(r.Context(), AuthContextKey, validated)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejectUnauthenticated(w http.ResponseWriter, r *http.Request, mode AuthMode) {
	if mode == AuthModePage {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}
	response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
}

func AuthFromContext(ctx context.Context) (*service.ValidatedSession, bool) {
	v, ok := ctx.Value(AuthContextKey).(*service.ValidatedSession)
	return v, ok && v != nil
}
