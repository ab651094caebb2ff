package security

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewSessionTokenShapeAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		tok, err := NewSessionToken()
		if err != nil {
			t.Fatalf("new token: %v", err)
		}
		if len(tok) != 64 {
			t.Fatalf("expected 64 hex chars, got %d", len(tok))
		}
		if strings.Trim(tok, "0123456789abcdef") != "" {
			t.Fatalf("token is not lower hex: %q", tok)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[tok] = struct{}{}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestNewSessionTokenPropagatesRandomFailure(t *testing.T) {
	orig := randReader
	randReader = failingReader{}
	t.Cleanup(func() { randReader = orig })

	if _, err := NewSessionToken(); err == nil {
		t.Fatal("expected error when entropy source fails")
	}
}

func TestNewUserIDLength(t *testing.T) {
	id, err := NewUserID()
	if err != nil {
		t.Fatalf("new user id: %v", err)
	}
	if len(id) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(id))
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	encoded, err := HashPassword("Sup3r$ecret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	salt, key, ok := strings.Cut(encoded, ":")
	if !ok || len(salt) != 32 || len(key) != 64 {
		t.Fatalf("unexpected encoding %q", encoded)
	}
	again, err := HashPassword("Sup3r$ecret")
	if err != nil {
		t.Fatalf("hash again: %v", err)
	}
	if again == encoded {
		t.Fatal("salts must differ between hashes")
	}

	ok, err = VerifyPassword("Sup3r$ecret", encoded)
	if err != nil || !ok {
		t.Fatalf("expected match: ok=%v err=%v", ok, err)
	}
	ok, err = VerifyPassword("wrong", encoded)
	if err != nil || ok {
		t.Fatalf("expected mismatch: ok=%v err=%v", ok, err)
	}
	for _, bad := range []string{"", "nocolon", "zz:00", "00:"} {
		if _, err := VerifyPassword("x", bad); !errors.Is(err, ErrMalformedHash) {
			t.Fatalf("VerifyPassword(%q) expected ErrMalformedHash, got %v", bad, err)
		}
	}
}

func TestPasswordProblems(t *testing.T) {
	tests := []struct {
		password string
		want     []string
	}{
		{"Str0ng!pw", nil},
		{"short", []string{
			"Password must be at least 8 characters long",
			"Password must contain at least one uppercase letter",
			"Password must contain at least one digit",
			"Password must contain at least one special character",
		}},
		{"ALLUPPER1!", []string{"Password must contain at least one lowercase letter"}},
		{"NoDigits!!", []string{"Password must contain at least one digit"}},
		{"NoSpecial1", []string{"Password must contain at least one special character"}},
	}
	for _, tc := range tests {
		got := PasswordProblems(tc.password)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") {
			t.Fatalf("PasswordProblems(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	expires := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	SetSessionCookie(rec, "tok", expires, CookieOptions{Secure: true})

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookieName || c.Value != "tok" || c.Path != "/" {
		t.Fatalf("unexpected cookie %+v", c)
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie flags %+v", c)
	}
	if !c.Expires.Equal(expires) {
		t.Fatalf("expected expires %s, got %s", expires, c.Expires)
	}

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec, CookieOptions{})
	c = rec.Result().Cookies()[0]
	if c.Value != "" || c.MaxAge >= 0 || c.Secure {
		t.Fatalf("unexpected cleared cookie %+v", c)
	}
}

func TestGetCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetCookie(req, SessionCookieName); got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "abc"})
	if got := GetCookie(req, SessionCookieName); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}
