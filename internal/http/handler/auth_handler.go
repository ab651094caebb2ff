package handler

import (
	"net/http"

	"github.com/sandeepkv93/statuspage-service/internal/http/middleware"
	"github.com/sandeepkv93/statuspage-service/internal/http/response"
	"github.com/sandeepkv93/statuspage-service/internal/observability"
	"github.com/sandeepkv93/statuspage-service/internal/security"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

type AuthHandler struct {
	auth    *service.AuthService
	cookies security.CookieOptions
}

func NewAuthHandler(auth *service.AuthService, cookies security.CookieOptions) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !bindJSON(w, r, &req) {
		return
	}
	res, err := h.auth.Signup(r.Context(), service.SignupInput{Email: req.Email, Password: req.Password, Name: req.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	security.SetSessionCookie(w, res.Session.ID, res.Session.ExpiresAt, h.cookies)
	observability.Audit(r, "auth.signup", "user_id", res.User.ID)
	response.JSON(w, r, http.StatusCreated, map[string]any{"user": res.User})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !bindJSON(w, r, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	security.SetSessionCookie(w, res.Session.ID, res.Session.ExpiresAt, h.cookies)
	observability.Audit(r, "auth.login", "user_id", res.User.ID)
	response.JSON(w, r, http.StatusOK, map[string]any{"user": res.User})
}

// Logout always clears the cookie, even when the session is already gone.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := security.GetCookie(r, security.SessionCookieName); token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			writeError(w, r, err)
			return
		}
	}
	security.ClearSessionCookie(w, h.cookies)
	observability.Audit(r, "auth.logout")
	response.JSON(w, r, http.StatusOK, map[string]bool{"logged_out": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrInvalidSession)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"user": auth.User, "expires_at": auth.Session.ExpiresAt})
}
