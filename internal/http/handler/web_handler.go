package handler

import (
	"errors"
	"net/http"

	"github.com/sandeepkv93/statuspage-service/internal/http/middleware"
	"github.com/sandeepkv93/statuspage-service/internal/observability"
	"github.com/sandeepkv93/statuspage-service/internal/security"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

// WebHandler serves the server rendered pages of the root host.
type WebHandler struct {
	auth    *service.AuthService
	pages   *service.PageService
	views   *Views
	cookies security.CookieOptions
}

func NewWebHandler(auth *service.AuthService, pages *service.PageService, views *Views, cookies security.CookieOptions) *WebHandler {
	return &WebHandler{auth: auth, pages: pages, views: views, cookies: cookies}
}

func (h *WebHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, "login", pageData{Title: "Log in"})
}

func (h *WebHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.views.Render(w, r, http.StatusBadRequest, "login", pageData{Title: "Log in", Error: "Invalid form submission"})
		return
	}
	email := r.PostFormValue("email")
	res, err := h.auth.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		data := pageData{Title: "Log in", Email: email}
		status := http.StatusUnauthorized
		switch ve, ok := service.AsValidationError(err); {
		case ok:
			status = http.StatusBadRequest
			data.Error = ve.Errors[0]
		case errors.Is(err, service.ErrInvalidCredentials):
			data.Error = "Invalid email or password"
		default:
			writeError(w, r, err)
			return
		}
		h.views.Render(w, r, status, "login", data)
		return
	}
	security.SetSessionCookie(w, res.Session.ID, res.Session.ExpiresAt, h.cookies)
	observability.Audit(r, "auth.login", "user_id", res.User.ID, "via", "form")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *WebHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	auth, _ := middleware.AuthFromContext(r.Context())
	pages, err := h.pages.ListForUser(r.Context(), auth.User.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, "dashboard", pageData{Title: "Dashboard", User: auth.User, Pages: pages})
}
