package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
	"github.com/sandeepkv93/statuspage-service/internal/http/middleware"
	"github.com/sandeepkv93/statuspage-service/internal/http/response"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

type pageData struct {
	Title string
	User  *domain.User
	Error string
	Email string
	Pages []domain.Page
	View  *service.StatusView
}

// PublicHandler serves the tenant facing status page and subscriptions.
type PublicHandler struct {
	status      *service.StatusService
	subscribers *service.SubscriberService
	views       *Views
}

func NewPublicHandler(status *service.StatusService, subscribers *service.SubscriberService, views *Views) *PublicHandler {
	return &PublicHandler{status: status, subscribers: subscribers, views: views}
}

type subscribeRequest struct {
	Email        string   `json:"email"`
	ComponentIDs []string `json:"componentIds"`
}

// Index renders the status page on tenant hosts and the landing page
// everywhere else.
func (h *PublicHandler) Index(w http.ResponseWriter, r *http.Request) {
	route, _ := middleware.RouteFromContext(r.Context())
	if route.Kind != service.RouteStatusPage || route.Page == nil {
		h.views.Render(w, r, http.StatusOK, "landing", pageData{Title: "Status pages"})
		return
	}
	view, err := h.status.Load(r.Context(), route.Page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, "status", pageData{Title: route.Page.Name + " status", View: view})
}

func (h *PublicHandler) StatusJSON(w http.ResponseWriter, r *http.Request) {
	route, _ := middleware.RouteFromContext(r.Context())
	view, err := h.status.Load(r.Context(), route.Page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, view)
}

func (h *PublicHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !bindJSON(w, r, &req) {
		return
	}
	route, _ := middleware.RouteFromContext(r.Context())
	res, err := h.subscribers.Subscribe(r.Context(), route.Page, req.Email, req.ComponentIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if res.Pending {
		status = http.StatusCreated
	}
	response.JSON(w, r, status, res)
}

func (h *PublicHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subscribers.Confirm(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"subscriber": sub})
}

func (h *PublicHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if err := h.subscribers.Unsubscribe(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"unsubscribed": true})
}
