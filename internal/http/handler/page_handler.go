package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/statuspage-service/internal/http/response"
	"github.com/sandeepkv93/statuspage-service/internal/observability"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

type PageHandler struct {
	pages       *service.PageService
	subscribers *service.SubscriberService
}

func NewPageHandler(pages *service.PageService, subscribers *service.SubscriberService) *PageHandler {
	return &PageHandler{pages: pages, subscribers: subscribers}
}

type createPageRequest struct {
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}

type updatePageRequest struct {
	Name              service.Optional[string] `json:"name"`
	CustomDomain      service.Optional[string] `json:"customDomain"`
	StatusIndicator   service.Optional[string] `json:"statusIndicator"`
	StatusDescription service.Optional[string] `json:"statusDescription"`
}

func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPageRequest
	if !bindJSON(w, r, &req) {
		return
	}
	page, err := h.pages.Create(r.Context(), currentUserID(r), service.CreatePageInput{Name: req.Name, Subdomain: req.Subdomain})
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.Audit(r, "page.create", "page_id", page.ID, "subdomain", page.Subdomain)
	response.JSON(w, r, http.StatusCreated, map[string]any{"page": page})
}

func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.ListForUser(r.Context(), currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"pages": pages})
}

func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.Get(r.Context(), currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"page": page})
}

func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePageRequest
	if !bindJSON(w, r, &req) {
		return
	}
	page, err := h.pages.Update(r.Context(), currentUserID(r), chi.URLParam(r, "id"), service.UpdatePageInput{
		Name:              req.Name,
		CustomDomain:      req.CustomDomain,
		StatusIndicator:   req.StatusIndicator,
		StatusDescription: req.StatusDescription,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.Audit(r, "page.update", "page_id", page.ID)
	response.JSON(w, r, http.StatusOK, map[string]any{"page": page})
}

func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.pages.Delete(r.Context(), currentUserID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	observability.Audit(r, "page.delete", "page_id", id)
	response.JSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *PageHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.pages.RequireAccess(r.Context(), currentUserID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	subs, err := h.subscribers.ListConfirmed(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"subscribers": subs})
}
