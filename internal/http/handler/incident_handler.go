package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/statuspage-service/internal/http/response"
	"github.com/sandeepkv93/statuspage-service/internal/repository"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

type IncidentHandler struct {
	incidents *service.IncidentService
}

func NewIncidentHandler(incidents *service.IncidentService) *IncidentHandler {
	return &IncidentHandler{incidents: incidents}
}

type createIncidentRequest struct {
	PageID         string     `json:"pageId" validate:"required"`
	Name           string     `json:"name"`
	Status         string     `json:"status"`
	Impact         string     `json:"impact"`
	Body           string     `json:"body"`
	ComponentIDs   []string   `json:"componentIds"`
	ScheduledFor   *time.Time `json:"scheduledFor"`
	ScheduledUntil *time.Time `json:"scheduledUntil"`
}

type incidentUpdateRequest struct {
	Status string `json:"status" validate:"required"`
	Body   string `json:"body"`
}

func (h *IncidentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createIncidentRequest
	if !bindJSON(w, r, &req) {
		return
	}
	detail, err := h.incidents.Create(r.Context(), currentUserID(r), service.CreateIncidentInput{
		PageID:         req.PageID,
		Name:           req.Name,
		Status:         req.Status,
		Impact:         req.Impact,
		Body:           req.Body,
		ComponentIDs:   req.ComponentIDs,
		ScheduledFor:   req.ScheduledFor,
		ScheduledUntil: req.ScheduledUntil,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, detail)
}

func (h *IncidentHandler) List(w http.ResponseWriter, r *http.Request) {
	pageID := r.URL.Query().Get("page_id")
	if pageID == "" {
		response.Validation(w, r, []string{"page_id is required"})
		return
	}
	result, err := h.incidents.List(r.Context(), currentUserID(r), pageID, repository.PageRequest{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

func (h *IncidentHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.incidents.Get(r.Context(), currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, detail)
}

func (h *IncidentHandler) AddUpdate(w http.ResponseWriter, r *http.Request) {
	var req incidentUpdateRequest
	if !bindJSON(w, r, &req) {
		return
	}
	detail, err := h.incidents.AddUpdate(r.Context(), currentUserID(r), chi.URLParam(r, "id"), req.Status, req.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, detail)
}

func (h *IncidentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.incidents.Delete(r.Context(), currentUserID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}
