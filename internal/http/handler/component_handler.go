package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/statuspage-service/internal/http/response"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

type ComponentHandler struct {
	components *service.ComponentService
}

func NewComponentHandler(components *service.ComponentService) *ComponentHandler {
	return &ComponentHandler{components: components}
}

type createComponentRequest struct {
	PageID      string  `json:"pageId" validate:"required"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	GroupID     *string `json:"groupId"`
}

type updateComponentRequest struct {
	Name        service.Optional[string] `json:"name"`
	Description service.Optional[string] `json:"description"`
	GroupID     service.Optional[string] `json:"groupId"`
	Status      service.Optional[string] `json:"status"`
}

type reorderComponentsRequest struct {
	PageID       string   `json:"pageId" validate:"required"`
	ComponentIDs []string `json:"componentIds" validate:"required,dive,required"`
}

type createGroupRequest struct {
	PageID string `json:"pageId" validate:"required"`
	Name   string `json:"name"`
}

type updateGroupRequest struct {
	Name     service.Optional[string] `json:"name"`
	Position service.Optional[int]    `json:"position"`
}

func (h *ComponentHandler) List(w http.ResponseWriter, r *http.Request) {
	components, err := h.components.List(r.Context(), currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"components": components})
}

func (h *ComponentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createComponentRequest
	if !bindJSON(w, r, &req) {
		return
	}
	c, err := h.components.Create(r.Context(), currentUserID(r), service.CreateComponentInput{
		PageID:      req.PageID,
		Name:        req.Name,
		Description: req.Description,
		GroupID:     req.GroupID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, map[string]any{"component": c})
}

func (h *ComponentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateComponentRequest
	if !bindJSON(w, r, &req) {
		return
	}
	c, err := h.components.Update(r.Context(), currentUserID(r), chi.URLParam(r, "id"), service.UpdateComponentInput{
		Name:        req.Name,
		Description: req.Description,
		GroupID:     req.GroupID,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"component": c})
}

func (h *ComponentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.components.Delete(r.Context(), currentUserID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *ComponentHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderComponentsRequest
	if !bindJSON(w, r, &req) {
		return
	}
	if err := h.components.Reorder(r.Context(), currentUserID(r), req.PageID, req.ComponentIDs); err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"reordered": true})
}

func (h *ComponentHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.components.ListGroups(r.Context(), currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"groups": groups})
}

func (h *ComponentHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !bindJSON(w, r, &req) {
		return
	}
	g, err := h.components.CreateGroup(r.Context(), currentUserID(r), req.PageID, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, map[string]any{"group": g})
}

func (h *ComponentHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req updateGroupRequest
	if !bindJSON(w, r, &req) {
		return
	}
	g, err := h.components.UpdateGroup(r.Context(), currentUserID(r), chi.URLParam(r, "id"), req.Name, req.Position)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"group": g})
}

func (h *ComponentHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.components.DeleteGroup(r.Context(), currentUserID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}
