package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sandeepkv93/statuspage-service/internal/http/response"
	"github.com/sandeepkv93/statuspage-service/internal/repository"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password"},
	{service.ErrInvalidSession, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required"},
	{service.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "Access denied"},
	{service.ErrEmailTaken, http.StatusConflict, "CONFLICT", "Email already registered"},
	{service.ErrSubdomainTaken, http.StatusConflict, "CONFLICT", "Subdomain already taken"},
	{service.ErrConfirmationExpired, http.StatusGone, "GONE", "Confirmation link has expired"},
	{repository.ErrPageNotFound, http.StatusNotFound, "NOT_FOUND", "Page not found"},
	{repository.ErrComponentNotFound, http.StatusNotFound, "NOT_FOUND", "Component not found"},
	{repository.ErrComponentGroupNotFound, http.StatusNotFound, "NOT_FOUND", "Component group not found"},
	{repository.ErrIncidentNotFound, http.StatusNotFound, "NOT_FOUND", "Incident not found"},
	{repository.ErrSubscriberNotFound, http.StatusNotFound, "NOT_FOUND", "Subscriber not found"},
	{repository.ErrConfirmationNotFound, http.StatusNotFound, "NOT_FOUND", "Confirmation not found"},
	{repository.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND", "User not found"},
}

// writeError maps service and repository errors onto the JSON envelope.
// Anything unrecognised is logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := service.AsValidationError(err); ok {
		response.Validation(w, r, ve.Errors)
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			response.Error(w, r, m.status, m.code, m.message, nil)
			return
		}
	}
	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	response.Error(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
}
