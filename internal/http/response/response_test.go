package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestErrorEnvelopeCarriesRequestIDAndDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/pages", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rr := httptest.NewRecorder()

	Validation(rr, req, []string{"Name is required", "Subdomain is required"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var env struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details struct {
				Errors []string `json:"errors"`
			} `json:"details"`
		} `json:"error"`
		Meta struct {
			RequestID string `json:"request_id"`
		} `json:"meta"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Success || env.Error.Code != "VALIDATION_ERROR" || env.Error.Message != "Name is required" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if len(env.Error.Details.Errors) != 2 || env.Meta.RequestID != "req-123" {
		t.Fatalf("unexpected details/meta %+v", env)
	}
}

func TestJSONAndHTML(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	JSON(rr, req, http.StatusCreated, map[string]string{"ok": "yes"})
	if rr.Code != http.StatusCreated || rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected json response %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}

	rr = httptest.NewRecorder()
	HTML(rr, http.StatusNotFound, []byte("<p>gone</p>"))
	if rr.Code != http.StatusNotFound || rr.Header().Get("Content-Type") != "text/html; charset=utf-8" || rr.Body.String() != "<p>gone</p>" {
		t.Fatalf("unexpected html response %d %q %q", rr.Code, rr.Header().Get("Content-Type"), rr.Body.String())
	}
}
