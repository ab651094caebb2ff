package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

type fakeResolver struct {
	result service.RouteResult
	err    error
}

func (f fakeResolver) Resolve(context.Context, string) (service.RouteResult, error) {
	return f.result, f.err
}

func TestSubdomainRouting(t *testing.T) {
	page := &domain.Page{ID: "p1", Subdomain: "acme"}
	tests := []struct {
		name       string
		resolver   fakeResolver
		wantStatus int
		wantType   string
		wantBody   string
	}{
		{"status page", fakeResolver{result: service.RouteResult{Kind: service.RouteStatusPage, Subdomain: "acme", Page: page}}, http.StatusOK, "", "status_page"},
		{"root", fakeResolver{result: service.RouteResult{Kind: service.RouteRoot}}, http.StatusOK, "", "root"},
		{"not found", fakeResolver{result: service.RouteResult{Kind: service.RouteNotFound, Subdomain: "ghost"}}, http.StatusNotFound, "text/html; charset=utf-8", "Status page not found"},
		{"resolver error", fakeResolver{err: errors.New("db down")}, http.StatusInternalServerError, "application/json", "INTERNAL_ERROR"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := SubdomainRouting(tc.resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				route, ok := RouteFromContext(r.Context())
				if !ok {
					t.Fatal("expected route in context")
				}
				_, _ = w.Write([]byte(route.Kind))
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = "acme.example.com"
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("status=%d want %d", rr.Code, tc.wantStatus)
			}
			if tc.wantType != "" && rr.Header().Get("Content-Type") != tc.wantType {
				t.Fatalf("content-type=%q want %q", rr.Header().Get("Content-Type"), tc.wantType)
			}
			if !strings.Contains(rr.Body.String(), tc.wantBody) {
				t.Fatalf("body %q missing %q", rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestRequireStatusPage(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	rr := httptest.NewRecorder()
	RequireStatusPage(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing route: expected 404, got %d", rr.Code)
	}

	h := SubdomainRouting(fakeResolver{result: service.RouteResult{Kind: service.RouteStatusPage, Page: &domain.Page{ID: "p1"}}})(RequireStatusPage(next))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status page: expected 204, got %d", rr.Code)
	}
}
