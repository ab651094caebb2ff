package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sandeepkv93/statuspage-service/internal/http/response"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

const RouteContextKey contextKey = "route"

var statusPageNotFound = []byte(`<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><title>Status page not found</title></head>
<body><h1>Status page not found</h1><p>No status page is published at this address.</p></body></html>
`)

// SubdomainRouting classifies every request by its Host header. Unknown
// tenant hosts end here with a 404 page.
func SubdomainRouting(resolver service.RouteResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, err := resolver.Resolve(r.Context(), r.Host)
			if err != nil {
				slog.ErrorContext(r.Context(), "subdomain resolution failed", "host", r.Host, "error", err)
				response.Error(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to resolve host", nil)
				return
			}
			if route.Kind == service.RouteNotFound {
				response.HTML(w, http.StatusNotFound, statusPageNotFound)
				return
			}
			ctx := context.WithValue(r.Context(), RouteContextKey, route)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RouteFromContext(ctx context.Context) (service.RouteResult, bool) {
	route, ok := ctx.Value(RouteContextKey).(service.RouteResult)
	return route, ok
}

// RequireStatusPage limits a route to tenant hosts.
func RequireStatusPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, ok := RouteFromContext(r.Context())
		if !ok || route.Kind != service.RouteStatusPage || route.Page == nil {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "Status page not found", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
