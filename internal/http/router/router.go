package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sandeepkv93/statuspage-service/internal/health"
	"github.com/sandeepkv93/statuspage-service/internal/http/handler"
	"github.com/sandeepkv93/statuspage-service/internal/http/middleware"
	"github.com/sandeepkv93/statuspage-service/internal/http/response"
	"github.com/sandeepkv93/statuspage-service/internal/security"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

type Dependencies struct {
	AuthHandler      *handler.AuthHandler
	PageHandler      *handler.PageHandler
	ComponentHandler *handler.ComponentHandler
	IncidentHandler  *handler.IncidentHandler
	PublicHandler    *handler.PublicHandler
	WebHandler       *handler.WebHandler
	Resolver         service.RouteResolver
	Sessions         service.SessionManager
	Cookies          security.CookieOptions
	AuthRateLimitRPM int
	AuthRateLimiter  AuthRateLimiterFunc
	Readiness        *health.ProbeRunner
	EnableOTelHTTP   bool
}

type AuthRateLimiterFunc func(http.Handler) http.Handler

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.BodyLimit(1 << 20))

	authLimiter := dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter("auth", dep.AuthRateLimitRPM, time.Minute).Middleware()
	}
	apiSession := middleware.RequireSession(dep.Sessions, dep.Cookies, middleware.AuthModeAPI)
	pageSession := middleware.RequireSession(dep.Sessions, dep.Cookies, middleware.AuthModePage)

	// Probes bypass host resolution so they never touch the page store.
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SubdomainRouting(dep.Resolver))

		r.Get("/", dep.PublicHandler.Index)
		r.Get("/login", dep.WebHandler.LoginForm)
		r.With(authLimiter).Post("/login", dep.WebHandler.LoginSubmit)
		r.With(pageSession).Get("/dashboard", dep.WebHandler.Dashboard)

		r.Route("/api", func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				r.With(authLimiter).Post("/signup", dep.AuthHandler.Signup)
				r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
				r.Post("/logout", dep.AuthHandler.Logout)
				r.With(apiSession).Get("/me", dep.AuthHandler.Me)
			})

			r.With(middleware.RequireStatusPage).Get("/status", dep.PublicHandler.StatusJSON)
			r.With(middleware.RequireStatusPage).Post("/subscribe", dep.PublicHandler.Subscribe)
			r.Get("/subscribe/confirm", dep.PublicHandler.Confirm)
			r.Post("/unsubscribe/{id}", dep.PublicHandler.Unsubscribe)

			r.Group(func(r chi.Router) {
				r.Use(apiSession)

				r.Route("/pages", func(r chi.Router) {
					r.Get("/", dep.PageHandler.List)
					r.Post("/", dep.PageHandler.Create)
					r.Get("/{id}", dep.PageHandler.Get)
					r.Patch("/{id}", dep.PageHandler.Update)
					r.Delete("/{id}", dep.PageHandler.Delete)
					r.Get("/{id}/components", dep.ComponentHandler.List)
					r.Get("/{id}/component-groups", dep.ComponentHandler.ListGroups)
					r.Get("/{id}/subscribers", dep.PageHandler.Subscribers)
				})

				r.Route("/components", func(r chi.Router) {
					r.Post("/", dep.ComponentHandler.Create)
					r.Post("/reorder", dep.ComponentHandler.Reorder)
					r.Put("/{id}", dep.ComponentHandler.Update)
					r.Delete("/{id}", dep.ComponentHandler.Delete)
				})

				r.Route("/component-groups", func(r chi.Router) {
					r.Post("/", dep.ComponentHandler.CreateGroup)
					r.Put("/{id}", dep.ComponentHandler.UpdateGroup)
					r.Delete("/{id}", dep.ComponentHandler.DeleteGroup)
				})

				r.Route("/incidents", func(r chi.Router) {
					r.Get("/", dep.IncidentHandler.List)
					r.Post("/", dep.IncidentHandler.Create)
					r.Get("/{id}", dep.IncidentHandler.Get)
					r.Post("/{id}/updates", dep.IncidentHandler.AddUpdate)
					r.Delete("/{id}", dep.IncidentHandler.Delete)
				})
			})
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
