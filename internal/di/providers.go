package di

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"gorm.io/gorm"

	"github.com/sandeepkv93/statuspage-service/internal/app"
	"github.com/sandeepkv93/statuspage-service/internal/config"
	"github.com/sandeepkv93/statuspage-service/internal/health"
	"github.com/sandeepkv93/statuspage-service/internal/http/handler"
	"github.com/sandeepkv93/statuspage-service/internal/http/router"
	"github.com/sandeepkv93/statuspage-service/internal/observability"
	"github.com/sandeepkv93/statuspage-service/internal/repository"
	"github.com/sandeepkv93/statuspage-service/internal/security"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

type Logging struct {
	Logger   *slog.Logger
	Provider *sdklog.LoggerProvider
}

// Maintenance bundles what the one-shot CLI commands need.
type Maintenance struct {
	DB       *gorm.DB
	Sessions *service.SessionService
	Logger   *slog.Logger
}

func provideLogging(ctx context.Context, cfg *config.Config) (*Logging, error) {
	logger, lp, err := observability.NewLogger(ctx, cfg, os.Stdout)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return &Logging{Logger: logger, Provider: lp}, nil
}

func provideLogger(l *Logging) *slog.Logger {
	return l.Logger
}

func provideRuntime(ctx context.Context, cfg *config.Config, l *Logging) (*observability.Runtime, error) {
	return observability.InitRuntime(ctx, cfg, l.Logger, l.Provider)
}

func provideClock() clockwork.Clock {
	return clockwork.NewRealClock()
}

func provideSubdomainCache(cfg *config.Config, client redis.UniversalClient, clock clockwork.Clock) service.SubdomainCacheStore {
	if client == nil {
		return service.NewInMemorySubdomainCacheStore(clock)
	}
	return service.NewRedisSubdomainCacheStore(client, cfg.RedisKeyPrefix)
}

func provideSubdomainResolver(cfg *config.Config, pages repository.PageRepository, cache service.SubdomainCacheStore) *service.SubdomainResolver {
	return service.NewSubdomainResolver(pages, cache, cfg.SubdomainCacheTTL, cfg.ReservedSubdomains)
}

func provideSessionService(cfg *config.Config, sessions repository.SessionRepository, users repository.UserRepository, clock clockwork.Clock) *service.SessionService {
	return service.NewSessionService(sessions, users, clock, service.SessionPolicy{
		TTL:              cfg.SessionTTL,
		RefreshThreshold: cfg.SessionRefreshThreshold,
	})
}

func provideConfirmationSender(cfg *config.Config, logger *slog.Logger) service.ConfirmationSender {
	return service.NewLogConfirmationSender(logger, cfg.AppURL)
}

func provideSubscriberService(cfg *config.Config, subscribers repository.SubscriberRepository, sender service.ConfirmationSender, clock clockwork.Clock) *service.SubscriberService {
	return service.NewSubscriberService(subscribers, sender, clock, cfg.ConfirmationTTL)
}

func provideCookieOptions(cfg *config.Config) security.CookieOptions {
	return security.CookieOptions{Secure: cfg.IsProduction()}
}

func provideReadiness(db *gorm.DB, client redis.UniversalClient) *health.ProbeRunner {
	checkers := []health.Checker{health.DBChecker(db)}
	if client != nil {
		checkers = append(checkers, health.RedisChecker(client))
	}
	return health.NewProbeRunner(2*time.Second, time.Second, checkers...)
}

func provideRouterDependencies(
	cfg *config.Config,
	auth *handler.AuthHandler,
	pages *handler.PageHandler,
	components *handler.ComponentHandler,
	incidents *handler.IncidentHandler,
	public *handler.PublicHandler,
	web *handler.WebHandler,
	resolver *service.SubdomainResolver,
	sessions *service.SessionService,
	cookies security.CookieOptions,
	readiness *health.ProbeRunner,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:      auth,
		PageHandler:      pages,
		ComponentHandler: components,
		IncidentHandler:  incidents,
		PublicHandler:    public,
		WebHandler:       web,
		Resolver:         resolver,
		Sessions:         sessions,
		Cookies:          cookies,
		AuthRateLimitRPM: cfg.AuthRateLimitRPM,
		Readiness:        readiness,
		EnableOTelHTTP:   cfg.EnableOTelHTTP,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func provideBackgroundTasks(cfg *config.Config, sessions *service.SessionService, clock clockwork.Clock, logger *slog.Logger) func() {
	return app.StartSessionJanitor(sessions, clock, cfg.SessionCleanupInterval, logger)
}

func provideMaintenance(db *gorm.DB, sessions *service.SessionService, logger *slog.Logger) *Maintenance {
	return &Maintenance{DB: db, Sessions: sessions, Logger: logger}
}
