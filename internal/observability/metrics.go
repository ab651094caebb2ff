package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sandeepkv93/statuspage-service/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const meterName = "statuspage-service"

type AppMetrics struct {
	subdomainResolutionCounter metric.Int64Counter
	subdomainCacheCounter      metric.Int64Counter
	sessionEventCounter        metric.Int64Counter
	authLoginCounter           metric.Int64Counter
	authSignupCounter          metric.Int64Counter
	repositoryCounter          metric.Int64Counter
	pageMutationCounter        metric.Int64Counter
	rateLimitCounter           metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)

	m, err := newAppMetrics(mp.Meter(meterName))
	if err != nil {
		return nil, err
	}
	setAppMetrics(m)

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func newResource(ctx context.Context, cfg *config.Config) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
}

func newAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var (
		m   AppMetrics
		err error
	)
	counters := []struct {
		name string
		dst  *metric.Int64Counter
	}{
		{"subdomain.resolutions", &m.subdomainResolutionCounter},
		{"subdomain.cache.events", &m.subdomainCacheCounter},
		{"session.events", &m.sessionEventCounter},
		{"auth.login.attempts", &m.authLoginCounter},
		{"auth.signup.attempts", &m.authSignupCounter},
		{"repository.operations", &m.repositoryCounter},
		{"page.mutations", &m.pageMutationCounter},
		{"http.rate_limit.decisions", &m.rateLimitCounter},
	}
	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name)
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", c.name, err)
		}
	}
	return &m, nil
}

func setAppMetrics(m *AppMetrics) {
	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()
}

func currentMetrics() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

// RecordSubdomainResolution counts resolver outcomes: root, reserved,
// status_page, not_found or error.
func RecordSubdomainResolution(ctx context.Context, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.subdomainResolutionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordSubdomainCacheEvent(ctx context.Context, event string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.subdomainCacheCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
}

func RecordSessionEvent(ctx context.Context, event string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.sessionEventCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
}

func RecordAuthLogin(ctx context.Context, status string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.authLoginCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func RecordAuthSignup(ctx context.Context, status string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.authSignupCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func RecordRepositoryOperation(ctx context.Context, repository, operation, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.repositoryCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("repository", repository),
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
		),
	)
}

func RecordPageMutation(ctx context.Context, resource, action string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.pageMutationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("resource", resource),
			attribute.String("action", action),
		),
	)
}

func RecordRateLimitDecision(ctx context.Context, scope, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.rateLimitCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("scope", scope),
			attribute.String("outcome", outcome),
		),
	)
}
