package config

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	loadMetricsOnce sync.Once
	loadCounter     metric.Int64Counter
)

// keyClasses groups validated keys into the failure classes reported on
// config.validation.events.
var keyClasses = map[string]string{
	"APP_ENV":                     "environment",
	"DATABASE_DRIVER":             "database",
	"DATABASE_URL":                "database",
	"REDIS_ADDR":                  "redis",
	"SUBDOMAIN_CACHE_TTL":         "ttl",
	"SESSION_TTL":                 "ttl",
	"SESSION_REFRESH_THRESHOLD":   "ttl",
	"SUBSCRIBER_CONFIRMATION_TTL": "ttl",
	"SESSION_CLEANUP_INTERVAL":    "ttl",
	"RESERVED_SUBDOMAINS":         "reserved_subdomains",
	"AUTH_RATE_LIMIT_RPM":         "rate_limit",
	"OTEL_TRACE_SAMPLE_RATIO":     "telemetry",
}

func recordConfigValidationEvent(ctx context.Context, profile, outcome string, err error) {
	loadMetricsOnce.Do(func() {
		counter, cerr := otel.Meter("statuspage-service").Int64Counter("config.validation.events")
		if cerr == nil {
			loadCounter = counter
		}
	})
	if loadCounter == nil {
		return
	}
	class, key := classifyConfigLoadError(err)
	if key == "" {
		key = "none"
	}
	loadCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("profile", normalizeConfigProfile(profile)),
		attribute.String("outcome", outcome),
		attribute.String("error_class", class),
		attribute.String("config_key", key),
	))
}

func normalizeConfigProfile(profile string) string {
	v := strings.TrimSpace(strings.ToLower(profile))
	switch v {
	case EnvDevelopment, EnvStaging, EnvProduction:
		return v
	case "":
		return EnvDevelopment
	default:
		return "invalid"
	}
}

// classifyConfigLoadError reports the failure class and, when known, the
// first key responsible. Parse failures win over validation since fromEnv
// stops before Validate runs.
func classifyConfigLoadError(err error) (class, key string) {
	if err == nil {
		return "none", ""
	}
	var ke *KeyError
	if !errors.As(err, &ke) {
		return "load", ""
	}
	if ke.Parse {
		return "parse", ke.Key
	}
	if c, ok := keyClasses[ke.Key]; ok {
		return c, ke.Key
	}
	return "validation", ke.Key
}
