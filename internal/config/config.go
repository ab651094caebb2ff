package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

var DefaultReservedSubdomains = []string{"www", "app", "api", "admin", "status", "mail"}

type Config struct {
	Environment string
	HTTPAddr    string
	AppURL      string

	DatabaseDriver string
	DatabaseURL    string

	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// RedisKeyPrefix is prepended to every cache key. Empty keeps keys as
	// subdomain:<name>.
	RedisKeyPrefix string

	SubdomainCacheTTL  time.Duration
	ReservedSubdomains []string

	SessionTTL              time.Duration
	SessionRefreshThreshold time.Duration
	ConfirmationTTL         time.Duration
	SessionCleanupInterval  time.Duration

	AuthRateLimitRPM int

	LogLevel  string
	LogFormat string

	OTELServiceName           string
	OTELEnvironment           string
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPInsecure  bool
	OTELMetricsEnabled        bool
	OTELTracingEnabled        bool
	OTELLogsEnabled           bool
	OTELMetricsExportInterval time.Duration
	OTELTraceSampleRatio      float64
	EnableOTelHTTP            bool

	ReadHeaderTimeout            time.Duration
	ShutdownTimeout              time.Duration
	ShutdownHTTPDrainTimeout     time.Duration
	ShutdownObservabilityTimeout time.Duration
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Load reads an optional env file followed by the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			err = fmt.Errorf("load env file %s: %w", f, err)
			recordConfigValidationEvent(context.Background(), os.Getenv("APP_ENV"), "error", err)
			return nil, err
		}
	}

	cfg, err := fromEnv()
	if err == nil {
		err = cfg.Validate()
	}
	profile := os.Getenv("APP_ENV")
	if err != nil {
		recordConfigValidationEvent(context.Background(), profile, "error", err)
		return nil, err
	}
	recordConfigValidationEvent(context.Background(), profile, "success", nil)
	return cfg, nil
}

func fromEnv() (*Config, error) {
	p := &envParser{}
	cfg := &Config{
		Environment: strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		AppURL:      getEnv("APP_URL", ""),

		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabaseURL:    getEnv("DATABASE_URL", "file:statuspage.db?_foreign_keys=on"),

		RedisEnabled:  p.bool("REDIS_ENABLED", false),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       p.int("REDIS_DB", 0),

		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", ""),

		SubdomainCacheTTL:  p.duration("SUBDOMAIN_CACHE_TTL", 300*time.Second),
		ReservedSubdomains: getList("RESERVED_SUBDOMAINS", DefaultReservedSubdomains),

		SessionTTL:              p.duration("SESSION_TTL", 30*24*time.Hour),
		SessionRefreshThreshold: p.duration("SESSION_REFRESH_THRESHOLD", 15*24*time.Hour),
		ConfirmationTTL:         p.duration("SUBSCRIBER_CONFIRMATION_TTL", 24*time.Hour),
		SessionCleanupInterval:  p.duration("SESSION_CLEANUP_INTERVAL", time.Hour),

		AuthRateLimitRPM: p.int("AUTH_RATE_LIMIT_RPM", 30),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),

		OTELServiceName:           getEnv("OTEL_SERVICE_NAME", "statuspage-service"),
		OTELExporterOTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELExporterOTLPInsecure:  p.bool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELMetricsEnabled:        p.bool("OTEL_METRICS_ENABLED", false),
		OTELTracingEnabled:        p.bool("OTEL_TRACING_ENABLED", false),
		OTELLogsEnabled:           p.bool("OTEL_LOGS_ENABLED", false),
		OTELMetricsExportInterval: p.duration("OTEL_METRICS_EXPORT_INTERVAL", 15*time.Second),
		OTELTraceSampleRatio:      p.float("OTEL_TRACE_SAMPLE_RATIO", 1.0),
		EnableOTelHTTP:            p.bool("OTEL_HTTP_ENABLED", false),

		ReadHeaderTimeout:            p.duration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ShutdownTimeout:              p.duration("SHUTDOWN_TIMEOUT", 20*time.Second),
		ShutdownHTTPDrainTimeout:     p.duration("SHUTDOWN_HTTP_DRAIN_TIMEOUT", 10*time.Second),
		ShutdownObservabilityTimeout: p.duration("SHUTDOWN_OBSERVABILITY_TIMEOUT", 5*time.Second),
	}
	cfg.OTELEnvironment = getEnv("OTEL_ENVIRONMENT", cfg.Environment)
	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

// KeyError ties a load failure to the environment key that caused it.
type KeyError struct {
	Key   string
	Parse bool
	Err   error
}

func (e *KeyError) Error() string {
	if e.Parse {
		return fmt.Sprintf("parse %s: %v", e.Key, e.Err)
	}
	return e.Err.Error()
}

func (e *KeyError) Unwrap() error { return e.Err }

func invalid(key, msg string) error {
	return &KeyError{Key: key, Err: errors.New(msg)}
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, invalid("APP_ENV", "APP_ENV must be one of development, staging, production"))
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, invalid("DATABASE_DRIVER", "DATABASE_DRIVER must be sqlite or postgres"))
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, invalid("DATABASE_URL", "DATABASE_URL is required"))
	}
	if c.RedisEnabled && strings.TrimSpace(c.RedisAddr) == "" {
		errs = append(errs, invalid("REDIS_ADDR", "REDIS_ADDR is required when REDIS_ENABLED=true"))
	}
	if c.SubdomainCacheTTL <= 0 {
		errs = append(errs, invalid("SUBDOMAIN_CACHE_TTL", "SUBDOMAIN_CACHE_TTL must be positive"))
	}
	for _, name := range c.ReservedSubdomains {
		if !validLabel(name) {
			errs = append(errs, invalid("RESERVED_SUBDOMAINS", fmt.Sprintf("RESERVED_SUBDOMAINS entry %q is not a lowercase DNS label", name)))
			break
		}
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, invalid("SESSION_TTL", "SESSION_TTL must be positive"))
	}
	if c.SessionRefreshThreshold <= 0 || c.SessionRefreshThreshold >= c.SessionTTL {
		errs = append(errs, invalid("SESSION_REFRESH_THRESHOLD", "SESSION_REFRESH_THRESHOLD must be positive and lower than SESSION_TTL"))
	}
	if c.ConfirmationTTL <= 0 {
		errs = append(errs, invalid("SUBSCRIBER_CONFIRMATION_TTL", "SUBSCRIBER_CONFIRMATION_TTL must be positive"))
	}
	if c.SessionCleanupInterval < 0 {
		errs = append(errs, invalid("SESSION_CLEANUP_INTERVAL", "SESSION_CLEANUP_INTERVAL must not be negative"))
	}
	if c.AuthRateLimitRPM <= 0 {
		errs = append(errs, invalid("AUTH_RATE_LIMIT_RPM", "AUTH_RATE_LIMIT_RPM must be positive"))
	}
	if c.OTELTraceSampleRatio < 0 || c.OTELTraceSampleRatio > 1 {
		errs = append(errs, invalid("OTEL_TRACE_SAMPLE_RATIO", "OTEL_TRACE_SAMPLE_RATIO must be within [0,1]"))
	}
	if c.IsProduction() && c.DatabaseDriver == "sqlite" {
		slog.Warn("sqlite database driver configured in production")
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// validLabel matches the subdomain format accepted for pages.
func validLabel(s string) bool {
	if len(s) == 0 || len(s) > 63 || s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch < 'a' || ch > 'z') && (ch < '0' || ch > '9') && ch != '-' {
			return false
		}
	}
	return true
}

type envParser struct{ err error }

func (p *envParser) fail(key string, err error) {
	if p.err == nil {
		p.err = &KeyError{Key: key, Parse: true, Err: err}
	}
}

func (p *envParser) bool(key string, def bool) bool {
	raw, ok := lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *envParser) int(key string, def int) int {
	raw, ok := lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *envParser) float(key string, def float64) float64 {
	raw, ok := lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	raw, ok := lookup(key)
	if !ok {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func getEnv(key, def string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return def
}

func getList(key string, def []string) []string {
	raw, ok := lookup(key)
	if !ok {
		return append([]string(nil), def...)
	}
	out := make([]string, 0, 8)
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
