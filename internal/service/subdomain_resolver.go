package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
	"github.com/sandeepkv93/statuspage-service/internal/observability"
	"github.com/sandeepkv93/statuspage-service/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type RouteKind string

const (
	RouteRoot       RouteKind = "root"
	RouteReserved   RouteKind = "reserved"
	RouteStatusPage RouteKind = "status_page"
	RouteNotFound   RouteKind = "not_found"
)

type RouteResult struct {
	Kind      RouteKind
	Subdomain string
	Page      *domain.Page
}

type PageLookup interface {
	FindBySubdomain(ctx context.Context, subdomain string) (*domain.Page, error)
}

const DefaultSubdomainCacheTTL = 300 * time.Second

type SubdomainResolver struct {
	pages    PageLookup
	cache    SubdomainCacheStore
	ttl      time.Duration
	reserved map[string]struct{}
}

func NewSubdomainResolver(pages PageLookup, cache SubdomainCacheStore, ttl time.Duration, reserved []string) *SubdomainResolver {
	if cache == nil {
		cache = NewNoopSubdomainCacheStore()
	}
	if ttl <= 0 {
		ttl = DefaultSubdomainCacheTTL
	}
	set := make(map[string]struct{}, len(reserved))
	for _, name := range reserved {
		set[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return &SubdomainResolver{
		pages:    pages,
		cache:    cache,
		ttl:      ttl,
		reserved: set,
	}
}

func SubdomainCacheKey(subdomain string) string {
	return "subdomain:" + subdomain
}

func (r *SubdomainResolver) IsReserved(subdomain string) bool {
	_, ok := r.reserved[strings.ToLower(subdomain)]
	return ok
}

// Resolve classifies a Host header value. Only a failing page store yields an
// error; cache faults are logged and bypassed.
func (r *SubdomainResolver) Resolve(ctx context.Context, host string) (RouteResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "subdomain.resolve")
	defer span.End()

	result, err := r.resolve(ctx, host)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "page lookup failed")
		observability.RecordSubdomainResolution(ctx, "error")
		return RouteResult{}, err
	}
	span.SetAttributes(
		attribute.String("subdomain.kind", string(result.Kind)),
		attribute.String("subdomain.name", result.Subdomain),
	)
	observability.RecordSubdomainResolution(ctx, string(result.Kind))
	return result, nil
}

func (r *SubdomainResolver) resolve(ctx context.Context, host string) (RouteResult, error) {
	sub, ok := ExtractSubdomain(host)
	if !ok {
		return RouteResult{Kind: RouteRoot}, nil
	}
	if r.IsReserved(sub) {
		return RouteResult{Kind: RouteReserved, Subdomain: sub}, nil
	}

	key := SubdomainCacheKey(sub)
	if page, ok := r.cached(ctx, key); ok {
		return RouteResult{Kind: RouteStatusPage, Subdomain: sub, Page: page}, nil
	}

	page, err := r.pages.FindBySubdomain(ctx, sub)
	if err != nil {
		if errors.Is(err, repository.ErrPageNotFound) {
			return RouteResult{Kind: RouteNotFound, Subdomain: sub}, nil
		}
		return RouteResult{}, fmt.Errorf("resolve subdomain %q: %w", sub, err)
	}
	if page == nil {
		return RouteResult{Kind: RouteNotFound, Subdomain: sub}, nil
	}
	r.store(ctx, key, page)
	return RouteResult{Kind: RouteStatusPage, Subdomain: sub, Page: page}, nil
}

func (r *SubdomainResolver) cached(ctx context.Context, key string) (*domain.Page, bool) {
	raw, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		observability.RecordSubdomainCacheEvent(ctx, "read_error")
		slog.WarnContext(ctx, "subdomain cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		observability.RecordSubdomainCacheEvent(ctx, "miss")
		return nil, false
	}
	var page domain.Page
	if err := json.Unmarshal(raw, &page); err != nil || page.ID == "" {
		observability.RecordSubdomainCacheEvent(ctx, "decode_error")
		slog.WarnContext(ctx, "subdomain cache entry undecodable", "key", key, "error", err)
		return nil, false
	}
	observability.RecordSubdomainCacheEvent(ctx, "hit")
	return &page, true
}

func (r *SubdomainResolver) store(ctx context.Context, key string, page *domain.Page) {
	raw, err := json.Marshal(page)
	if err != nil {
		slog.WarnContext(ctx, "subdomain cache encode failed", "key", key, "error", err)
		return
	}
	if err := r.cache.Set(ctx, key, raw, r.ttl); err != nil {
		observability.RecordSubdomainCacheEvent(ctx, "write_error")
		slog.WarnContext(ctx, "subdomain cache write failed", "key", key, "error", err)
		return
	}
	observability.RecordSubdomainCacheEvent(ctx, "store")
}

// ExtractSubdomain returns the lower-cased first label of host when host has
// at least three labels. Ports are ignored; loopback names and literal IPs
// never carry a subdomain.
func ExtractSubdomain(host string) (string, bool) {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	} else if i := strings.IndexByte(host, ':'); i >= 0 && !strings.HasPrefix(host, "[") && strings.Count(host, ":") == 1 {
		host = host[:i]
	}
	host = strings.Trim(host, "[]")
	host = strings.TrimSuffix(host, ".")
	if host == "" || strings.EqualFold(host, "localhost") {
		return "", false
	}
	if net.ParseIP(host) != nil {
		return "", false
	}
	labels := strings.Split(host, ".")
	if len(labels) < 3 || labels[0] == "" {
		return "", false
	}
	return strings.ToLower(labels[0]), true
}
