package service

import (
	"context"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
)

type RouteResolver interface {
	Resolve(ctx context.Context, host string) (RouteResult, error)
}

type SessionManager interface {
	Issue(ctx context.Context, userID string) (*domain.Session, error)
	Validate(ctx context.Context, token string) (*ValidatedSession, error)
	Refresh(ctx context.Context, session *domain.Session) (bool, error)
	Destroy(ctx context.Context, token string) (bool, error)
}

var (
	_ RouteResolver  = (*SubdomainResolver)(nil)
	_ SessionManager = (*SessionService)(nil)
)
