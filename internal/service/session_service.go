package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
	"github.com/sandeepkv93/statuspage-service/internal/observability"
	"github.com/sandeepkv93/statuspage-service/internal/repository"
	"github.com/sandeepkv93/statuspage-service/internal/security"
)

const (
	DefaultSessionTTL              = 30 * 24 * time.Hour
	DefaultSessionRefreshThreshold = 15 * 24 * time.Hour
)

type SessionPolicy struct {
	TTL              time.Duration
	RefreshThreshold time.Duration
}

type ValidatedSession struct {
	Session *domain.Session
	User    *domain.User
}

type SessionService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	clock    clockwork.Clock
	policy   SessionPolicy
	newToken func() (string, error)
}

func NewSessionService(sessions repository.SessionRepository, users repository.UserRepository, clock clockwork.Clock, policy SessionPolicy) *SessionService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if policy.TTL <= 0 {
		policy.TTL = DefaultSessionTTL
	}
	if policy.RefreshThreshold <= 0 {
		policy.RefreshThreshold = DefaultSessionRefreshThreshold
	}
	return &SessionService{
		sessions: sessions,
		users:    users,
		clock:    clock,
		policy:   policy,
		newToken: security.NewSessionToken,
	}
}

func (s *SessionService) Issue(ctx context.Context, userID string) (*domain.Session, error) {
	ctx, span := observability.Tracer().Start(ctx, "session.issue")
	defer span.End()

	token, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	now := s.clock.Now().UTC()
	session := &domain.Session{
		ID:        token,
		UserID:    userID,
		ExpiresAt: now.Add(s.policy.TTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	observability.RecordSessionEvent(ctx, "issued")
	return session, nil
}

// Validate returns ErrInvalidSession for empty, unknown or expired tokens. A
// session whose user has been removed is deleted before being rejected.
func (s *SessionService) Validate(ctx context.Context, token string) (*ValidatedSession, error) {
	ctx, span := observability.Tracer().Start(ctx, "session.validate")
	defer span.End()

	if token == "" {
		observability.RecordSessionEvent(ctx, "missing")
		return nil, ErrInvalidSession
	}
	session, err := s.sessions.FindByID(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			observability.RecordSessionEvent(ctx, "unknown")
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !session.ValidAt(s.clock.Now()) {
		observability.RecordSessionEvent(ctx, "expired")
		return nil, ErrInvalidSession
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			if _, delErr := s.sessions.Delete(ctx, session.ID); delErr != nil {
				return nil, fmt.Errorf("delete orphaned session: %w", delErr)
			}
			observability.RecordSessionEvent(ctx, "orphan_deleted")
			slog.WarnContext(ctx, "deleted session for missing user", "user_id", session.UserID)
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}
	observability.RecordSessionEvent(ctx, "validated")
	return &ValidatedSession{Session: session, User: user}, nil
}

// Refresh extends the session to a full TTL once its remaining lifetime drops
// to the refresh threshold. It reports whether the expiry changed; session is
// updated in place when it did.
func (s *SessionService) Refresh(ctx context.Context, session *domain.Session) (bool, error) {
	if session == nil {
		return false, ErrInvalidSession
	}
	now := s.clock.Now().UTC()
	if session.ExpiresAt.Sub(now) > s.policy.RefreshThreshold {
		return false, nil
	}
	expiresAt := now.Add(s.policy.TTL)
	if err := s.sessions.UpdateExpiry(ctx, session.ID, expiresAt); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return false, ErrInvalidSession
		}
		return false, fmt.Errorf("refresh session: %w", err)
	}
	session.ExpiresAt = expiresAt
	observability.RecordSessionEvent(ctx, "refreshed")
	return true, nil
}

// Destroy is idempotent and reports whether a session existed.
func (s *SessionService) Destroy(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	existed, err := s.sessions.Delete(ctx, token)
	if err != nil {
		return false, fmt.Errorf("destroy session: %w", err)
	}
	if existed {
		observability.RecordSessionEvent(ctx, "destroyed")
	}
	return existed, nil
}

func (s *SessionService) DestroyAllForUser(ctx context.Context, userID string) (int64, error) {
	n, err := s.sessions.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("destroy user sessions: %w", err)
	}
	return n, nil
}

func (s *SessionService) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.CleanupExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("cleanup expired sessions: %w", err)
	}
	return n, nil
}
