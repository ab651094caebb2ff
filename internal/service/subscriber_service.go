package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
	"github.com/sandeepkv93/statuspage-service/internal/repository"
	"github.com/sandeepkv93/statuspage-service/internal/security"
)

const DefaultConfirmationTTL = 24 * time.Hour

// ConfirmationSender delivers the double opt-in link for a new subscriber.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, page *domain.Page, sub *domain.Subscriber, token string) error
}

type LogConfirmationSender struct {
	logger  *slog.Logger
	baseURL string
}

func NewLogConfirmationSender(logger *slog.Logger, baseURL string) *LogConfirmationSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogConfirmationSender{logger: logger, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LogConfirmationSender) SendConfirmation(ctx context.Context, page *domain.Page, sub *domain.Subscriber, token string) error {
	link := s.baseURL + "/api/subscribe/confirm?token=" + url.QueryEscape(token)
	s.logger.InfoContext(ctx, "subscriber confirmation issued",
		"page_id", page.ID,
		"subdomain", page.Subdomain,
		"subscriber_id", sub.ID,
		"link", link,
	)
	return nil
}

type SubscribeResult struct {
	Subscriber *domain.Subscriber `json:"subscriber"`
	Pending    bool               `json:"pending"`
}

type SubscriberService struct {
	subscribers repository.SubscriberRepository
	sender      ConfirmationSender
	clock       clockwork.Clock
	ttl         time.Duration
}

func NewSubscriberService(subscribers repository.SubscriberRepository, sender ConfirmationSender, clock clockwork.Clock, ttl time.Duration) *SubscriberService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultConfirmationTTL
	}
	return &SubscriberService{subscribers: subscribers, sender: sender, clock: clock, ttl: ttl}
}

// Subscribe registers email on page. Active subscribers are left untouched;
// anyone else gets a fresh confirmation token.
func (s *SubscriberService) Subscribe(ctx context.Context, page *domain.Page, email string, componentIDs []string) (*SubscribeResult, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, newValidationError("Email is required")
	}
	if !validEmail(email) {
		return nil, newValidationError("Invalid email format")
	}

	token, err := security.NewURLToken()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	conf := &domain.SubscriberConfirmation{Token: token, ExpiresAt: now.Add(s.ttl), CreatedAt: now}

	existing, err := s.subscribers.FindByPageAndEmail(ctx, page.ID, email)
	switch {
	case err == nil && existing.Active():
		return &SubscribeResult{Subscriber: existing, Pending: false}, nil
	case err == nil:
		conf.SubscriberID = existing.ID
		if err := s.subscribers.AddConfirmation(ctx, conf); err != nil {
			return nil, fmt.Errorf("add confirmation: %w", err)
		}
		if err := s.send(ctx, page, existing, token); err != nil {
			return nil, err
		}
		return &SubscribeResult{Subscriber: existing, Pending: true}, nil
	case !errors.Is(err, repository.ErrSubscriberNotFound):
		return nil, fmt.Errorf("load subscriber: %w", err)
	}

	sub := &domain.Subscriber{
		ID:        uuid.NewString(),
		PageID:    page.ID,
		Email:     email,
		CreatedAt: now,
	}
	if len(componentIDs) > 0 {
		raw, err := json.Marshal(componentIDs)
		if err != nil {
			return nil, err
		}
		ids := string(raw)
		sub.ComponentIDs = &ids
	}
	if err := s.subscribers.CreatePending(ctx, sub, conf); err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	if err := s.send(ctx, page, sub, token); err != nil {
		return nil, err
	}
	return &SubscribeResult{Subscriber: sub, Pending: true}, nil
}

func (s *SubscriberService) send(ctx context.Context, page *domain.Page, sub *domain.Subscriber, token string) error {
	if s.sender == nil {
		return nil
	}
	if err := s.sender.SendConfirmation(ctx, page, sub, token); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}
	return nil
}

// Confirm returns repository.ErrConfirmationNotFound for unknown tokens and
// ErrConfirmationExpired once the token's window has passed.
func (s *SubscriberService) Confirm(ctx context.Context, token string) (*domain.Subscriber, error) {
	if token == "" {
		return nil, repository.ErrConfirmationNotFound
	}
	conf, err := s.subscribers.FindConfirmation(ctx, token)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if !conf.ExpiresAt.After(now) {
		return nil, ErrConfirmationExpired
	}
	return s.subscribers.Confirm(ctx, token, now)
}

// Unsubscribe is idempotent for known subscribers.
func (s *SubscriberService) Unsubscribe(ctx context.Context, id string) error {
	if _, err := s.subscribers.FindByID(ctx, id); err != nil {
		return err
	}
	_, err := s.subscribers.Unsubscribe(ctx, id, s.clock.Now())
	return err
}

func (s *SubscriberService) ListConfirmed(ctx context.Context, pageID string) ([]domain.Subscriber, error) {
	return s.subscribers.ListConfirmed(ctx, pageID)
}
