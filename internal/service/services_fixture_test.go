package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
	"github.com/sandeepkv93/statuspage-service/internal/repository"
)

type capturedConfirmation struct {
	subscriberID string
	token        string
}

type captureSender struct {
	mu   sync.Mutex
	sent []capturedConfirmation
}

func (c *captureSender) SendConfirmation(_ context.Context, _ *domain.Page, sub *domain.Subscriber, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, capturedConfirmation{subscriberID: sub.ID, token: token})
	return nil
}

func (c *captureSender) last() capturedConfirmation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[len(c.sent)-1]
}

type appFixture struct {
	clock       *clockwork.FakeClock
	users       repository.UserRepository
	auth        *AuthService
	sessions    *SessionService
	pages       *PageService
	components  *ComponentService
	incidents   *IncidentService
	subscribers *SubscriberService
	status      *StatusService
	sender      *captureSender
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	db := newSQLiteForTest(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))

	users := repository.NewUserRepository(db)
	pageRepo := repository.NewPageRepository(db)
	memberRepo := repository.NewTeamMemberRepository(db)
	componentRepo := repository.NewComponentRepository(db)
	groupRepo := repository.NewComponentGroupRepository(db)
	incidentRepo := repository.NewIncidentRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)

	sessions := NewSessionService(repository.NewSessionRepository(db), users, clock, SessionPolicy{})
	resolver := NewSubdomainResolver(pageRepo, NewInMemorySubdomainCacheStore(clock), time.Minute, defaultReserved)
	pages := NewPageService(pageRepo, memberRepo, resolver, clock)
	sender := &captureSender{}

	return &appFixture{
		clock:       clock,
		users:       users,
		auth:        NewAuthService(users, sessions, clock),
		sessions:    sessions,
		pages:       pages,
		components:  NewComponentService(componentRepo, groupRepo, pages, clock),
		incidents:   NewIncidentService(incidentRepo, componentRepo, pages, clock),
		subscribers: NewSubscriberService(subscriberRepo, sender, clock, 24*time.Hour),
		status:      NewStatusService(componentRepo, groupRepo, incidentRepo, clock),
		sender:      sender,
	}
}

func (f *appFixture) signup(t *testing.T, email string) *domain.User {
	t.Helper()
	res, err := f.auth.Signup(context.Background(), SignupInput{Email: email, Password: "Str0ng!pass", Name: "Test User"})
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return res.User
}

func (f *appFixture) page(t *testing.T, userID, subdomain string) *domain.Page {
	t.Helper()
	p, err := f.pages.Create(context.Background(), userID, CreatePageInput{Name: subdomain + " status", Subdomain: subdomain})
	if err != nil {
		t.Fatalf("create page %s: %v", subdomain, err)
	}
	return p
}
