package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
)

func TestSubscriberRepositoryConfirmFlow(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriberRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	sub := &domain.Subscriber{ID: "s1", PageID: "p1", Email: "ops@example.com"}
	conf := &domain.SubscriberConfirmation{Token: "t1", ExpiresAt: now.Add(24 * time.Hour)}
	if err := repo.CreatePending(ctx, sub, conf); err != nil {
		t.Fatalf("create pending: %v", err)
	}
	if conf.SubscriberID != "s1" {
		t.Fatalf("confirmation must reference subscriber, got %q", conf.SubscriberID)
	}

	confirmed, err := repo.ListConfirmed(ctx, "p1")
	if err != nil || len(confirmed) != 0 {
		t.Fatalf("pending subscriber must not be listed: %d err=%v", len(confirmed), err)
	}

	got, err := repo.Confirm(ctx, "t1", now)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.ConfirmedAt == nil || !got.Active() {
		t.Fatalf("subscriber must be active after confirm %+v", got)
	}
	if _, err := repo.FindConfirmation(ctx, "t1"); !errors.Is(err, ErrConfirmationNotFound) {
		t.Fatalf("token must be consumed, got %v", err)
	}
	if _, err := repo.Confirm(ctx, "t1", now); !errors.Is(err, ErrConfirmationNotFound) {
		t.Fatalf("expected ErrConfirmationNotFound on reuse, got %v", err)
	}

	confirmed, err = repo.ListConfirmed(ctx, "p1")
	if err != nil || len(confirmed) != 1 {
		t.Fatalf("expected one confirmed subscriber, got %d err=%v", len(confirmed), err)
	}

	ok, err := repo.Unsubscribe(ctx, "s1", now)
	if err != nil || !ok {
		t.Fatalf("unsubscribe: ok=%v err=%v", ok, err)
	}
	ok, err = repo.Unsubscribe(ctx, "s1", now)
	if err != nil || ok {
		t.Fatalf("second unsubscribe must be a no-op: ok=%v err=%v", ok, err)
	}
	found, err := repo.FindByPageAndEmail(ctx, "p1", "ops@example.com")
	if err != nil || found.Active() {
		t.Fatalf("unsubscribed address must be inactive: %+v err=%v", found, err)
	}
}
