package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
)

func TestIncidentRepositoryCreateAndAppend(t *testing.T) {
	db := newTestDB(t)
	repo := NewIncidentRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	inc := &domain.Incident{ID: "i1", PageID: "p1", Name: "API errors", Status: domain.IncidentInvestigating, Impact: domain.ImpactMajor, CreatedAt: now}
	first := &domain.IncidentUpdate{ID: "u1", Status: domain.IncidentInvestigating, Body: "Looking into it", DisplayAt: now}
	affected := []domain.IncidentComponent{{ComponentID: "c1"}, {ComponentID: "c2"}}
	if err := repo.Create(ctx, inc, first, affected); err != nil {
		t.Fatalf("create: %v", err)
	}
	rows, err := repo.ListAffected(ctx, "i1")
	if err != nil || len(rows) != 2 {
		t.Fatalf("expected 2 affected components, got %d err=%v", len(rows), err)
	}

	unresolved, err := repo.ListUnresolved(ctx, "p1")
	if err != nil || len(unresolved) != 1 {
		t.Fatalf("expected 1 unresolved incident, got %d err=%v", len(unresolved), err)
	}

	resolvedAt := now.Add(time.Hour)
	updated, err := repo.AppendUpdate(ctx, &domain.IncidentUpdate{
		ID: "u2", IncidentID: "i1", Status: domain.IncidentResolved, Body: "Fixed", DisplayAt: resolvedAt,
	}, &resolvedAt)
	if err != nil {
		t.Fatalf("append update: %v", err)
	}
	if updated.Status != domain.IncidentResolved || updated.ResolvedAt == nil {
		t.Fatalf("unexpected incident after resolve %+v", updated)
	}

	updates, err := repo.ListUpdates(ctx, "i1")
	if err != nil || len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d err=%v", len(updates), err)
	}
	if updates[0].ID != "u2" {
		t.Fatalf("expected newest update first, got %s", updates[0].ID)
	}

	unresolved, err = repo.ListUnresolved(ctx, "p1")
	if err != nil || len(unresolved) != 0 {
		t.Fatalf("resolved incident must not be listed: %d err=%v", len(unresolved), err)
	}

	if _, err := repo.AppendUpdate(ctx, &domain.IncidentUpdate{ID: "u3", IncidentID: "missing", Status: domain.IncidentMonitoring, Body: "x", DisplayAt: now}, nil); !errors.Is(err, ErrIncidentNotFound) {
		t.Fatalf("expected ErrIncidentNotFound, got %v", err)
	}

	deleted, err := repo.Delete(ctx, "i1")
	if err != nil || !deleted {
		t.Fatalf("delete: deleted=%v err=%v", deleted, err)
	}
	updates, err = repo.ListUpdates(ctx, "i1")
	if err != nil || len(updates) != 0 {
		t.Fatalf("updates must be removed with the incident: %d err=%v", len(updates), err)
	}
}

func TestIncidentRepositoryListPaged(t *testing.T) {
	db := newTestDB(t)
	repo := NewIncidentRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		inc := &domain.Incident{
			ID:        fmt.Sprintf("i%d", i),
			PageID:    "p1",
			Name:      fmt.Sprintf("incident %d", i),
			Status:    domain.IncidentInvestigating,
			Impact:    domain.ImpactMinor,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, inc, nil, nil); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page, err := repo.ListPaged(ctx, IncidentListQuery{PageID: "p1", PageRequest: PageRequest{Page: 1, PageSize: 2}})
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if page.Total != 5 || page.TotalPages != 3 || len(page.Items) != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Items[0].ID != "i4" || page.Items[1].ID != "i3" {
		t.Fatalf("expected newest first, got %s,%s", page.Items[0].ID, page.Items[1].ID)
	}

	last, err := repo.ListPaged(ctx, IncidentListQuery{PageID: "p1", PageRequest: PageRequest{Page: 3, PageSize: 2}})
	if err != nil || len(last.Items) != 1 || last.Items[0].ID != "i0" {
		t.Fatalf("unexpected last page %+v err=%v", last, err)
	}

	empty, err := repo.ListPaged(ctx, IncidentListQuery{PageID: "p2"})
	if err != nil || empty.Total != 0 || empty.PageSize != DefaultPageSize {
		t.Fatalf("unexpected empty page %+v err=%v", empty, err)
	}
}

func TestIncidentRepositoryListScheduled(t *testing.T) {
	db := newTestDB(t)
	repo := NewIncidentRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	upcomingStart, upcomingEnd := now.Add(time.Hour), now.Add(2*time.Hour)
	pastStart, pastEnd := now.Add(-3*time.Hour), now.Add(-2*time.Hour)
	for _, inc := range []*domain.Incident{
		{ID: "m1", PageID: "p1", Name: "upcoming", Status: domain.IncidentScheduled, Impact: domain.ImpactNone, ScheduledFor: &upcomingStart, ScheduledUntil: &upcomingEnd},
		{ID: "m2", PageID: "p1", Name: "past", Status: domain.IncidentScheduled, Impact: domain.ImpactNone, ScheduledFor: &pastStart, ScheduledUntil: &pastEnd},
		{ID: "i1", PageID: "p1", Name: "outage", Status: domain.IncidentInvestigating, Impact: domain.ImpactMajor},
	} {
		if err := repo.Create(ctx, inc, nil, nil); err != nil {
			t.Fatalf("create %s: %v", inc.ID, err)
		}
	}
	scheduled, err := repo.ListScheduled(ctx, "p1", now)
	if err != nil {
		t.Fatalf("list scheduled: %v", err)
	}
	if len(scheduled) != 1 || scheduled[0].ID != "m1" {
		t.Fatalf("unexpected scheduled list %+v", scheduled)
	}
	unresolved, err := repo.ListUnresolved(ctx, "p1")
	if err != nil || len(unresolved) != 1 || unresolved[0].ID != "i1" {
		t.Fatalf("scheduled maintenance must not appear as unresolved: %+v err=%v", unresolved, err)
	}
}
