package service

import (
	"context"
	"testing"
	"time"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
)

func TestStatusLoadGroupsComponentsAndIncidents(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()
	u := f.signup(t, "owner@example.com")
	p := f.page(t, u.ID, "acme")

	g, err := f.components.CreateGroup(ctx, u.ID, p.ID, "Core")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	api, err := f.components.Create(ctx, u.ID, CreateComponentInput{PageID: p.ID, Name: "API", GroupID: &g.ID})
	if err != nil {
		t.Fatalf("create api: %v", err)
	}
	if _, err := f.components.Create(ctx, u.ID, CreateComponentInput{PageID: p.ID, Name: "Docs"}); err != nil {
		t.Fatalf("create docs: %v", err)
	}
	if _, err := f.components.Update(ctx, u.ID, api.ID, UpdateComponentInput{Status: Some(string(domain.ComponentPartialOutage))}); err != nil {
		t.Fatalf("degrade api: %v", err)
	}
	if _, err := f.incidents.Create(ctx, u.ID, CreateIncidentInput{PageID: p.ID, Name: "API errors", Body: "Looking", ComponentIDs: []string{api.ID}}); err != nil {
		t.Fatalf("create incident: %v", err)
	}
	start := f.clock.Now().Add(time.Hour)
	if _, err := f.incidents.Create(ctx, u.ID, CreateIncidentInput{PageID: p.ID, Name: "Upgrade", Body: "Planned", ScheduledFor: &start}); err != nil {
		t.Fatalf("create maintenance: %v", err)
	}

	view, err := f.status.Load(ctx, p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(view.Groups) != 1 || len(view.Groups[0].Components) != 1 || view.Groups[0].Components[0].ID != api.ID {
		t.Fatalf("unexpected groups %+v", view.Groups)
	}
	if len(view.Ungrouped) != 1 || view.Ungrouped[0].Name != "Docs" {
		t.Fatalf("unexpected ungrouped %+v", view.Ungrouped)
	}
	if len(view.Incidents) != 1 || len(view.Incidents[0].Updates) != 1 {
		t.Fatalf("unexpected incidents %+v", view.Incidents)
	}
	if len(view.Maintenance) != 1 || view.Maintenance[0].Name != "Upgrade" {
		t.Fatalf("unexpected maintenance %+v", view.Maintenance)
	}
	if view.Indicator != domain.StatusIndicatorMajor {
		t.Fatalf("expected derived indicator major, got %s", view.Indicator)
	}
}

func TestDeriveIndicator(t *testing.T) {
	tests := []struct {
		statuses []domain.ComponentStatus
		want     domain.StatusIndicator
	}{
		{nil, domain.StatusIndicatorNone},
		{[]domain.ComponentStatus{domain.ComponentOperational}, domain.StatusIndicatorNone},
		{[]domain.ComponentStatus{domain.ComponentUnderMaintenance, domain.ComponentDegradedPerformance}, domain.StatusIndicatorMinor},
		{[]domain.ComponentStatus{domain.ComponentPartialOutage, domain.ComponentMajorOutage}, domain.StatusIndicatorCritical},
	}
	for _, tc := range tests {
		comps := make([]domain.Component, 0, len(tc.statuses))
		for _, st := range tc.statuses {
			comps = append(comps, domain.Component{Status: st, Showcase: true})
		}
		if got := deriveIndicator(comps); got != tc.want {
			t.Fatalf("deriveIndicator(%v) = %s, want %s", tc.statuses, got, tc.want)
		}
	}
}
