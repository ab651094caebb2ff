package repository

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
)

func TestNormalizePageRequest(t *testing.T) {
	tests := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{name: "query params absent", in: PageRequest{}, want: PageRequest{Page: 1, PageSize: 20}},
		{name: "negative page", in: PageRequest{Page: -3, PageSize: 10}, want: PageRequest{Page: 1, PageSize: 10}},
		{name: "page_size over limit", in: PageRequest{Page: 2, PageSize: 500}, want: PageRequest{Page: 2, PageSize: MaxPageSize}},
		{name: "page beyond limit", in: PageRequest{Page: math.MaxInt, PageSize: 10}, want: PageRequest{Page: MaxPage, PageSize: 10}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePageRequest(tc.in); got != tc.want {
				t.Fatalf("normalizePageRequest(%+v) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestPageOffsetAndTotalPages(t *testing.T) {
	if got := pageOffset(normalizePageRequest(PageRequest{Page: 3, PageSize: 10})); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	if got := pageOffset(normalizePageRequest(PageRequest{Page: math.MaxInt, PageSize: math.MaxInt})); got != (MaxPage-1)*MaxPageSize {
		t.Fatalf("expected capped offset, got %d", got)
	}
	for _, tc := range []struct {
		total    int64
		pageSize int
		want     int
	}{{0, 10, 0}, {25, 0, 0}, {25, 10, 3}, {20, 10, 2}} {
		if got := calcTotalPages(tc.total, tc.pageSize); got != tc.want {
			t.Fatalf("calcTotalPages(%d, %d) = %d, want %d", tc.total, tc.pageSize, got, tc.want)
		}
	}
}

func TestIncidentListPagedWindows(t *testing.T) {
	db := newTestDB(t)
	repo := NewIncidentRepository(db)
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 25; i++ {
		at := start.Add(time.Duration(i) * time.Minute)
		inc := &domain.Incident{ID: fmt.Sprintf("i%02d", i), PageID: "p1", Name: "Incident", Status: domain.IncidentInvestigating, Impact: domain.ImpactMinor, CreatedAt: at}
		first := &domain.IncidentUpdate{ID: fmt.Sprintf("u%02d", i), Status: domain.IncidentInvestigating, Body: "Investigating", DisplayAt: at}
		if err := repo.Create(ctx, inc, first, nil); err != nil {
			t.Fatalf("create incident %d: %v", i, err)
		}
	}
	other := &domain.Incident{ID: "x1", PageID: "p2", Name: "Elsewhere", Status: domain.IncidentInvestigating, Impact: domain.ImpactNone, CreatedAt: start}
	if err := repo.Create(ctx, other, &domain.IncidentUpdate{ID: "ux", Status: domain.IncidentInvestigating, Body: "x", DisplayAt: start}, nil); err != nil {
		t.Fatalf("create other page incident: %v", err)
	}

	tests := []struct {
		name      string
		req       PageRequest
		wantPage  int
		wantItems int
		wantFirst string
	}{
		{name: "first page newest first", req: PageRequest{Page: 1, PageSize: 10}, wantPage: 1, wantItems: 10, wantFirst: "i24"},
		{name: "second page", req: PageRequest{Page: 2, PageSize: 10}, wantPage: 2, wantItems: 10, wantFirst: "i14"},
		{name: "partial last page", req: PageRequest{Page: 3, PageSize: 10}, wantPage: 3, wantItems: 5, wantFirst: "i04"},
		{name: "past the end", req: PageRequest{Page: 4, PageSize: 10}, wantPage: 4, wantItems: 0},
		{name: "overflowing page is empty not page one", req: PageRequest{Page: math.MaxInt, PageSize: 10}, wantPage: MaxPage, wantItems: 0},
		{name: "oversized page_size capped", req: PageRequest{Page: 1, PageSize: 1000}, wantPage: 1, wantItems: 25, wantFirst: "i24"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.ListPaged(ctx, IncidentListQuery{PageRequest: tc.req, PageID: "p1"})
			if err != nil {
				t.Fatalf("list paged: %v", err)
			}
			if got.Total != 25 || got.Page != tc.wantPage || len(got.Items) != tc.wantItems {
				t.Fatalf("unexpected window total=%d page=%d items=%d", got.Total, got.Page, len(got.Items))
			}
			if tc.wantFirst != "" && got.Items[0].ID != tc.wantFirst {
				t.Fatalf("expected %s first, got %s", tc.wantFirst, got.Items[0].ID)
			}
		})
	}
}

func FuzzPageOffsetNeverNegative(f *testing.F) {
	f.Add(0, 0)
	f.Add(-1, 10)
	f.Add(math.MaxInt, math.MaxInt)
	f.Add(9999999, 50)

	f.Fuzz(func(t *testing.T, page, pageSize int) {
		req := normalizePageRequest(PageRequest{Page: page, PageSize: pageSize})
		offset := pageOffset(req)
		if offset < 0 || offset > (MaxPage-1)*MaxPageSize {
			t.Fatalf("offset out of range: %d for %+v", offset, req)
		}
	})
}
