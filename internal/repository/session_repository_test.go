package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/statuspage-service/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSessionRepositoryLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := &domain.Session{ID: "tok-1", UserID: "u1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindByID(ctx, "tok-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.UserID != "u1" || !got.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected session %+v", got)
	}

	extended := now.Add(48 * time.Hour)
	if err := repo.UpdateExpiry(ctx, "tok-1", extended); err != nil {
		t.Fatalf("update expiry: %v", err)
	}
	got, err = repo.FindByID(ctx, "tok-1")
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if !got.ExpiresAt.Equal(extended) {
		t.Fatalf("expected expiry %s, got %s", extended, got.ExpiresAt)
	}

	if err := repo.UpdateExpiry(ctx, "missing", extended); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found on missing update, got %v", err)
	}

	deleted, err := repo.Delete(ctx, "tok-1")
	if err != nil || !deleted {
		t.Fatalf("first delete: deleted=%v err=%v", deleted, err)
	}
	deleted, err = repo.Delete(ctx, "tok-1")
	if err != nil || deleted {
		t.Fatalf("second delete must be a no-op: deleted=%v err=%v", deleted, err)
	}
	if _, err := repo.FindByID(ctx, "tok-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepositoryCleanupAndUserScope(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := []*domain.Session{
		{ID: "live", UserID: "u1", ExpiresAt: now.Add(time.Hour), CreatedAt: now},
		{ID: "edge", UserID: "u1", ExpiresAt: now, CreatedAt: now},
		{ID: "old", UserID: "u2", ExpiresAt: now.Add(-time.Hour), CreatedAt: now},
		{ID: "other", UserID: "u2", ExpiresAt: now.Add(time.Hour), CreatedAt: now},
	}
	for _, s := range rows {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("create %s: %v", s.ID, err)
		}
	}

	removed, err := repo.CleanupExpired(ctx, now)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 expired sessions removed, got %d", removed)
	}

	removed, err = repo.DeleteByUserID(ctx, "u2")
	if err != nil {
		t.Fatalf("delete by user: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 session removed for u2, got %d", removed)
	}
	if _, err := repo.FindByID(ctx, "live"); err != nil {
		t.Fatalf("u1 session must survive: %v", err)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func strPtr(v string) *string { return &v }
