package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/statuspage-service/internal/domain"

	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
	CleanupExpired(ctx context.Context, now time.Time) (int64, error)
}

type GormSessionRepository struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &GormSessionRepository{db: db} }

func (r *GormSessionRepository) Create(ctx context.Context, s *domain.Session) error {
	err := r.db.WithContext(ctx).Create(s).Error
	record(ctx, "session", "create", err)
	return err
}

func (r *GormSessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.WithContext(ctx).Where("session_id = ?", id).First(&s).Error
	if err != nil {
		err = translate(err, ErrSessionNotFound)
		record(ctx, "session", "find_by_id", err)
		return nil, err
	}
	record(ctx, "session", "find_by_id", nil)
	return &s, nil
}

// UpdateExpiry is an unconditional single-row write; concurrent callers
// resolve as last write wins.
func (r *GormSessionRepository) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("session_id = ?", id).
		Update("expires_at", expiresAt.UTC())
	err := res.Error
	if err == nil && res.RowsAffected == 0 {
		err = ErrSessionNotFound
	}
	record(ctx, "session", "update_expiry", err)
	return err
}

func (r *GormSessionRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("session_id = ?", id).Delete(&domain.Session{})
	record(ctx, "session", "delete", res.Error)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormSessionRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Session{})
	record(ctx, "session", "delete_by_user_id", res.Error)
	return res.RowsAffected, res.Error
}

func (r *GormSessionRepository) CleanupExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&domain.Session{})
	record(ctx, "session", "cleanup_expired", res.Error)
	return res.RowsAffected, res.Error
}
