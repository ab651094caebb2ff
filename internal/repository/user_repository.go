package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/statuspage-service/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailUsed    = errors.New("email already in use")
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&u).Error
	if err != nil {
		err = translate(err, ErrUserNotFound)
		record(ctx, "user", "find_by_id", err)
		return nil, err
	}
	record(ctx, "user", "find_by_id", nil)
	return &u, nil
}

// FindByEmail expects an already normalised (lower-cased, trimmed) address.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		err = translate(err, ErrUserNotFound)
		record(ctx, "user", "find_by_email", err)
		return nil, err
	}
	record(ctx, "user", "find_by_email", nil)
	return &u, nil
}

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := translateDuplicate(r.db.WithContext(ctx).Create(user).Error, ErrEmailUsed)
	record(ctx, "user", "create", err)
	return err
}

func (r *GormUserRepository) Update(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Save(user).Error
	record(ctx, "user", "update", err)
	return err
}

func (r *GormUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("user_id = ?", id).
		Update("last_login_at", at.UTC())
	err := res.Error
	if err == nil && res.RowsAffected == 0 {
		err = ErrUserNotFound
	}
	record(ctx, "user", "touch_last_login", err)
	return err
}

func (r *GormUserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", id).Delete(&domain.User{})
	err := res.Error
	if err == nil && res.RowsAffected == 0 {
		err = ErrUserNotFound
	}
	record(ctx, "user", "delete", err)
	return err
}
