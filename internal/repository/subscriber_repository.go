package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/statuspage-service/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrSubscriberNotFound   = errors.New("subscriber not found")
	ErrConfirmationNotFound = errors.New("confirmation not found")
)

type SubscriberRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Subscriber, error)
	FindByPageAndEmail(ctx context.Context, pageID, email string) (*domain.Subscriber, error)
	CreatePending(ctx context.Context, sub *domain.Subscriber, conf *domain.SubscriberConfirmation) error
	AddConfirmation(ctx context.Context, conf *domain.SubscriberConfirmation) error
	FindConfirmation(ctx context.Context, token string) (*domain.SubscriberConfirmation, error)
	Confirm(ctx context.Context, token string, at time.Time) (*domain.Subscriber, error)
	Unsubscribe(ctx context.Context, id string, at time.Time) (bool, error)
	ListConfirmed(ctx context.Context, pageID string) ([]domain.Subscriber, error)
}

type GormSubscriberRepository struct{ db *gorm.DB }

func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &GormSubscriberRepository{db: db}
}

func (r *GormSubscriberRepository) FindByID(ctx context.Context, id string) (*domain.Subscriber, error) {
	var s domain.Subscriber
	err := r.db.WithContext(ctx).Where("subscriber_id = ?", id).First(&s).Error
	if err != nil {
		err = translate(err, ErrSubscriberNotFound)
		record(ctx, "subscriber", "find_by_id", err)
		return nil, err
	}
	record(ctx, "subscriber", "find_by_id", nil)
	return &s, nil
}

func (r *GormSubscriberRepository) FindByPageAndEmail(ctx context.Context, pageID, email string) (*domain.Subscriber, error) {
	var s domain.Subscriber
	err := r.db.WithContext(ctx).Where("page_id = ? AND email = ?", pageID, email).First(&s).Error
	if err != nil {
		err = translate(err, ErrSubscriberNotFound)
		record(ctx, "subscriber", "find_by_page_and_email", err)
		return nil, err
	}
	record(ctx, "subscriber", "find_by_page_and_email", nil)
	return &s, nil
}

func (r *GormSubscriberRepository) CreatePending(ctx context.Context, sub *domain.Subscriber, conf *domain.SubscriberConfirmation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		conf.SubscriberID = sub.ID
		return tx.Create(conf).Error
	})
	record(ctx, "subscriber", "create_pending", err)
	return err
}

func (r *GormSubscriberRepository) AddConfirmation(ctx context.Context, conf *domain.SubscriberConfirmation) error {
	err := r.db.WithContext(ctx).Create(conf).Error
	record(ctx, "subscriber", "add_confirmation", err)
	return err
}

func (r *GormSubscriberRepository) FindConfirmation(ctx context.Context, token string) (*domain.SubscriberConfirmation, error) {
	var c domain.SubscriberConfirmation
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&c).Error
	if err != nil {
		err = translate(err, ErrConfirmationNotFound)
		record(ctx, "subscriber", "find_confirmation", err)
		return nil, err
	}
	record(ctx, "subscriber", "find_confirmation", nil)
	return &c, nil
}

// Confirm stamps the subscriber as confirmed and consumes every outstanding
// token for it. Unsubscribed addresses are re-activated.
func (r *GormSubscriberRepository) Confirm(ctx context.Context, token string, at time.Time) (*domain.Subscriber, error) {
	var sub domain.Subscriber
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c domain.SubscriberConfirmation
		if err := tx.Where("token = ?", token).First(&c).Error; err != nil {
			return translate(err, ErrConfirmationNotFound)
		}
		if err := tx.Where("subscriber_id = ?", c.SubscriberID).First(&sub).Error; err != nil {
			return translate(err, ErrSubscriberNotFound)
		}
		if err := tx.Model(&sub).Updates(map[string]any{
			"confirmed_at":    at.UTC(),
			"unsubscribed_at": nil,
		}).Error; err != nil {
			return err
		}
		if err := tx.Where("subscriber_id = ?", c.SubscriberID).Delete(&domain.SubscriberConfirmation{}).Error; err != nil {
			return err
		}
		return tx.Where("subscriber_id = ?", c.SubscriberID).First(&sub).Error
	})
	record(ctx, "subscriber", "confirm", err)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *GormSubscriberRepository) Unsubscribe(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Subscriber{}).
		Where("subscriber_id = ? AND unsubscribed_at IS NULL", id).
		Update("unsubscribed_at", at.UTC())
	record(ctx, "subscriber", "unsubscribe", res.Error)
	return res.RowsAffected > 0, res.Error
}

func (r *GormSubscriberRepository) ListConfirmed(ctx context.Context, pageID string) ([]domain.Subscriber, error) {
	var subs []domain.Subscriber
	err := r.db.WithContext(ctx).
		Where("page_id = ? AND confirmed_at IS NOT NULL AND unsubscribed_at IS NULL AND quarantined_at IS NULL", pageID).
		Order("created_at ASC").
		Find(&subs).Error
	record(ctx, "subscriber", "list_confirmed", err)
	return subs, err
}
