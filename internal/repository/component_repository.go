package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sandeepkv93/statuspage-service/internal/domain"

	"gorm.io/gorm"
)

var ErrComponentNotFound = errors.New("component not found")

type ComponentRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Component, error)
	ListByPage(ctx context.Context, pageID string) ([]domain.Component, error)
	MaxPosition(ctx context.Context, pageID string) (int, error)
	Create(ctx context.Context, c *domain.Component) error
	Update(ctx context.Context, id string, updates map[string]any) (*domain.Component, error)
	Delete(ctx context.Context, id string) (bool, error)
	Reorder(ctx context.Context, pageID string, orderedIDs []string) error
}

type GormComponentRepository struct{ db *gorm.DB }

func NewComponentRepository(db *gorm.DB) ComponentRepository {
	return &GormComponentRepository{db: db}
}

func (r *GormComponentRepository) FindByID(ctx context.Context, id string) (*domain.Component, error) {
	var c domain.Component
	err := r.db.WithContext(ctx).Where("component_id = ?", id).First(&c).Error
	if err != nil {
		err = translate(err, ErrComponentNotFound)
		record(ctx, "component", "find_by_id", err)
		return nil, err
	}
	record(ctx, "component", "find_by_id", nil)
	return &c, nil
}

func (r *GormComponentRepository) ListByPage(ctx context.Context, pageID string) ([]domain.Component, error) {
	var components []domain.Component
	err := r.db.WithContext(ctx).Where("page_id = ?", pageID).
		Order("position ASC").Order("created_at ASC").
		Find(&components).Error
	record(ctx, "component", "list_by_page", err)
	return components, err
}

// MaxPosition returns -1 when the page has no components.
func (r *GormComponentRepository) MaxPosition(ctx context.Context, pageID string) (int, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).Model(&domain.Component{}).
		Where("page_id = ?", pageID).
		Select("MAX(position)").
		Row().Scan(&max)
	record(ctx, "component", "max_position", err)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}

func (r *GormComponentRepository) Create(ctx context.Context, c *domain.Component) error {
	err := r.db.WithContext(ctx).Create(c).Error
	record(ctx, "component", "create", err)
	return err
}

func (r *GormComponentRepository) Update(ctx context.Context, id string, updates map[string]any) (*domain.Component, error) {
	db := r.db.WithContext(ctx)
	if len(updates) > 0 {
		if err := db.Model(&domain.Component{}).Where("component_id = ?", id).Updates(updates).Error; err != nil {
			record(ctx, "component", "update", err)
			return nil, err
		}
	}
	var c domain.Component
	if err := db.Where("component_id = ?", id).First(&c).Error; err != nil {
		err = translate(err, ErrComponentNotFound)
		record(ctx, "component", "update", err)
		return nil, err
	}
	record(ctx, "component", "update", nil)
	return &c, nil
}

func (r *GormComponentRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("component_id = ?", id).Delete(&domain.IncidentComponent{}).Error; err != nil {
			return err
		}
		res := tx.Where("component_id = ?", id).Delete(&domain.Component{})
		deleted = res.RowsAffected
		return res.Error
	})
	record(ctx, "component", "delete", err)
	return deleted > 0, err
}

// Reorder assigns each listed component its index as position. IDs that do
// not belong to pageID are ignored.
func (r *GormComponentRepository) Reorder(ctx context.Context, pageID string, orderedIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			if err := tx.Model(&domain.Component{}).
				Where("component_id = ? AND page_id = ?", id, pageID).
				Update("position", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
	record(ctx, "component", "reorder", err)
	return err
}
