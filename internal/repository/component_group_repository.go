package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sandeepkv93/statuspage-service/internal/domain"

	"gorm.io/gorm"
)

var ErrComponentGroupNotFound = errors.New("component group not found")

type ComponentGroupRepository interface {
	FindByID(ctx context.Context, id string) (*domain.ComponentGroup, error)
	ListByPage(ctx context.Context, pageID string) ([]domain.ComponentGroup, error)
	MaxPosition(ctx context.Context, pageID string) (int, error)
	Create(ctx context.Context, g *domain.ComponentGroup) error
	Update(ctx context.Context, id string, updates map[string]any) (*domain.ComponentGroup, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type GormComponentGroupRepository struct{ db *gorm.DB }

func NewComponentGroupRepository(db *gorm.DB) ComponentGroupRepository {
	return &GormComponentGroupRepository{db: db}
}

func (r *GormComponentGroupRepository) FindByID(ctx context.Context, id string) (*domain.ComponentGroup, error) {
	var g domain.ComponentGroup
	err := r.db.WithContext(ctx).Where("group_id = ?", id).First(&g).Error
	if err != nil {
		err = translate(err, ErrComponentGroupNotFound)
		record(ctx, "component_group", "find_by_id", err)
		return nil, err
	}
	record(ctx, "component_group", "find_by_id", nil)
	return &g, nil
}

func (r *GormComponentGroupRepository) ListByPage(ctx context.Context, pageID string) ([]domain.ComponentGroup, error) {
	var groups []domain.ComponentGroup
	err := r.db.WithContext(ctx).Where("page_id = ?", pageID).
		Order("position ASC").Order("created_at ASC").
		Find(&groups).Error
	record(ctx, "component_group", "list_by_page", err)
	return groups, err
}

func (r *GormComponentGroupRepository) MaxPosition(ctx context.Context, pageID string) (int, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).Model(&domain.ComponentGroup{}).
		Where("page_id = ?", pageID).
		Select("MAX(position)").
		Row().Scan(&max)
	record(ctx, "component_group", "max_position", err)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}

func (r *GormComponentGroupRepository) Create(ctx context.Context, g *domain.ComponentGroup) error {
	err := r.db.WithContext(ctx).Create(g).Error
	record(ctx, "component_group", "create", err)
	return err
}

func (r *GormComponentGroupRepository) Update(ctx context.Context, id string, updates map[string]any) (*domain.ComponentGroup, error) {
	db := r.db.WithContext(ctx)
	if len(updates) > 0 {
		if err := db.Model(&domain.ComponentGroup{}).Where("group_id = ?", id).Updates(updates).Error; err != nil {
			record(ctx, "component_group", "update", err)
			return nil, err
		}
	}
	var g domain.ComponentGroup
	if err := db.Where("group_id = ?", id).First(&g).Error; err != nil {
		err = translate(err, ErrComponentGroupNotFound)
		record(ctx, "component_group", "update", err)
		return nil, err
	}
	record(ctx, "component_group", "update", nil)
	return &g, nil
}

// Delete detaches member components before removing the group so the
// behaviour does not depend on the driver enforcing ON DELETE SET NULL.
func (r *GormComponentGroupRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Component{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("group_id = ?", id).Delete(&domain.ComponentGroup{})
		deleted = res.RowsAffected
		return res.Error
	})
	record(ctx, "component_group", "delete", err)
	return deleted > 0, err
}
