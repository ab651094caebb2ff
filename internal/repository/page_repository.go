package repository

import (
	"context"
	"errors"

	"github.com/sandeepkv93/statuspage-service/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrPageNotFound  = errors.New("page not found")
	ErrSubdomainUsed = errors.New("subdomain already in use")
)

type PageRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Page, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*domain.Page, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Page, error)
	CreateWithOwner(ctx context.Context, page *domain.Page, owner *domain.TeamMember) error
	Update(ctx context.Context, id string, updates map[string]any) (*domain.Page, error)
	Delete(ctx context.Context, id string) error
}

type GormPageRepository struct{ db *gorm.DB }

func NewPageRepository(db *gorm.DB) PageRepository { return &GormPageRepository{db: db} }

func (r *GormPageRepository) FindByID(ctx context.Context, id string) (*domain.Page, error) {
	var p domain.Page
	err := r.db.WithContext(ctx).Where("page_id = ?", id).First(&p).Error
	if err != nil {
		err = translate(err, ErrPageNotFound)
		record(ctx, "page", "find_by_id", err)
		return nil, err
	}
	record(ctx, "page", "find_by_id", nil)
	return &p, nil
}

func (r *GormPageRepository) FindBySubdomain(ctx context.Context, subdomain string) (*domain.Page, error) {
	var p domain.Page
	err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&p).Error
	if err != nil {
		err = translate(err, ErrPageNotFound)
		record(ctx, "page", "find_by_subdomain", err)
		return nil, err
	}
	record(ctx, "page", "find_by_subdomain", nil)
	return &p, nil
}

func (r *GormPageRepository) ListForUser(ctx context.Context, userID string) ([]domain.Page, error) {
	var pages []domain.Page
	err := r.db.WithContext(ctx).
		Joins("JOIN team_members tm ON tm.page_id = pages.page_id").
		Where("tm.user_id = ?", userID).
		Order("pages.created_at ASC").
		Find(&pages).Error
	record(ctx, "page", "list_for_user", err)
	return pages, err
}

// CreateWithOwner inserts the page and its first team member atomically. A
// taken subdomain is reported as ErrSubdomainUsed by the unique index, so
// concurrent creates cannot both win.
func (r *GormPageRepository) CreateWithOwner(ctx context.Context, page *domain.Page, owner *domain.TeamMember) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(page).Error; err != nil {
			return translateDuplicate(err, ErrSubdomainUsed)
		}
		owner.PageID = page.ID
		return tx.Create(owner).Error
	})
	record(ctx, "page", "create_with_owner", err)
	return err
}

func (r *GormPageRepository) Update(ctx context.Context, id string, updates map[string]any) (*domain.Page, error) {
	db := r.db.WithContext(ctx)
	if len(updates) > 0 {
		res := db.Model(&domain.Page{}).Where("page_id = ?", id).Updates(updates)
		if res.Error != nil {
			record(ctx, "page", "update", res.Error)
			return nil, res.Error
		}
	}
	var p domain.Page
	if err := db.Where("page_id = ?", id).First(&p).Error; err != nil {
		err = translate(err, ErrPageNotFound)
		record(ctx, "page", "update", err)
		return nil, err
	}
	record(ctx, "page", "update", nil)
	return &p, nil
}

func (r *GormPageRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("page_id = ?", id).Delete(&domain.Page{})
	err := res.Error
	if err == nil && res.RowsAffected == 0 {
		err = ErrPageNotFound
	}
	record(ctx, "page", "delete", err)
	return err
}
