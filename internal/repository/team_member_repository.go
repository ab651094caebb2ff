package repository

import (
	"context"
	"errors"

	"github.com/sandeepkv93/statuspage-service/internal/domain"

	"gorm.io/gorm"
)

var ErrTeamMemberNotFound = errors.New("team member not found")

type TeamMemberRepository interface {
	Add(ctx context.Context, member *domain.TeamMember) error
	Find(ctx context.Context, pageID, userID string) (*domain.TeamMember, error)
	IsMember(ctx context.Context, pageID, userID string) (bool, error)
	ListByPage(ctx context.Context, pageID string) ([]domain.TeamMember, error)
	RemoveFromPage(ctx context.Context, pageID, userID string) (bool, error)
}

type GormTeamMemberRepository struct{ db *gorm.DB }

func NewTeamMemberRepository(db *gorm.DB) TeamMemberRepository {
	return &GormTeamMemberRepository{db: db}
}

func (r *GormTeamMemberRepository) Add(ctx context.Context, member *domain.TeamMember) error {
	err := r.db.WithContext(ctx).Create(member).Error
	record(ctx, "team_member", "add", err)
	return err
}

func (r *GormTeamMemberRepository) Find(ctx context.Context, pageID, userID string) (*domain.TeamMember, error) {
	var m domain.TeamMember
	err := r.db.WithContext(ctx).Where("page_id = ? AND user_id = ?", pageID, userID).First(&m).Error
	if err != nil {
		err = translate(err, ErrTeamMemberNotFound)
		record(ctx, "team_member", "find", err)
		return nil, err
	}
	record(ctx, "team_member", "find", nil)
	return &m, nil
}

func (r *GormTeamMemberRepository) IsMember(ctx context.Context, pageID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.TeamMember{}).
		Where("page_id = ? AND user_id = ?", pageID, userID).
		Count(&count).Error
	record(ctx, "team_member", "is_member", err)
	return count > 0, err
}

func (r *GormTeamMemberRepository) ListByPage(ctx context.Context, pageID string) ([]domain.TeamMember, error) {
	var members []domain.TeamMember
	err := r.db.WithContext(ctx).Where("page_id = ?", pageID).Order("created_at ASC").Find(&members).Error
	record(ctx, "team_member", "list_by_page", err)
	return members, err
}

func (r *GormTeamMemberRepository) RemoveFromPage(ctx context.Context, pageID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("page_id = ? AND user_id = ?", pageID, userID).Delete(&domain.TeamMember{})
	record(ctx, "team_member", "remove_from_page", res.Error)
	return res.RowsAffected > 0, res.Error
}
