package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/statuspage-service/internal/domain"

	"gorm.io/gorm"
)

var ErrIncidentNotFound = errors.New("incident not found")

type IncidentListQuery struct {
	PageRequest
	PageID string
}

type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident, first *domain.IncidentUpdate, affected []domain.IncidentComponent) error
	FindByID(ctx context.Context, id string) (*domain.Incident, error)
	ListPaged(ctx context.Context, query IncidentListQuery) (PageResult[domain.Incident], error)
	ListUnresolved(ctx context.Context, pageID string) ([]domain.Incident, error)
	ListScheduled(ctx context.Context, pageID string, now time.Time) ([]domain.Incident, error)
	ListUpdates(ctx context.Context, incidentID string) ([]domain.IncidentUpdate, error)
	ListAffected(ctx context.Context, incidentID string) ([]domain.IncidentComponent, error)
	AppendUpdate(ctx context.Context, update *domain.IncidentUpdate, resolvedAt *time.Time) (*domain.Incident, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type GormIncidentRepository struct{ db *gorm.DB }

func NewIncidentRepository(db *gorm.DB) IncidentRepository { return &GormIncidentRepository{db: db} }

func (r *GormIncidentRepository) Create(ctx context.Context, incident *domain.Incident, first *domain.IncidentUpdate, affected []domain.IncidentComponent) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(incident).Error; err != nil {
			return err
		}
		if first != nil {
			first.IncidentID = incident.ID
			if err := tx.Create(first).Error; err != nil {
				return err
			}
		}
		for i := range affected {
			affected[i].IncidentID = incident.ID
		}
		if len(affected) > 0 {
			if err := tx.Create(&affected).Error; err != nil {
				return err
			}
		}
		return nil
	})
	record(ctx, "incident", "create", err)
	return err
}

func (r *GormIncidentRepository) FindByID(ctx context.Context, id string) (*domain.Incident, error) {
	var inc domain.Incident
	err := r.db.WithContext(ctx).Where("incident_id = ?", id).First(&inc).Error
	if err != nil {
		err = translate(err, ErrIncidentNotFound)
		record(ctx, "incident", "find_by_id", err)
		return nil, err
	}
	record(ctx, "incident", "find_by_id", nil)
	return &inc, nil
}

func (r *GormIncidentRepository) ListPaged(ctx context.Context, query IncidentListQuery) (PageResult[domain.Incident], error) {
	req := normalizePageRequest(query.PageRequest)
	result := PageResult[domain.Incident]{
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    []domain.Incident{},
	}

	base := r.db.WithContext(ctx).Model(&domain.Incident{}).Where("page_id = ?", query.PageID)
	if err := base.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		record(ctx, "incident", "list_paged", err)
		return PageResult[domain.Incident]{}, err
	}

	offset := pageOffset(req)
	err := base.Order("created_at DESC").Order("incident_id DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&result.Items).Error
	if err != nil {
		record(ctx, "incident", "list_paged", err)
		return PageResult[domain.Incident]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	record(ctx, "incident", "list_paged", nil)
	return result, nil
}

// ListUnresolved returns open unscheduled incidents, newest first.
func (r *GormIncidentRepository) ListUnresolved(ctx context.Context, pageID string) ([]domain.Incident, error) {
	var incidents []domain.Incident
	err := r.db.WithContext(ctx).
		Where("page_id = ? AND resolved_at IS NULL AND scheduled_for IS NULL", pageID).
		Order("created_at DESC").
		Find(&incidents).Error
	record(ctx, "incident", "list_unresolved", err)
	return incidents, err
}

// ListScheduled returns upcoming or running maintenance windows ordered by start.
func (r *GormIncidentRepository) ListScheduled(ctx context.Context, pageID string, now time.Time) ([]domain.Incident, error) {
	var incidents []domain.Incident
	err := r.db.WithContext(ctx).
		Where("page_id = ? AND scheduled_for IS NOT NULL AND resolved_at IS NULL", pageID).
		Where("scheduled_until IS NULL OR scheduled_until > ?", now.UTC()).
		Order("scheduled_for ASC").
		Find(&incidents).Error
	record(ctx, "incident", "list_scheduled", err)
	return incidents, err
}

func (r *GormIncidentRepository) ListUpdates(ctx context.Context, incidentID string) ([]domain.IncidentUpdate, error) {
	var updates []domain.IncidentUpdate
	err := r.db.WithContext(ctx).Where("incident_id = ?", incidentID).
		Order("display_at DESC").Order("created_at DESC").
		Find(&updates).Error
	record(ctx, "incident", "list_updates", err)
	return updates, err
}

func (r *GormIncidentRepository) ListAffected(ctx context.Context, incidentID string) ([]domain.IncidentComponent, error) {
	var rows []domain.IncidentComponent
	err := r.db.WithContext(ctx).Where("incident_id = ?", incidentID).Find(&rows).Error
	record(ctx, "incident", "list_affected", err)
	return rows, err
}

// AppendUpdate stores the update and moves the incident to its status.
// resolvedAt is written only when non-nil.
func (r *GormIncidentRepository) AppendUpdate(ctx context.Context, update *domain.IncidentUpdate, resolvedAt *time.Time) (*domain.Incident, error) {
	var inc domain.Incident
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("incident_id = ?", update.IncidentID).First(&inc).Error; err != nil {
			return translate(err, ErrIncidentNotFound)
		}
		if err := tx.Create(update).Error; err != nil {
			return err
		}
		changes := map[string]any{"status": update.Status}
		if resolvedAt != nil {
			changes["resolved_at"] = resolvedAt.UTC()
		}
		if err := tx.Model(&inc).Updates(changes).Error; err != nil {
			return err
		}
		return tx.Where("incident_id = ?", update.IncidentID).First(&inc).Error
	})
	record(ctx, "incident", "append_update", err)
	if err != nil {
		return nil, err
	}
	return &inc, nil
}

func (r *GormIncidentRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("incident_id = ?", id).Delete(&domain.IncidentUpdate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("incident_id = ?", id).Delete(&domain.IncidentComponent{}).Error; err != nil {
			return err
		}
		res := tx.Where("incident_id = ?", id).Delete(&domain.Incident{})
		deleted = res.RowsAffected
		return res.Error
	})
	record(ctx, "incident", "delete", err)
	return deleted > 0, err
}
