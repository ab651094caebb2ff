package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
	"github.com/sandeepkv93/statuspage-service/internal/observability"
	"github.com/sandeepkv93/statuspage-service/internal/repository"
)

type CreateIncidentInput struct {
	PageID         string
	Name           string
	Status         string
	Impact         string
	Body           string
	ComponentIDs   []string
	ScheduledFor   *time.Time
	ScheduledUntil *time.Time
}

type IncidentDetail struct {
	Incident   *domain.Incident           `json:"incident"`
	Updates    []domain.IncidentUpdate    `json:"updates"`
	Components []domain.IncidentComponent `json:"components"`
}

type IncidentService struct {
	incidents  repository.IncidentRepository
	components repository.ComponentRepository
	access     *PageService
	clock      clockwork.Clock
}

func NewIncidentService(incidents repository.IncidentRepository, components repository.ComponentRepository, access *PageService, clock clockwork.Clock) *IncidentService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &IncidentService{incidents: incidents, components: components, access: access, clock: clock}
}

func (s *IncidentService) Create(ctx context.Context, userID string, in CreateIncidentInput) (*IncidentDetail, error) {
	name := strings.TrimSpace(in.Name)
	body := strings.TrimSpace(in.Body)

	status := domain.IncidentStatus(in.Status)
	if in.Status == "" {
		status = domain.IncidentInvestigating
		if in.ScheduledFor != nil {
			status = domain.IncidentScheduled
		}
	}
	impact := domain.IncidentImpact(in.Impact)
	if in.Impact == "" {
		impact = domain.ImpactNone
	}

	var problems []string
	if strings.TrimSpace(in.PageID) == "" {
		problems = append(problems, "Page ID is required")
	}
	if name == "" {
		problems = append(problems, "Name is required")
	} else if len(name) > 200 {
		problems = append(problems, "Name must be 200 characters or less")
	}
	if body == "" {
		problems = append(problems, "Body is required")
	}
	if !status.Valid() {
		problems = append(problems, "Invalid status value")
	}
	if !impact.Valid() {
		problems = append(problems, "Invalid impact value")
	}
	if in.ScheduledFor != nil && in.ScheduledUntil != nil && !in.ScheduledUntil.After(*in.ScheduledFor) {
		problems = append(problems, "Scheduled end must be after scheduled start")
	}
	if err := newValidationError(problems...); err != nil {
		return nil, err
	}
	if err := s.access.RequireAccess(ctx, userID, in.PageID); err != nil {
		return nil, err
	}

	affected, err := s.affectedComponents(ctx, in.PageID, in.ComponentIDs)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	inc := &domain.Incident{
		ID:             uuid.NewString(),
		PageID:         in.PageID,
		Name:           name,
		Status:         status,
		Impact:         impact,
		ScheduledFor:   utcPtr(in.ScheduledFor),
		ScheduledUntil: utcPtr(in.ScheduledUntil),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if status.Terminal() {
		inc.ResolvedAt = &now
	}
	first := &domain.IncidentUpdate{
		ID:        uuid.NewString(),
		Status:    status,
		Body:      body,
		DisplayAt: now,
		CreatedAt: now,
	}
	if err := s.incidents.Create(ctx, inc, first, affected); err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}
	observability.RecordPageMutation(ctx, "incident", "create")
	return &IncidentDetail{Incident: inc, Updates: []domain.IncidentUpdate{*first}, Components: affected}, nil
}

func (s *IncidentService) affectedComponents(ctx context.Context, pageID string, ids []string) ([]domain.IncidentComponent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	onPage, err := s.components.ListByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	status := make(map[string]domain.ComponentStatus, len(onPage))
	for _, c := range onPage {
		status[c.ID] = c.Status
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]domain.IncidentComponent, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		st, ok := status[id]
		if !ok {
			return nil, newValidationError("Invalid component ID")
		}
		old := st
		out = append(out, domain.IncidentComponent{ComponentID: id, OldStatus: &old})
	}
	return out, nil
}

func (s *IncidentService) List(ctx context.Context, userID, pageID string, req repository.PageRequest) (repository.PageResult[domain.Incident], error) {
	if err := s.access.RequireAccess(ctx, userID, pageID); err != nil {
		return repository.PageResult[domain.Incident]{}, err
	}
	return s.incidents.ListPaged(ctx, repository.IncidentListQuery{PageRequest: req, PageID: pageID})
}

func (s *IncidentService) Get(ctx context.Context, userID, id string) (*IncidentDetail, error) {
	inc, err := s.incidents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireAccess(ctx, userID, inc.PageID); err != nil {
		return nil, err
	}
	updates, err := s.incidents.ListUpdates(ctx, id)
	if err != nil {
		return nil, err
	}
	affected, err := s.incidents.ListAffected(ctx, id)
	if err != nil {
		return nil, err
	}
	return &IncidentDetail{Incident: inc, Updates: updates, Components: affected}, nil
}

// AddUpdate appends a timeline entry and moves the incident to status.
// Terminal statuses stamp resolved_at.
func (s *IncidentService) AddUpdate(ctx context.Context, userID, id, status, body string) (*IncidentDetail, error) {
	inc, err := s.incidents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireAccess(ctx, userID, inc.PageID); err != nil {
		return nil, err
	}
	st := domain.IncidentStatus(status)
	body = strings.TrimSpace(body)
	var problems []string
	if !st.Valid() {
		problems = append(problems, "Invalid status value")
	}
	if body == "" {
		problems = append(problems, "Body is required")
	}
	if err := newValidationError(problems...); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	update := &domain.IncidentUpdate{
		ID:         uuid.NewString(),
		IncidentID: id,
		Status:     st,
		Body:       body,
		DisplayAt:  now,
		CreatedAt:  now,
	}
	var resolvedAt *time.Time
	if st.Terminal() {
		resolvedAt = &now
	}
	updated, err := s.incidents.AppendUpdate(ctx, update, resolvedAt)
	if err != nil {
		return nil, err
	}
	observability.RecordPageMutation(ctx, "incident", "update")
	updates, err := s.incidents.ListUpdates(ctx, id)
	if err != nil {
		return nil, err
	}
	return &IncidentDetail{Incident: updated, Updates: updates}, nil
}

func (s *IncidentService) Delete(ctx context.Context, userID, id string) error {
	inc, err := s.incidents.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.RequireAccess(ctx, userID, inc.PageID); err != nil {
		return err
	}
	deleted, err := s.incidents.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrIncidentNotFound
	}
	observability.RecordPageMutation(ctx, "incident", "delete")
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
