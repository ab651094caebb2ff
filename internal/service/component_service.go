package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
	"github.com/sandeepkv93/statuspage-service/internal/observability"
	"github.com/sandeepkv93/statuspage-service/internal/repository"
)

const maxComponentNameLen = 100

type CreateComponentInput struct {
	PageID      string
	Name        string
	Description *string
	GroupID     *string
}

type UpdateComponentInput struct {
	Name        Optional[string]
	Description Optional[string]
	GroupID     Optional[string]
	Status      Optional[string]
}

type ComponentService struct {
	components repository.ComponentRepository
	groups     repository.ComponentGroupRepository
	access     *PageService
	clock      clockwork.Clock
}

func NewComponentService(components repository.ComponentRepository, groups repository.ComponentGroupRepository, access *PageService, clock clockwork.Clock) *ComponentService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ComponentService{components: components, groups: groups, access: access, clock: clock}
}

func validateComponentName(name string, required bool) []string {
	if name == "" {
		if required {
			return []string{"Name is required"}
		}
		return []string{"Name cannot be empty"}
	}
	if utf8.RuneCountInString(name) > maxComponentNameLen {
		return []string{"Name must be 100 characters or less"}
	}
	return nil
}

// groupOnPage reports whether groupID names a group of pageID.
func (s *ComponentService) groupOnPage(ctx context.Context, pageID, groupID string) (bool, error) {
	g, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrComponentGroupNotFound) {
			return false, nil
		}
		return false, err
	}
	return g.PageID == pageID, nil
}

func (s *ComponentService) List(ctx context.Context, userID, pageID string) ([]domain.Component, error) {
	if err := s.access.RequireAccess(ctx, userID, pageID); err != nil {
		return nil, err
	}
	return s.components.ListByPage(ctx, pageID)
}

func (s *ComponentService) Create(ctx context.Context, userID string, in CreateComponentInput) (*domain.Component, error) {
	name := strings.TrimSpace(in.Name)
	if problems := validateComponentName(name, true); len(problems) > 0 {
		return nil, newValidationError(problems...)
	}
	if strings.TrimSpace(in.PageID) == "" {
		return nil, newValidationError("Page ID is required")
	}
	if err := s.access.RequireAccess(ctx, userID, in.PageID); err != nil {
		return nil, err
	}
	if in.GroupID != nil && *in.GroupID != "" {
		ok, err := s.groupOnPage(ctx, in.PageID, *in.GroupID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newValidationError("Invalid group ID")
		}
	}

	max, err := s.components.MaxPosition(ctx, in.PageID)
	if err != nil {
		return nil, fmt.Errorf("load max position: %w", err)
	}
	now := s.clock.Now().UTC()
	c := &domain.Component{
		ID:        uuid.NewString(),
		PageID:    in.PageID,
		Name:      name,
		Status:    domain.ComponentOperational,
		Position:  max + 1,
		Showcase:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		desc := strings.TrimSpace(*in.Description)
		c.Description = &desc
	}
	if in.GroupID != nil && *in.GroupID != "" {
		gid := *in.GroupID
		c.GroupID = &gid
	}
	if err := s.components.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create component: %w", err)
	}
	observability.RecordPageMutation(ctx, "component", "create")
	return c, nil
}

func (s *ComponentService) Update(ctx context.Context, userID, id string, in UpdateComponentInput) (*domain.Component, error) {
	existing, err := s.components.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireAccess(ctx, userID, existing.PageID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	var problems []string
	if in.Name.Set {
		name := strings.TrimSpace(in.Name.Value)
		if p := validateComponentName(name, false); len(p) > 0 {
			problems = append(problems, p...)
		} else {
			updates["name"] = name
		}
	}
	if in.Description.Set {
		desc := strings.TrimSpace(in.Description.Value)
		if in.Description.Null || desc == "" {
			updates["description"] = nil
		} else {
			updates["description"] = desc
		}
	}
	if in.GroupID.Set {
		if in.GroupID.Null || in.GroupID.Value == "" {
			updates["group_id"] = nil
		} else {
			ok, err := s.groupOnPage(ctx, existing.PageID, in.GroupID.Value)
			if err != nil {
				return nil, err
			}
			if !ok {
				problems = append(problems, "Invalid group ID")
			} else {
				updates["group_id"] = in.GroupID.Value
			}
		}
	}
	if in.Status.Set {
		status := domain.ComponentStatus(in.Status.Value)
		if in.Status.Null || !status.Valid() {
			problems = append(problems, "Invalid status value")
		} else {
			updates["status"] = status
		}
	}
	if err := newValidationError(problems...); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		updates["updated_at"] = s.clock.Now().UTC()
	}
	c, err := s.components.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	observability.RecordPageMutation(ctx, "component", "update")
	return c, nil
}

func (s *ComponentService) Delete(ctx context.Context, userID, id string) error {
	existing, err := s.components.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.RequireAccess(ctx, userID, existing.PageID); err != nil {
		return err
	}
	deleted, err := s.components.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrComponentNotFound
	}
	observability.RecordPageMutation(ctx, "component", "delete")
	return nil
}

// Reorder sets each component's position to its index in orderedIDs.
func (s *ComponentService) Reorder(ctx context.Context, userID, pageID string, orderedIDs []string) error {
	if strings.TrimSpace(pageID) == "" {
		return newValidationError("Page ID is required")
	}
	if err := s.access.RequireAccess(ctx, userID, pageID); err != nil {
		return err
	}
	if err := s.components.Reorder(ctx, pageID, orderedIDs); err != nil {
		return err
	}
	observability.RecordPageMutation(ctx, "component", "reorder")
	return nil
}

func (s *ComponentService) ListGroups(ctx context.Context, userID, pageID string) ([]domain.ComponentGroup, error) {
	if err := s.access.RequireAccess(ctx, userID, pageID); err != nil {
		return nil, err
	}
	return s.groups.ListByPage(ctx, pageID)
}

func (s *ComponentService) CreateGroup(ctx context.Context, userID, pageID, name string) (*domain.ComponentGroup, error) {
	name = strings.TrimSpace(name)
	if problems := validateComponentName(name, true); len(problems) > 0 {
		return nil, newValidationError(problems...)
	}
	if err := s.access.RequireAccess(ctx, userID, pageID); err != nil {
		return nil, err
	}
	max, err := s.groups.MaxPosition(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("load max group position: %w", err)
	}
	now := s.clock.Now().UTC()
	g := &domain.ComponentGroup{
		ID:        uuid.NewString(),
		PageID:    pageID,
		Name:      name,
		Position:  max + 1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create component group: %w", err)
	}
	observability.RecordPageMutation(ctx, "component_group", "create")
	return g, nil
}

func (s *ComponentService) UpdateGroup(ctx context.Context, userID, id string, name Optional[string], position Optional[int]) (*domain.ComponentGroup, error) {
	existing, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireAccess(ctx, userID, existing.PageID); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if name.Set {
		n := strings.TrimSpace(name.Value)
		if p := validateComponentName(n, false); len(p) > 0 {
			return nil, newValidationError(p...)
		}
		updates["name"] = n
	}
	if position.Set && !position.Null {
		if position.Value < 0 {
			return nil, newValidationError("Position must not be negative")
		}
		updates["position"] = position.Value
	}
	if len(updates) > 0 {
		updates["updated_at"] = s.clock.Now().UTC()
	}
	g, err := s.groups.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	observability.RecordPageMutation(ctx, "component_group", "update")
	return g, nil
}

func (s *ComponentService) DeleteGroup(ctx context.Context, userID, id string) error {
	existing, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.RequireAccess(ctx, userID, existing.PageID); err != nil {
		return err
	}
	deleted, err := s.groups.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrComponentGroupNotFound
	}
	observability.RecordPageMutation(ctx, "component_group", "delete")
	return nil
}
