package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
	"github.com/sandeepkv93/statuspage-service/internal/observability"
	"github.com/sandeepkv93/statuspage-service/internal/repository"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

type CreatePageInput struct {
	Name      string
	Subdomain string
}

type UpdatePageInput struct {
	Name              Optional[string]
	CustomDomain      Optional[string]
	StatusIndicator   Optional[string]
	StatusDescription Optional[string]
}

type PageService struct {
	pages    repository.PageRepository
	members  repository.TeamMemberRepository
	resolver *SubdomainResolver
	clock    clockwork.Clock
}

func NewPageService(pages repository.PageRepository, members repository.TeamMemberRepository, resolver *SubdomainResolver, clock clockwork.Clock) *PageService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &PageService{pages: pages, members: members, resolver: resolver, clock: clock}
}

func (s *PageService) Create(ctx context.Context, userID string, in CreatePageInput) (*domain.Page, error) {
	name := strings.TrimSpace(in.Name)
	sub := strings.ToLower(strings.TrimSpace(in.Subdomain))

	var problems []string
	if name == "" {
		problems = append(problems, "Name is required")
	} else if len(name) > 200 {
		problems = append(problems, "Name must be 200 characters or less")
	}
	switch {
	case sub == "":
		problems = append(problems, "Subdomain is required")
	case !subdomainPattern.MatchString(sub):
		problems = append(problems, "Subdomain may only contain lowercase letters, digits and inner hyphens")
	case s.resolver != nil && s.resolver.IsReserved(sub):
		problems = append(problems, "Subdomain is reserved")
	}
	if err := newValidationError(problems...); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	page := &domain.Page{
		ID:              uuid.NewString(),
		Name:            name,
		Subdomain:       sub,
		StatusIndicator: domain.StatusIndicatorNone,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	owner := &domain.TeamMember{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      domain.TeamRoleOwner,
		CreatedAt: now,
	}
	if err := s.pages.CreateWithOwner(ctx, page, owner); err != nil {
		if errors.Is(err, repository.ErrSubdomainUsed) {
			return nil, ErrSubdomainTaken
		}
		return nil, fmt.Errorf("create page: %w", err)
	}
	observability.RecordPageMutation(ctx, "page", "create")
	return page, nil
}

func (s *PageService) ListForUser(ctx context.Context, userID string) ([]domain.Page, error) {
	return s.pages.ListForUser(ctx, userID)
}

func (s *PageService) Get(ctx context.Context, userID, pageID string) (*domain.Page, error) {
	if err := s.RequireAccess(ctx, userID, pageID); err != nil {
		return nil, err
	}
	return s.pages.FindByID(ctx, pageID)
}

// Update applies the set fields only. Cached subdomain lookups keep serving
// the previous record until their TTL runs out.
func (s *PageService) Update(ctx context.Context, userID, pageID string, in UpdatePageInput) (*domain.Page, error) {
	if err := s.RequireAccess(ctx, userID, pageID); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	var problems []string
	if in.Name.Set {
		name := strings.TrimSpace(in.Name.Value)
		if in.Name.Null || name == "" {
			problems = append(problems, "Name cannot be empty")
		} else {
			updates["name"] = name
		}
	}
	if in.CustomDomain.Set {
		domainName := strings.ToLower(strings.TrimSpace(in.CustomDomain.Value))
		if in.CustomDomain.Null || domainName == "" {
			updates["custom_domain"] = nil
		} else {
			updates["custom_domain"] = domainName
		}
	}
	if in.StatusIndicator.Set {
		indicator := domain.StatusIndicator(in.StatusIndicator.Value)
		if in.StatusIndicator.Null || !indicator.Valid() {
			problems = append(problems, "Invalid status indicator")
		} else {
			updates["status_indicator"] = indicator
		}
	}
	if in.StatusDescription.Set {
		desc := strings.TrimSpace(in.StatusDescription.Value)
		if in.StatusDescription.Null || desc == "" {
			updates["status_description"] = nil
		} else {
			updates["status_description"] = desc
		}
	}
	if err := newValidationError(problems...); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		updates["updated_at"] = s.clock.Now().UTC()
	}
	page, err := s.pages.Update(ctx, pageID, updates)
	if err != nil {
		return nil, err
	}
	observability.RecordPageMutation(ctx, "page", "update")
	return page, nil
}

func (s *PageService) Delete(ctx context.Context, userID, pageID string) error {
	if err := s.RequireRole(ctx, userID, pageID, domain.TeamRoleOwner); err != nil {
		return err
	}
	if err := s.pages.Delete(ctx, pageID); err != nil {
		return err
	}
	observability.RecordPageMutation(ctx, "page", "delete")
	return nil
}

// RequireAccess returns ErrPageNotFound for a missing page and ErrForbidden
// when the user is not on its team.
func (s *PageService) RequireAccess(ctx context.Context, userID, pageID string) error {
	ok, err := s.HasPageAccess(ctx, userID, pageID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if _, err := s.pages.FindByID(ctx, pageID); err != nil {
		return err
	}
	return ErrForbidden
}

func (s *PageService) RequireRole(ctx context.Context, userID, pageID string, roles ...domain.TeamRole) error {
	ok, err := s.HasPageRole(ctx, userID, pageID, roles...)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if _, err := s.pages.FindByID(ctx, pageID); err != nil {
		return err
	}
	return ErrForbidden
}

func (s *PageService) HasPageAccess(ctx context.Context, userID, pageID string) (bool, error) {
	return s.members.IsMember(ctx, pageID, userID)
}

func (s *PageService) HasPageRole(ctx context.Context, userID, pageID string, roles ...domain.TeamRole) (bool, error) {
	m, err := s.members.Find(ctx, pageID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTeamMemberNotFound) {
			return false, nil
		}
		return false, err
	}
	for _, role := range roles {
		if m.Role == role {
			return true, nil
		}
	}
	return false, nil
}
