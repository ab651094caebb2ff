package service

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
	"github.com/sandeepkv93/statuspage-service/internal/observability"
	"github.com/sandeepkv93/statuspage-service/internal/repository"
)

type StatusGroup struct {
	Group      domain.ComponentGroup `json:"group"`
	Components []domain.Component    `json:"components"`
}

type StatusIncident struct {
	Incident domain.Incident         `json:"incident"`
	Updates  []domain.IncidentUpdate `json:"updates"`
}

type StatusView struct {
	Page        *domain.Page           `json:"page"`
	Indicator   domain.StatusIndicator `json:"indicator"`
	Groups      []StatusGroup          `json:"groups"`
	Ungrouped   []domain.Component     `json:"ungrouped"`
	Incidents   []StatusIncident       `json:"incidents"`
	Maintenance []domain.Incident      `json:"maintenance"`
}

type StatusService struct {
	components repository.ComponentRepository
	groups     repository.ComponentGroupRepository
	incidents  repository.IncidentRepository
	clock      clockwork.Clock
}

func NewStatusService(components repository.ComponentRepository, groups repository.ComponentGroupRepository, incidents repository.IncidentRepository, clock clockwork.Clock) *StatusService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &StatusService{components: components, groups: groups, incidents: incidents, clock: clock}
}

// Load gathers the public view of page. The independent reads run
// concurrently and the first failure cancels the rest.
func (s *StatusService) Load(ctx context.Context, page *domain.Page) (*StatusView, error) {
	ctx, span := observability.Tracer().Start(ctx, "status.load")
	defer span.End()

	var (
		components []domain.Component
		groups     []domain.ComponentGroup
		open       []domain.Incident
		scheduled  []domain.Incident
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		components, err = s.components.ListByPage(gctx, page.ID)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = s.groups.ListByPage(gctx, page.ID)
		return err
	})
	g.Go(func() error {
		var err error
		open, err = s.incidents.ListUnresolved(gctx, page.ID)
		return err
	})
	g.Go(func() error {
		var err error
		scheduled, err = s.incidents.ListScheduled(gctx, page.ID, s.clock.Now())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load status page %s: %w", page.ID, err)
	}

	incidents := make([]StatusIncident, len(open))
	ug, uctx := errgroup.WithContext(ctx)
	ug.SetLimit(4)
	for i := range open {
		incidents[i].Incident = open[i]
		ug.Go(func() error {
			updates, err := s.incidents.ListUpdates(uctx, open[i].ID)
			incidents[i].Updates = updates
			return err
		})
	}
	if err := ug.Wait(); err != nil {
		return nil, fmt.Errorf("load incident updates: %w", err)
	}

	view := &StatusView{
		Page:        page,
		Indicator:   page.StatusIndicator,
		Groups:      make([]StatusGroup, 0, len(groups)),
		Ungrouped:   []domain.Component{},
		Incidents:   incidents,
		Maintenance: scheduled,
	}
	if view.Maintenance == nil {
		view.Maintenance = []domain.Incident{}
	}
	byGroup := make(map[string]int, len(groups))
	for _, grp := range groups {
		byGroup[grp.ID] = len(view.Groups)
		view.Groups = append(view.Groups, StatusGroup{Group: grp, Components: []domain.Component{}})
	}
	for _, c := range components {
		if !c.Showcase {
			continue
		}
		if c.GroupID != nil {
			if idx, ok := byGroup[*c.GroupID]; ok {
				view.Groups[idx].Components = append(view.Groups[idx].Components, c)
				continue
			}
		}
		view.Ungrouped = append(view.Ungrouped, c)
	}
	if view.Indicator == "" || view.Indicator == domain.StatusIndicatorNone {
		view.Indicator = deriveIndicator(components)
	}
	return view, nil
}

// deriveIndicator maps the worst showcased component status onto a page
// level indicator. An explicit page indicator always wins over this.
func deriveIndicator(components []domain.Component) domain.StatusIndicator {
	worst := domain.StatusIndicatorNone
	rank := map[domain.StatusIndicator]int{
		domain.StatusIndicatorNone:        0,
		domain.StatusIndicatorMaintenance: 1,
		domain.StatusIndicatorMinor:       2,
		domain.StatusIndicatorMajor:       3,
		domain.StatusIndicatorCritical:    4,
	}
	for _, c := range components {
		if !c.Showcase {
			continue
		}
		var ind domain.StatusIndicator
		switch c.Status {
		case domain.ComponentUnderMaintenance:
			ind = domain.StatusIndicatorMaintenance
		case domain.ComponentDegradedPerformance:
			ind = domain.StatusIndicatorMinor
		case domain.ComponentPartialOutage:
			ind = domain.StatusIndicatorMajor
		case domain.ComponentMajorOutage:
			ind = domain.StatusIndicatorCritical
		default:
			continue
		}
		if rank[ind] > rank[worst] {
			worst = ind
		}
	}
	return worst
}
