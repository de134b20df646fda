package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/config"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/alert"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
)

// CorrelationService groups open recommendations and recent alerts by
// resource. Nothing is persisted; correlation is computed on read.
type CorrelationService struct {
	recommendations recommendation.Repository
	alerts          alert.Repository
	cfg             config.CorrelationConfig
}

func NewCorrelationService(
	recommendations recommendation.Repository,
	alerts alert.Repository,
	cfg config.CorrelationConfig,
) *CorrelationService {
	return &CorrelationService{
		recommendations: recommendations,
		alerts:          alerts,
		cfg:             cfg,
	}
}

// Correlate emits one correlated alert per resource that has findings
// in at least two distinct categories among finops, secops and anomaly
// within the window.
func (s *CorrelationService) Correlate(ctx context.Context) ([]*alert.CorrelatedAlert, error) {
	open, err := s.recommendations.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.alerts.ListSince(ctx, time.Now().UTC().Add(-s.cfg.Window))
	if err != nil {
		return nil, err
	}

	type group struct {
		categories map[string]bool
		recs       []*recommendation.Recommendation
		alerts     []*alert.Alert
	}
	groups := map[string]*group{}
	get := func(resourceID string) *group {
		g, ok := groups[resourceID]
		if !ok {
			g = &group{categories: map[string]bool{}}
			groups[resourceID] = g
		}
		return g
	}

	for _, rec := range open {
		if rec.ResourceID == "" {
			continue
		}
		g := get(rec.ResourceID)
		g.categories[rec.Category] = true
		g.recs = append(g.recs, rec)
	}
	for _, a := range recent {
		if a.ResourceID == "" {
			continue
		}
		g := get(a.ResourceID)
		g.categories["anomaly"] = true
		g.alerts = append(g.alerts, a)
	}

	var out []*alert.CorrelatedAlert
	for resourceID, g := range groups {
		if len(g.categories) < 2 {
			continue
		}

		categories := make([]string, 0, len(g.categories))
		for c := range g.categories {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		severity := ""
		for _, rec := range g.recs {
			if recommendation.SeverityRank(rec.Severity) > recommendation.SeverityRank(severity) {
				severity = rec.Severity
			}
		}
		for _, a := range g.alerts {
			if recommendation.SeverityRank(a.Severity) > recommendation.SeverityRank(severity) {
				severity = a.Severity
			}
		}

		out = append(out, &alert.CorrelatedAlert{
			ResourceID:      resourceID,
			Title:           fmt.Sprintf("Multiple findings on %s", resourceID),
			Severity:        severity,
			Categories:      categories,
			Recommendations: g.recs,
			Alerts:          g.alerts,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ResourceID < out[j].ResourceID })
	return out, nil
}
