package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/config"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/logger"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/metrics"
)

// RecommendationService runs the rule table over the instance store and
// maintains recommendation lifecycle.
type RecommendationService struct {
	accounts        account.Repository
	instances       inventory.Repository
	recommendations recommendation.Repository
	rules           []Rule
	cfg             config.RulesConfig
	logger          *logger.Logger
}

func NewRecommendationService(
	accounts account.Repository,
	instances inventory.Repository,
	recommendations recommendation.Repository,
	cfg config.RulesConfig,
	log *logger.Logger,
) *RecommendationService {
	return &RecommendationService{
		accounts:        accounts,
		instances:       instances,
		recommendations: recommendations,
		rules:           Rules(),
		cfg:             cfg,
		logger:          log,
	}
}

// Run re-evaluates every rule against every account's inventory.
// Returns the number of recommendations generated, counting new rows
// and in-place evidence refreshes. Running twice over an unchanged
// store generates nothing the second time.
func (s *RecommendationService) Run(ctx context.Context) (int, error) {
	accts, err := s.accounts.List(ctx, account.Filter{})
	if err != nil {
		return 0, err
	}

	generated := 0
	matched := map[string]bool{}

	for _, acct := range accts {
		insts, err := s.instances.ListByAccount(ctx, acct.ID)
		if err != nil {
			return generated, err
		}
		for _, inst := range insts {
			for _, rule := range s.rules {
				severity, desc, evidence, ok := rule.Evaluate(inst)
				if !ok {
					continue
				}
				resourceID := inst.ResourceID()
				matched[rule.ID+"|"+resourceID] = true

				n, err := s.apply(ctx, rule, inst, resourceID, severity, desc, evidence)
				if err != nil {
					return generated, err
				}
				generated += n
			}
		}
	}

	if s.cfg.AutoResolve {
		if err := s.autoResolve(ctx, matched); err != nil {
			return generated, err
		}
	}

	s.logger.Infof("rule run generated %d recommendations", generated)
	return generated, nil
}

// apply reconciles one rule match against the stored rows for its
// dedup key.
func (s *RecommendationService) apply(
	ctx context.Context,
	rule Rule,
	inst *inventory.Instance,
	resourceID, severity, description string,
	evidence map[string]string,
) (int, error) {
	open, err := s.recommendations.GetOpenByKey(ctx, rule.ID, resourceID)
	if err != nil {
		return 0, err
	}

	if open != nil {
		if equalEvidence(open.Evidence, evidence) {
			return 0, nil
		}
		open.Severity = severity
		open.Description = description
		open.Evidence = evidence
		if err := s.recommendations.Update(ctx, open); err != nil {
			return 0, err
		}
		return 1, nil
	}

	latest, err := s.recommendations.GetLatestByKey(ctx, rule.ID, resourceID)
	if err != nil {
		return 0, err
	}
	// A dismissed or resolved row with the same evidence stays closed.
	if latest != nil && equalEvidence(latest.Evidence, evidence) {
		return 0, nil
	}

	rec := &recommendation.Recommendation{
		ID:          uuid.New().String(),
		RuleID:      rule.ID,
		ResourceID:  resourceID,
		Provider:    inst.Provider,
		AccountID:   inst.AccountID,
		Category:    rule.Category,
		Severity:    severity,
		Title:       rule.Title,
		Description: description,
		Evidence:    evidence,
		Status:      recommendation.StatusOpen,
	}
	if err := s.recommendations.Create(ctx, rec); err != nil {
		return 0, err
	}
	metrics.RecordRecommendation(rule.ID, rule.Category)
	return 1, nil
}

// autoResolve closes open rows whose rule no longer matches anything.
func (s *RecommendationService) autoResolve(ctx context.Context, matched map[string]bool) error {
	open, err := s.recommendations.ListOpen(ctx)
	if err != nil {
		return err
	}
	for _, rec := range open {
		if matched[rec.RuleID+"|"+rec.ResourceID] {
			continue
		}
		rec.Status = recommendation.StatusResolved
		if err := s.recommendations.Update(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatus moves a recommendation through its lifecycle.
func (s *RecommendationService) UpdateStatus(ctx context.Context, id, status string) (*recommendation.Recommendation, error) {
	switch status {
	case recommendation.StatusOpen, recommendation.StatusDismissed, recommendation.StatusResolved:
	default:
		return nil, errors.ValidationError("invalid status", map[string]string{"status": status})
	}

	rec, err := s.recommendations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !recommendation.CanTransition(rec.Status, status) {
		return nil, errors.ValidationError("illegal status transition", map[string]string{
			"from": rec.Status,
			"to":   status,
		})
	}

	rec.Status = status
	if err := s.recommendations.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// List retrieves recommendations matching the filter.
func (s *RecommendationService) List(ctx context.Context, filter recommendation.Filter) ([]*recommendation.Recommendation, error) {
	return s.recommendations.List(ctx, filter)
}

func equalEvidence(a, b map[string]string) bool {
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return string(aj) == string(bj)
}
