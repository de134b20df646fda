package services

import (
	"context"
	"time"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/alert"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
)

// Stats is the dashboard aggregate
type Stats struct {
	TotalAccounts           int            `json:"total_accounts"`
	AccountsByStatus        map[string]int `json:"accounts_by_status"`
	TotalInstances          int            `json:"total_instances"`
	InstancesByState        map[string]int `json:"instances_by_state"`
	InstancesByProvider     map[string]int `json:"instances_by_provider"`
	RecommendationsByStatus map[string]int `json:"recommendations_by_status"`
	OpenRecommendations     int            `json:"open_recommendations"`
	FinOpsCount             int            `json:"finops_count"`
	SecOpsCount             int            `json:"secops_count"`
	TotalAlerts             int            `json:"total_alerts"`
	LastSync                *time.Time     `json:"last_sync,omitempty"`
}

// DashboardService aggregates store counts for the dashboard endpoints
type DashboardService struct {
	accounts        account.Repository
	instances       inventory.Repository
	recommendations recommendation.Repository
	alerts          alert.Repository
}

func NewDashboardService(
	accounts account.Repository,
	instances inventory.Repository,
	recommendations recommendation.Repository,
	alerts alert.Repository,
) *DashboardService {
	return &DashboardService{
		accounts:        accounts,
		instances:       instances,
		recommendations: recommendations,
		alerts:          alerts,
	}
}

func (s *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	accts, err := s.accounts.List(ctx, account.Filter{})
	if err != nil {
		return nil, err
	}
	insts, err := s.instances.List(ctx, inventory.Filter{})
	if err != nil {
		return nil, err
	}
	recCounts, err := s.recommendations.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	open, err := s.recommendations.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	alertCount, err := s.alerts.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalAccounts:           len(accts),
		AccountsByStatus:        map[string]int{},
		TotalInstances:          len(insts),
		InstancesByState:        map[string]int{},
		InstancesByProvider:     map[string]int{},
		RecommendationsByStatus: recCounts,
		OpenRecommendations:     recCounts[recommendation.StatusOpen],
		TotalAlerts:             alertCount,
	}
	for _, acct := range accts {
		stats.AccountsByStatus[acct.Status]++
		if acct.LastSyncAt != nil && (stats.LastSync == nil || acct.LastSyncAt.After(*stats.LastSync)) {
			stats.LastSync = acct.LastSyncAt
		}
	}
	for _, inst := range insts {
		stats.InstancesByState[inst.State]++
		stats.InstancesByProvider[inst.Provider]++
	}
	for _, rec := range open {
		switch rec.Category {
		case recommendation.CategoryFinOps:
			stats.FinOpsCount++
		case recommendation.CategorySecOps:
			stats.SecOpsCount++
		}
	}
	return stats, nil
}
