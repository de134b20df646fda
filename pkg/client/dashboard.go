package client

import "context"

// DashboardService handles dashboard API calls
type DashboardService struct {
	client *Client
}

// Stats retrieves the dashboard aggregate
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := s.client.doRequest(ctx, "GET", "/api/v1/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CorrelatedAlerts retrieves cross-category findings grouped by resource
func (s *DashboardService) CorrelatedAlerts(ctx context.Context) ([]CorrelatedAlert, error) {
	var correlated []CorrelatedAlert
	if err := s.client.doRequest(ctx, "GET", "/api/v1/dashboard/correlated-alerts", nil, &correlated); err != nil {
		return nil, err
	}
	return correlated, nil
}
