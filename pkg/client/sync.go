package client

import (
	"context"
	"fmt"
)

// SyncService handles inventory sync API calls
type SyncService struct {
	client *Client
}

// All triggers a fleet-wide sync across all enabled accounts
func (s *SyncService) All(ctx context.Context) (*FleetResult, error) {
	var result FleetResult
	if err := s.client.doRequest(ctx, "POST", "/api/v1/sync", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Account triggers a sync for a single account
func (s *SyncService) Account(ctx context.Context, accountID string) (*SyncResult, error) {
	var result SyncResult
	if err := s.client.doRequest(ctx, "POST", fmt.Sprintf("/api/v1/sync/%s", accountID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
