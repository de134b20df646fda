package client

import (
	"context"
	"fmt"
	"net/url"
)

// RecommendationService handles recommendation-related API calls
type RecommendationService struct {
	client *Client
}

// RecommendationListOptions contains options for listing recommendations
type RecommendationListOptions struct {
	Category  string // finops, secops
	Severity  string // low, medium, high
	Status    string // open, dismissed, resolved
	AccountID string
}

// UpdateRecommendationRequest represents a status change request
type UpdateRecommendationRequest struct {
	Status string `json:"status"`
}

// Run triggers a recommendation engine pass over the inventory
func (s *RecommendationService) Run(ctx context.Context) (*RunResult, error) {
	var result RunResult
	if err := s.client.doRequest(ctx, "POST", "/api/v1/recommendations/run", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// List retrieves recommendations
func (s *RecommendationService) List(ctx context.Context, opts *RecommendationListOptions) ([]Recommendation, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Category != "" {
			query.Set("category", opts.Category)
		}
		if opts.Severity != "" {
			query.Set("severity", opts.Severity)
		}
		if opts.Status != "" {
			query.Set("status", opts.Status)
		}
		if opts.AccountID != "" {
			query.Set("account_id", opts.AccountID)
		}
	}

	path := "/api/v1/recommendations"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var recommendations []Recommendation
	if err := s.client.doRequest(ctx, "GET", path, nil, &recommendations); err != nil {
		return nil, err
	}
	return recommendations, nil
}

// UpdateStatus changes a recommendation's lifecycle status
func (s *RecommendationService) UpdateStatus(ctx context.Context, id, status string) (*Recommendation, error) {
	path := fmt.Sprintf("/api/v1/recommendations/%s", id)

	var recommendation Recommendation
	if err := s.client.doRequest(ctx, "PATCH", path, UpdateRecommendationRequest{Status: status}, &recommendation); err != nil {
		return nil, err
	}
	return &recommendation, nil
}

// Dismiss marks a recommendation as dismissed
func (s *RecommendationService) Dismiss(ctx context.Context, id string) (*Recommendation, error) {
	return s.UpdateStatus(ctx, id, "dismissed")
}

// Resolve marks a recommendation as resolved
func (s *RecommendationService) Resolve(ctx context.Context, id string) (*Recommendation, error) {
	return s.UpdateStatus(ctx, id, "resolved")
}
