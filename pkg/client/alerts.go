package client

import (
	"context"
	"net/url"
)

// AlertService handles alert-related API calls
type AlertService struct {
	client *Client
}

// AlertListOptions contains options for listing alerts
type AlertListOptions struct {
	AlertType string
	Severity  string
}

// IngestAlertRequest represents an externally sourced alert
type IngestAlertRequest struct {
	Source     string            `json:"source"`
	AlertType  string            `json:"alert_type"`
	Severity   string            `json:"severity"`
	AccountID  string            `json:"account_id,omitempty"`
	ResourceID string            `json:"resource_id,omitempty"`
	Payload    map[string]string `json:"payload,omitempty"`
}

// List retrieves alerts, newest first
func (s *AlertService) List(ctx context.Context, opts *AlertListOptions) ([]Alert, error) {
	query := url.Values{}
	if opts != nil {
		if opts.AlertType != "" {
			query.Set("alert_type", opts.AlertType)
		}
		if opts.Severity != "" {
			query.Set("severity", opts.Severity)
		}
	}

	path := "/api/v1/alerts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var alerts []Alert
	if err := s.client.doRequest(ctx, "GET", path, nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// Ingest submits an external alert through the webhook endpoint
func (s *AlertService) Ingest(ctx context.Context, req IngestAlertRequest) (*Alert, error) {
	var alert Alert
	if err := s.client.doRequest(ctx, "POST", "/api/v1/alerts/webhook", req, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

// Detect triggers an anomaly detection pass
func (s *AlertService) Detect(ctx context.Context) (*DetectResult, error) {
	var result DetectResult
	if err := s.client.doRequest(ctx, "POST", "/api/v1/alerts/detect", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
