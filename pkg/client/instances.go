package client

import (
	"context"
	"net/url"
)

// InstanceService handles instance inventory API calls
type InstanceService struct {
	client *Client
}

// InstanceListOptions contains options for listing instances
type InstanceListOptions struct {
	Provider  string
	AccountID string
	State     string
	Name      string
	Region    string
}

// List retrieves instances from the inventory
func (s *InstanceService) List(ctx context.Context, opts *InstanceListOptions) ([]Instance, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Provider != "" {
			query.Set("provider", opts.Provider)
		}
		if opts.AccountID != "" {
			query.Set("account_id", opts.AccountID)
		}
		if opts.State != "" {
			query.Set("state", opts.State)
		}
		if opts.Name != "" {
			query.Set("name", opts.Name)
		}
		if opts.Region != "" {
			query.Set("region", opts.Region)
		}
	}

	path := "/api/v1/instances"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var instances []Instance
	if err := s.client.doRequest(ctx, "GET", path, nil, &instances); err != nil {
		return nil, err
	}
	return instances, nil
}
