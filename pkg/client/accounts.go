package client

import (
	"context"
	"fmt"
	"net/url"
)

// AccountService handles account-related API calls
type AccountService struct {
	client *Client
}

// AccountListOptions contains options for listing accounts
type AccountListOptions struct {
	Provider string
	Status   string
}

// CreateAccountRequest represents a request to register a cloud account
type CreateAccountRequest struct {
	Provider      string `json:"provider"`
	Name          string `json:"name"`
	CredentialRef string `json:"credential_ref,omitempty"`
}

// UpdateAccountRequest represents a request to update an account
type UpdateAccountRequest struct {
	Name          *string `json:"name,omitempty"`
	CredentialRef *string `json:"credential_ref,omitempty"`
}

// List retrieves registered accounts
func (s *AccountService) List(ctx context.Context, opts *AccountListOptions) ([]Account, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Provider != "" {
			query.Set("provider", opts.Provider)
		}
		if opts.Status != "" {
			query.Set("status", opts.Status)
		}
	}

	path := "/api/v1/accounts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var accounts []Account
	if err := s.client.doRequest(ctx, "GET", path, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Get retrieves a single account by ID
func (s *AccountService) Get(ctx context.Context, id string) (*Account, error) {
	var account Account
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/accounts/%s", id), nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Create registers a new cloud account
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	var account Account
	if err := s.client.doRequest(ctx, "POST", "/api/v1/accounts", req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Update modifies an account's name or credential reference
func (s *AccountService) Update(ctx context.Context, id string, req UpdateAccountRequest) (*Account, error) {
	var account Account
	if err := s.client.doRequest(ctx, "PUT", fmt.Sprintf("/api/v1/accounts/%s", id), req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Delete removes an account and its inventory
func (s *AccountService) Delete(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/accounts/%s", id), nil, nil)
}

// Enable re-enables a disabled account
func (s *AccountService) Enable(ctx context.Context, id string) (*Account, error) {
	var account Account
	if err := s.client.doRequest(ctx, "POST", fmt.Sprintf("/api/v1/accounts/%s/enable", id), nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Disable excludes an account from syncs
func (s *AccountService) Disable(ctx context.Context, id string) (*Account, error) {
	var account Account
	if err := s.client.doRequest(ctx, "POST", fmt.Sprintf("/api/v1/accounts/%s/disable", id), nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
