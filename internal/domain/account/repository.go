package account

import "context"

// Repository defines the interface for account data access
type Repository interface {
	// Create creates a new account
	Create(ctx context.Context, acct *Account) error

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id string) (*Account, error)

	// Update updates an account
	Update(ctx context.Context, acct *Account) error

	// Delete deletes an account
	Delete(ctx context.Context, id string) error

	// List retrieves accounts matching the filter
	List(ctx context.Context, filter Filter) ([]*Account, error)
}
