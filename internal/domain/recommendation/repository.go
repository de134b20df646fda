package recommendation

import "context"

// Repository defines the interface for recommendation data access
type Repository interface {
	// Create creates a new recommendation
	Create(ctx context.Context, rec *Recommendation) error

	// GetByID retrieves a recommendation by ID
	GetByID(ctx context.Context, id string) (*Recommendation, error)

	// GetOpenByKey retrieves the open recommendation for a dedup key,
	// or nil when none exists
	GetOpenByKey(ctx context.Context, ruleID, resourceID string) (*Recommendation, error)

	// GetLatestByKey retrieves the most recently updated recommendation
	// for a dedup key regardless of status, or nil when none exists
	GetLatestByKey(ctx context.Context, ruleID, resourceID string) (*Recommendation, error)

	// Update updates a recommendation
	Update(ctx context.Context, rec *Recommendation) error

	// List retrieves recommendations matching the filter
	List(ctx context.Context, filter Filter) ([]*Recommendation, error)

	// ListOpen retrieves all open recommendations
	ListOpen(ctx context.Context) ([]*Recommendation, error)

	// DeleteOpenByAccount deletes open recommendations for an account,
	// used when the account itself is removed
	DeleteOpenByAccount(ctx context.Context, accountID string) error

	// CountByStatus returns counts of recommendations grouped by status
	CountByStatus(ctx context.Context) (map[string]int, error)
}
