package alert

import (
	"context"
	"time"
)

// Repository defines the interface for alert data access
type Repository interface {
	// Create creates a new alert
	Create(ctx context.Context, a *Alert) error

	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id string) (*Alert, error)

	// List retrieves alerts matching the filter, newest first
	List(ctx context.Context, filter Filter) ([]*Alert, error)

	// ListSince retrieves alerts created at or after the given time
	ListSince(ctx context.Context, since time.Time) ([]*Alert, error)

	// Count returns the total number of alerts
	Count(ctx context.Context) (int, error)
}
