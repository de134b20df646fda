package inventory

import "context"

// Repository defines the interface for instance data access
type Repository interface {
	// Upsert inserts or updates an instance by identity. Returns whether a
	// new row was created and the state the row held before the write
	// (empty string when created).
	Upsert(ctx context.Context, inst *Instance) (created bool, prevState string, err error)

	// Get retrieves an instance by identity
	Get(ctx context.Context, provider, accountID, instanceID string) (*Instance, error)

	// List retrieves instances matching the filter
	List(ctx context.Context, filter Filter) ([]*Instance, error)

	// ListByAccount retrieves all instances for an account
	ListByAccount(ctx context.Context, accountID string) ([]*Instance, error)

	// CountByAccount returns the number of instances for an account
	CountByAccount(ctx context.Context, accountID string) (int, error)

	// DeleteByAccount deletes all instances for an account
	DeleteByAccount(ctx context.Context, accountID string) error
}

// SnapshotRepository persists per-account instance state snapshots
// between anomaly detection runs.
type SnapshotRepository interface {
	// GetByAccount retrieves the previous snapshot for an account
	GetByAccount(ctx context.Context, accountID string) ([]*Snapshot, error)

	// Replace atomically replaces the snapshot for an account
	Replace(ctx context.Context, accountID string, snapshots []*Snapshot) error
}
