package sqlite

import (
	"context"
	"database/sql"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
)

type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) inventory.SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) GetByAccount(ctx context.Context, accountID string) ([]*inventory.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT account_id, instance_id, state FROM snapshots WHERE account_id = ?", accountID)
	if err != nil {
		return nil, errors.DatabaseError("failed to get snapshot", err)
	}
	defer rows.Close()

	var snaps []*inventory.Snapshot
	for rows.Next() {
		var s inventory.Snapshot
		if err := rows.Scan(&s.AccountID, &s.InstanceID, &s.State); err != nil {
			return nil, errors.DatabaseError("failed to scan snapshot", err)
		}
		snaps = append(snaps, &s)
	}
	return snaps, rows.Err()
}

func (r *SnapshotRepository) Replace(ctx context.Context, accountID string, snapshots []*inventory.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin snapshot replace", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots WHERE account_id = ?", accountID); err != nil {
		return errors.DatabaseError("failed to clear snapshot", err)
	}

	for _, s := range snapshots {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO snapshots (account_id, instance_id, state) VALUES (?, ?, ?)",
			accountID, s.InstanceID, s.State); err != nil {
			return errors.DatabaseError("failed to write snapshot", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("failed to commit snapshot", err)
	}
	return nil
}
