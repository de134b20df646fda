package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) account.Repository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, acct *account.Account) error {
	now := time.Now().UTC()
	acct.CreatedAt = now
	acct.UpdatedAt = now

	query := `
		INSERT INTO accounts (id, provider, name, credential_ref, status, instance_count, last_sync_at, last_error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		acct.ID, acct.Provider, acct.Name, acct.CredentialRef, acct.Status,
		acct.InstanceCount, acct.LastSyncAt, acct.LastError, acct.CreatedAt, acct.UpdatedAt,
	)
	if err != nil {
		return errors.DatabaseError("failed to create account", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `
		SELECT id, provider, name, credential_ref, status, instance_count, last_sync_at, last_error, created_at, updated_at
		FROM accounts WHERE id = ?
	`

	var acct account.Account
	var lastSync sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&acct.ID, &acct.Provider, &acct.Name, &acct.CredentialRef, &acct.Status,
		&acct.InstanceCount, &lastSync, &acct.LastError, &acct.CreatedAt, &acct.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("account")
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to get account", err)
	}
	if lastSync.Valid {
		acct.LastSyncAt = &lastSync.Time
	}
	return &acct, nil
}

func (r *AccountRepository) Update(ctx context.Context, acct *account.Account) error {
	acct.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE accounts SET provider = ?, name = ?, credential_ref = ?, status = ?, instance_count = ?, last_sync_at = ?, last_error = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		acct.Provider, acct.Name, acct.CredentialRef, acct.Status,
		acct.InstanceCount, acct.LastSyncAt, acct.LastError, acct.UpdatedAt, acct.ID,
	)
	if err != nil {
		return errors.DatabaseError("failed to update account", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("account")
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return errors.DatabaseError("failed to delete account", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("account")
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context, filter account.Filter) ([]*account.Account, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if filter.Provider != "" {
		where = append(where, "provider = ?")
		args = append(args, filter.Provider)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}

	query := fmt.Sprintf(`
		SELECT id, provider, name, credential_ref, status, instance_count, last_sync_at, last_error, created_at, updated_at
		FROM accounts WHERE %s ORDER BY created_at
	`, strings.Join(where, " AND "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("failed to list accounts", err)
	}
	defer rows.Close()

	var accts []*account.Account
	for rows.Next() {
		var acct account.Account
		var lastSync sql.NullTime
		err := rows.Scan(
			&acct.ID, &acct.Provider, &acct.Name, &acct.CredentialRef, &acct.Status,
			&acct.InstanceCount, &lastSync, &acct.LastError, &acct.CreatedAt, &acct.UpdatedAt,
		)
		if err != nil {
			return nil, errors.DatabaseError("failed to scan account", err)
		}
		if lastSync.Valid {
			acct.LastSyncAt = &lastSync.Time
		}
		accts = append(accts, &acct)
	}

	return accts, rows.Err()
}
