package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
)

type InstanceRepository struct {
	db *sql.DB
}

func NewInstanceRepository(db *sql.DB) inventory.Repository {
	return &InstanceRepository{db: db}
}

const instanceColumns = `provider, account_id, instance_id, region_or_zone, name, type_or_size, state, public_ip, private_ip, tags, first_seen_at, last_seen_at, updated_at`

// Upsert inserts a new instance or refreshes an existing one by
// identity. An observation identical to the stored row only advances
// last_seen_at; material changes also bump updated_at.
func (r *InstanceRepository) Upsert(ctx context.Context, inst *inventory.Instance) (bool, string, error) {
	now := time.Now().UTC()

	existing, err := r.Get(ctx, inst.Provider, inst.AccountID, inst.InstanceID)
	if err != nil && !errors.IsNotFound(err) {
		return false, "", err
	}

	tagsJSON, _ := json.Marshal(inst.Tags)

	if existing == nil {
		inst.FirstSeenAt = now
		inst.LastSeenAt = now
		inst.UpdatedAt = now

		query := fmt.Sprintf(`INSERT INTO instances (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, instanceColumns)
		_, err := r.db.ExecContext(ctx, query,
			inst.Provider, inst.AccountID, inst.InstanceID, inst.RegionOrZone, inst.Name,
			inst.TypeOrSize, inst.State, inst.PublicIP, inst.PrivateIP, string(tagsJSON),
			inst.FirstSeenAt, inst.LastSeenAt, inst.UpdatedAt,
		)
		if err != nil {
			return false, "", errors.DatabaseError("failed to insert instance", err)
		}
		return true, "", nil
	}

	prevState := existing.State
	inst.FirstSeenAt = existing.FirstSeenAt
	inst.LastSeenAt = now

	existingTags, _ := json.Marshal(existing.Tags)
	changed := existing.RegionOrZone != inst.RegionOrZone ||
		existing.Name != inst.Name ||
		existing.TypeOrSize != inst.TypeOrSize ||
		existing.State != inst.State ||
		existing.PublicIP != inst.PublicIP ||
		existing.PrivateIP != inst.PrivateIP ||
		string(existingTags) != string(tagsJSON)

	if !changed {
		inst.UpdatedAt = existing.UpdatedAt
		_, err := r.db.ExecContext(ctx,
			`UPDATE instances SET last_seen_at = ? WHERE provider = ? AND account_id = ? AND instance_id = ?`,
			inst.LastSeenAt, inst.Provider, inst.AccountID, inst.InstanceID,
		)
		if err != nil {
			return false, "", errors.DatabaseError("failed to refresh instance", err)
		}
		return false, prevState, nil
	}

	inst.UpdatedAt = now
	query := `
		UPDATE instances SET region_or_zone = ?, name = ?, type_or_size = ?, state = ?, public_ip = ?, private_ip = ?, tags = ?, last_seen_at = ?, updated_at = ?
		WHERE provider = ? AND account_id = ? AND instance_id = ?
	`
	_, err = r.db.ExecContext(ctx, query,
		inst.RegionOrZone, inst.Name, inst.TypeOrSize, inst.State, inst.PublicIP, inst.PrivateIP,
		string(tagsJSON), inst.LastSeenAt, inst.UpdatedAt,
		inst.Provider, inst.AccountID, inst.InstanceID,
	)
	if err != nil {
		return false, "", errors.DatabaseError("failed to update instance", err)
	}
	return false, prevState, nil
}

func (r *InstanceRepository) Get(ctx context.Context, provider, accountID, instanceID string) (*inventory.Instance, error) {
	query := fmt.Sprintf(`SELECT %s FROM instances WHERE provider = ? AND account_id = ? AND instance_id = ?`, instanceColumns)

	row := r.db.QueryRowContext(ctx, query, provider, accountID, instanceID)
	inst, err := scanInstance(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("instance")
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to get instance", err)
	}
	return inst, nil
}

func (r *InstanceRepository) List(ctx context.Context, filter inventory.Filter) ([]*inventory.Instance, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if filter.Provider != "" {
		where = append(where, "provider = ?")
		args = append(args, filter.Provider)
	}
	if filter.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, filter.AccountID)
	}
	if filter.State != "" {
		where = append(where, "state = ?")
		args = append(args, filter.State)
	}
	if filter.Name != "" {
		where = append(where, "name LIKE ?")
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.Region != "" {
		where = append(where, "region_or_zone = ?")
		args = append(args, filter.Region)
	}

	query := fmt.Sprintf(`SELECT %s FROM instances WHERE %s ORDER BY account_id, instance_id`,
		instanceColumns, strings.Join(where, " AND "))

	return r.queryInstances(ctx, query, args...)
}

func (r *InstanceRepository) ListByAccount(ctx context.Context, accountID string) ([]*inventory.Instance, error) {
	query := fmt.Sprintf(`SELECT %s FROM instances WHERE account_id = ? ORDER BY instance_id`, instanceColumns)
	return r.queryInstances(ctx, query, accountID)
}

func (r *InstanceRepository) CountByAccount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM instances WHERE account_id = ?", accountID).Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("failed to count instances", err)
	}
	return count, nil
}

func (r *InstanceRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM instances WHERE account_id = ?", accountID)
	if err != nil {
		return errors.DatabaseError("failed to delete instances", err)
	}
	return nil
}

func (r *InstanceRepository) queryInstances(ctx context.Context, query string, args ...interface{}) ([]*inventory.Instance, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("failed to list instances", err)
	}
	defer rows.Close()

	var insts []*inventory.Instance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, errors.DatabaseError("failed to scan instance", err)
		}
		insts = append(insts, inst)
	}
	return insts, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanInstance(s scanner) (*inventory.Instance, error) {
	var inst inventory.Instance
	var tagsJSON string
	err := s.Scan(
		&inst.Provider, &inst.AccountID, &inst.InstanceID, &inst.RegionOrZone, &inst.Name,
		&inst.TypeOrSize, &inst.State, &inst.PublicIP, &inst.PrivateIP, &tagsJSON,
		&inst.FirstSeenAt, &inst.LastSeenAt, &inst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inst.Tags = map[string]string{}
	json.Unmarshal([]byte(tagsJSON), &inst.Tags)
	return &inst, nil
}
