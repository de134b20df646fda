package sqlite

import (
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		provider TEXT NOT NULL,
		name TEXT NOT NULL,
		credential_ref TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'connected',
		instance_count INTEGER NOT NULL DEFAULT 0,
		last_sync_at TIMESTAMP,
		last_error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS instances (
		provider TEXT NOT NULL,
		account_id TEXT NOT NULL,
		instance_id TEXT NOT NULL,
		region_or_zone TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		type_or_size TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT 'unknown',
		public_ip TEXT NOT NULL DEFAULT '',
		private_ip TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '{}',
		first_seen_at TIMESTAMP NOT NULL,
		last_seen_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (provider, account_id, instance_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_instances_account ON instances (account_id)`,
	`CREATE TABLE IF NOT EXISTS recommendations (
		id TEXT PRIMARY KEY,
		rule_id TEXT NOT NULL,
		resource_id TEXT NOT NULL,
		provider TEXT NOT NULL DEFAULT '',
		account_id TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		severity TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		evidence TEXT NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'open',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_key ON recommendations (rule_id, resource_id)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		alert_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		account_id TEXT NOT NULL DEFAULT '',
		resource_id TEXT NOT NULL DEFAULT '',
		payload TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_created ON alerts (created_at)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
		account_id TEXT NOT NULL,
		instance_id TEXT NOT NULL,
		state TEXT NOT NULL,
		PRIMARY KEY (account_id, instance_id)
	)`,
}

// Migrate creates the schema when missing. Statements are idempotent so
// startup can always run it.
func Migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
