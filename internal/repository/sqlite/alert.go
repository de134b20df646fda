package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/alert"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
)

type AlertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) alert.Repository {
	return &AlertRepository{db: db}
}

const alertColumns = `id, source, alert_type, severity, account_id, resource_id, payload, created_at`

func (r *AlertRepository) Create(ctx context.Context, a *alert.Alert) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	payloadJSON, _ := json.Marshal(a.Payload)

	query := fmt.Sprintf(`INSERT INTO alerts (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, alertColumns)
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Source, a.AlertType, a.Severity, a.AccountID, a.ResourceID,
		string(payloadJSON), a.CreatedAt,
	)
	if err != nil {
		return errors.DatabaseError("failed to create alert", err)
	}
	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id string) (*alert.Alert, error) {
	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE id = ?`, alertColumns)

	a, err := scanAlert(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("alert")
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to get alert", err)
	}
	return a, nil
}

func (r *AlertRepository) List(ctx context.Context, filter alert.Filter) ([]*alert.Alert, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if filter.AlertType != "" {
		where = append(where, "alert_type = ?")
		args = append(args, filter.AlertType)
	}
	if filter.Severity != "" {
		where = append(where, "severity = ?")
		args = append(args, filter.Severity)
	}

	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE %s ORDER BY created_at DESC`,
		alertColumns, strings.Join(where, " AND "))

	return r.queryAlerts(ctx, query, args...)
}

func (r *AlertRepository) ListSince(ctx context.Context, since time.Time) ([]*alert.Alert, error) {
	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE created_at >= ? ORDER BY created_at DESC`, alertColumns)
	return r.queryAlerts(ctx, query, since)
}

func (r *AlertRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM alerts").Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("failed to count alerts", err)
	}
	return count, nil
}

func (r *AlertRepository) queryAlerts(ctx context.Context, query string, args ...interface{}) ([]*alert.Alert, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("failed to list alerts", err)
	}
	defer rows.Close()

	var alerts []*alert.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, errors.DatabaseError("failed to scan alert", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func scanAlert(s scanner) (*alert.Alert, error) {
	var a alert.Alert
	var payloadJSON string
	err := s.Scan(
		&a.ID, &a.Source, &a.AlertType, &a.Severity, &a.AccountID, &a.ResourceID,
		&payloadJSON, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Payload = map[string]string{}
	json.Unmarshal([]byte(payloadJSON), &a.Payload)
	return &a, nil
}
