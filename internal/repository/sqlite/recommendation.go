package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
)

type RecommendationRepository struct {
	db *sql.DB
}

func NewRecommendationRepository(db *sql.DB) recommendation.Repository {
	return &RecommendationRepository{db: db}
}

const recommendationColumns = `id, rule_id, resource_id, provider, account_id, category, severity, title, description, evidence, status, created_at, updated_at`

func (r *RecommendationRepository) Create(ctx context.Context, rec *recommendation.Recommendation) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	evidenceJSON, _ := json.Marshal(rec.Evidence)

	query := fmt.Sprintf(`INSERT INTO recommendations (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, recommendationColumns)
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.RuleID, rec.ResourceID, rec.Provider, rec.AccountID, rec.Category,
		rec.Severity, rec.Title, rec.Description, string(evidenceJSON), rec.Status,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return errors.DatabaseError("failed to create recommendation", err)
	}
	return nil
}

func (r *RecommendationRepository) GetByID(ctx context.Context, id string) (*recommendation.Recommendation, error) {
	query := fmt.Sprintf(`SELECT %s FROM recommendations WHERE id = ?`, recommendationColumns)

	rec, err := scanRecommendation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("recommendation")
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to get recommendation", err)
	}
	return rec, nil
}

func (r *RecommendationRepository) GetOpenByKey(ctx context.Context, ruleID, resourceID string) (*recommendation.Recommendation, error) {
	query := fmt.Sprintf(`SELECT %s FROM recommendations WHERE rule_id = ? AND resource_id = ? AND status = 'open'`, recommendationColumns)

	rec, err := scanRecommendation(r.db.QueryRowContext(ctx, query, ruleID, resourceID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to get open recommendation", err)
	}
	return rec, nil
}

func (r *RecommendationRepository) GetLatestByKey(ctx context.Context, ruleID, resourceID string) (*recommendation.Recommendation, error) {
	query := fmt.Sprintf(`SELECT %s FROM recommendations WHERE rule_id = ? AND resource_id = ? ORDER BY updated_at DESC, created_at DESC LIMIT 1`, recommendationColumns)

	rec, err := scanRecommendation(r.db.QueryRowContext(ctx, query, ruleID, resourceID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to get latest recommendation", err)
	}
	return rec, nil
}

func (r *RecommendationRepository) Update(ctx context.Context, rec *recommendation.Recommendation) error {
	rec.UpdatedAt = time.Now().UTC()
	evidenceJSON, _ := json.Marshal(rec.Evidence)

	query := `
		UPDATE recommendations SET severity = ?, title = ?, description = ?, evidence = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		rec.Severity, rec.Title, rec.Description, string(evidenceJSON), rec.Status, rec.UpdatedAt, rec.ID,
	)
	if err != nil {
		return errors.DatabaseError("failed to update recommendation", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("recommendation")
	}
	return nil
}

func (r *RecommendationRepository) List(ctx context.Context, filter recommendation.Filter) ([]*recommendation.Recommendation, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Severity != "" {
		where = append(where, "severity = ?")
		args = append(args, filter.Severity)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, filter.AccountID)
	}

	query := fmt.Sprintf(`SELECT %s FROM recommendations WHERE %s ORDER BY updated_at DESC`,
		recommendationColumns, strings.Join(where, " AND "))

	return r.queryRecommendations(ctx, query, args...)
}

func (r *RecommendationRepository) ListOpen(ctx context.Context) ([]*recommendation.Recommendation, error) {
	query := fmt.Sprintf(`SELECT %s FROM recommendations WHERE status = 'open' ORDER BY updated_at DESC`, recommendationColumns)
	return r.queryRecommendations(ctx, query)
}

func (r *RecommendationRepository) DeleteOpenByAccount(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM recommendations WHERE account_id = ? AND status = 'open'", accountID)
	if err != nil {
		return errors.DatabaseError("failed to delete recommendations", err)
	}
	return nil
}

func (r *RecommendationRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM recommendations GROUP BY status")
	if err != nil {
		return nil, errors.DatabaseError("failed to count recommendations", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.DatabaseError("failed to scan count", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *RecommendationRepository) queryRecommendations(ctx context.Context, query string, args ...interface{}) ([]*recommendation.Recommendation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("failed to list recommendations", err)
	}
	defer rows.Close()

	var recs []*recommendation.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, errors.DatabaseError("failed to scan recommendation", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanRecommendation(s scanner) (*recommendation.Recommendation, error) {
	var rec recommendation.Recommendation
	var evidenceJSON string
	err := s.Scan(
		&rec.ID, &rec.RuleID, &rec.ResourceID, &rec.Provider, &rec.AccountID, &rec.Category,
		&rec.Severity, &rec.Title, &rec.Description, &evidenceJSON, &rec.Status,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Evidence = map[string]string{}
	json.Unmarshal([]byte(evidenceJSON), &rec.Evidence)
	return &rec, nil
}
