package sqlite_test

import (
	"context"
	"testing"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/repository/sqlite"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/testutil"
)

func testRecommendation(id, status string) *recommendation.Recommendation {
	return &recommendation.Recommendation{
		ID:          id,
		RuleID:      "FINOPS-001",
		ResourceID:  "aws:acct-1:i-001",
		Provider:    "aws",
		AccountID:   "acct-1",
		Category:    "finops",
		Severity:    "medium",
		Title:       "Stopped instance still provisioned",
		Description: "Instance has been stopped but remains provisioned",
		Evidence:    map[string]string{"state": "stopped"},
		Status:      status,
	}
}

func TestRecommendationKeyLookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := sqlite.NewRecommendationRepository(db)
	ctx := context.Background()

	// No row yet: both lookups return nil without error.
	open, err := repo.GetOpenByKey(ctx, "FINOPS-001", "aws:acct-1:i-001")
	if err != nil {
		t.Fatalf("GetOpenByKey() error = %v", err)
	}
	if open != nil {
		t.Error("expected nil for missing key")
	}

	if err := repo.Create(ctx, testRecommendation("rec-1", "dismissed")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A dismissed row is invisible to the open lookup but is the latest.
	open, err = repo.GetOpenByKey(ctx, "FINOPS-001", "aws:acct-1:i-001")
	if err != nil {
		t.Fatalf("GetOpenByKey() error = %v", err)
	}
	if open != nil {
		t.Error("GetOpenByKey should not return a dismissed row")
	}

	latest, err := repo.GetLatestByKey(ctx, "FINOPS-001", "aws:acct-1:i-001")
	if err != nil {
		t.Fatalf("GetLatestByKey() error = %v", err)
	}
	if latest == nil || latest.ID != "rec-1" {
		t.Fatalf("GetLatestByKey() = %+v, want rec-1", latest)
	}

	if err := repo.Create(ctx, testRecommendation("rec-2", "open")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	open, err = repo.GetOpenByKey(ctx, "FINOPS-001", "aws:acct-1:i-001")
	if err != nil {
		t.Fatalf("GetOpenByKey() error = %v", err)
	}
	if open == nil || open.ID != "rec-2" {
		t.Fatalf("GetOpenByKey() = %+v, want rec-2", open)
	}
}

func TestRecommendationCountByStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := sqlite.NewRecommendationRepository(db)
	ctx := context.Background()

	for i, status := range []string{"open", "open", "dismissed"} {
		rec := testRecommendation("", status)
		rec.ID = string(rune('a' + i))
		rec.ResourceID = rec.ResourceID + rec.ID
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus() error = %v", err)
	}
	if counts["open"] != 2 {
		t.Errorf("open count = %d, want 2", counts["open"])
	}
	if counts["dismissed"] != 1 {
		t.Errorf("dismissed count = %d, want 1", counts["dismissed"])
	}
}
