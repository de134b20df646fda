package services

import (
	"context"
	"testing"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/config"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/connector"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/testutil"
)

func seedInstance(t *testing.T, repo *testutil.MockInstanceRepository, inst *inventory.Instance) *inventory.Instance {
	t.Helper()
	if inst.Tags == nil {
		inst.Tags = map[string]string{}
	}
	if _, _, err := repo.Upsert(context.Background(), inst); err != nil {
		t.Fatalf("seed instance: %v", err)
	}
	return inst
}

func newRecFixture(t *testing.T, autoResolve bool) (*RecommendationService, *testutil.MockAccountRepository, *testutil.MockInstanceRepository, *testutil.MockRecommendationRepository) {
	t.Helper()
	accounts := testutil.NewMockAccountRepository()
	instances := testutil.NewMockInstanceRepository()
	recs := testutil.NewMockRecommendationRepository()
	svc := NewRecommendationService(accounts, instances, recs, config.RulesConfig{AutoResolve: autoResolve}, testLogger())
	return svc, accounts, instances, recs
}

func TestRunCreatesExpectedRecommendations(t *testing.T) {
	svc, accounts, instances, recs := newRecFixture(t, false)
	ctx := context.Background()
	seedAccount(t, accounts, "acct-1", account.ProviderAWS)

	// Stopped production instance with a public IP and no cost tags:
	// fires FINOPS-001, FINOPS-003 and SECOPS-001.
	seedInstance(t, instances, &inventory.Instance{
		Provider:   account.ProviderAWS,
		AccountID:  "acct-1",
		InstanceID: "i-001",
		Name:       "web-1",
		TypeOrSize: "t3.medium",
		State:      inventory.StateStopped,
		PublicIP:   "54.1.2.3",
		Tags:       map[string]string{"environment": "production"},
	})

	generated, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if generated != 3 {
		t.Errorf("Run() generated = %d, want 3", generated)
	}

	byRule := map[string]*recommendation.Recommendation{}
	open, _ := recs.ListOpen(ctx)
	for _, rec := range open {
		byRule[rec.RuleID] = rec
	}
	if byRule["FINOPS-001"] == nil || byRule["FINOPS-001"].Severity != recommendation.SeverityMedium {
		t.Errorf("FINOPS-001 = %+v, want open medium", byRule["FINOPS-001"])
	}
	if byRule["FINOPS-003"] == nil || byRule["FINOPS-003"].Severity != recommendation.SeverityLow {
		t.Errorf("FINOPS-003 = %+v, want open low", byRule["FINOPS-003"])
	}
	if byRule["SECOPS-001"] == nil || byRule["SECOPS-001"].Severity != recommendation.SeverityHigh {
		t.Errorf("SECOPS-001 = %+v, want open high for production", byRule["SECOPS-001"])
	}
}

func TestRunIsIdempotent(t *testing.T) {
	svc, accounts, instances, recs := newRecFixture(t, false)
	ctx := context.Background()
	seedAccount(t, accounts, "acct-1", account.ProviderAWS)
	seedInstance(t, instances, &inventory.Instance{
		Provider:   account.ProviderAWS,
		AccountID:  "acct-1",
		InstanceID: "i-001",
		Name:       "worker-1",
		TypeOrSize: "m5.2xlarge",
		State:      inventory.StateRunning,
		Tags:       map[string]string{"environment": "staging", "cost_center": "cc-1", "owner": "x"},
	})

	first, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if first == 0 {
		t.Fatal("first Run() generated nothing")
	}

	for i := 0; i < 2; i++ {
		n, err := svc.Run(ctx)
		if err != nil {
			t.Fatalf("Run() #%d error = %v", i+2, err)
		}
		if n != 0 {
			t.Errorf("Run() #%d generated = %d, want 0 on unchanged store", i+2, n)
		}
	}

	open, _ := recs.ListOpen(ctx)
	if len(open) != 1 {
		t.Errorf("open recommendations = %d, want 1", len(open))
	}
}

func TestDismissedRecommendationDoesNotReopen(t *testing.T) {
	svc, accounts, instances, recs := newRecFixture(t, false)
	ctx := context.Background()
	seedAccount(t, accounts, "acct-1", account.ProviderAWS)
	seedInstance(t, instances, &inventory.Instance{
		Provider:   account.ProviderAWS,
		AccountID:  "acct-1",
		InstanceID: "i-001",
		Name:       "db-1",
		TypeOrSize: "t3.medium",
		State:      inventory.StateStopped,
		Tags:       map[string]string{"cost_center": "cc-1", "owner": "x"},
	})

	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	open, _ := recs.ListOpen(ctx)
	if len(open) != 1 {
		t.Fatalf("open = %d, want 1", len(open))
	}

	if _, err := svc.UpdateStatus(ctx, open[0].ID, recommendation.StatusDismissed); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	// Same evidence re-fires: must stay dismissed.
	n, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Run() after dismiss generated = %d, want 0", n)
	}
	remaining, _ := recs.ListOpen(ctx)
	if len(remaining) != 0 {
		t.Errorf("open after dismiss = %d, want 0", len(remaining))
	}
}

func TestChangedEvidenceCreatesNewRowAfterDismiss(t *testing.T) {
	svc, accounts, instances, recs := newRecFixture(t, false)
	ctx := context.Background()
	seedAccount(t, accounts, "acct-1", account.ProviderAWS)
	inst := seedInstance(t, instances, &inventory.Instance{
		Provider:   account.ProviderAWS,
		AccountID:  "acct-1",
		InstanceID: "i-001",
		Name:       "api-1",
		TypeOrSize: "t3.medium",
		State:      inventory.StateRunning,
		PublicIP:   "54.1.2.3",
		Tags:       map[string]string{"environment": "staging", "cost_center": "cc-1", "owner": "x"},
	})

	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	open, _ := recs.ListOpen(ctx)
	if len(open) != 1 || open[0].RuleID != "SECOPS-001" {
		t.Fatalf("open = %+v, want one SECOPS-001", open)
	}
	if _, err := svc.UpdateStatus(ctx, open[0].ID, recommendation.StatusDismissed); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	// The exposure changes: a new public IP is new evidence.
	inst.PublicIP = "54.9.9.9"
	if _, _, err := instances.Upsert(ctx, inst); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	n, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Run() generated = %d, want 1 new row for changed evidence", n)
	}
	reopened, _ := recs.ListOpen(ctx)
	if len(reopened) != 1 {
		t.Fatalf("open = %d, want 1", len(reopened))
	}
	if reopened[0].ID == open[0].ID {
		t.Error("changed evidence reused the dismissed row instead of a new one")
	}
	if reopened[0].Evidence["public_ip"] != "54.9.9.9" {
		t.Errorf("evidence public_ip = %q, want 54.9.9.9", reopened[0].Evidence["public_ip"])
	}
}

func TestOpenRowEvidenceRefreshedInPlace(t *testing.T) {
	svc, accounts, instances, recs := newRecFixture(t, false)
	ctx := context.Background()
	seedAccount(t, accounts, "acct-1", account.ProviderAWS)
	inst := seedInstance(t, instances, &inventory.Instance{
		Provider:   account.ProviderAWS,
		AccountID:  "acct-1",
		InstanceID: "i-001",
		Name:       "api-1",
		TypeOrSize: "t3.medium",
		State:      inventory.StateRunning,
		PublicIP:   "54.1.2.3",
		Tags:       map[string]string{"environment": "staging", "cost_center": "cc-1", "owner": "x"},
	})

	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	open, _ := recs.ListOpen(ctx)
	if len(open) != 1 {
		t.Fatalf("open = %d, want 1", len(open))
	}

	inst.PublicIP = "54.9.9.9"
	if _, _, err := instances.Upsert(ctx, inst); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	n, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Run() generated = %d, want 1 evidence refresh", n)
	}
	refreshed, _ := recs.ListOpen(ctx)
	if len(refreshed) != 1 {
		t.Fatalf("open = %d, want 1 (updated in place)", len(refreshed))
	}
	if refreshed[0].ID != open[0].ID {
		t.Error("open row was replaced instead of updated in place")
	}
	if refreshed[0].Evidence["public_ip"] != "54.9.9.9" {
		t.Errorf("evidence public_ip = %q, want 54.9.9.9", refreshed[0].Evidence["public_ip"])
	}
}

func TestAutoResolveClosesStaleRows(t *testing.T) {
	svc, accounts, instances, recs := newRecFixture(t, true)
	ctx := context.Background()
	seedAccount(t, accounts, "acct-1", account.ProviderAWS)
	inst := seedInstance(t, instances, &inventory.Instance{
		Provider:   account.ProviderAWS,
		AccountID:  "acct-1",
		InstanceID: "i-001",
		Name:       "db-1",
		TypeOrSize: "t3.medium",
		State:      inventory.StateStopped,
		Tags:       map[string]string{"cost_center": "cc-1", "owner": "x"},
	})

	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	open, _ := recs.ListOpen(ctx)
	if len(open) != 1 {
		t.Fatalf("open = %d, want 1", len(open))
	}

	inst.State = inventory.StateRunning
	if _, _, err := instances.Upsert(ctx, inst); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	remaining, _ := recs.ListOpen(ctx)
	if len(remaining) != 0 {
		t.Errorf("open after auto-resolve = %d, want 0", len(remaining))
	}
	resolved, _ := recs.GetByID(ctx, open[0].ID)
	if resolved.Status != recommendation.StatusResolved {
		t.Errorf("stale row status = %q, want resolved", resolved.Status)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, _, _, recs := newRecFixture(t, false)
	ctx := context.Background()

	rec := &recommendation.Recommendation{
		ID:         "rec-1",
		RuleID:     "FINOPS-001",
		ResourceID: "aws:acct-1:i-1",
		Category:   recommendation.CategoryFinOps,
		Severity:   recommendation.SeverityMedium,
		Title:      "t",
		Status:     recommendation.StatusOpen,
		Evidence:   map[string]string{},
	}
	if err := recs.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"open to dismissed", recommendation.StatusOpen, recommendation.StatusDismissed, false},
		{"dismissed to open", recommendation.StatusDismissed, recommendation.StatusOpen, false},
		{"open to resolved", recommendation.StatusOpen, recommendation.StatusResolved, false},
		{"resolved to open", recommendation.StatusResolved, recommendation.StatusOpen, false},
		{"open to open", recommendation.StatusOpen, recommendation.StatusOpen, true},
		{"open to bogus", recommendation.StatusOpen, "archived", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec.Status = tt.from
			if err := recs.Update(ctx, rec); err != nil {
				t.Fatalf("seed status: %v", err)
			}
			_, err := svc.UpdateStatus(ctx, rec.ID, tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("UpdateStatus(%s -> %s) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

// End-to-end pass over a synced store: a public production instance
// must come out of sync -> rules with a high severity exposure finding.
func TestSyncThenRulesPipeline(t *testing.T) {
	accounts := testutil.NewMockAccountRepository()
	instances := testutil.NewMockInstanceRepository()
	recs := testutil.NewMockRecommendationRepository()
	registry := &testutil.MockRegistry{Connectors: map[string]connector.Connector{
		account.ProviderAWS: &testutil.MockConnector{Raws: []connector.Raw{
			{
				Provider:   account.ProviderAWS,
				InstanceID: "i-1",
				Name:       "edge-1",
				TypeOrSize: "t3.medium",
				State:      "running",
				PublicIP:   "54.0.0.1",
				Tags:       map[string]string{"environment": "production", "cost_center": "cc", "owner": "o"},
			},
		}},
	}}
	syncSvc := NewSyncService(accounts, instances, registry, testSyncConfig(), testLogger())
	recSvc := NewRecommendationService(accounts, instances, recs, config.RulesConfig{}, testLogger())
	ctx := context.Background()

	acct := seedAccount(t, accounts, "acct-1", account.ProviderAWS)
	if _, err := syncSvc.SyncAccount(ctx, acct.ID); err != nil {
		t.Fatalf("SyncAccount() error = %v", err)
	}
	if _, err := recSvc.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	open, _ := recs.ListOpen(ctx)
	if len(open) != 1 {
		t.Fatalf("open = %d, want exactly the exposure finding", len(open))
	}
	rec := open[0]
	if rec.RuleID != "SECOPS-001" || rec.Severity != recommendation.SeverityHigh {
		t.Errorf("finding = %s/%s, want SECOPS-001/high", rec.RuleID, rec.Severity)
	}
	if rec.ResourceID != "aws:acct-1:i-1" {
		t.Errorf("resource_id = %q, want aws:acct-1:i-1", rec.ResourceID)
	}
}
