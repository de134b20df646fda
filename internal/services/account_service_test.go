package services

import (
	"context"
	"testing"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/testutil"
)

func newAccountFixture(t *testing.T) (*AccountService, *testutil.MockAccountRepository, *testutil.MockInstanceRepository, *testutil.MockRecommendationRepository) {
	t.Helper()
	accounts := testutil.NewMockAccountRepository()
	instances := testutil.NewMockInstanceRepository()
	recs := testutil.NewMockRecommendationRepository()
	svc := NewAccountService(accounts, instances, recs, testLogger())
	return svc, accounts, instances, recs
}

func TestAccountCreate(t *testing.T) {
	svc, _, _, _ := newAccountFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   CreateInput
		wantErr bool
	}{
		{"aws account", CreateInput{Provider: "aws", Name: "prod", CredentialRef: "vault://aws"}, false},
		{"do account", CreateInput{Provider: "do", Name: "droplets"}, false},
		{"unknown provider", CreateInput{Provider: "heroku", Name: "x"}, true},
		{"missing name", CreateInput{Provider: "gcp"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct, err := svc.Create(ctx, tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if acct.ID == "" {
				t.Error("Create() did not assign an ID")
			}
			if acct.Status != account.StatusConnected {
				t.Errorf("new account status = %q, want connected", acct.Status)
			}
		})
	}
}

func TestAccountDeleteCascades(t *testing.T) {
	svc, accounts, instances, recs := newAccountFixture(t)
	ctx := context.Background()

	acct := seedAccount(t, accounts, "acct-1", account.ProviderAWS)
	seedInstance(t, instances, &inventory.Instance{
		Provider:   account.ProviderAWS,
		AccountID:  acct.ID,
		InstanceID: "i-1",
		State:      inventory.StateRunning,
	})
	seedRecommendation(t, recs, "rec-open", "FINOPS-001", "aws:acct-1:i-1", recommendation.CategoryFinOps, "medium", recommendation.StatusOpen)
	openRec, _ := recs.GetByID(ctx, "rec-open")
	openRec.AccountID = acct.ID
	if err := recs.Update(ctx, openRec); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.Delete(ctx, acct.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := accounts.GetByID(ctx, acct.ID); !errors.IsNotFound(err) {
		t.Error("account still present after delete")
	}
	insts, _ := instances.ListByAccount(ctx, acct.ID)
	if len(insts) != 0 {
		t.Errorf("instances after delete = %d, want 0", len(insts))
	}
	open, _ := recs.ListOpen(ctx)
	if len(open) != 0 {
		t.Errorf("open recommendations after delete = %d, want 0", len(open))
	}
}

func TestAccountDeleteNotFound(t *testing.T) {
	svc, _, _, _ := newAccountFixture(t)
	if err := svc.Delete(context.Background(), "missing"); !errors.IsNotFound(err) {
		t.Errorf("Delete() error = %v, want not found", err)
	}
}

func TestAccountEnableDisable(t *testing.T) {
	svc, accounts, _, _ := newAccountFixture(t)
	ctx := context.Background()
	acct := seedAccount(t, accounts, "acct-1", account.ProviderAWS)

	disabled, err := svc.Disable(ctx, acct.ID)
	if err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	if disabled.Status != account.StatusDisabled {
		t.Errorf("status = %q, want disabled", disabled.Status)
	}

	enabled, err := svc.Enable(ctx, acct.ID)
	if err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if enabled.Status != account.StatusConnected {
		t.Errorf("status = %q, want connected", enabled.Status)
	}

	// Enabling an already connected account is a no-op.
	again, err := svc.Enable(ctx, acct.ID)
	if err != nil {
		t.Fatalf("Enable() twice error = %v", err)
	}
	if again.Status != account.StatusConnected {
		t.Errorf("status = %q, want connected", again.Status)
	}
}

func TestAccountUpdate(t *testing.T) {
	svc, accounts, _, _ := newAccountFixture(t)
	ctx := context.Background()
	acct := seedAccount(t, accounts, "acct-1", account.ProviderAWS)

	newName := "renamed"
	updated, err := svc.Update(ctx, acct.ID, UpdateInput{Name: &newName})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "renamed" {
		t.Errorf("name = %q, want renamed", updated.Name)
	}

	empty := ""
	if _, err := svc.Update(ctx, acct.ID, UpdateInput{Name: &empty}); err == nil {
		t.Error("Update() with empty name succeeded, want validation error")
	}
}
