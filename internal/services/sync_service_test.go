package services

import (
	"context"
	"testing"
	"time"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/config"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/connector"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/logger"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/testutil"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func testSyncConfig() config.SyncConfig {
	return config.SyncConfig{
		Interval:    time.Minute,
		Workers:     4,
		MaxRetries:  3,
		BackoffBase: time.Millisecond,
	}
}

func seedAccount(t *testing.T, repo *testutil.MockAccountRepository, id, provider string) *account.Account {
	t.Helper()
	acct := &account.Account{
		ID:            id,
		Provider:      provider,
		Name:          "test-" + id,
		CredentialRef: "ref-" + id,
		Status:        account.StatusConnected,
	}
	if err := repo.Create(context.Background(), acct); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return acct
}

func awsRaws() []connector.Raw {
	return []connector.Raw{
		{
			Provider:   account.ProviderAWS,
			InstanceID: "i-001",
			Name:       "web-1",
			TypeOrSize: "t3.medium",
			State:      "running",
			PublicIP:   "54.1.2.3",
			Tags:       map[string]string{"environment": "production"},
		},
		{
			Provider:   account.ProviderAWS,
			InstanceID: "i-002",
			Name:       "worker-1",
			TypeOrSize: "m5.2xlarge",
			State:      "stopped",
			Tags:       map[string]string{"environment": "staging"},
		},
	}
}

func newSyncFixture(t *testing.T, conn connector.Connector) (*SyncService, *testutil.MockAccountRepository, *testutil.MockInstanceRepository) {
	t.Helper()
	accounts := testutil.NewMockAccountRepository()
	instances := testutil.NewMockInstanceRepository()
	registry := &testutil.MockRegistry{Connectors: map[string]connector.Connector{
		account.ProviderAWS: conn,
	}}
	svc := NewSyncService(accounts, instances, registry, testSyncConfig(), testLogger())
	return svc, accounts, instances
}

func TestSyncAccount(t *testing.T) {
	svc, accounts, _ := newSyncFixture(t, &testutil.MockConnector{Raws: awsRaws()})
	acct := seedAccount(t, accounts, "acct-1", account.ProviderAWS)

	result, err := svc.SyncAccount(context.Background(), acct.ID)
	if err != nil {
		t.Fatalf("SyncAccount() error = %v", err)
	}
	if result.InstancesFound != 2 || result.Created != 2 || result.Updated != 0 {
		t.Errorf("SyncAccount() = %+v, want 2 found, 2 created", result)
	}

	got, err := accounts.GetByID(context.Background(), acct.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != account.StatusConnected {
		t.Errorf("account status = %q, want connected", got.Status)
	}
	if got.LastSyncAt == nil {
		t.Error("last_sync_at not set")
	}
	if got.InstanceCount != 2 {
		t.Errorf("instance_count = %d, want 2", got.InstanceCount)
	}
}

func TestSyncAccountIdempotentResync(t *testing.T) {
	svc, accounts, instances := newSyncFixture(t, &testutil.MockConnector{Raws: awsRaws()})
	acct := seedAccount(t, accounts, "acct-1", account.ProviderAWS)
	ctx := context.Background()

	if _, err := svc.SyncAccount(ctx, acct.ID); err != nil {
		t.Fatalf("first SyncAccount() error = %v", err)
	}
	before, err := instances.Get(ctx, account.ProviderAWS, acct.ID, "i-001")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	time.Sleep(2 * time.Millisecond)

	result, err := svc.SyncAccount(ctx, acct.ID)
	if err != nil {
		t.Fatalf("second SyncAccount() error = %v", err)
	}
	if result.Created != 0 || result.Updated != 2 {
		t.Errorf("re-sync = %+v, want 0 created, 2 updated", result)
	}

	after, err := instances.Get(ctx, account.ProviderAWS, acct.ID, "i-001")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !after.LastSeenAt.After(before.LastSeenAt) {
		t.Error("re-sync did not advance last_seen_at")
	}
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("re-sync of unchanged inventory changed updated_at")
	}
	if !after.FirstSeenAt.Equal(before.FirstSeenAt) {
		t.Error("re-sync changed first_seen_at")
	}
	if after.FirstSeenAt.After(after.LastSeenAt) {
		t.Error("first_seen_at after last_seen_at")
	}
	if after.State != before.State || after.Name != before.Name {
		t.Error("re-sync of unchanged inventory changed observation fields")
	}
}

func TestSyncAccountConflictWhileRunning(t *testing.T) {
	svc, accounts, _ := newSyncFixture(t, &testutil.MockConnector{Raws: awsRaws()})
	acct := seedAccount(t, accounts, "acct-1", account.ProviderAWS)

	mu := svc.lockFor(acct.ID)
	mu.Lock()
	defer mu.Unlock()

	_, err := svc.SyncAccount(context.Background(), acct.ID)
	if !errors.IsConflict(err) {
		t.Errorf("SyncAccount() error = %v, want conflict", err)
	}
}

func TestSyncAccountDisabled(t *testing.T) {
	svc, accounts, _ := newSyncFixture(t, &testutil.MockConnector{Raws: awsRaws()})
	acct := seedAccount(t, accounts, "acct-1", account.ProviderAWS)
	acct.Status = account.StatusDisabled
	if err := accounts.Update(context.Background(), acct); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if _, err := svc.SyncAccount(context.Background(), acct.ID); err == nil {
		t.Error("SyncAccount() on disabled account succeeded, want error")
	}
}

func TestSyncAccountRetriesTransient(t *testing.T) {
	conn := &testutil.MockConnector{
		Raws:    awsRaws(),
		Err:     errors.ConnectorTransient(account.ProviderAWS, "rate limited", nil),
		FailFor: 2,
	}
	svc, accounts, _ := newSyncFixture(t, conn)
	acct := seedAccount(t, accounts, "acct-1", account.ProviderAWS)

	result, err := svc.SyncAccount(context.Background(), acct.ID)
	if err != nil {
		t.Fatalf("SyncAccount() error = %v, want success after retries", err)
	}
	if conn.Calls != 3 {
		t.Errorf("connector calls = %d, want 3", conn.Calls)
	}
	if result.InstancesFound != 2 {
		t.Errorf("instances found = %d, want 2", result.InstancesFound)
	}
}

func TestSyncAccountPermanentFailureNoRetry(t *testing.T) {
	conn := &testutil.MockConnector{
		Err: errors.ConnectorPermanent(account.ProviderAWS, "credentials rejected", nil),
	}
	svc, accounts, _ := newSyncFixture(t, conn)
	acct := seedAccount(t, accounts, "acct-1", account.ProviderAWS)

	_, err := svc.SyncAccount(context.Background(), acct.ID)
	if err == nil {
		t.Fatal("SyncAccount() error = nil, want permanent failure")
	}
	if conn.Calls != 1 {
		t.Errorf("connector calls = %d, want 1 (no retry on permanent)", conn.Calls)
	}

	got, _ := accounts.GetByID(context.Background(), acct.ID)
	if got.Status != account.StatusError {
		t.Errorf("account status = %q, want error", got.Status)
	}
	if got.LastError == "" {
		t.Error("last_error not recorded")
	}
}

func TestSyncAllOneFailureDoesNotAbortOthers(t *testing.T) {
	good := &testutil.MockConnector{Raws: awsRaws()}
	bad := &testutil.MockConnector{
		Err: errors.ConnectorPermanent(account.ProviderGCP, "credentials rejected", nil),
	}
	accounts := testutil.NewMockAccountRepository()
	instances := testutil.NewMockInstanceRepository()
	registry := &testutil.MockRegistry{Connectors: map[string]connector.Connector{
		account.ProviderAWS: good,
		account.ProviderGCP: bad,
	}}
	svc := NewSyncService(accounts, instances, registry, testSyncConfig(), testLogger())

	seedAccount(t, accounts, "acct-1", account.ProviderAWS)
	seedAccount(t, accounts, "acct-2", account.ProviderAWS)
	seedAccount(t, accounts, "acct-3", account.ProviderGCP)

	fleet, err := svc.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}
	if fleet.AccountsSynced != 2 {
		t.Errorf("accounts_synced = %d, want 2", fleet.AccountsSynced)
	}
	if len(fleet.Errors) != 1 {
		t.Errorf("errors = %v, want exactly one", fleet.Errors)
	}
	if fleet.Success {
		t.Error("success = true, want false")
	}
}

func TestSyncAllSkipsDisabled(t *testing.T) {
	conn := &testutil.MockConnector{Raws: awsRaws()}
	svc, accounts, _ := newSyncFixture(t, conn)
	seedAccount(t, accounts, "acct-1", account.ProviderAWS)
	disabled := seedAccount(t, accounts, "acct-2", account.ProviderAWS)
	disabled.Status = account.StatusDisabled
	if err := accounts.Update(context.Background(), disabled); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	fleet, err := svc.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}
	if fleet.AccountsSynced != 1 {
		t.Errorf("accounts_synced = %d, want 1", fleet.AccountsSynced)
	}
	if !fleet.Success {
		t.Errorf("success = false, errors = %v", fleet.Errors)
	}
}
