package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/config"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/alert"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/testutil"
)

func newAnomalyFixture(t *testing.T) (*AnomalyService, *testutil.MockAccountRepository, *testutil.MockInstanceRepository, *testutil.MockAlertRepository) {
	t.Helper()
	accounts := testutil.NewMockAccountRepository()
	instances := testutil.NewMockInstanceRepository()
	snapshots := testutil.NewMockSnapshotRepository()
	alerts := testutil.NewMockAlertRepository()
	svc := NewAnomalyService(accounts, instances, snapshots, alerts, config.AnomalyConfig{CountThreshold: 5}, testLogger())
	return svc, accounts, instances, alerts
}

func countByType(alerts []*alert.Alert, alertType string) int {
	n := 0
	for _, a := range alerts {
		if a.AlertType == alertType {
			n++
		}
	}
	return n
}

func TestDetectStateTransition(t *testing.T) {
	svc, accounts, instances, _ := newAnomalyFixture(t)
	ctx := context.Background()
	seedAccount(t, accounts, "acct-1", account.ProviderAWS)

	inst := seedInstance(t, instances, &inventory.Instance{
		Provider:   account.ProviderAWS,
		AccountID:  "acct-1",
		InstanceID: "i-001",
		State:      inventory.StateRunning,
	})

	// First pass establishes the baseline snapshot.
	first, err := svc.Detect(ctx)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if countByType(first, alert.TypeStateTransition) != 0 {
		t.Errorf("baseline pass emitted state transition alerts: %v", first)
	}

	inst.State = inventory.StateStopped
	if _, _, err := instances.Upsert(ctx, inst); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	second, err := svc.Detect(ctx)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got := countByType(second, alert.TypeStateTransition); got != 1 {
		t.Errorf("state transition alerts = %d, want exactly 1", got)
	}
	for _, a := range second {
		if a.AlertType == alert.TypeStateTransition {
			if a.Payload["from"] != inventory.StateRunning || a.Payload["to"] != inventory.StateStopped {
				t.Errorf("transition payload = %v, want running -> stopped", a.Payload)
			}
			if a.Severity != "medium" {
				t.Errorf("transition severity = %q, want medium", a.Severity)
			}
		}
	}

	// Third pass with no further change stays quiet.
	third, err := svc.Detect(ctx)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got := countByType(third, alert.TypeStateTransition); got != 0 {
		t.Errorf("unchanged pass emitted %d transition alerts, want 0", got)
	}
}

func TestDetectInventoryCountChange(t *testing.T) {
	svc, accounts, instances, _ := newAnomalyFixture(t)
	ctx := context.Background()
	seedAccount(t, accounts, "acct-1", account.ProviderAWS)

	seedInstance(t, instances, &inventory.Instance{
		Provider:   account.ProviderAWS,
		AccountID:  "acct-1",
		InstanceID: "i-000",
		State:      inventory.StateRunning,
	})
	if _, err := svc.Detect(ctx); err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	// Grow the fleet well past the threshold of 5.
	for i := 1; i <= 7; i++ {
		seedInstance(t, instances, &inventory.Instance{
			Provider:   account.ProviderAWS,
			AccountID:  "acct-1",
			InstanceID: fmt.Sprintf("i-%03d", i),
			State:      inventory.StateRunning,
		})
	}

	alerts, err := svc.Detect(ctx)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got := countByType(alerts, alert.TypeInventoryCountChange); got != 1 {
		t.Errorf("count change alerts = %d, want 1", got)
	}
}

func TestDetectHighPublicExposure(t *testing.T) {
	svc, accounts, instances, _ := newAnomalyFixture(t)
	ctx := context.Background()
	seedAccount(t, accounts, "acct-1", account.ProviderAWS)

	for i := 0; i < 3; i++ {
		seedInstance(t, instances, &inventory.Instance{
			Provider:   account.ProviderAWS,
			AccountID:  "acct-1",
			InstanceID: fmt.Sprintf("i-pub-%d", i),
			State:      inventory.StateRunning,
			PublicIP:   fmt.Sprintf("54.0.0.%d", i+1),
		})
	}
	seedInstance(t, instances, &inventory.Instance{
		Provider:   account.ProviderAWS,
		AccountID:  "acct-1",
		InstanceID: "i-priv",
		State:      inventory.StateRunning,
		PrivateIP:  "10.0.0.1",
	})

	alerts, err := svc.Detect(ctx)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got := countByType(alerts, alert.TypeHighPublicExposure); got != 1 {
		t.Errorf("exposure alerts = %d, want 1 (3 of 4 public)", got)
	}
}

func TestDetectNoExposureAtOrBelowHalf(t *testing.T) {
	svc, accounts, instances, _ := newAnomalyFixture(t)
	ctx := context.Background()
	seedAccount(t, accounts, "acct-1", account.ProviderAWS)

	seedInstance(t, instances, &inventory.Instance{
		Provider:   account.ProviderAWS,
		AccountID:  "acct-1",
		InstanceID: "i-pub",
		State:      inventory.StateRunning,
		PublicIP:   "54.0.0.1",
	})
	seedInstance(t, instances, &inventory.Instance{
		Provider:   account.ProviderAWS,
		AccountID:  "acct-1",
		InstanceID: "i-priv",
		State:      inventory.StateRunning,
	})

	alerts, err := svc.Detect(ctx)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got := countByType(alerts, alert.TypeHighPublicExposure); got != 0 {
		t.Errorf("exposure alerts = %d, want 0 at exactly half", got)
	}
}

func TestIngest(t *testing.T) {
	svc, _, _, alerts := newAnomalyFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		alert   *alert.Alert
		wantErr bool
	}{
		{
			name: "valid external alert",
			alert: &alert.Alert{
				Source:    "pagerduty",
				AlertType: "cpu_saturation",
				Severity:  "high",
			},
			wantErr: false,
		},
		{
			name:    "missing source",
			alert:   &alert.Alert{AlertType: "x", Severity: "high"},
			wantErr: true,
		},
		{
			name:    "detector source reserved",
			alert:   &alert.Alert{Source: alert.SourceDetector, AlertType: "x", Severity: "high"},
			wantErr: true,
		},
		{
			name:    "missing type",
			alert:   &alert.Alert{Source: "grafana", Severity: "high"},
			wantErr: true,
		},
		{
			name:    "missing severity",
			alert:   &alert.Alert{Source: "grafana", AlertType: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Ingest(ctx, tt.alert)
			if (err != nil) != tt.wantErr {
				t.Errorf("Ingest() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got.ID == "" {
				t.Error("Ingest() did not assign an ID")
			}
		})
	}

	stored, _ := alerts.Count(ctx)
	if stored != 1 {
		t.Errorf("stored alerts = %d, want 1", stored)
	}
}
