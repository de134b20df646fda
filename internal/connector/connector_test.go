package connector

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
)

func TestNormalizeStates(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		state     string
		wantState string
	}{
		{"aws running", account.ProviderAWS, "running", inventory.StateRunning},
		{"aws shutting down", account.ProviderAWS, "shutting-down", inventory.StatePending},
		{"azure deallocated", account.ProviderAzure, "deallocated", inventory.StateStopped},
		{"azure starting", account.ProviderAzure, "starting", inventory.StatePending},
		{"gcp terminated", account.ProviderGCP, "TERMINATED", inventory.StateTerminated},
		{"gcp suspended", account.ProviderGCP, "SUSPENDED", inventory.StateStopped},
		{"do active", account.ProviderDigitalOcean, "active", inventory.StateRunning},
		{"do archive", account.ProviderDigitalOcean, "archive", inventory.StateTerminated},
		{"unknown state", account.ProviderAWS, "rebooting-oddly", inventory.StateUnknown},
		{"unknown provider", "oraclecloud", "running", inventory.StateUnknown},
		{"empty state", account.ProviderGCP, "", inventory.StateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := Normalize(Raw{Provider: tt.provider, State: tt.state})
			if inst.State != tt.wantState {
				t.Errorf("Normalize() state = %q, want %q", inst.State, tt.wantState)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	inst := Normalize(Raw{
		Provider: account.ProviderDigitalOcean,
		State:    "active",
		Tags:     map[string]string{"app": "web"},
		TagList:  []string{"environment:production", "monitored", "owner:platform"},
	})

	want := map[string]string{
		"app":         "web",
		"environment": "production",
		"monitored":   "true",
		"owner":       "platform",
	}
	if len(inst.Tags) != len(want) {
		t.Fatalf("Normalize() tags = %v, want %v", inst.Tags, want)
	}
	for k, v := range want {
		if inst.Tags[k] != v {
			t.Errorf("Normalize() tags[%q] = %q, want %q", k, inst.Tags[k], v)
		}
	}
}

func TestNormalizeNeverNilTags(t *testing.T) {
	inst := Normalize(Raw{Provider: account.ProviderAWS, State: "running"})
	if inst.Tags == nil {
		t.Error("Normalize() returned nil tags map")
	}
	if inst.FirstSeenAt.After(inst.LastSeenAt) {
		t.Error("Normalize() first_seen_at after last_seen_at")
	}
}

func TestFactoryResolvesProviders(t *testing.T) {
	f := NewFactory()

	for _, p := range []string{
		account.ProviderAWS,
		account.ProviderAzure,
		account.ProviderGCP,
		account.ProviderDigitalOcean,
	} {
		if _, err := f.Connector(p); err != nil {
			t.Errorf("Connector(%q) error = %v, want nil", p, err)
		}
	}

	_, err := f.Connector("heroku")
	if err == nil {
		t.Fatal("Connector(heroku) error = nil, want permanent error")
	}
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeConnectorPermanent {
		t.Errorf("Connector(heroku) error code = %v, want %s", err, errors.ErrCodeConnectorPermanent)
	}
}

func TestFetchIsDeterministicPerAccount(t *testing.T) {
	f := NewFactory()
	ctx := context.Background()

	for _, p := range []string{
		account.ProviderAWS,
		account.ProviderAzure,
		account.ProviderGCP,
		account.ProviderDigitalOcean,
	} {
		t.Run(p, func(t *testing.T) {
			c, err := f.Connector(p)
			if err != nil {
				t.Fatalf("Connector(%q) error = %v", p, err)
			}
			acct := &account.Account{ID: "acct-" + p, Provider: p, CredentialRef: "ref-1"}

			first, err := c.Fetch(ctx, acct)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if len(first) == 0 {
				t.Fatal("Fetch() returned empty inventory")
			}
			second, err := c.Fetch(ctx, acct)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if len(first) != len(second) {
				t.Fatalf("Fetch() count changed between runs: %d vs %d", len(first), len(second))
			}
			for i := range first {
				if first[i].InstanceID != second[i].InstanceID {
					t.Errorf("instance %d id changed: %q vs %q", i, first[i].InstanceID, second[i].InstanceID)
				}
				if first[i].State != second[i].State {
					t.Errorf("instance %d state changed: %q vs %q", i, first[i].State, second[i].State)
				}
			}
		})
	}
}

func TestFetchRejectsBadCredentials(t *testing.T) {
	f := NewFactory()
	c, _ := f.Connector(account.ProviderAWS)

	acct := &account.Account{ID: "acct-1", Provider: account.ProviderAWS, CredentialRef: "invalid-key"}
	_, err := c.Fetch(context.Background(), acct)
	if err == nil {
		t.Fatal("Fetch() error = nil, want permanent credential error")
	}
	if errors.IsTransient(err) {
		t.Error("credential rejection should not be transient")
	}
}
