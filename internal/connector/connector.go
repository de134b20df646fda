// Package connector fetches raw instance inventories from cloud
// providers and normalizes them into the common instance shape.
package connector

import (
	"context"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
)

// Raw is a provider-shaped instance record as returned by a connector,
// before normalization. State carries the provider's own vocabulary.
type Raw struct {
	Provider     string
	InstanceID   string
	Name         string
	TypeOrSize   string
	RegionOrZone string
	State        string
	PublicIP     string
	PrivateIP    string
	Tags         map[string]string
	// TagList holds DigitalOcean-style flat tags ("k:v" or bare).
	TagList []string
}

// Connector fetches the current instance inventory for one account.
type Connector interface {
	Fetch(ctx context.Context, acct *account.Account) ([]Raw, error)
}

// Registry resolves a provider name to its connector.
type Registry interface {
	Connector(provider string) (Connector, error)
}

// Per-provider state vocabularies mapped to the common state set.
var stateMaps = map[string]map[string]string{
	account.ProviderAWS: {
		"running":       inventory.StateRunning,
		"stopped":       inventory.StateStopped,
		"pending":       inventory.StatePending,
		"stopping":      inventory.StatePending,
		"shutting-down": inventory.StatePending,
		"terminated":    inventory.StateTerminated,
	},
	account.ProviderAzure: {
		"running":      inventory.StateRunning,
		"deallocated":  inventory.StateStopped,
		"stopped":      inventory.StateStopped,
		"starting":     inventory.StatePending,
		"stopping":     inventory.StatePending,
		"deallocating": inventory.StatePending,
	},
	account.ProviderGCP: {
		"RUNNING":      inventory.StateRunning,
		"TERMINATED":   inventory.StateTerminated,
		"STOPPED":      inventory.StateStopped,
		"STAGING":      inventory.StatePending,
		"PROVISIONING": inventory.StatePending,
		"SUSPENDING":   inventory.StatePending,
		"SUSPENDED":    inventory.StateStopped,
	},
	account.ProviderDigitalOcean: {
		"active":  inventory.StateRunning,
		"off":     inventory.StateStopped,
		"new":     inventory.StatePending,
		"archive": inventory.StateTerminated,
	},
}

// Normalize converts a raw provider record into a normalized instance.
// It is total: unknown providers or states and missing fields come out
// as explicit zero values, never an error.
func Normalize(raw Raw) inventory.Instance {
	state := inventory.StateUnknown
	if m, ok := stateMaps[raw.Provider]; ok {
		if s, ok := m[raw.State]; ok {
			state = s
		}
	}

	tags := make(map[string]string, len(raw.Tags)+len(raw.TagList))
	for k, v := range raw.Tags {
		tags[k] = v
	}
	for _, t := range raw.TagList {
		if k, v, found := strings.Cut(t, ":"); found {
			tags[k] = v
		} else if t != "" {
			tags[t] = "true"
		}
	}

	now := time.Now().UTC()
	return inventory.Instance{
		Provider:     raw.Provider,
		AccountID:    "", // set by the orchestrator
		InstanceID:   raw.InstanceID,
		RegionOrZone: raw.RegionOrZone,
		Name:         raw.Name,
		TypeOrSize:   raw.TypeOrSize,
		State:        state,
		PublicIP:     raw.PublicIP,
		PrivateIP:    raw.PrivateIP,
		Tags:         tags,
		FirstSeenAt:  now,
		LastSeenAt:   now,
	}
}

// Factory builds connectors sharing one fetch rate limiter.
type Factory struct {
	limiter *rate.Limiter
}

// NewFactory creates a connector factory. All connectors share the
// limiter so a fleet sync cannot hammer provider APIs.
func NewFactory() *Factory {
	return &Factory{
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// Connector returns the connector for a provider. Unknown providers are
// a permanent error.
func (f *Factory) Connector(provider string) (Connector, error) {
	switch provider {
	case account.ProviderAWS:
		return &AWSConnector{limiter: f.limiter}, nil
	case account.ProviderAzure:
		return &AzureConnector{limiter: f.limiter}, nil
	case account.ProviderGCP:
		return &GCPConnector{limiter: f.limiter}, nil
	case account.ProviderDigitalOcean:
		return &DigitalOceanConnector{limiter: f.limiter}, nil
	}
	return nil, errors.ConnectorPermanent(provider, "unknown provider", nil)
}

// checkCredentials simulates provider-side credential validation. A
// credential ref containing "invalid" is rejected the way a real
// provider rejects revoked keys.
func checkCredentials(provider string, acct *account.Account) error {
	if strings.Contains(acct.CredentialRef, "invalid") {
		return errors.ConnectorPermanent(provider, "credentials rejected", nil)
	}
	return nil
}

// wait applies the shared throttle before a fetch.
func wait(ctx context.Context, limiter *rate.Limiter, provider string) error {
	if err := limiter.Wait(ctx); err != nil {
		return errors.ConnectorTransient(provider, "fetch throttled", err)
	}
	return nil
}

// rngFor returns a deterministic source per account so simulated
// inventories are stable across syncs.
func rngFor(accountID string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(accountID))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// pick selects a deterministic element from options.
func pick(r *rand.Rand, options []string) string {
	return options[r.Intn(len(options))]
}

// environments weights production ahead of the lower tiers.
var environments = []string{"production", "production", "staging", "dev"}
