package connector

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
)

// GCPConnector produces Compute Engine shaped inventories. GCP reports
// upper-case statuses like "TERMINATED".
type GCPConnector struct {
	limiter *rate.Limiter
}

var (
	gcpZones  = []string{"us-central1-a", "us-east1-b", "europe-west1-c", "asia-south1-a"}
	gcpTypes  = []string{"e2-micro", "e2-medium", "n2-standard-4", "n2-standard-8"}
	gcpStates = []string{"RUNNING", "RUNNING", "RUNNING", "TERMINATED", "SUSPENDED", "STAGING"}
	gcpRoles  = []string{"frontend", "backend", "etl", "ml"}
)

func (c *GCPConnector) Fetch(ctx context.Context, acct *account.Account) ([]Raw, error) {
	if err := wait(ctx, c.limiter, account.ProviderGCP); err != nil {
		return nil, err
	}
	if err := checkCredentials(account.ProviderGCP, acct); err != nil {
		return nil, err
	}

	r := rngFor(acct.ID)
	n := 2 + r.Intn(5)
	raws := make([]Raw, 0, n)
	for i := 0; i < n; i++ {
		role := pick(r, gcpRoles)
		env := pick(r, environments)
		raw := Raw{
			Provider:     account.ProviderGCP,
			InstanceID:   fmt.Sprintf("%d", 1000000000000000000+int64(r.Uint32())*1000+int64(i)),
			Name:         fmt.Sprintf("%s-%s-%d", role, env, i),
			TypeOrSize:   pick(r, gcpTypes),
			RegionOrZone: pick(r, gcpZones),
			State:        pick(r, gcpStates),
			PrivateIP:    fmt.Sprintf("10.2.%d.%d", r.Intn(255), 1+r.Intn(254)),
			Tags: map[string]string{
				"environment": env,
				"app":         role,
			},
		}
		if r.Intn(3) == 0 {
			raw.PublicIP = fmt.Sprintf("34.%d.%d.%d", r.Intn(255), r.Intn(255), 1+r.Intn(254))
		}
		if r.Intn(2) == 0 {
			raw.Tags["cost_center"] = fmt.Sprintf("gcp-%d", 10+r.Intn(90))
			raw.Tags["owner"] = role
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
