package connector

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
)

// AzureConnector produces Virtual Machine shaped inventories. Azure
// reports power states like "deallocated" which normalize to stopped.
type AzureConnector struct {
	limiter *rate.Limiter
}

var (
	azureLocations = []string{"eastus", "westeurope", "centralindia", "uksouth"}
	azureSizes     = []string{"Standard_B2s", "Standard_D2s_v3", "Standard_D8s_v3", "Standard_E4s_v3"}
	azureStates    = []string{"running", "running", "deallocated", "stopped", "starting"}
	azureRoles     = []string{"app", "sql", "gateway", "batch"}
)

func (c *AzureConnector) Fetch(ctx context.Context, acct *account.Account) ([]Raw, error) {
	if err := wait(ctx, c.limiter, account.ProviderAzure); err != nil {
		return nil, err
	}
	if err := checkCredentials(account.ProviderAzure, acct); err != nil {
		return nil, err
	}

	r := rngFor(acct.ID)
	n := 2 + r.Intn(4)
	raws := make([]Raw, 0, n)
	for i := 0; i < n; i++ {
		role := pick(r, azureRoles)
		env := pick(r, environments)
		name := fmt.Sprintf("vm-%s-%s-%02d", role, env, i)
		raw := Raw{
			Provider:     account.ProviderAzure,
			InstanceID:   fmt.Sprintf("%08x-%04x-%04x-vm%02d", r.Uint32(), r.Intn(0xffff), r.Intn(0xffff), i),
			Name:         name,
			TypeOrSize:   pick(r, azureSizes),
			RegionOrZone: pick(r, azureLocations),
			State:        pick(r, azureStates),
			PrivateIP:    fmt.Sprintf("10.1.%d.%d", r.Intn(255), 1+r.Intn(254)),
			Tags: map[string]string{
				"environment":    env,
				"resource_group": fmt.Sprintf("rg-%s", role),
			},
		}
		if r.Intn(4) == 0 {
			raw.PublicIP = fmt.Sprintf("20.%d.%d.%d", r.Intn(255), r.Intn(255), 1+r.Intn(254))
		}
		if r.Intn(2) == 0 {
			raw.Tags["cost_center"] = fmt.Sprintf("azr-%d", 10+r.Intn(90))
			raw.Tags["owner"] = role + "-team"
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
