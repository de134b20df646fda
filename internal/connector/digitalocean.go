package connector

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
)

// DigitalOceanConnector produces Droplet shaped inventories. Droplet
// tags are flat strings, optionally "key:value".
type DigitalOceanConnector struct {
	limiter *rate.Limiter
}

var (
	doRegions = []string{"nyc3", "sfo3", "ams3", "blr1"}
	doSizes   = []string{"s-1vcpu-1gb", "s-2vcpu-4gb", "s-4vcpu-8gb", "g-8vcpu-32gb"}
	doStates  = []string{"active", "active", "active", "off", "new"}
	doRoles   = []string{"droplet", "lb", "runner", "staging"}
)

func (c *DigitalOceanConnector) Fetch(ctx context.Context, acct *account.Account) ([]Raw, error) {
	if err := wait(ctx, c.limiter, account.ProviderDigitalOcean); err != nil {
		return nil, err
	}
	if err := checkCredentials(account.ProviderDigitalOcean, acct); err != nil {
		return nil, err
	}

	r := rngFor(acct.ID)
	n := 2 + r.Intn(4)
	raws := make([]Raw, 0, n)
	for i := 0; i < n; i++ {
		role := pick(r, doRoles)
		env := pick(r, environments)
		tagList := []string{
			"environment:" + env,
			role,
		}
		if r.Intn(2) == 0 {
			tagList = append(tagList,
				fmt.Sprintf("cost_center:do-%d", 10+r.Intn(90)),
				"owner:"+role)
		}
		raw := Raw{
			Provider:     account.ProviderDigitalOcean,
			InstanceID:   fmt.Sprintf("%d", 200000000+r.Intn(100000000)),
			Name:         fmt.Sprintf("%s-%s-%d", role, env, i),
			TypeOrSize:   pick(r, doSizes),
			RegionOrZone: pick(r, doRegions),
			State:        pick(r, doStates),
			PrivateIP:    fmt.Sprintf("10.3.%d.%d", r.Intn(255), 1+r.Intn(254)),
			TagList:      tagList,
		}
		// Droplets are public by default.
		if r.Intn(4) != 0 {
			raw.PublicIP = fmt.Sprintf("164.%d.%d.%d", r.Intn(255), r.Intn(255), 1+r.Intn(254))
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
