package connector

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
)

// AWSConnector produces EC2-shaped inventories.
type AWSConnector struct {
	limiter *rate.Limiter
}

var (
	awsRegions = []string{"us-east-1", "us-west-2", "eu-west-1", "ap-south-1"}
	awsTypes   = []string{"t3.micro", "t3.medium", "m5.large", "m5.2xlarge", "c5.xlarge"}
	awsStates  = []string{"running", "running", "running", "stopped", "pending"}
	awsRoles   = []string{"web", "api", "worker", "db", "cache"}
)

func (c *AWSConnector) Fetch(ctx context.Context, acct *account.Account) ([]Raw, error) {
	if err := wait(ctx, c.limiter, account.ProviderAWS); err != nil {
		return nil, err
	}
	if err := checkCredentials(account.ProviderAWS, acct); err != nil {
		return nil, err
	}

	r := rngFor(acct.ID)
	n := 3 + r.Intn(4)
	raws := make([]Raw, 0, n)
	for i := 0; i < n; i++ {
		role := pick(r, awsRoles)
		env := pick(r, environments)
		raw := Raw{
			Provider:     account.ProviderAWS,
			InstanceID:   fmt.Sprintf("i-0%09x", r.Uint32()),
			Name:         fmt.Sprintf("%s-%s-%d", role, env, i),
			TypeOrSize:   pick(r, awsTypes),
			RegionOrZone: pick(r, awsRegions),
			State:        pick(r, awsStates),
			PrivateIP:    fmt.Sprintf("10.0.%d.%d", r.Intn(255), 1+r.Intn(254)),
			Tags: map[string]string{
				"Name":        fmt.Sprintf("%s-%s-%d", role, env, i),
				"environment": env,
				"team":        role,
			},
		}
		// Roughly a third of the fleet is internet facing.
		if r.Intn(3) == 0 {
			raw.PublicIP = fmt.Sprintf("54.%d.%d.%d", r.Intn(255), r.Intn(255), 1+r.Intn(254))
		}
		// Cost allocation tags are inconsistently applied, as in real fleets.
		if r.Intn(2) == 0 {
			raw.Tags["cost_center"] = fmt.Sprintf("cc-%d", 100+r.Intn(900))
			raw.Tags["owner"] = role + "-team"
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
