package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
)

// Rule evaluates one instance against a cost or security policy
type Rule struct {
	ID       string
	Category string
	Title    string
	Evaluate func(inst *inventory.Instance) (severity, description string, evidence map[string]string, matched bool)
}

// instance sizes considered oversized outside production
var largeTypes = map[string]bool{
	"m5.2xlarge":      true,
	"c5.xlarge":       true,
	"Standard_D8s_v3": true,
	"Standard_E4s_v3": true,
	"n2-standard-4":   true,
	"n2-standard-8":   true,
	"g-8vcpu-32gb":    true,
	"s-4vcpu-8gb":     true,
}

// tags every instance must carry for cost allocation
var costTags = []string{"cost_center", "owner"}

// Rules returns the fixed rule table in evaluation order.
func Rules() []Rule {
	return []Rule{
		{
			ID:       "FINOPS-001",
			Category: recommendation.CategoryFinOps,
			Title:    "Stopped instance still incurring storage cost",
			Evaluate: func(inst *inventory.Instance) (string, string, map[string]string, bool) {
				if inst.State != inventory.StateStopped {
					return "", "", nil, false
				}
				desc := fmt.Sprintf("Instance %s is stopped but its storage continues to bill. Terminate it or archive its volumes.", inst.Name)
				return recommendation.SeverityMedium, desc, map[string]string{
					"state":        inst.State,
					"type_or_size": inst.TypeOrSize,
				}, true
			},
		},
		{
			ID:       "FINOPS-002",
			Category: recommendation.CategoryFinOps,
			Title:    "Oversized instance outside production",
			Evaluate: func(inst *inventory.Instance) (string, string, map[string]string, bool) {
				if inst.State == inventory.StateTerminated {
					return "", "", nil, false
				}
				env := inst.Tags["environment"]
				if env == "production" || !largeTypes[inst.TypeOrSize] {
					return "", "", nil, false
				}
				desc := fmt.Sprintf("Instance %s runs a large type (%s) in %q. Downsize it or move the workload to production.", inst.Name, inst.TypeOrSize, env)
				return recommendation.SeverityLow, desc, map[string]string{
					"type_or_size": inst.TypeOrSize,
					"environment":  env,
				}, true
			},
		},
		{
			ID:       "FINOPS-003",
			Category: recommendation.CategoryFinOps,
			Title:    "Missing cost allocation tags",
			Evaluate: func(inst *inventory.Instance) (string, string, map[string]string, bool) {
				if inst.State == inventory.StateTerminated {
					return "", "", nil, false
				}
				var missing []string
				for _, tag := range costTags {
					if inst.Tags[tag] == "" {
						missing = append(missing, tag)
					}
				}
				if len(missing) == 0 {
					return "", "", nil, false
				}
				sort.Strings(missing)
				desc := fmt.Sprintf("Instance %s is missing cost allocation tags: %s.", inst.Name, strings.Join(missing, ", "))
				return recommendation.SeverityLow, desc, map[string]string{
					"missing_tags": strings.Join(missing, ","),
				}, true
			},
		},
		{
			ID:       "SECOPS-001",
			Category: recommendation.CategorySecOps,
			Title:    "Instance exposed to the internet",
			Evaluate: func(inst *inventory.Instance) (string, string, map[string]string, bool) {
				if inst.PublicIP == "" || inst.State == inventory.StateTerminated {
					return "", "", nil, false
				}
				severity := recommendation.SeverityMedium
				env := inst.Tags["environment"]
				if env == "production" {
					severity = recommendation.SeverityHigh
				}
				desc := fmt.Sprintf("Instance %s has public IP %s. Verify security group and firewall rules.", inst.Name, inst.PublicIP)
				return severity, desc, map[string]string{
					"public_ip":   inst.PublicIP,
					"environment": env,
				}, true
			},
		},
	}
}
