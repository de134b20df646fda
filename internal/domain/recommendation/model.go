package recommendation

import "time"

// Recommendation represents a rule finding against a resource. At most
// one open row exists per (rule_id, resource_id).
type Recommendation struct {
	ID          string            `json:"id"`
	RuleID      string            `json:"rule_id"`
	ResourceID  string            `json:"resource_id"`
	Provider    string            `json:"provider"`
	AccountID   string            `json:"account_id"`
	Category    string            `json:"category"`
	Severity    string            `json:"severity"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Evidence    map[string]string `json:"evidence"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at,omitempty"`
}

// Categories
const (
	CategoryFinOps = "finops"
	CategorySecOps = "secops"
)

// Severities
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Status
const (
	StatusOpen      = "open"
	StatusDismissed = "dismissed"
	StatusResolved  = "resolved"
)

// CanTransition reports whether a recommendation may move between
// statuses. Open rows can be dismissed or resolved; closed rows can be
// reopened by hand.
func CanTransition(from, to string) bool {
	switch from {
	case StatusOpen:
		return to == StatusDismissed || to == StatusResolved
	case StatusDismissed, StatusResolved:
		return to == StatusOpen
	}
	return false
}

// SeverityRank orders severities for comparison and filtering.
func SeverityRank(s string) int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case "critical":
		return 4
	}
	return 0
}

// Filter contains recommendation listing options
type Filter struct {
	Category  string
	Severity  string
	Status    string
	AccountID string
}
