package inventory

import "time"

// Instance represents a normalized compute instance. Identity is the
// triple (provider, account_id, instance_id); everything else is
// observation state from the most recent sync.
type Instance struct {
	Provider     string            `json:"provider"`
	AccountID    string            `json:"account_id"`
	InstanceID   string            `json:"instance_id"`
	RegionOrZone string            `json:"region_or_zone"`
	Name         string            `json:"name"`
	TypeOrSize   string            `json:"type_or_size"`
	State        string            `json:"state"`
	PublicIP     string            `json:"public_ip,omitempty"`
	PrivateIP    string            `json:"private_ip,omitempty"`
	Tags         map[string]string `json:"tags"`
	FirstSeenAt  time.Time         `json:"first_seen_at"`
	LastSeenAt   time.Time         `json:"last_seen_at"`
	UpdatedAt    time.Time         `json:"updated_at,omitempty"`
}

// Instance states
const (
	StateRunning    = "running"
	StateStopped    = "stopped"
	StatePending    = "pending"
	StateTerminated = "terminated"
	StateUnknown    = "unknown"
)

// ResourceID returns the identity string used to key recommendations
// and alerts to this instance.
func (i *Instance) ResourceID() string {
	return i.Provider + ":" + i.AccountID + ":" + i.InstanceID
}

// Filter contains instance listing options
type Filter struct {
	Provider  string
	AccountID string
	State     string
	Name      string
	Region    string
}

// Snapshot records the state an instance held at the end of the last
// anomaly detection pass. Used to diff state transitions between runs.
type Snapshot struct {
	AccountID  string
	InstanceID string
	State      string
}
