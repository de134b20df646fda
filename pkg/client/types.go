package client

import "time"

// Account represents a cloud account connection
type Account struct {
	ID            string     `json:"id"`
	Provider      string     `json:"provider"`
	Name          string     `json:"name"`
	CredentialRef string     `json:"credential_ref,omitempty"`
	Status        string     `json:"status"`
	InstanceCount int        `json:"instance_count"`
	LastSyncAt    *time.Time `json:"last_sync_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	CreatedAt     time.Time  `json:"created_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at,omitempty"`
}

// Instance represents a compute instance in the inventory
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

// Recommendation represents a finding produced by the rules engine
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

// Alert represents an anomaly alert
type Alert struct {
	ID         string            `json:"id"`
	Source     string            `json:"source"`
	AlertType  string            `json:"alert_type"`
	Severity   string            `json:"severity"`
	AccountID  string            `json:"account_id,omitempty"`
	ResourceID string            `json:"resource_id,omitempty"`
	Payload    map[string]string `json:"payload"`
	CreatedAt  time.Time         `json:"created_at,omitempty"`
}

// CorrelatedAlert groups findings from multiple categories on one resource
type CorrelatedAlert struct {
	ResourceID      string           `json:"resource_id"`
	Title           string           `json:"title"`
	Severity        string           `json:"severity"`
	Categories      []string         `json:"categories"`
	Recommendations []Recommendation `json:"recommendations"`
	Alerts          []Alert          `json:"alerts"`
}

// SyncResult is the outcome of syncing a single account
type SyncResult struct {
	AccountID      string        `json:"account_id"`
	InstancesFound int           `json:"instances_found"`
	Created        int           `json:"created"`
	Updated        int           `json:"updated"`
	Duration       time.Duration `json:"duration"`
}

// FleetResult is the outcome of a fleet-wide sync
type FleetResult struct {
	AccountsSynced int      `json:"accounts_synced"`
	InstancesFound int      `json:"instances_found"`
	Errors         []string `json:"errors"`
	Success        bool     `json:"success"`
}

// DashboardStats is the dashboard aggregate
type DashboardStats struct {
	TotalAccounts           int            `json:"total_accounts"`
	AccountsByStatus        map[string]int `json:"accounts_by_status"`
	TotalInstances          int            `json:"total_instances"`
	InstancesByState        map[string]int `json:"instances_by_state"`
	InstancesByProvider     map[string]int `json:"instances_by_provider"`
	RecommendationsByStatus map[string]int `json:"recommendations_by_status"`
	OpenRecommendations     int            `json:"open_recommendations"`
	FinOpsCount             int            `json:"finops_count"`
	SecOpsCount             int            `json:"secops_count"`
	TotalAlerts             int            `json:"total_alerts"`
	LastSync                *time.Time     `json:"last_sync,omitempty"`
}

// RunResult is the outcome of a recommendation engine pass
type RunResult struct {
	RecommendationsGenerated int `json:"recommendations_generated"`
}

// DetectResult is the outcome of an anomaly detection pass
type DetectResult struct {
	AlertsEmitted int     `json:"alerts_emitted"`
	Alerts        []Alert `json:"alerts"`
}
