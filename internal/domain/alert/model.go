package alert

import (
	"time"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
)

// Alert represents an anomaly finding or an externally ingested event.
// Alerts are immutable once created.
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

// SourceDetector marks alerts produced by the built-in anomaly detector.
const SourceDetector = "detector"

// Alert types emitted by the detector
const (
	TypeStateTransition      = "state_transition"
	TypeInventoryCountChange = "inventory_count_change"
	TypeHighPublicExposure   = "high_public_exposure"
)

// Filter contains alert listing options
type Filter struct {
	AlertType string
	Severity  string
}

// CorrelatedAlert groups related findings on one resource. Computed at
// read time, never persisted.
type CorrelatedAlert struct {
	ResourceID      string                           `json:"resource_id"`
	Title           string                           `json:"title"`
	Severity        string                           `json:"severity"`
	Categories      []string                         `json:"categories"`
	Recommendations []*recommendation.Recommendation `json:"recommendations"`
	Alerts          []*Alert                         `json:"alerts"`
}
