package account

import "time"

// Account represents a connected cloud provider account
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

// Supported providers
const (
	ProviderAWS          = "aws"
	ProviderAzure        = "azure"
	ProviderGCP          = "gcp"
	ProviderDigitalOcean = "do"
)

// Account status
const (
	StatusConnected = "connected"
	StatusSyncing   = "syncing"
	StatusError     = "error"
	StatusDisabled  = "disabled"
)

// ValidProvider reports whether p is a supported provider name.
func ValidProvider(p string) bool {
	switch p {
	case ProviderAWS, ProviderAzure, ProviderGCP, ProviderDigitalOcean:
		return true
	}
	return false
}

// CanTransition reports whether an account may move from one status to
// another. Syncing is entered only from connected or error, and only the
// orchestrator leaves it. Disable is allowed from any state.
func CanTransition(from, to string) bool {
	if to == StatusDisabled {
		return true
	}
	switch from {
	case StatusDisabled:
		return to == StatusConnected
	case StatusConnected, StatusError:
		return to == StatusSyncing
	case StatusSyncing:
		return to == StatusConnected || to == StatusError
	}
	return false
}

// Filter contains account listing options
type Filter struct {
	Provider string
	Status   string
}
