// Package testutil provides in-memory repository and connector fakes
// for service tests.
package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/connector"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/alert"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
)

// MockAccountRepository is an in-memory account.Repository
type MockAccountRepository struct {
	mu       sync.Mutex
	Accounts map[string]*account.Account
	Err      error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{Accounts: make(map[string]*account.Account)}
}

func (m *MockAccountRepository) Create(ctx context.Context, acct *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	now := time.Now().UTC()
	acct.CreatedAt = now
	acct.UpdatedAt = now
	cp := *acct
	m.Accounts[acct.ID] = &cp
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	acct, ok := m.Accounts[id]
	if !ok {
		return nil, errors.NotFound("account")
	}
	cp := *acct
	return &cp, nil
}

func (m *MockAccountRepository) Update(ctx context.Context, acct *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Accounts[acct.ID]; !ok {
		return errors.NotFound("account")
	}
	acct.UpdatedAt = time.Now().UTC()
	cp := *acct
	m.Accounts[acct.ID] = &cp
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Accounts[id]; !ok {
		return errors.NotFound("account")
	}
	delete(m.Accounts, id)
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, filter account.Filter) ([]*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*account.Account
	for _, acct := range m.Accounts {
		if filter.Provider != "" && acct.Provider != filter.Provider {
			continue
		}
		if filter.Status != "" && acct.Status != filter.Status {
			continue
		}
		cp := *acct
		out = append(out, &cp)
	}
	return out, nil
}

// MockInstanceRepository is an in-memory inventory.Repository
type MockInstanceRepository struct {
	mu        sync.Mutex
	Instances map[string]*inventory.Instance
	Err       error
}

func NewMockInstanceRepository() *MockInstanceRepository {
	return &MockInstanceRepository{Instances: make(map[string]*inventory.Instance)}
}

func instanceKey(provider, accountID, instanceID string) string {
	return provider + "|" + accountID + "|" + instanceID
}

func (m *MockInstanceRepository) Upsert(ctx context.Context, inst *inventory.Instance) (bool, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, "", m.Err
	}

	now := time.Now().UTC()
	key := instanceKey(inst.Provider, inst.AccountID, inst.InstanceID)
	existing, ok := m.Instances[key]
	if !ok {
		inst.FirstSeenAt = now
		inst.LastSeenAt = now
		inst.UpdatedAt = now
		cp := cloneInstance(inst)
		m.Instances[key] = cp
		return true, "", nil
	}

	prevState := existing.State
	inst.FirstSeenAt = existing.FirstSeenAt
	inst.LastSeenAt = now

	a, _ := json.Marshal(existing.Tags)
	b, _ := json.Marshal(inst.Tags)
	changed := existing.RegionOrZone != inst.RegionOrZone ||
		existing.Name != inst.Name ||
		existing.TypeOrSize != inst.TypeOrSize ||
		existing.State != inst.State ||
		existing.PublicIP != inst.PublicIP ||
		existing.PrivateIP != inst.PrivateIP ||
		string(a) != string(b)

	if changed {
		inst.UpdatedAt = now
	} else {
		inst.UpdatedAt = existing.UpdatedAt
	}
	m.Instances[key] = cloneInstance(inst)
	return false, prevState, nil
}

func (m *MockInstanceRepository) Get(ctx context.Context, provider, accountID, instanceID string) (*inventory.Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	inst, ok := m.Instances[instanceKey(provider, accountID, instanceID)]
	if !ok {
		return nil, errors.NotFound("instance")
	}
	return cloneInstance(inst), nil
}

func (m *MockInstanceRepository) List(ctx context.Context, filter inventory.Filter) ([]*inventory.Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*inventory.Instance
	for _, inst := range m.Instances {
		if filter.Provider != "" && inst.Provider != filter.Provider {
			continue
		}
		if filter.AccountID != "" && inst.AccountID != filter.AccountID {
			continue
		}
		if filter.State != "" && inst.State != filter.State {
			continue
		}
		if filter.Region != "" && inst.RegionOrZone != filter.Region {
			continue
		}
		out = append(out, cloneInstance(inst))
	}
	return out, nil
}

func (m *MockInstanceRepository) ListByAccount(ctx context.Context, accountID string) ([]*inventory.Instance, error) {
	return m.List(ctx, inventory.Filter{AccountID: accountID})
}

func (m *MockInstanceRepository) CountByAccount(ctx context.Context, accountID string) (int, error) {
	insts, err := m.ListByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return len(insts), nil
}

func (m *MockInstanceRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for key, inst := range m.Instances {
		if inst.AccountID == accountID {
			delete(m.Instances, key)
		}
	}
	return nil
}

func cloneInstance(inst *inventory.Instance) *inventory.Instance {
	cp := *inst
	cp.Tags = make(map[string]string, len(inst.Tags))
	for k, v := range inst.Tags {
		cp.Tags[k] = v
	}
	return &cp
}

// MockSnapshotRepository is an in-memory inventory.SnapshotRepository
type MockSnapshotRepository struct {
	mu        sync.Mutex
	Snapshots map[string][]*inventory.Snapshot
	Err       error
}

func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{Snapshots: make(map[string][]*inventory.Snapshot)}
}

func (m *MockSnapshotRepository) GetByAccount(ctx context.Context, accountID string) ([]*inventory.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*inventory.Snapshot
	for _, s := range m.Snapshots[accountID] {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockSnapshotRepository) Replace(ctx context.Context, accountID string, snapshots []*inventory.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := make([]*inventory.Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		c := *s
		cp = append(cp, &c)
	}
	m.Snapshots[accountID] = cp
	return nil
}

// MockRecommendationRepository is an in-memory recommendation.Repository
type MockRecommendationRepository struct {
	mu              sync.Mutex
	Recommendations map[string]*recommendation.Recommendation
	Err             error
}

func NewMockRecommendationRepository() *MockRecommendationRepository {
	return &MockRecommendationRepository{Recommendations: make(map[string]*recommendation.Recommendation)}
}

func (m *MockRecommendationRepository) Create(ctx context.Context, rec *recommendation.Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m.Recommendations[rec.ID] = cloneRecommendation(rec)
	return nil
}

func (m *MockRecommendationRepository) GetByID(ctx context.Context, id string) (*recommendation.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	rec, ok := m.Recommendations[id]
	if !ok {
		return nil, errors.NotFound("recommendation")
	}
	return cloneRecommendation(rec), nil
}

func (m *MockRecommendationRepository) GetOpenByKey(ctx context.Context, ruleID, resourceID string) (*recommendation.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, rec := range m.Recommendations {
		if rec.RuleID == ruleID && rec.ResourceID == resourceID && rec.Status == recommendation.StatusOpen {
			return cloneRecommendation(rec), nil
		}
	}
	return nil, nil
}

func (m *MockRecommendationRepository) GetLatestByKey(ctx context.Context, ruleID, resourceID string) (*recommendation.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var latest *recommendation.Recommendation
	for _, rec := range m.Recommendations {
		if rec.RuleID != ruleID || rec.ResourceID != resourceID {
			continue
		}
		if latest == nil || rec.UpdatedAt.After(latest.UpdatedAt) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	return cloneRecommendation(latest), nil
}

func (m *MockRecommendationRepository) Update(ctx context.Context, rec *recommendation.Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Recommendations[rec.ID]; !ok {
		return errors.NotFound("recommendation")
	}
	rec.UpdatedAt = time.Now().UTC()
	m.Recommendations[rec.ID] = cloneRecommendation(rec)
	return nil
}

func (m *MockRecommendationRepository) List(ctx context.Context, filter recommendation.Filter) ([]*recommendation.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*recommendation.Recommendation
	for _, rec := range m.Recommendations {
		if filter.Category != "" && rec.Category != filter.Category {
			continue
		}
		if filter.Severity != "" && rec.Severity != filter.Severity {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.AccountID != "" && rec.AccountID != filter.AccountID {
			continue
		}
		out = append(out, cloneRecommendation(rec))
	}
	return out, nil
}

func (m *MockRecommendationRepository) ListOpen(ctx context.Context) ([]*recommendation.Recommendation, error) {
	return m.List(ctx, recommendation.Filter{Status: recommendation.StatusOpen})
}

func (m *MockRecommendationRepository) DeleteOpenByAccount(ctx context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for id, rec := range m.Recommendations {
		if rec.AccountID == accountID && rec.Status == recommendation.StatusOpen {
			delete(m.Recommendations, id)
		}
	}
	return nil
}

func (m *MockRecommendationRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	counts := map[string]int{}
	for _, rec := range m.Recommendations {
		counts[rec.Status]++
	}
	return counts, nil
}

func cloneRecommendation(rec *recommendation.Recommendation) *recommendation.Recommendation {
	cp := *rec
	cp.Evidence = make(map[string]string, len(rec.Evidence))
	for k, v := range rec.Evidence {
		cp.Evidence[k] = v
	}
	return &cp
}

// MockAlertRepository is an in-memory alert.Repository
type MockAlertRepository struct {
	mu     sync.Mutex
	Alerts []*alert.Alert
	Err    error
}

func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{}
}

func (m *MockAlertRepository) Create(ctx context.Context, a *alert.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	m.Alerts = append(m.Alerts, &cp)
	return nil
}

func (m *MockAlertRepository) GetByID(ctx context.Context, id string) (*alert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, a := range m.Alerts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, errors.NotFound("alert")
}

func (m *MockAlertRepository) List(ctx context.Context, filter alert.Filter) ([]*alert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*alert.Alert
	for _, a := range m.Alerts {
		if filter.AlertType != "" && a.AlertType != filter.AlertType {
			continue
		}
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockAlertRepository) ListSince(ctx context.Context, since time.Time) ([]*alert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*alert.Alert
	for _, a := range m.Alerts {
		if a.CreatedAt.Before(since) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockAlertRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Alerts), nil
}

// MockConnector returns a canned inventory or error
type MockConnector struct {
	Raws    []connector.Raw
	Err     error
	Calls   int
	FailFor int // fail the first N calls with Err, then succeed
	mu      sync.Mutex
}

func (m *MockConnector) Fetch(ctx context.Context, acct *account.Account) ([]connector.Raw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil && (m.FailFor == 0 || m.Calls <= m.FailFor) {
		return nil, m.Err
	}
	return m.Raws, nil
}

// MockRegistry resolves providers to mock connectors
type MockRegistry struct {
	Connectors map[string]connector.Connector
}

func (m *MockRegistry) Connector(provider string) (connector.Connector, error) {
	c, ok := m.Connectors[provider]
	if !ok {
		return nil, errors.ConnectorPermanent(provider, "unknown provider", nil)
	}
	return c, nil
}
