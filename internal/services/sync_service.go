package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/config"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/connector"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/logger"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/metrics"
)

// SyncResult summarizes one account sync
type SyncResult struct {
	AccountID      string        `json:"account_id"`
	InstancesFound int           `json:"instances_found"`
	Created        int           `json:"created"`
	Updated        int           `json:"updated"`
	Duration       time.Duration `json:"duration"`
}

// FleetResult summarizes a fleet-wide sync
type FleetResult struct {
	AccountsSynced int      `json:"accounts_synced"`
	InstancesFound int      `json:"instances_found"`
	Errors         []string `json:"errors"`
	Success        bool     `json:"success"`
}

// SyncService reconciles provider inventories into the instance store
type SyncService struct {
	accounts  account.Repository
	instances inventory.Repository
	registry  connector.Registry
	cfg       config.SyncConfig
	logger    *logger.Logger

	// one mutex per account id; syncs are rejected, never queued
	locks sync.Map
}

func NewSyncService(
	accounts account.Repository,
	instances inventory.Repository,
	registry connector.Registry,
	cfg config.SyncConfig,
	log *logger.Logger,
) *SyncService {
	return &SyncService{
		accounts:  accounts,
		instances: instances,
		registry:  registry,
		cfg:       cfg,
		logger:    log,
	}
}

func (s *SyncService) lockFor(accountID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(accountID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// SyncAccount fetches, normalizes and upserts one account's inventory.
// A second sync for the same account while one is running is rejected
// with a conflict error.
func (s *SyncService) SyncAccount(ctx context.Context, accountID string) (*SyncResult, error) {
	mu := s.lockFor(accountID)
	if !mu.TryLock() {
		return nil, errors.Conflict("sync already running for account")
	}
	defer mu.Unlock()

	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct.Status == account.StatusDisabled {
		return nil, errors.BadRequest("account is disabled")
	}

	start := time.Now()
	log := s.logger.With("account_id", acct.ID).With("provider", acct.Provider)

	s.setStatus(ctx, acct, account.StatusSyncing, "")
	log.Info("sync started")

	raws, err := s.fetchWithRetry(ctx, acct)
	if err != nil {
		s.setStatus(ctx, acct, account.StatusError, sanitizeError(err))
		metrics.RecordSync(acct.Provider, "error", time.Since(start))
		log.ErrorWithErr(err, "sync failed")
		return nil, err
	}

	result := &SyncResult{AccountID: acct.ID, InstancesFound: len(raws)}
	for _, raw := range raws {
		inst := connector.Normalize(raw)
		inst.AccountID = acct.ID
		created, _, err := s.instances.Upsert(ctx, &inst)
		if err != nil {
			s.setStatus(ctx, acct, account.StatusError, sanitizeError(err))
			metrics.RecordSync(acct.Provider, "error", time.Since(start))
			return nil, err
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	result.Duration = time.Since(start)

	count, err := s.instances.CountByAccount(ctx, acct.ID)
	if err == nil {
		acct.InstanceCount = count
	}
	now := time.Now().UTC()
	acct.LastSyncAt = &now
	s.setStatus(ctx, acct, account.StatusConnected, "")

	metrics.RecordSync(acct.Provider, "success", result.Duration)
	metrics.SetInstancesObserved(acct.Provider, float64(result.InstancesFound))
	log.Infof("sync finished: %d found, %d created, %d updated", result.InstancesFound, result.Created, result.Updated)
	return result, nil
}

// SyncAll syncs every non-disabled account. One account's failure never
// aborts the others.
func (s *SyncService) SyncAll(ctx context.Context) (*FleetResult, error) {
	accts, err := s.accounts.List(ctx, account.Filter{})
	if err != nil {
		return nil, err
	}

	fleet := &FleetResult{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for _, acct := range accts {
		if acct.Status == account.StatusDisabled {
			continue
		}
		acct := acct
		g.Go(func() error {
			result, err := s.SyncAccount(gctx, acct.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fleet.Errors = append(fleet.Errors, fmt.Sprintf("%s: %s", acct.ID, sanitizeError(err)))
				return nil
			}
			fleet.AccountsSynced++
			fleet.InstancesFound += result.InstancesFound
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(fleet.Errors)
	fleet.Success = len(fleet.Errors) == 0
	return fleet, nil
}

// fetchWithRetry retries transient connector failures with doubling
// backoff. Permanent failures abort immediately.
func (s *SyncService) fetchWithRetry(ctx context.Context, acct *account.Account) ([]connector.Raw, error) {
	conn, err := s.registry.Connector(acct.Provider)
	if err != nil {
		return nil, err
	}

	attempts := s.cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	backoff := s.cfg.BackoffBase
	for attempt := 1; attempt <= attempts; attempt++ {
		raws, err := conn.Fetch(ctx, acct)
		if err == nil {
			return raws, nil
		}
		lastErr = err
		if !errors.IsTransient(err) {
			return nil, err
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.ConnectorTransient(acct.Provider, "fetch cancelled", ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, lastErr
}

func (s *SyncService) setStatus(ctx context.Context, acct *account.Account, status, lastError string) {
	if !account.CanTransition(acct.Status, status) && acct.Status != status {
		s.logger.Warn(fmt.Sprintf("illegal status transition %s -> %s for account %s", acct.Status, status, acct.ID))
		return
	}
	acct.Status = status
	acct.LastError = lastError
	if err := s.accounts.Update(ctx, acct); err != nil {
		s.logger.ErrorWithErr(err, "failed to update account status")
	}
}

// sanitizeError keeps persisted error text free of credential material.
func sanitizeError(err error) string {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr.Message
	}
	return "sync failed"
}
