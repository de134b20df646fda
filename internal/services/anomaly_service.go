package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/config"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/alert"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/logger"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/metrics"
)

// AnomalyService diffs the current inventory against the snapshot kept
// from the previous detection pass and emits alerts for suspicious
// changes. It also accepts alerts from external systems.
type AnomalyService struct {
	accounts  account.Repository
	instances inventory.Repository
	snapshots inventory.SnapshotRepository
	alerts    alert.Repository
	cfg       config.AnomalyConfig
	logger    *logger.Logger
}

func NewAnomalyService(
	accounts account.Repository,
	instances inventory.Repository,
	snapshots inventory.SnapshotRepository,
	alerts alert.Repository,
	cfg config.AnomalyConfig,
	log *logger.Logger,
) *AnomalyService {
	return &AnomalyService{
		accounts:  accounts,
		instances: instances,
		snapshots: snapshots,
		alerts:    alerts,
		cfg:       cfg,
		logger:    log,
	}
}

// Detect runs the heuristics over every account and replaces the stored
// snapshot afterwards. Alerts are not deduplicated across runs.
func (s *AnomalyService) Detect(ctx context.Context) ([]*alert.Alert, error) {
	accts, err := s.accounts.List(ctx, account.Filter{})
	if err != nil {
		return nil, err
	}

	var emitted []*alert.Alert
	for _, acct := range accts {
		alerts, err := s.detectAccount(ctx, acct)
		if err != nil {
			return emitted, err
		}
		emitted = append(emitted, alerts...)
	}

	s.logger.Infof("anomaly detection emitted %d alerts", len(emitted))
	return emitted, nil
}

func (s *AnomalyService) detectAccount(ctx context.Context, acct *account.Account) ([]*alert.Alert, error) {
	insts, err := s.instances.ListByAccount(ctx, acct.ID)
	if err != nil {
		return nil, err
	}
	prev, err := s.snapshots.GetByAccount(ctx, acct.ID)
	if err != nil {
		return nil, err
	}

	prevStates := make(map[string]string, len(prev))
	for _, p := range prev {
		prevStates[p.InstanceID] = p.State
	}

	var emitted []*alert.Alert

	// running <-> stopped transitions since the last pass
	for _, inst := range insts {
		prevState, seen := prevStates[inst.InstanceID]
		if !seen {
			continue
		}
		if isRunStopFlip(prevState, inst.State) {
			a := &alert.Alert{
				ID:         uuid.New().String(),
				Source:     alert.SourceDetector,
				AlertType:  alert.TypeStateTransition,
				Severity:   "medium",
				AccountID:  acct.ID,
				ResourceID: inst.ResourceID(),
				Payload: map[string]string{
					"instance_id": inst.InstanceID,
					"from":        prevState,
					"to":          inst.State,
				},
			}
			if err := s.emit(ctx, a); err != nil {
				return emitted, err
			}
			emitted = append(emitted, a)
		}
	}

	// inventory count swing beyond the threshold
	if len(prev) > 0 {
		delta := len(insts) - len(prev)
		if delta < 0 {
			delta = -delta
		}
		if delta > s.cfg.CountThreshold {
			a := &alert.Alert{
				ID:        uuid.New().String(),
				Source:    alert.SourceDetector,
				AlertType: alert.TypeInventoryCountChange,
				Severity:  "high",
				AccountID: acct.ID,
				Payload: map[string]string{
					"previous": fmt.Sprintf("%d", len(prev)),
					"current":  fmt.Sprintf("%d", len(insts)),
				},
			}
			if err := s.emit(ctx, a); err != nil {
				return emitted, err
			}
			emitted = append(emitted, a)
		}
	}

	// more than half the fleet exposed to the internet
	if len(insts) > 0 {
		public := 0
		for _, inst := range insts {
			if inst.PublicIP != "" {
				public++
			}
		}
		if float64(public)/float64(len(insts)) > 0.5 {
			a := &alert.Alert{
				ID:        uuid.New().String(),
				Source:    alert.SourceDetector,
				AlertType: alert.TypeHighPublicExposure,
				Severity:  "high",
				AccountID: acct.ID,
				Payload: map[string]string{
					"public_instances": fmt.Sprintf("%d", public),
					"total_instances":  fmt.Sprintf("%d", len(insts)),
				},
			}
			if err := s.emit(ctx, a); err != nil {
				return emitted, err
			}
			emitted = append(emitted, a)
		}
	}

	snaps := make([]*inventory.Snapshot, 0, len(insts))
	for _, inst := range insts {
		snaps = append(snaps, &inventory.Snapshot{
			AccountID:  acct.ID,
			InstanceID: inst.InstanceID,
			State:      inst.State,
		})
	}
	if err := s.snapshots.Replace(ctx, acct.ID, snaps); err != nil {
		return emitted, err
	}
	return emitted, nil
}

// Ingest appends an externally supplied alert verbatim, bypassing the
// detection heuristics.
func (s *AnomalyService) Ingest(ctx context.Context, a *alert.Alert) (*alert.Alert, error) {
	details := map[string]string{}
	if a.Source == "" || a.Source == alert.SourceDetector {
		details["source"] = "required and must name the external system"
	}
	if a.AlertType == "" {
		details["alert_type"] = "required"
	}
	if a.Severity == "" {
		details["severity"] = "required"
	}
	if len(details) > 0 {
		return nil, errors.ValidationError("invalid alert", details)
	}

	a.ID = uuid.New().String()
	if a.Payload == nil {
		a.Payload = map[string]string{}
	}
	if err := s.emit(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAlerts retrieves alerts matching the filter.
func (s *AnomalyService) ListAlerts(ctx context.Context, filter alert.Filter) ([]*alert.Alert, error) {
	return s.alerts.List(ctx, filter)
}

func (s *AnomalyService) emit(ctx context.Context, a *alert.Alert) error {
	if err := s.alerts.Create(ctx, a); err != nil {
		return err
	}
	metrics.RecordAlert(a.AlertType, a.Severity)
	return nil
}

func isRunStopFlip(from, to string) bool {
	return (from == inventory.StateRunning && to == inventory.StateStopped) ||
		(from == inventory.StateStopped && to == inventory.StateRunning)
}
