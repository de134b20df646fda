package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/config"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/logger"
)

// Scheduler drives the periodic sync pipeline: fleet sync, rule
// evaluation, anomaly detection, dispatch, summary. A tick is skipped
// when the previous run has not finished.
type Scheduler struct {
	sync            *SyncService
	recommendations *RecommendationService
	anomalies       *AnomalyService
	notifications   *NotificationService
	interval        time.Duration
	logger          *logger.Logger

	cron *cron.Cron
	mu   sync.Mutex
}

func NewScheduler(
	syncSvc *SyncService,
	recSvc *RecommendationService,
	anomalySvc *AnomalyService,
	notifySvc *NotificationService,
	cfg config.SyncConfig,
	log *logger.Logger,
) *Scheduler {
	return &Scheduler{
		sync:            syncSvc,
		recommendations: recSvc,
		anomalies:       anomalySvc,
		notifications:   notifySvc,
		interval:        cfg.Interval,
		logger:          log,
	}
}

// Start registers the cron entry and begins ticking.
func (s *Scheduler) Start() error {
	s.cron = cron.New()
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Infof("scheduler started, interval %s", s.interval)
	return nil
}

// Stop halts the cron loop. Blocks until the running entry returns.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunOnce executes one pipeline pass. Overlapping passes are skipped.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if !s.mu.TryLock() {
		s.logger.Warn("previous scheduled run still in progress, skipping")
		return
	}
	defer s.mu.Unlock()

	start := time.Now()

	fleet, err := s.sync.SyncAll(ctx)
	if err != nil {
		s.logger.ErrorWithErr(err, "scheduled fleet sync failed")
		return
	}

	if _, err := s.recommendations.Run(ctx); err != nil {
		s.logger.ErrorWithErr(err, "scheduled rule run failed")
	}

	alerts, err := s.anomalies.Detect(ctx)
	if err != nil {
		s.logger.ErrorWithErr(err, "scheduled anomaly detection failed")
	}

	findings := make([]Message, 0, len(alerts))
	for _, a := range alerts {
		findings = append(findings, Message{
			Title:    fmt.Sprintf("Anomaly: %s", a.AlertType),
			Text:     fmt.Sprintf("account %s resource %s", a.AccountID, a.ResourceID),
			Severity: a.Severity,
		})
	}
	recs, err := s.recommendations.List(ctx, recommendation.Filter{Status: recommendation.StatusOpen})
	if err != nil {
		s.logger.ErrorWithErr(err, "failed to list open recommendations for dispatch")
	} else {
		for _, rec := range recs {
			if rec.UpdatedAt.Before(start) {
				continue
			}
			findings = append(findings, Message{
				Title:    fmt.Sprintf("%s: %s", rec.RuleID, rec.Title),
				Text:     rec.Description,
				Severity: rec.Severity,
			})
		}
	}

	s.notifications.Dispatch(ctx, findings)
	s.notifications.SyncSummary(ctx, fleet)

	s.logger.Infof("scheduled run finished in %s", time.Since(start))
}
