package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/config"
)

func notifyConfig(slackURL, teamsURL string) config.NotifyConfig {
	return config.NotifyConfig{
		SlackWebhookURL: slackURL,
		TeamsWebhookURL: teamsURL,
		MinSeverity:     "high",
		Timeout:         2 * time.Second,
		Retries:         2,
	}
}

func TestDispatchSendsHighSeverityToEnabledChannels(t *testing.T) {
	var slackHits, teamsHits int32
	slack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&slackHits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer slack.Close()
	teams := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&teamsHits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer teams.Close()

	svc := NewNotificationService(notifyConfig(slack.URL, teams.URL), testLogger())
	svc.Dispatch(context.Background(), []Message{
		{Title: "exposed", Severity: "high", Text: "t"},
		{Title: "minor", Severity: "low", Text: "t"},
		{Title: "medium", Severity: "medium", Text: "t"},
	})

	if got := atomic.LoadInt32(&slackHits); got != 1 {
		t.Errorf("slack deliveries = %d, want 1 (only the high finding)", got)
	}
	if got := atomic.LoadInt32(&teamsHits); got != 1 {
		t.Errorf("teams deliveries = %d, want 1", got)
	}
}

func TestDispatchUnconfiguredChannelNeverCalls(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// Only slack configured; teams stays silent.
	svc := NewNotificationService(notifyConfig(srv.URL, ""), testLogger())
	svc.Dispatch(context.Background(), []Message{{Title: "x", Severity: "high"}})

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("configured channel deliveries = %d, want 1", got)
	}
}

func TestDispatchRetriesThenGivesUpQuietly(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := notifyConfig(srv.URL, "")
	cfg.Retries = 3
	svc := NewNotificationService(cfg, testLogger())

	// Dispatch returns nothing; a dead endpoint must not panic or block.
	svc.Dispatch(context.Background(), []Message{{Title: "x", Severity: "high"}})

	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("delivery attempts = %d, want 3 (retries exhausted)", got)
	}
}

func TestSyncSummaryPostsRegardlessOfSeverity(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewNotificationService(notifyConfig(srv.URL, ""), testLogger())
	svc.SyncSummary(context.Background(), &FleetResult{
		AccountsSynced: 3,
		InstancesFound: 12,
		Errors:         []string{"acct-9: credentials rejected"},
	})

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("summary deliveries = %d, want 1", got)
	}
}
