package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/config"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/logger"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/metrics"
)

// Message is a finding formatted for delivery
type Message struct {
	Title    string
	Text     string
	Severity string
}

// Channel delivers messages to one webhook destination
type Channel interface {
	Name() string
	Enabled() bool
	Send(ctx context.Context, msg Message) error
}

// SlackChannel posts to a Slack incoming webhook. Disabled when no URL
// is configured.
type SlackChannel struct {
	URL    string
	Client *http.Client
}

func (c *SlackChannel) Name() string  { return "slack" }
func (c *SlackChannel) Enabled() bool { return c.URL != "" }

func (c *SlackChannel) Send(ctx context.Context, msg Message) error {
	payload := map[string]string{
		"text": fmt.Sprintf("*%s*\n%s", msg.Title, msg.Text),
	}
	return postJSON(ctx, c.client(), c.Name(), c.URL, payload)
}

func (c *SlackChannel) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

// TeamsChannel posts a MessageCard to a Teams incoming webhook.
type TeamsChannel struct {
	URL    string
	Client *http.Client
}

func (c *TeamsChannel) Name() string  { return "teams" }
func (c *TeamsChannel) Enabled() bool { return c.URL != "" }

func (c *TeamsChannel) Send(ctx context.Context, msg Message) error {
	payload := map[string]string{
		"@type":    "MessageCard",
		"@context": "http://schema.org/extensions",
		"title":    msg.Title,
		"text":     msg.Text,
	}
	return postJSON(ctx, c.client(), c.Name(), c.URL, payload)
}

func (c *TeamsChannel) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

func postJSON(ctx context.Context, client *http.Client, channel, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.DeliveryError(channel, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.DeliveryError(channel, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return errors.DeliveryError(channel, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.DeliveryError(channel, fmt.Errorf("webhook returned %d", resp.StatusCode))
	}
	return nil
}

// NotificationService fans findings out to every enabled channel.
// Delivery failures are logged and counted, never surfaced to the
// operation that produced the finding.
type NotificationService struct {
	channels []Channel
	cfg      config.NotifyConfig
	logger   *logger.Logger
}

func NewNotificationService(cfg config.NotifyConfig, log *logger.Logger) *NotificationService {
	client := &http.Client{Timeout: cfg.Timeout}
	return &NotificationService{
		channels: []Channel{
			&SlackChannel{URL: cfg.SlackWebhookURL, Client: client},
			&TeamsChannel{URL: cfg.TeamsWebhookURL, Client: client},
		},
		cfg:    cfg,
		logger: log,
	}
}

// NewNotificationServiceWithChannels injects explicit channels.
func NewNotificationServiceWithChannels(cfg config.NotifyConfig, log *logger.Logger, channels ...Channel) *NotificationService {
	return &NotificationService{channels: channels, cfg: cfg, logger: log}
}

// Dispatch sends findings at or above the configured minimum severity
// to every enabled channel independently.
func (s *NotificationService) Dispatch(ctx context.Context, findings []Message) {
	min := recommendation.SeverityRank(s.cfg.MinSeverity)
	for _, msg := range findings {
		if recommendation.SeverityRank(msg.Severity) < min {
			continue
		}
		s.broadcast(ctx, msg)
	}
}

// SyncSummary posts a fleet sync summary regardless of severity
// filtering.
func (s *NotificationService) SyncSummary(ctx context.Context, fleet *FleetResult) {
	status := "succeeded"
	if !fleet.Success {
		status = "finished with errors"
	}
	text := fmt.Sprintf("%d accounts synced, %d instances observed.", fleet.AccountsSynced, fleet.InstancesFound)
	if len(fleet.Errors) > 0 {
		text += "\nErrors:\n" + strings.Join(fleet.Errors, "\n")
	}
	s.broadcast(ctx, Message{
		Title: fmt.Sprintf("Inventory sync %s", status),
		Text:  text,
	})
}

func (s *NotificationService) broadcast(ctx context.Context, msg Message) {
	for _, ch := range s.channels {
		if !ch.Enabled() {
			continue
		}
		if err := s.sendWithRetry(ctx, ch, msg); err != nil {
			metrics.RecordDelivery(ch.Name(), "error")
			s.logger.ErrorWithErr(err, fmt.Sprintf("delivery to %s failed", ch.Name()))
			continue
		}
		metrics.RecordDelivery(ch.Name(), "success")
	}
}

func (s *NotificationService) sendWithRetry(ctx context.Context, ch Channel, msg Message) error {
	attempts := s.cfg.Retries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	backoff := 100 * time.Millisecond
	for attempt := 1; attempt <= attempts; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		err := ch.Send(sendCtx, msg)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return lastErr
}
