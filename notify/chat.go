// Package notify delivers dispute outcomes to a chat channel through an
// incoming-webhook URL.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-disputes/core"
)

const (
	defaultPostTimeout   = 10 * time.Second
	maxResponseBodyBytes = 1 << 16
)

// HTTPDoer is the transport seam; *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the incoming-webhook settings. Channel and Username are
// optional overrides; the webhook's own defaults apply when blank.
type Config struct {
	WebhookURL string
	Channel    string
	Username   string
	Timeout    time.Duration
	HTTPClient HTTPDoer
	Logger     core.Logger
}

// ChatSink posts dispute notifications as chat messages. Post errors are
// diagnostic; the pipeline logs them and keeps going.
type ChatSink struct {
	config     Config
	httpClient HTTPDoer
	logger     core.Logger
}

// New validates the configuration and returns a ready ChatSink.
func New(cfg Config) (*ChatSink, error) {
	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL == "" {
		return nil, fmt.Errorf("notify: webhook url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultPostTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = glog.Nop()
	}
	return &ChatSink{
		config: Config{
			WebhookURL: webhookURL,
			Channel:    strings.TrimSpace(cfg.Channel),
			Username:   strings.TrimSpace(cfg.Username),
			Timeout:    timeout,
		},
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type chatMessage struct {
	Text     string `json:"text"`
	Channel  string `json:"channel,omitempty"`
	Username string `json:"username,omitempty"`
}

// Post renders the notification and delivers it to the webhook URL.
func (s *ChatSink) Post(ctx context.Context, note core.Notification) error {
	if s == nil || s.httpClient == nil {
		return fmt.Errorf("notify: chat sink is not configured")
	}

	payload, err := json.Marshal(chatMessage{
		Text:     FormatMessage(note),
		Channel:  s.config.Channel,
		Username: s.config.Username,
	})
	if err != nil {
		return fmt.Errorf("notify: encode chat message: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	requestCtx := ctx
	cancel := func() {}
	if s.config.Timeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
	}
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, s.config.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post chat message: %w", err)
	}
	defer res.Body.Close()
	body, readErr := io.ReadAll(io.LimitReader(res.Body, maxResponseBodyBytes))
	if readErr != nil {
		return fmt.Errorf("notify: read chat response: %w", readErr)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			return fmt.Errorf("notify: chat webhook returned status %d", res.StatusCode)
		}
		return fmt.Errorf("notify: chat webhook returned status %d: %s", res.StatusCode, detail)
	}

	s.logger.Debug("chat notification delivered", "kind", string(note.Kind))
	return nil
}

var _ core.NotificationSink = (*ChatSink)(nil)
