package shopify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-disputes/core"
	"github.com/goliatone/go-disputes/webhooks"
)

const (
	headerHMAC        = "X-Shopify-Hmac-Sha256"
	headerDeliveryID  = "X-Shopify-Webhook-Id"
	headerTriggeredAt = "X-Shopify-Triggered-At"
)

const defaultReplayWindow = 5 * time.Minute

// WebhookConfig configures inbound delivery verification. ReplayWindow is
// off by default; when enabled, deliveries whose X-Shopify-Triggered-At
// timestamp falls outside the window are rejected. RequireTriggeredAt only
// matters with the window enabled and rejects deliveries missing the
// header outright.
type WebhookConfig struct {
	Secret             string
	EnforceReplay      bool
	ReplayWindow       time.Duration
	RequireTriggeredAt bool
	Now                func() time.Time
}

// DefaultWebhookConfig returns the verification settings matching
// Shopify's delivery contract: base64 HMAC-SHA256 over the raw body, no
// replay enforcement.
func DefaultWebhookConfig(secret string) WebhookConfig {
	return WebhookConfig{
		Secret: strings.TrimSpace(secret),
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// WebhookVerifier checks Shopify's signature header and, when configured,
// the delivery's trigger timestamp.
type WebhookVerifier struct {
	signature webhooks.HeaderHMACVerifier
	config    WebhookConfig
}

// NewWebhookVerifier builds the verifier for Shopify deliveries.
func NewWebhookVerifier(cfg WebhookConfig) WebhookVerifier {
	if cfg.Now == nil {
		cfg.Now = func() time.Time {
			return time.Now().UTC()
		}
	}
	if cfg.ReplayWindow <= 0 {
		cfg.ReplayWindow = defaultReplayWindow
	}
	return WebhookVerifier{
		signature: webhooks.HeaderHMACVerifier{
			Header:   headerHMAC,
			Secret:   strings.TrimSpace(cfg.Secret),
			Encoding: "base64",
		},
		config: cfg,
	}
}

func (v WebhookVerifier) Verify(ctx context.Context, req core.WebhookRequest) error {
	if err := v.signature.Verify(ctx, req); err != nil {
		return err
	}
	if !v.config.EnforceReplay {
		return nil
	}

	triggered := strings.TrimSpace(headerValue(req.Headers, headerTriggeredAt))
	if triggered == "" {
		if v.config.RequireTriggeredAt {
			return fmt.Errorf("providers/shopify: %s header is required", headerTriggeredAt)
		}
		return nil
	}
	triggeredAt, err := time.Parse(time.RFC3339Nano, triggered)
	if err != nil {
		return fmt.Errorf("providers/shopify: parse %s: %w", headerTriggeredAt, err)
	}

	now := v.config.Now().UTC()
	delta := now.Sub(triggeredAt.UTC())
	if delta < 0 {
		delta = -delta
	}
	if delta > v.config.ReplayWindow {
		return fmt.Errorf("providers/shopify: webhook trigger time outside replay window")
	}
	return nil
}

// NewClassifier builds the topic/domain classifier with Shopify's header
// names. An empty shopDomain leaves the domain gate open.
func NewClassifier(shopDomain string) webhooks.TopicDomainClassifier {
	return webhooks.NewTopicDomainClassifier(shopDomain)
}

// DeliveryID reads Shopify's per-delivery id header, empty when absent.
// It is diagnostic only; redelivered webhooks are processed again.
func DeliveryID(req core.WebhookRequest) string {
	return strings.TrimSpace(headerValue(req.Headers, headerDeliveryID))
}

func headerValue(headers map[string]string, key string) string {
	if len(headers) == 0 {
		return ""
	}
	for existing, value := range headers {
		if strings.EqualFold(strings.TrimSpace(existing), strings.TrimSpace(key)) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

var _ core.WebhookAuthenticator = WebhookVerifier{}
