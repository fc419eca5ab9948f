package shopify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"

	"github.com/goliatone/go-disputes/core"
)

func signDelivery(t *testing.T, secret string, body []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookVerifier_AcceptsSignedDelivery(t *testing.T) {
	body := []byte(`{"id":987654321,"type":"chargeback"}`)
	verifier := NewWebhookVerifier(DefaultWebhookConfig("webhook_secret"))

	req := core.WebhookRequest{
		Headers: map[string]string{
			"X-Shopify-Hmac-Sha256": signDelivery(t, "webhook_secret", body),
		},
		Body: body,
	}
	if err := verifier.Verify(context.Background(), req); err != nil {
		t.Fatalf("expected signed delivery to pass, got %v", err)
	}

	req.Body = []byte(`{"id":987654321,"type":"chargeback","amount":"0.01"}`)
	if err := verifier.Verify(context.Background(), req); err == nil {
		t.Fatal("expected tampered delivery to fail")
	}
}

func TestWebhookVerifier_ReplayWindow(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	body := []byte(`{"id":1}`)
	signature := signDelivery(t, "webhook_secret", body)

	cases := []struct {
		name        string
		config      WebhookConfig
		triggeredAt string
		wantErr     bool
	}{
		{
			name:        "inside_window_passes",
			config:      WebhookConfig{Secret: "webhook_secret", EnforceReplay: true},
			triggeredAt: now.Add(-2 * time.Minute).Format(time.RFC3339Nano),
		},
		{
			name:        "outside_default_window_fails",
			config:      WebhookConfig{Secret: "webhook_secret", EnforceReplay: true},
			triggeredAt: now.Add(-10 * time.Minute).Format(time.RFC3339Nano),
			wantErr:     true,
		},
		{
			name: "custom_window_extends_tolerance",
			config: WebhookConfig{
				Secret:        "webhook_secret",
				EnforceReplay: true,
				ReplayWindow:  15 * time.Minute,
			},
			triggeredAt: now.Add(-10 * time.Minute).Format(time.RFC3339Nano),
		},
		{
			name:        "future_timestamp_inside_window_passes",
			config:      WebhookConfig{Secret: "webhook_secret", EnforceReplay: true},
			triggeredAt: now.Add(4 * time.Minute).Format(time.RFC3339Nano),
		},
		{
			name:        "missing_header_passes_by_default",
			config:      WebhookConfig{Secret: "webhook_secret", EnforceReplay: true},
			triggeredAt: "",
		},
		{
			name: "missing_header_fails_when_required",
			config: WebhookConfig{
				Secret:             "webhook_secret",
				EnforceReplay:      true,
				RequireTriggeredAt: true,
			},
			triggeredAt: "",
			wantErr:     true,
		},
		{
			name:        "unparseable_timestamp_fails",
			config:      WebhookConfig{Secret: "webhook_secret", EnforceReplay: true},
			triggeredAt: "yesterday",
			wantErr:     true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.config
			cfg.Now = func() time.Time { return now }
			verifier := NewWebhookVerifier(cfg)

			headers := map[string]string{"X-Shopify-Hmac-Sha256": signature}
			if tc.triggeredAt != "" {
				headers["X-Shopify-Triggered-At"] = tc.triggeredAt
			}
			err := verifier.Verify(context.Background(), core.WebhookRequest{Headers: headers, Body: body})
			if tc.wantErr && err == nil {
				t.Fatal("expected verification to fail")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected verification to pass, got %v", err)
			}
		})
	}
}

func TestWebhookVerifier_ReplayDisabledIgnoresTriggerTime(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	body := []byte(`{"id":1}`)

	cfg := DefaultWebhookConfig("webhook_secret")
	cfg.Now = func() time.Time { return now }
	verifier := NewWebhookVerifier(cfg)

	req := core.WebhookRequest{
		Headers: map[string]string{
			"X-Shopify-Hmac-Sha256":  signDelivery(t, "webhook_secret", body),
			"X-Shopify-Triggered-At": now.Add(-48 * time.Hour).Format(time.RFC3339Nano),
		},
		Body: body,
	}
	if err := verifier.Verify(context.Background(), req); err != nil {
		t.Fatalf("expected stale trigger time to be ignored, got %v", err)
	}
}

func TestDeliveryID(t *testing.T) {
	req := core.WebhookRequest{
		Headers: map[string]string{
			"x-shopify-webhook-id": "  b54557e4-bdd9-4b37-8a5f-bf7d70bcd043  ",
		},
	}
	if got := DeliveryID(req); got != "b54557e4-bdd9-4b37-8a5f-bf7d70bcd043" {
		t.Fatalf("unexpected delivery id %q", got)
	}
	if got := DeliveryID(core.WebhookRequest{}); got != "" {
		t.Fatalf("expected empty delivery id, got %q", got)
	}
}
