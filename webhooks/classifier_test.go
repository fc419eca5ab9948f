package webhooks

import (
	"testing"

	"github.com/goliatone/go-disputes/core"
)

func TestTopicDomainClassifierSupportedTopics(t *testing.T) {
	classifier := NewTopicDomainClassifier("")
	cases := []struct {
		name  string
		topic string
		want  bool
	}{
		{name: "disputes_create", topic: "disputes/create", want: true},
		{name: "disputes_update", topic: "disputes/update", want: true},
		{name: "chargebacks_create", topic: "chargebacks/create", want: true},
		{name: "chargebacks_update", topic: "chargebacks/update", want: true},
		{name: "padded_value_is_trimmed", topic: " disputes/create ", want: true},
		{name: "orders_create", topic: "orders/create", want: false},
		{name: "disputes_delete", topic: "disputes/delete", want: false},
		{name: "uppercase_is_rejected", topic: "DISPUTES/CREATE", want: false},
		{name: "empty", topic: "", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifier.SupportedTopic(tc.topic); got != tc.want {
				t.Fatalf("expected %t for topic %q, got %t", tc.want, tc.topic, got)
			}
		})
	}
}

func TestTopicDomainClassifierDomainGate(t *testing.T) {
	cases := []struct {
		name     string
		expected string
		domain   string
		want     bool
	}{
		{name: "unconfigured_allows_any", expected: "", domain: "anything.myshopify.com", want: true},
		{name: "unconfigured_allows_blank", expected: "", domain: "", want: true},
		{name: "match", expected: "storefront.myshopify.com", domain: "storefront.myshopify.com", want: true},
		{name: "match_after_trim", expected: "storefront.myshopify.com", domain: "  storefront.myshopify.com  ", want: true},
		{name: "mismatch", expected: "storefront.myshopify.com", domain: "intruder.myshopify.com", want: false},
		{name: "case_difference_is_rejected", expected: "storefront.myshopify.com", domain: "Storefront.myshopify.com", want: false},
		{name: "blank_when_configured", expected: "storefront.myshopify.com", domain: "", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			classifier := NewTopicDomainClassifier(tc.expected)
			if got := classifier.AllowedDomain(tc.domain); got != tc.want {
				t.Fatalf("expected %t for domain %q against %q, got %t", tc.want, tc.domain, tc.expected, got)
			}
		})
	}
}

func TestTopicDomainClassifierExtraction(t *testing.T) {
	classifier := NewTopicDomainClassifier("storefront.myshopify.com")
	req := core.WebhookRequest{
		Headers: map[string]string{
			"x-shopify-topic":       "  disputes/update  ",
			"X-SHOPIFY-SHOP-DOMAIN": "storefront.myshopify.com",
		},
	}
	if got := classifier.Topic(req); got != "disputes/update" {
		t.Fatalf("expected trimmed topic, got %q", got)
	}
	if got := classifier.Domain(req); got != "storefront.myshopify.com" {
		t.Fatalf("expected domain, got %q", got)
	}
}

func TestTopicDomainClassifierCustomHeaders(t *testing.T) {
	classifier := TopicDomainClassifier{
		TopicHeader:  "X-Event-Topic",
		DomainHeader: "X-Event-Origin",
	}
	req := core.WebhookRequest{
		Headers: map[string]string{
			"X-Event-Topic":  "chargebacks/create",
			"X-Event-Origin": "relay.myshopify.com",
		},
	}
	if got := classifier.Topic(req); got != "chargebacks/create" {
		t.Fatalf("expected custom topic header, got %q", got)
	}
	if got := classifier.Domain(req); got != "relay.myshopify.com" {
		t.Fatalf("expected custom domain header, got %q", got)
	}
}
