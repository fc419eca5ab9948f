package disputes

import (
	"github.com/goliatone/go-disputes/core"
	"github.com/goliatone/go-disputes/notify"
	"github.com/goliatone/go-disputes/providers/shopify"
)

func ShopifyGateway(cfg shopify.Config) (core.CommerceGateway, error) {
	return shopify.New(cfg)
}

func ShopifyWebhookVerifier(secret string) core.WebhookAuthenticator {
	return shopify.NewWebhookVerifier(shopify.DefaultWebhookConfig(secret))
}

func ShopifyWebhookClassifier(shopDomain string) core.WebhookClassifier {
	return shopify.NewClassifier(shopDomain)
}

func ChatNotifier(cfg notify.Config) (core.NotificationSink, error) {
	return notify.New(cfg)
}
