package core

import (
	"fmt"
	"strings"
)

// WebhookConfig governs inbound delivery gating. An empty Secret fails
// every signature check (closed); an empty ShopDomain disables the domain
// gate entirely (open). Both defaults mirror the documented contract:
// deliveries without a signature header pass verification.
type WebhookConfig struct {
	Secret     string `koanf:"secret" mapstructure:"secret"`
	ShopDomain string `koanf:"shop_domain" mapstructure:"shop_domain"`
}

// CommerceConfig configures the outbound commerce-platform client.
type CommerceConfig struct {
	ShopDomain  string `koanf:"shop_domain" mapstructure:"shop_domain"`
	AccessToken string `koanf:"access_token" mapstructure:"access_token"`
	APIVersion  string `koanf:"api_version" mapstructure:"api_version"`
}

// NotifyConfig configures the chat notification sink.
type NotifyConfig struct {
	WebhookURL string `koanf:"webhook_url" mapstructure:"webhook_url"`
	Channel    string `koanf:"channel" mapstructure:"channel"`
	Username   string `koanf:"username" mapstructure:"username"`
}

type Config struct {
	ServiceName string         `koanf:"service_name" mapstructure:"service_name"`
	Environment string         `koanf:"environment" mapstructure:"environment"`
	Webhook     WebhookConfig  `koanf:"webhook" mapstructure:"webhook"`
	Commerce    CommerceConfig `koanf:"commerce" mapstructure:"commerce"`
	Notify      NotifyConfig   `koanf:"notify" mapstructure:"notify"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "disputes",
		Environment: "development",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.Environment) == "" {
		return fmt.Errorf("core: environment is required")
	}
	return nil
}
