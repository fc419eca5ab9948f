package webhooks

import (
	"strings"

	"github.com/goliatone/go-disputes/core"
)

const (
	DefaultTopicHeader  = "X-Shopify-Topic"
	DefaultDomainHeader = "X-Shopify-Shop-Domain"
)

// supportedTopics is the exact set of deliveries the pipeline accepts.
// Create and update deliveries for both resource names share one path.
var supportedTopics = map[string]struct{}{
	"disputes/create":    {},
	"disputes/update":    {},
	"chargebacks/create": {},
	"chargebacks/update": {},
}

// TopicDomainClassifier reads the delivery topic and originating shop
// domain from headers. Header lookup is case-insensitive and values are
// trimmed; topic matching is exact. A blank expected ShopDomain admits
// deliveries from any shop.
type TopicDomainClassifier struct {
	TopicHeader  string
	DomainHeader string
	ShopDomain   string
}

func NewTopicDomainClassifier(shopDomain string) TopicDomainClassifier {
	return TopicDomainClassifier{
		TopicHeader:  DefaultTopicHeader,
		DomainHeader: DefaultDomainHeader,
		ShopDomain:   strings.TrimSpace(shopDomain),
	}
}

func (c TopicDomainClassifier) Topic(req core.WebhookRequest) string {
	return headerValue(req.Headers, c.topicHeader())
}

func (c TopicDomainClassifier) Domain(req core.WebhookRequest) string {
	return headerValue(req.Headers, c.domainHeader())
}

func (c TopicDomainClassifier) SupportedTopic(topic string) bool {
	_, ok := supportedTopics[strings.TrimSpace(topic)]
	return ok
}

func (c TopicDomainClassifier) AllowedDomain(domain string) bool {
	expected := strings.TrimSpace(c.ShopDomain)
	if expected == "" {
		return true
	}
	return strings.TrimSpace(domain) == expected
}

func (c TopicDomainClassifier) topicHeader() string {
	if strings.TrimSpace(c.TopicHeader) != "" {
		return c.TopicHeader
	}
	return DefaultTopicHeader
}

func (c TopicDomainClassifier) domainHeader() string {
	if strings.TrimSpace(c.DomainHeader) != "" {
		return c.DomainHeader
	}
	return DefaultDomainHeader
}

var (
	_ core.WebhookAuthenticator = HeaderHMACVerifier{}
	_ core.WebhookClassifier    = TopicDomainClassifier{}
)
