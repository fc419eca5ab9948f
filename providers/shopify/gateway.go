// Package shopify implements the commerce-platform side of dispute
// processing against the Shopify Admin REST API: order lookups for
// enrichment and customer tag writes for escalation, plus the webhook
// verifier template for inbound deliveries.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-disputes/core"
)

const (
	defaultAPIVersion     = "2024-01"
	defaultRequestTimeout = 30 * time.Second
	defaultDomainSuffix   = ".myshopify.com"

	headerAccessToken = "X-Shopify-Access-Token"

	maxResponseBodyBytes = 1 << 20
)

// HTTPDoer is the transport seam; *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the Admin API client settings. ShopDomain accepts bare shop
// names, full domains, or URLs and is normalized to "<shop>.myshopify.com".
type Config struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration
	HTTPClient  HTTPDoer
	Logger      core.Logger
}

// Gateway talks to the Shopify Admin REST API. It performs single-shot
// requests; retry and backoff stay with the platform's own redelivery.
type Gateway struct {
	config     Config
	httpClient HTTPDoer
	logger     core.Logger
	baseURL    *url.URL
}

// New validates the configuration and returns a ready Gateway.
func New(cfg Config) (*Gateway, error) {
	domain, err := normalizeShopDomain(cfg.ShopDomain)
	if err != nil {
		return nil, err
	}
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, fmt.Errorf("providers/shopify: access token is required")
	}
	version := strings.TrimSpace(cfg.APIVersion)
	if version == "" {
		version = defaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = glog.Nop()
	}
	return &Gateway{
		config: Config{
			ShopDomain:  domain,
			AccessToken: token,
			APIVersion:  version,
			Timeout:     timeout,
		},
		httpClient: httpClient,
		logger:     logger,
		baseURL: &url.URL{
			Scheme: "https",
			Host:   domain,
		},
	}, nil
}

// ShopDomain reports the normalized shop domain requests are sent to.
func (g *Gateway) ShopDomain() string {
	if g == nil {
		return ""
	}
	return g.config.ShopDomain
}

type customerPayload struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Tags      string `json:"tags"`
}

type orderPayload struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Customer *customerPayload `json:"customer"`
}

// GetOrder fetches one order by id. A 404 reports found=false with a nil
// error; every other non-2xx status comes back as an *APIError.
func (g *Gateway) GetOrder(ctx context.Context, orderID int64) (core.OrderRecord, bool, error) {
	if g == nil || g.httpClient == nil {
		return core.OrderRecord{}, false, fmt.Errorf("providers/shopify: gateway is not configured")
	}

	status, body, err := g.do(ctx, http.MethodGet, fmt.Sprintf("orders/%d.json", orderID), nil)
	if err != nil {
		return core.OrderRecord{}, false, &APIError{
			Operation: "get_order",
			Message:   fmt.Sprintf("fetch order %d", orderID),
			Cause:     err,
		}
	}
	if status == http.StatusNotFound {
		return core.OrderRecord{}, false, nil
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return core.OrderRecord{}, false, &APIError{
			StatusCode: status,
			Operation:  "get_order",
			Message:    apiErrorMessage(body, fmt.Sprintf("fetch order %d", orderID)),
			Cause:      ErrAdminAPIRequestFailed,
		}
	}

	envelope := struct {
		Order orderPayload `json:"order"`
	}{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return core.OrderRecord{}, false, &APIError{
			StatusCode: status,
			Operation:  "get_order",
			Message:    "decode order response",
			Cause:      err,
		}
	}
	if envelope.Order.ID == 0 {
		return core.OrderRecord{}, false, &APIError{
			StatusCode: status,
			Operation:  "get_order",
			Message:    "order response missing order payload",
			Cause:      ErrAdminAPIRequestFailed,
		}
	}

	record := core.OrderRecord{
		ID:   envelope.Order.ID,
		Name: envelope.Order.Name,
	}
	if customer := envelope.Order.Customer; customer != nil {
		record.Customer = &core.CustomerRecord{
			ID:        customer.ID,
			FirstName: customer.FirstName,
			LastName:  customer.LastName,
			Email:     customer.Email,
			Tags:      customer.Tags,
		}
	}
	return record, true, nil
}

// SetCustomerTags replaces the customer's tag string. The full tag string
// is written as-is; merging happens upstream in the escalation ladder.
func (g *Gateway) SetCustomerTags(ctx context.Context, customerID int64, tags string) error {
	if g == nil || g.httpClient == nil {
		return fmt.Errorf("providers/shopify: gateway is not configured")
	}

	payload, err := json.Marshal(map[string]any{
		"customer": map[string]any{
			"id":   customerID,
			"tags": tags,
		},
	})
	if err != nil {
		return &APIError{
			Operation: "set_customer_tags",
			Message:   fmt.Sprintf("encode tags for customer %d", customerID),
			Cause:     err,
		}
	}

	status, body, err := g.do(ctx, http.MethodPut, fmt.Sprintf("customers/%d.json", customerID), payload)
	if err != nil {
		return &APIError{
			Operation: "set_customer_tags",
			Message:   fmt.Sprintf("update tags for customer %d", customerID),
			Cause:     err,
		}
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return &APIError{
			StatusCode: status,
			Operation:  "set_customer_tags",
			Message:    apiErrorMessage(body, fmt.Sprintf("update tags for customer %d", customerID)),
			Cause:      ErrAdminAPIRequestFailed,
		}
	}
	return nil
}

func (g *Gateway) do(ctx context.Context, method, adminPath string, body []byte) (int, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	requestCtx := ctx
	cancel := func() {}
	if g.config.Timeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, g.config.Timeout)
	}
	defer cancel()

	endpoint := g.baseURL.ResolveReference(&url.URL{
		Path: fmt.Sprintf("/admin/api/%s/%s", g.config.APIVersion, adminPath),
	})

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(requestCtx, method, endpoint.String(), reader)
	if err != nil {
		return 0, nil, err
	}
	httpReq.Header.Set(headerAccessToken, g.config.AccessToken)
	httpReq.Header.Set("Accept", "application/json")
	if len(body) > 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	response, err := g.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer response.Body.Close()

	g.observeRateLimit(ctx, response)

	responseBody, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodyBytes+1))
	if readErr != nil {
		return response.StatusCode, nil, readErr
	}
	if int64(len(responseBody)) > maxResponseBodyBytes {
		return response.StatusCode, nil, fmt.Errorf("providers/shopify: response exceeds %d bytes", maxResponseBodyBytes)
	}
	return response.StatusCode, responseBody, nil
}

func (g *Gateway) observeRateLimit(ctx context.Context, response *http.Response) {
	if g.logger == nil || response == nil {
		return
	}
	limit, ok := parseCallLimit(response.Header.Get(headerCallLimit))
	if ok {
		g.logger.Debug("shopify admin api call limit",
			"used", limit.Used,
			"limit", limit.Limit,
			"remaining", limit.Remaining(),
		)
	}
	if response.StatusCode != http.StatusTooManyRequests {
		return
	}
	retryAfter := retryAfterHint(response.Header.Get("Retry-After"))
	g.logger.Warn("shopify admin api throttled",
		"retry_after_seconds", int64(retryAfter.Seconds()),
	)
	_ = ctx
}

// apiErrorMessage prefers the "errors" field Shopify puts in failure
// bodies, falling back to the caller's description.
func apiErrorMessage(body []byte, fallback string) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fallback
	}
	payload := struct {
		Errors any `json:"errors"`
	}{}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Errors == nil {
		return fallback
	}
	switch typed := payload.Errors.(type) {
	case string:
		if message := strings.TrimSpace(typed); message != "" {
			return fmt.Sprintf("%s: %s", fallback, message)
		}
	default:
		encoded, err := json.Marshal(typed)
		if err == nil && len(encoded) > 0 {
			return fmt.Sprintf("%s: %s", fallback, string(encoded))
		}
	}
	return fallback
}

func normalizeShopDomain(domain string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(domain))
	if normalized == "" {
		return "", fmt.Errorf("providers/shopify: shop domain is required")
	}
	if strings.Contains(normalized, "://") {
		parsed, err := url.Parse(normalized)
		if err != nil {
			return "", fmt.Errorf("providers/shopify: parse shop domain: %w", err)
		}
		normalized = parsed.Hostname()
	}
	normalized = strings.TrimSuffix(normalized, "/")
	if strings.Contains(normalized, "/") {
		return "", fmt.Errorf("providers/shopify: shop domain %q must not contain a path", domain)
	}
	if !strings.Contains(normalized, ".") {
		normalized += defaultDomainSuffix
	}
	if !strings.HasSuffix(normalized, defaultDomainSuffix) {
		return "", fmt.Errorf("providers/shopify: shop domain %q must end with %s", domain, defaultDomainSuffix)
	}
	return normalized, nil
}

var _ core.CommerceGateway = (*Gateway)(nil)
