package shopify

import (
	"strconv"
	"strings"
	"time"
)

const (
	headerCallLimit = "X-Shopify-Shop-Api-Call-Limit"

	defaultRetryAfter429 = 2 * time.Second
)

// CallLimit is the decoded X-Shopify-Shop-Api-Call-Limit header, reported
// by the Admin API as "used/limit".
type CallLimit struct {
	Used  int
	Limit int
}

// Remaining reports how many calls are left in the bucket, never negative.
func (c CallLimit) Remaining() int {
	remaining := c.Limit - c.Used
	if remaining < 0 {
		return 0
	}
	return remaining
}

func parseCallLimit(value string) (CallLimit, bool) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	if len(parts) != 2 {
		return CallLimit{}, false
	}
	used, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || used < 0 {
		return CallLimit{}, false
	}
	limit, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || limit <= 0 {
		return CallLimit{}, false
	}
	return CallLimit{Used: used, Limit: limit}, true
}

// retryAfterHint decodes a Retry-After value in seconds, falling back to
// the Admin API's documented throttle interval.
func retryAfterHint(value string) time.Duration {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return defaultRetryAfter429
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return defaultRetryAfter429
	}
	return time.Duration(seconds) * time.Second
}
