package shopify

import (
	"errors"
	"fmt"
	"strings"
)

var ErrAdminAPIRequestFailed = errors.New("providers/shopify: admin api request failed")

// APIError carries the HTTP status and operation of a failed Admin API
// call so callers can log and classify without string matching.
type APIError struct {
	StatusCode int
	Operation  string
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e == nil {
		return ErrAdminAPIRequestFailed.Error()
	}
	base := "providers/shopify"
	if strings.TrimSpace(e.Operation) != "" {
		base += ": " + strings.TrimSpace(e.Operation)
	}
	if strings.TrimSpace(e.Message) != "" {
		base += ": " + strings.TrimSpace(e.Message)
	}
	if e.StatusCode > 0 {
		base += fmt.Sprintf(" (status=%d)", e.StatusCode)
	}
	if e.Cause != nil {
		base += ": " + e.Cause.Error()
	}
	return base
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
