package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// DisputeTypeChargeback is the only dispute type this service
	// processes. Inquiries and anything else are rejected before any
	// commerce call happens.
	DisputeTypeChargeback = "chargeback"

	// PlaceholderCustomerName and PlaceholderCustomerEmail stand in when
	// an order carries no usable customer identity.
	PlaceholderCustomerName  = "Unknown Customer"
	PlaceholderCustomerEmail = "unknown@example.com"
)

type OutcomeKind string

const (
	OutcomeProcessed OutcomeKind = "processed"
	OutcomeRejected  OutcomeKind = "rejected"
	OutcomeNotFound  OutcomeKind = "order_not_found"
	OutcomeFailed    OutcomeKind = "failed"
)

// DisputeEvent is the parsed webhook payload. Monetary amounts and event
// timestamps stay strings as delivered; they are never numerically coerced.
type DisputeEvent struct {
	ID                int64  `json:"id"`
	OrderID           int64  `json:"order_id"`
	Type              string `json:"type"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	Reason            string `json:"reason"`
	Status            string `json:"status"`
	NetworkReasonCode string `json:"network_reason_code"`
	EvidenceDueBy     string `json:"evidence_due_by"`
	CreatedAt         string `json:"created_at"`
}

// IsChargeback reports whether the event's type is exactly "chargeback".
// Case variants and empty values do not qualify.
func (e DisputeEvent) IsChargeback() bool {
	return e.Type == DisputeTypeChargeback
}

// AmountLabel renders the event's money as "<amount> <currency>" for
// notifications, tolerating blank components.
func (e DisputeEvent) AmountLabel() string {
	return strings.TrimSpace(strings.TrimSpace(e.Amount) + " " + strings.TrimSpace(e.Currency))
}

// ParseDisputeEvent decodes a webhook body into a DisputeEvent. The raw
// bytes are decoded exactly once; callers keep the original body for
// hashing and audit snapshots.
func ParseDisputeEvent(body []byte) (DisputeEvent, error) {
	var event DisputeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return DisputeEvent{}, fmt.Errorf("core: parse dispute event: %w", err)
	}
	return event, nil
}

type CustomerRecord struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Tags      string
}

type OrderRecord struct {
	ID       int64
	Name     string
	Customer *CustomerRecord
}

// CustomerName derives the display name: first and last name each trimmed,
// joined by a single space. Orders without a customer use the placeholder.
func (o OrderRecord) CustomerName() string {
	if o.Customer == nil {
		return PlaceholderCustomerName
	}
	first := strings.TrimSpace(o.Customer.FirstName)
	last := strings.TrimSpace(o.Customer.LastName)
	return strings.TrimSpace(first + " " + last)
}

// CustomerEmail falls back to the placeholder when no customer is attached
// or the attached customer has a blank email.
func (o OrderRecord) CustomerEmail() string {
	if o.Customer == nil {
		return PlaceholderCustomerEmail
	}
	email := strings.TrimSpace(o.Customer.Email)
	if email == "" {
		return PlaceholderCustomerEmail
	}
	return email
}

// CustomerTags returns the customer's current tag string, empty when no
// customer is attached.
func (o OrderRecord) CustomerTags() string {
	if o.Customer == nil {
		return ""
	}
	return o.Customer.Tags
}

// DisplayName returns the order's display name, falling back to
// "#<order id>" when the platform sent none.
func (o OrderRecord) DisplayName() string {
	if name := strings.TrimSpace(o.Name); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", o.ID)
}

// TagDecision is the outcome of walking the escalation ladder over a
// customer's current tags.
type TagDecision struct {
	ShouldUpdate bool
	NewTags      string
	Action       string
}

// ProcessedWebhookRecord is the audit row written after a chargeback has
// been processed. EventJSON holds the parsed event re-serialized as JSON.
type ProcessedWebhookRecord struct {
	CustomerName  string
	CustomerEmail string
	OrderID       int64
	EventJSON     string
	Action        string
	TagsBefore    string
	TagsAfter     string
	DisputeID     int64
	Amount        string
	Currency      string
	Reason        string
	Status        string
	CreatedAt     time.Time
}

// ErrorRecord captures one failed delivery: the HTTP status served, the
// error classification, where it originated, whatever identity was
// recovered, and a sanitized snapshot of the raw request.
type ErrorRecord struct {
	StatusCode    int
	Message       string
	Kind          string
	Operation     string
	DisputeID     int64
	OrderID       int64
	CustomerEmail string
	Payload       string
	Stack         string
	Environment   string
	CreatedAt     time.Time
}

// PeriodCounts aggregates record counts for the status surface. Day and
// month windows are UTC.
type PeriodCounts struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	ThisMonth int `json:"this_month"`
}

type StatusMetrics struct {
	Processed PeriodCounts `json:"processed"`
	Errors    PeriodCounts `json:"errors"`
}

// StatusReport is the GET status payload: which collaborators are
// configured, whether the database answers, and the aggregate counts.
type StatusReport struct {
	Service                 string       `json:"service"`
	Environment             string       `json:"environment"`
	CommerceConfigured      bool         `json:"commerce_configured"`
	NotificationsConfigured bool         `json:"notifications_configured"`
	DatabaseConfigured      bool         `json:"database_configured"`
	DatabaseHealthy         bool         `json:"database_healthy"`
	SignatureConfigured     bool         `json:"signature_configured"`
	Processed               PeriodCounts `json:"processed"`
	Errors                  PeriodCounts `json:"errors"`
	GeneratedAt             time.Time    `json:"generated_at"`
}
