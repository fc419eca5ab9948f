package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// WebhookRequest is the snapshot of one inbound webhook delivery: flattened
// headers and the exact raw body bytes. Signature verification operates on
// Body exactly as received; transports must not re-serialize or mutate it.
type WebhookRequest struct {
	Headers  map[string]string
	Body     []byte
	Metadata map[string]any
}

// WebhookResult reports the outcome of one webhook delivery. StatusCode and
// Message are what the transport writes back; Kind carries the error
// classification for rejected or failed deliveries.
type WebhookResult struct {
	Outcome    OutcomeKind
	StatusCode int
	Message    string
	Kind       string
	DisputeID  int64
	OrderID    int64
	Action     string
	Metadata   map[string]any
}

// CommerceGateway is the commerce-platform surface the pipeline depends on.
// GetOrder reports found=false with a nil error when the remote order does
// not exist; transport and API failures come back as errors.
type CommerceGateway interface {
	GetOrder(ctx context.Context, orderID int64) (OrderRecord, bool, error)
	SetCustomerTags(ctx context.Context, customerID int64, tags string) error
}

// RecordStore persists the processed/error audit trail. Inserts are
// best-effort from the pipeline's point of view; Metrics serves the
// read-only status surface.
type RecordStore interface {
	Ping(ctx context.Context) error
	InsertProcessed(ctx context.Context, record ProcessedWebhookRecord) error
	InsertError(ctx context.Context, record ErrorRecord) error
	Metrics(ctx context.Context, now time.Time) (StatusMetrics, error)
}

// NotificationSink posts chat notifications. A non-nil error is diagnostic
// only; callers log it and keep going.
type NotificationSink interface {
	Post(ctx context.Context, note Notification) error
}

// WebhookAuthenticator verifies a delivery's signature. A nil return means
// the delivery is treated as authentic.
type WebhookAuthenticator interface {
	Verify(ctx context.Context, req WebhookRequest) error
}

// WebhookClassifier extracts and gates the delivery's topic and originating
// shop domain.
type WebhookClassifier interface {
	Topic(req WebhookRequest) string
	Domain(req WebhookRequest) string
	SupportedTopic(topic string) bool
	AllowedDomain(domain string) bool
}

// Notification carries everything a sink needs to render one message.
type Notification struct {
	Kind          NotificationKind
	Event         DisputeEvent
	Action        string
	CustomerName  string
	CustomerEmail string
	OrderName     string
	ErrorKind     string
	Detail        string
	StatusCode    int
	Metadata      map[string]any
}

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationFailure NotificationKind = "failure"
)

// NotificationDispatchRecord is the audit entry for one notification
// attempt. It never gates sending; redelivered webhooks notify again.
type NotificationDispatchRecord struct {
	EventID  string
	Sink     string
	Kind     string
	Status   string
	Error    string
	Metadata map[string]any
}

type NotificationDispatchLedger interface {
	Record(ctx context.Context, record NotificationDispatchRecord) error
}

// DisputeService is the operation surface the command, query, and transport
// layers consume.
type DisputeService interface {
	ProcessWebhook(ctx context.Context, req WebhookRequest) (WebhookResult, error)
	Status(ctx context.Context) (StatusReport, error)
	ReportPanic(ctx context.Context, req WebhookRequest, recovered any, stack []byte) WebhookResult
}

// StoreProvider bundles the persistence surfaces a Service consumes.
type StoreProvider interface {
	Records() RecordStore
	NotificationDispatches() NotificationDispatchLedger
}

// RepositoryStoreFactory builds a StoreProvider from a persistence client.
// Implementations accept a *bun.DB or any client exposing DB() *bun.DB.
type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
