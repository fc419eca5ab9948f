package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

type stubAuthenticator struct {
	err error
}

func (a stubAuthenticator) Verify(context.Context, WebhookRequest) error { return a.err }

type stubClassifier struct {
	topic    string
	domain   string
	topicOK  bool
	domainOK bool
}

func (c stubClassifier) Topic(WebhookRequest) string  { return c.topic }
func (c stubClassifier) Domain(WebhookRequest) string { return c.domain }
func (c stubClassifier) SupportedTopic(string) bool   { return c.topicOK }
func (c stubClassifier) AllowedDomain(string) bool    { return c.domainOK }

type tagUpdate struct {
	customerID int64
	tags       string
}

type stubCommerce struct {
	mu         sync.Mutex
	order      OrderRecord
	found      bool
	getErr     error
	panicOnGet bool
	setErr     error
	getCalls   int
	setCalls   []tagUpdate
}

func (c *stubCommerce) GetOrder(_ context.Context, _ int64) (OrderRecord, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCalls++
	if c.panicOnGet {
		panic("commerce gateway exploded")
	}
	return c.order, c.found, c.getErr
}

func (c *stubCommerce) SetCustomerTags(_ context.Context, customerID int64, tags string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCalls = append(c.setCalls, tagUpdate{customerID: customerID, tags: tags})
	return c.setErr
}

func (c *stubCommerce) tagUpdates() []tagUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]tagUpdate, len(c.setCalls))
	copy(out, c.setCalls)
	return out
}

type memoryRecordStore struct {
	mu         sync.Mutex
	pings      int
	pingErr    error
	insertErr  error
	metricsErr error
	metrics    StatusMetrics
	processed  []ProcessedWebhookRecord
	failures   []ErrorRecord
}

func (s *memoryRecordStore) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pings++
	return s.pingErr
}

func (s *memoryRecordStore) InsertProcessed(_ context.Context, record ProcessedWebhookRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.processed = append(s.processed, record)
	return nil
}

func (s *memoryRecordStore) InsertError(_ context.Context, record ErrorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.failures = append(s.failures, record)
	return nil
}

func (s *memoryRecordStore) Metrics(context.Context, time.Time) (StatusMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.metricsErr != nil {
		return StatusMetrics{}, s.metricsErr
	}
	return s.metrics, nil
}

func (s *memoryRecordStore) pingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pings
}

func (s *memoryRecordStore) processedRecords() []ProcessedWebhookRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ProcessedWebhookRecord, len(s.processed))
	copy(out, s.processed)
	return out
}

func (s *memoryRecordStore) errorRecords() []ErrorRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ErrorRecord, len(s.failures))
	copy(out, s.failures)
	return out
}

type captureSink struct {
	mu      sync.Mutex
	postErr error
	notes   []Notification
}

func (s *captureSink) Post(_ context.Context, note Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, note)
	return s.postErr
}

func (s *captureSink) notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.notes))
	copy(out, s.notes)
	return out
}

type memoryDispatchLedger struct {
	mu      sync.Mutex
	entries []NotificationDispatchRecord
}

func (l *memoryDispatchLedger) Record(_ context.Context, record NotificationDispatchRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, record)
	return nil
}

func (l *memoryDispatchLedger) records() []NotificationDispatchRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]NotificationDispatchRecord, len(l.entries))
	copy(out, l.entries)
	return out
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

type pipelineFixture struct {
	svc      *Service
	commerce *stubCommerce
	store    *memoryRecordStore
	sink     *captureSink
	ledger   *memoryDispatchLedger
}

func newPipelineFixture(t *testing.T, options ...Option) *pipelineFixture {
	t.Helper()
	fixture := &pipelineFixture{
		commerce: &stubCommerce{order: testOrder(), found: true},
		store:    &memoryRecordStore{},
		sink:     &captureSink{},
		ledger:   &memoryDispatchLedger{},
	}
	base := []Option{
		WithCommerceGateway(fixture.commerce),
		WithRecordStore(fixture.store),
		WithNotificationSink(fixture.sink),
		WithDispatchLedger(fixture.ledger),
		WithWebhookAuthenticator(stubAuthenticator{}),
		WithWebhookClassifier(stubClassifier{
			topic:    "disputes/create",
			domain:   "storefront.myshopify.com",
			topicOK:  true,
			domainOK: true,
		}),
		WithLogger(stubLogger{}),
	}
	svc, err := NewService(Config{ServiceName: "disputes", Environment: "test"}, append(base, options...)...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	fixture.svc = svc
	return fixture
}

func testOrder() OrderRecord {
	return OrderRecord{
		ID:   820982911,
		Name: "#1001",
		Customer: &CustomerRecord{
			ID:        207119551,
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
		},
	}
}

func testChargebackBody() []byte {
	return []byte(`{"id":987654321,"order_id":820982911,"type":"chargeback","amount":"49.99","currency":"USD","reason":"fraudulent","status":"needs_response","network_reason_code":"4837","evidence_due_by":"2026-09-04T00:00:00Z","created_at":"2026-08-21T10:12:00Z"}`)
}

func testWebhookRequest(body []byte) WebhookRequest {
	return WebhookRequest{
		Headers: map[string]string{
			"X-Shopify-Topic":       "disputes/create",
			"X-Shopify-Shop-Domain": "storefront.myshopify.com",
		},
		Body: body,
	}
}
