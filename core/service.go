package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Service orchestrates the webhook decision sequence: signature, topic, and
// domain gates, payload parsing, the chargeback pipeline, and the status
// surface. One call handles one delivery start to finish; the only
// per-request state lives on the run, never on the Service.
type Service struct {
	config            Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	persistenceClient any
	repositoryFactory any
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	commerce          CommerceGateway
	notifier          NotificationSink
	records           RecordStore
	dispatches        NotificationDispatchLedger
	authenticator     WebhookAuthenticator
	classifier        WebhookClassifier
	nowFunc           func() time.Time
}

type ServiceDependencies struct {
	Logger            Logger
	LoggerProvider    LoggerProvider
	MetricsRecorder   MetricsRecorder
	ErrorFactory      ErrorFactory
	ErrorMapper       ErrorMapper
	PersistenceClient any
	RepositoryFactory any
	ConfigProvider    ConfigProvider
	OptionsResolver   OptionsResolver
	CommerceGateway   CommerceGateway
	NotificationSink  NotificationSink
	RecordStore       RecordStore
	DispatchLedger    NotificationDispatchLedger
	Authenticator     WebhookAuthenticator
	Classifier        WebhookClassifier
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("disputes", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("disputes"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.now == nil {
		builder.now = time.Now
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if (builder.records == nil || builder.dispatches == nil) && builder.repositoryFactory != nil {
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			stores, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			if stores != nil {
				if builder.records == nil {
					builder.records = stores.Records()
				}
				if builder.dispatches == nil {
					builder.dispatches = stores.NotificationDispatches()
				}
			}
		} else if stores, ok := builder.repositoryFactory.(StoreProvider); ok {
			if builder.records == nil {
				builder.records = stores.Records()
			}
			if builder.dispatches == nil {
				builder.dispatches = stores.NotificationDispatches()
			}
		}
	}

	return &Service{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		persistenceClient: builder.persistenceClient,
		repositoryFactory: builder.repositoryFactory,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		commerce:          builder.commerce,
		notifier:          builder.notifier,
		records:           builder.records,
		dispatches:        builder.dispatches,
		authenticator:     builder.authenticator,
		classifier:        builder.classifier,
		nowFunc:           builder.now,
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:            s.logger,
		LoggerProvider:    s.loggerProvider,
		MetricsRecorder:   s.metricsRecorder,
		ErrorFactory:      s.errorFactory,
		ErrorMapper:       s.errorMapper,
		PersistenceClient: s.persistenceClient,
		RepositoryFactory: s.repositoryFactory,
		ConfigProvider:    s.configProvider,
		OptionsResolver:   s.optionsResolver,
		CommerceGateway:   s.commerce,
		NotificationSink:  s.notifier,
		RecordStore:       s.records,
		DispatchLedger:    s.dispatches,
		Authenticator:     s.authenticator,
		Classifier:        s.classifier,
	}
}

// ProcessWebhook runs the full decision sequence for one delivery. The
// returned result always carries the HTTP status and plain-text message the
// transport should serve; err is non-nil for every non-200 outcome.
func (s *Service) ProcessWebhook(ctx context.Context, req WebhookRequest) (result WebhookResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		if result.Outcome != "" {
			fields["outcome"] = string(result.Outcome)
		}
		if result.Kind != "" {
			fields["kind"] = result.Kind
		}
		s.observeOperation(ctx, startedAt, "process_webhook", err, fields)
	}()

	if s == nil {
		return WebhookResult{}, fmt.Errorf("core: service is required")
	}

	run := &webhookRun{service: s, req: req}

	if s.authenticator == nil || s.classifier == nil {
		result, err = run.fail(ctx, "process_webhook", fmt.Errorf("core: webhook authenticator and classifier are required"))
		return result, err
	}

	if verifyErr := s.authenticator.Verify(ctx, req); verifyErr != nil {
		result, err = run.reject(ctx, KindInvalidSignature, "verify_signature", verifyErr.Error())
		return result, err
	}

	topic := s.classifier.Topic(req)
	if topic != "" {
		fields["topic"] = topic
	}
	if !s.classifier.SupportedTopic(topic) {
		result, err = run.reject(ctx, KindUnsupportedWebhookType, "classify_topic", fmt.Sprintf("unsupported webhook topic %q", topic))
		return result, err
	}

	if domain := s.classifier.Domain(req); !s.classifier.AllowedDomain(domain) {
		result, err = run.reject(ctx, KindInvalidShopDomain, "classify_domain", fmt.Sprintf("shop domain %q does not match the configured shop", domain))
		return result, err
	}

	event, parseErr := ParseDisputeEvent(req.Body)
	if parseErr != nil {
		result, err = run.reject(ctx, KindJSONParseError, "parse_event", parseErr.Error())
		return result, err
	}
	run.event = event
	fields["dispute_id"] = event.ID
	fields["order_id"] = event.OrderID

	if !event.IsChargeback() {
		result, err = run.reject(ctx, KindUnsupportedDisputeType, "gate_dispute_type", fmt.Sprintf("unsupported dispute type %q", event.Type))
		return result, err
	}

	result, err = run.processChargeback(ctx)
	return result, err
}

// Status reports configured collaborators, database health, and aggregate
// processed/error counts. Metrics failures degrade to zero counts with the
// database flagged unhealthy instead of failing the read.
func (s *Service) Status(ctx context.Context) (report StatusReport, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observeOperation(ctx, startedAt, "status", err, map[string]any{})
	}()

	if s == nil {
		return StatusReport{}, fmt.Errorf("core: service is required")
	}

	now := s.now().UTC()
	report = StatusReport{
		Service:                 s.config.ServiceName,
		Environment:             s.config.Environment,
		CommerceConfigured:      s.commerce != nil,
		NotificationsConfigured: s.notifier != nil,
		DatabaseConfigured:      s.records != nil,
		SignatureConfigured:     strings.TrimSpace(s.config.Webhook.Secret) != "",
		GeneratedAt:             now,
	}
	if s.records == nil {
		return report, nil
	}
	if pingErr := s.records.Ping(ctx); pingErr != nil {
		s.logError(ctx, "record store ping failed", map[string]any{"error": pingErr.Error()})
		return report, nil
	}
	report.DatabaseHealthy = true
	metrics, metricsErr := s.records.Metrics(ctx, now)
	if metricsErr != nil {
		s.logError(ctx, "status metrics query failed", map[string]any{"error": metricsErr.Error()})
		report.DatabaseHealthy = false
		return report, nil
	}
	report.Processed = metrics.Processed
	report.Errors = metrics.Errors
	return report, nil
}

// ReportPanic records a panic that escaped outside the pipeline, posts the
// generic failure notification, and shapes the 500 the transport serves.
// The recovered value's type name becomes the error classification.
func (s *Service) ReportPanic(ctx context.Context, req WebhookRequest, recovered any, stack []byte) WebhookResult {
	result := WebhookResult{
		Outcome:    OutcomeFailed,
		StatusCode: http.StatusInternalServerError,
		Message:    kindResponseMessage(KindProcessingError),
		Kind:       fmt.Sprintf("%T", recovered),
	}
	if s == nil {
		return result
	}

	startedAt := time.Now().UTC()
	err := fmt.Errorf("core: recovered panic: %v", recovered)
	defer func() {
		s.observeOperation(ctx, startedAt, "report_panic", err, map[string]any{"kind": result.Kind})
	}()

	run := &webhookRun{service: s, req: req}
	run.recordError(ctx, ErrorRecord{
		StatusCode: http.StatusInternalServerError,
		Message:    fmt.Sprint(recovered),
		Kind:       result.Kind,
		Operation:  "http_handler",
		Payload:    SanitizePayload(req.Body),
		Stack:      string(stack),
	})
	run.notify(ctx, Notification{
		Kind:       NotificationFailure,
		ErrorKind:  result.Kind,
		Detail:     fmt.Sprint(recovered),
		StatusCode: http.StatusInternalServerError,
	})
	return result
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) now() time.Time {
	if s == nil || s.nowFunc == nil {
		return time.Now()
	}
	return s.nowFunc()
}

// webhookRun carries the per-delivery state: the raw request, whatever
// identity the pipeline has derived so far, and the memoized store probe.
// The connectivity check runs at most once per delivery and is never
// shared across requests.
type webhookRun struct {
	service       *Service
	req           WebhookRequest
	event         DisputeEvent
	customerEmail string
	stack         string
	storeChecked  bool
	storeHealthy  bool
}

func (r *webhookRun) processChargeback(ctx context.Context) (result WebhookResult, err error) {
	s := r.service
	event := r.event

	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		r.stack = string(debug.Stack())
		result, err = r.fail(ctx, "process_chargeback", fmt.Errorf("core: chargeback pipeline panic: %v", recovered))
	}()

	if s.commerce == nil {
		return r.fail(ctx, "process_chargeback", fmt.Errorf("core: commerce gateway is required"))
	}

	order, found, getErr := s.commerce.GetOrder(ctx, event.OrderID)
	if getErr != nil {
		return r.fail(ctx, "get_order", getErr)
	}
	if !found {
		return r.orderNotFound(ctx)
	}

	customerName := order.CustomerName()
	customerEmail := order.CustomerEmail()
	tagsBefore := order.CustomerTags()
	orderName := order.DisplayName()
	r.customerEmail = customerEmail

	decision := EscalateTags(tagsBefore)
	tagsAfter := decision.NewTags
	if decision.ShouldUpdate && order.Customer != nil {
		if tagErr := s.commerce.SetCustomerTags(ctx, order.Customer.ID, decision.NewTags); tagErr != nil {
			// A failed tag write is not a failed webhook; the record keeps
			// the before value so the audit trail matches the shop.
			tagsAfter = tagsBefore
			s.logError(ctx, "customer tag update failed", map[string]any{
				"error":       tagErr.Error(),
				"order_id":    event.OrderID,
				"customer_id": order.Customer.ID,
			})
		}
	}

	eventJSON, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		return r.fail(ctx, "serialize_event", marshalErr)
	}

	r.recordProcessed(ctx, ProcessedWebhookRecord{
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		OrderID:       event.OrderID,
		EventJSON:     string(eventJSON),
		Action:        decision.Action,
		TagsBefore:    tagsBefore,
		TagsAfter:     tagsAfter,
		DisputeID:     event.ID,
		Amount:        event.Amount,
		Currency:      event.Currency,
		Reason:        event.Reason,
		Status:        event.Status,
	})

	r.notify(ctx, Notification{
		Kind:          NotificationSuccess,
		Event:         event,
		Action:        decision.Action,
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		OrderName:     orderName,
	})

	return WebhookResult{
		Outcome:    OutcomeProcessed,
		StatusCode: http.StatusOK,
		Message:    "webhook processed",
		DisputeID:  event.ID,
		OrderID:    event.OrderID,
		Action:     decision.Action,
	}, nil
}

// reject handles a gate failure: best-effort error record, failure
// notification, and the caller-facing envelope for the kind.
func (r *webhookRun) reject(ctx context.Context, kind string, operation string, detail string) (WebhookResult, error) {
	status := KindHTTPStatus(kind)
	r.recordError(ctx, ErrorRecord{
		StatusCode:    status,
		Message:       detail,
		Kind:          kind,
		Operation:     operation,
		DisputeID:     r.event.ID,
		OrderID:       r.event.OrderID,
		CustomerEmail: r.customerEmail,
		Payload:       SanitizePayload(r.req.Body),
	})
	r.notify(ctx, Notification{
		Kind:          NotificationFailure,
		Event:         r.event,
		ErrorKind:     kind,
		Detail:        detail,
		StatusCode:    status,
		CustomerEmail: r.customerEmail,
	})
	result := WebhookResult{
		Outcome:    OutcomeRejected,
		StatusCode: status,
		Message:    kindResponseMessage(kind),
		Kind:       kind,
		DisputeID:  r.event.ID,
		OrderID:    r.event.OrderID,
	}
	return result, newKindError(kind, detail)
}

// orderNotFound is the one failure path that suppresses the notification.
func (r *webhookRun) orderNotFound(ctx context.Context) (WebhookResult, error) {
	event := r.event
	message := fmt.Sprintf("order %d not found on the commerce platform", event.OrderID)
	r.recordError(ctx, ErrorRecord{
		StatusCode: http.StatusNotFound,
		Message:    message,
		Kind:       KindOrderNotFound,
		Operation:  "get_order",
		DisputeID:  event.ID,
		OrderID:    event.OrderID,
		Payload:    SanitizePayload(r.req.Body),
	})
	result := WebhookResult{
		Outcome:    OutcomeNotFound,
		StatusCode: http.StatusNotFound,
		Message:    kindResponseMessage(KindOrderNotFound),
		Kind:       KindOrderNotFound,
		DisputeID:  event.ID,
		OrderID:    event.OrderID,
	}
	return result, newKindError(KindOrderNotFound, message)
}

// fail handles any unexpected pipeline failure as a ProcessingError.
func (r *webhookRun) fail(ctx context.Context, operation string, cause error) (WebhookResult, error) {
	event := r.event
	detail := "chargeback processing failed"
	if cause != nil {
		detail = cause.Error()
	}
	r.recordError(ctx, ErrorRecord{
		StatusCode:    http.StatusInternalServerError,
		Message:       detail,
		Kind:          KindProcessingError,
		Operation:     operation,
		DisputeID:     event.ID,
		OrderID:       event.OrderID,
		CustomerEmail: r.customerEmail,
		Payload:       SanitizePayload(r.req.Body),
		Stack:         r.stack,
	})
	r.notify(ctx, Notification{
		Kind:          NotificationFailure,
		Event:         event,
		ErrorKind:     KindProcessingError,
		Detail:        detail,
		StatusCode:    http.StatusInternalServerError,
		CustomerEmail: r.customerEmail,
	})
	result := WebhookResult{
		Outcome:    OutcomeFailed,
		StatusCode: http.StatusInternalServerError,
		Message:    kindResponseMessage(KindProcessingError),
		Kind:       KindProcessingError,
		DisputeID:  event.ID,
		OrderID:    event.OrderID,
	}
	return result, r.service.mapError(processingError(cause))
}

// storeReady memoizes one connectivity probe for the lifetime of the run.
func (r *webhookRun) storeReady(ctx context.Context) bool {
	if r == nil || r.service == nil || r.service.records == nil {
		return false
	}
	if !r.storeChecked {
		r.storeChecked = true
		pingErr := r.service.records.Ping(ctx)
		r.storeHealthy = pingErr == nil
		if pingErr != nil {
			r.service.logError(ctx, "record store unavailable", map[string]any{"error": pingErr.Error()})
		}
	}
	return r.storeHealthy
}

func (r *webhookRun) recordProcessed(ctx context.Context, record ProcessedWebhookRecord) {
	if !r.storeReady(ctx) {
		return
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.service.now().UTC()
	}
	if insertErr := r.service.records.InsertProcessed(ctx, record); insertErr != nil {
		r.service.logError(ctx, "processed record insert failed", map[string]any{
			"error":      insertErr.Error(),
			"dispute_id": record.DisputeID,
		})
	}
}

func (r *webhookRun) recordError(ctx context.Context, record ErrorRecord) {
	if !r.storeReady(ctx) {
		return
	}
	if strings.TrimSpace(record.Environment) == "" {
		record.Environment = r.service.config.Environment
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.service.now().UTC()
	}
	if insertErr := r.service.records.InsertError(ctx, record); insertErr != nil {
		r.service.logError(ctx, "error record insert failed", map[string]any{
			"error": insertErr.Error(),
			"kind":  record.Kind,
		})
	}
}

// notify posts through the sink and records the attempt in the dispatch
// ledger. Neither failure propagates; persistence has already happened by
// the time any notification goes out.
func (r *webhookRun) notify(ctx context.Context, note Notification) {
	s := r.service
	if s == nil || s.notifier == nil {
		return
	}
	sendErr := s.notifier.Post(ctx, note)
	if sendErr != nil {
		s.logError(ctx, "notification post failed", map[string]any{
			"error": sendErr.Error(),
			"kind":  string(note.Kind),
		})
	}
	s.recordDispatch(ctx, note, sendErr)
}

func (s *Service) recordDispatch(ctx context.Context, note Notification, sendErr error) {
	if s == nil || s.dispatches == nil {
		return
	}
	record := NotificationDispatchRecord{
		EventID:  dispatchEventID(note),
		Sink:     "chat",
		Kind:     string(note.Kind),
		Status:   "sent",
		Metadata: RedactSensitiveMap(note.Metadata),
	}
	if sendErr != nil {
		record.Status = "failed"
		record.Error = sendErr.Error()
	}
	if recordErr := s.dispatches.Record(ctx, record); recordErr != nil {
		s.logError(ctx, "notification dispatch record failed", map[string]any{"error": recordErr.Error()})
	}
}

func dispatchEventID(note Notification) string {
	if note.Event.ID != 0 {
		return strconv.FormatInt(note.Event.ID, 10)
	}
	return "unknown"
}

func kindResponseMessage(kind string) string {
	switch kind {
	case KindInvalidSignature:
		return "invalid webhook signature"
	case KindUnsupportedWebhookType:
		return "unsupported webhook topic"
	case KindInvalidShopDomain:
		return "invalid shop domain"
	case KindJSONParseError:
		return "invalid JSON payload"
	case KindUnsupportedDisputeType:
		return "unsupported dispute type"
	case KindOrderNotFound:
		return "order not found"
	default:
		return "webhook processing failed"
	}
}
