package disputes

import "github.com/goliatone/go-disputes/core"

type Config = core.Config

type WebhookConfig = core.WebhookConfig

type CommerceConfig = core.CommerceConfig

type NotifyConfig = core.NotifyConfig

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies
type CommerceGateway = core.CommerceGateway
type NotificationSink = core.NotificationSink
type RecordStore = core.RecordStore
type NotificationDispatchLedger = core.NotificationDispatchLedger
type WebhookAuthenticator = core.WebhookAuthenticator
type WebhookClassifier = core.WebhookClassifier
type StoreProvider = core.StoreProvider
type RepositoryStoreFactory = core.RepositoryStoreFactory
type ConfigProvider = core.ConfigProvider
type RawConfigLoader = core.RawConfigLoader
type OptionsResolver = core.OptionsResolver
type Logger = core.Logger
type LoggerProvider = core.LoggerProvider

type WebhookRequest = core.WebhookRequest
type WebhookResult = core.WebhookResult
type OutcomeKind = core.OutcomeKind

type DisputeEvent = core.DisputeEvent
type OrderRecord = core.OrderRecord
type CustomerRecord = core.CustomerRecord
type TagDecision = core.TagDecision

type ProcessedWebhookRecord = core.ProcessedWebhookRecord
type ErrorRecord = core.ErrorRecord
type NotificationDispatchRecord = core.NotificationDispatchRecord

type Notification = core.Notification
type NotificationKind = core.NotificationKind

type PeriodCounts = core.PeriodCounts
type StatusMetrics = core.StatusMetrics
type StatusReport = core.StatusReport

var (
	WithLogger               = core.WithLogger
	WithLoggerProvider       = core.WithLoggerProvider
	WithMetricsRecorder      = core.WithMetricsRecorder
	WithErrorFactory         = core.WithErrorFactory
	WithErrorMapper          = core.WithErrorMapper
	WithPersistenceClient    = core.WithPersistenceClient
	WithRepositoryFactory    = core.WithRepositoryFactory
	WithConfigProvider       = core.WithConfigProvider
	WithOptionsResolver      = core.WithOptionsResolver
	WithCommerceGateway      = core.WithCommerceGateway
	WithNotificationSink     = core.WithNotificationSink
	WithRecordStore          = core.WithRecordStore
	WithDispatchLedger       = core.WithDispatchLedger
	WithWebhookAuthenticator = core.WithWebhookAuthenticator
	WithWebhookClassifier    = core.WithWebhookClassifier
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
