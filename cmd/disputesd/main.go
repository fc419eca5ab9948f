// Command disputesd serves the dispute webhook pipeline over HTTP. All
// configuration comes from DISPUTES_* environment variables read once at
// boot; migrations run against the configured database before the server
// accepts traffic.
package main

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-disputes/core"
	"github.com/goliatone/go-disputes/migrations"
	"github.com/goliatone/go-disputes/notify"
	"github.com/goliatone/go-disputes/providers/shopify"
	sqlstore "github.com/goliatone/go-disputes/store/sql"
	"github.com/goliatone/go-disputes/transport"
)

const (
	defaultHTTPAddr = ":8080"
	defaultDBDriver = "sqlite3"
	defaultDBDSN    = "file:disputes.db?cache=shared&_foreign_keys=on"

	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 15 * time.Second
	dbPingTimeout     = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, logger := glog.Resolve("disputes", nil, nil)
	logger = glog.Ensure(logger)

	configProvider := core.NewCfgxConfigProvider(envConfigLoader{})
	cfg, err := configProvider.Load(ctx, core.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, dialect, err := openDatabase(ctx)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = client.Close()
	}()

	if _, err := migrations.Register(ctx, func(_ context.Context, _ string, _ string, fsys fs.FS) error {
		client.RegisterSQLMigrations(fsys)
		return nil
	}, migrations.WithValidationTargets(dialect)); err != nil {
		log.Fatalf("Failed to register migrations: %v", err)
	}
	if err := client.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		log.Fatalf("Failed to build stores: %v", err)
	}
	cacheService, err := repositorycache.NewCacheService(repositorycache.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to build metrics cache: %v", err)
	}
	records, err := sqlstore.NewCachedRecordStore(factory.Records(), cacheService)
	if err != nil {
		log.Fatalf("Failed to wrap record store: %v", err)
	}

	options := []core.Option{
		core.WithLogger(logger),
		core.WithLoggerProvider(provider),
		core.WithConfigProvider(configProvider),
		core.WithRecordStore(records),
		core.WithDispatchLedger(factory.NotificationDispatches()),
		core.WithWebhookAuthenticator(shopify.NewWebhookVerifier(shopify.DefaultWebhookConfig(cfg.Webhook.Secret))),
		core.WithWebhookClassifier(shopify.NewClassifier(cfg.Webhook.ShopDomain)),
	}

	if cfg.Commerce.AccessToken != "" && cfg.Commerce.ShopDomain != "" {
		gateway, gatewayErr := shopify.New(shopify.Config{
			ShopDomain:  cfg.Commerce.ShopDomain,
			AccessToken: cfg.Commerce.AccessToken,
			APIVersion:  cfg.Commerce.APIVersion,
			Logger:      logger,
		})
		if gatewayErr != nil {
			log.Fatalf("Failed to build commerce gateway: %v", gatewayErr)
		}
		options = append(options, core.WithCommerceGateway(gateway))
	} else {
		logger.Warn("commerce gateway disabled, chargeback processing will fail until configured")
	}

	if cfg.Notify.WebhookURL != "" {
		sink, sinkErr := notify.New(notify.Config{
			WebhookURL: cfg.Notify.WebhookURL,
			Channel:    cfg.Notify.Channel,
			Username:   cfg.Notify.Username,
			Logger:     logger,
		})
		if sinkErr != nil {
			log.Fatalf("Failed to build notification sink: %v", sinkErr)
		}
		options = append(options, core.WithNotificationSink(sink))
	} else {
		logger.Warn("chat notifications disabled, no webhook url configured")
	}

	service, err := core.NewService(cfg, options...)
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	router, err := transport.NewRouter(transport.Config{Service: service, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	addr := getEnv("DISPUTES_HTTP_ADDR", defaultHTTPAddr)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()
	logger.Info("server listening", "addr", addr, "environment", cfg.Environment)

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		stop()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}

// openDatabase opens the configured SQL database, wraps it in a
// persistence client, and reports the migration dialect to register.
func openDatabase(ctx context.Context) (*persistence.Client, string, error) {
	driver := getEnv("DISPUTES_DB_DRIVER", defaultDBDriver)
	dsn := getEnv("DISPUTES_DB_DSN", defaultDBDSN)

	var (
		sqlDialect schema.Dialect
		dialect    string
	)
	switch driver {
	case "postgres":
		sqlDialect = pgdialect.New()
		dialect = migrations.DialectPostgres
	case "sqlite3", "sqlite":
		driver = "sqlite3"
		sqlDialect = sqlitedialect.New()
		dialect = migrations.DialectSQLite
	default:
		return nil, "", errors.New("DISPUTES_DB_DRIVER must be postgres or sqlite3")
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", err
	}
	if driver == "sqlite3" {
		sqlDB.SetMaxOpenConns(1)
	}

	client, err := persistence.New(persistenceSettings{driver: driver, server: dsn}, sqlDB, sqlDialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, "", err
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = client.Close()
		return nil, "", err
	}
	return client, dialect, nil
}

// envConfigLoader feeds the cfgx provider from DISPUTES_* environment
// variables. Unset and empty variables are omitted so defaults survive.
type envConfigLoader struct{}

func (envConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	raw := map[string]any{}
	setEnvValue(raw, "DISPUTES_SERVICE_NAME", "service_name")
	setEnvValue(raw, "DISPUTES_ENVIRONMENT", "environment")

	webhook := map[string]any{}
	setEnvValue(webhook, "DISPUTES_WEBHOOK_SECRET", "secret")
	setEnvValue(webhook, "DISPUTES_WEBHOOK_SHOP_DOMAIN", "shop_domain")
	if len(webhook) > 0 {
		raw["webhook"] = webhook
	}

	commerce := map[string]any{}
	setEnvValue(commerce, "DISPUTES_COMMERCE_SHOP_DOMAIN", "shop_domain")
	setEnvValue(commerce, "DISPUTES_COMMERCE_ACCESS_TOKEN", "access_token")
	setEnvValue(commerce, "DISPUTES_COMMERCE_API_VERSION", "api_version")
	if len(commerce) > 0 {
		raw["commerce"] = commerce
	}

	notifyValues := map[string]any{}
	setEnvValue(notifyValues, "DISPUTES_NOTIFY_WEBHOOK_URL", "webhook_url")
	setEnvValue(notifyValues, "DISPUTES_NOTIFY_CHANNEL", "channel")
	setEnvValue(notifyValues, "DISPUTES_NOTIFY_USERNAME", "username")
	if len(notifyValues) > 0 {
		raw["notify"] = notifyValues
	}

	return raw, nil
}

func setEnvValue(target map[string]any, envKey string, configKey string) {
	if value := os.Getenv(envKey); value != "" {
		target[configKey] = value
	}
}

func getEnv(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// persistenceSettings satisfies the go-persistence-bun config contract.
type persistenceSettings struct {
	driver string
	server string
}

func (persistenceSettings) GetDebug() bool { return false }

func (s persistenceSettings) GetDriver() string { return s.driver }

func (s persistenceSettings) GetServer() string { return s.server }

func (persistenceSettings) GetPingTimeout() time.Duration { return dbPingTimeout }

func (persistenceSettings) GetOtelIdentifier() string { return "go-disputes" }
