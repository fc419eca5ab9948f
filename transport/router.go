// Package transport exposes the dispute pipeline over HTTP: the webhook
// intake endpoint, the status report, and a liveness probe. Webhook
// responses are plain text with the pipeline's status code; everything
// else is JSON.
package transport

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/goliatone/go-disputes/core"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

const defaultMaxBodyBytes int64 = 1 << 20

type Config struct {
	Service      core.DisputeService
	Logger       core.Logger
	MaxBodyBytes int64
}

type Handler struct {
	service      core.DisputeService
	logger       core.Logger
	maxBodyBytes int64
}

func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Service == nil {
		return nil, transportError(
			"transport: dispute service is required",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
		)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = glog.Nop()
	}
	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{
		service:      cfg.Service,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}, nil
}

// NewRouter builds the HTTP surface. Every route runs inside the panic
// recovery middleware so an escaped panic still produces an error record
// and a plain 500.
func NewRouter(cfg Config) (*httprouter.Router, error) {
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, err
	}

	router := httprouter.New()
	router.POST("/webhooks/disputes", wrap(handler.recoverPanics(handler.Webhook)))
	router.GET("/status", wrap(handler.recoverPanics(handler.Status)))
	router.GET("/healthz", wrap(handler.recoverPanics(handler.Health)))
	return router, nil
}

func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		handler(w, r)
	}
}
