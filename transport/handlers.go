package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/goliatone/go-disputes/core"
)

// Webhook reads the delivery and runs it through the pipeline. The
// result always carries the status and message to answer with; the
// service owns recording, so the error return is not inspected here.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("read webhook body", "error", err)
		body = nil
	}

	req := core.WebhookRequest{
		Headers: flattenHeaders(r.Header),
		Body:    body,
		Metadata: map[string]any{
			"remote_addr": r.RemoteAddr,
		},
	}

	result, _ := h.service.ProcessWebhook(r.Context(), req)
	writePlainText(w, result.StatusCode, result.Message)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Status(r.Context())
	if err != nil {
		writeJSONError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if encodeErr := json.NewEncoder(w).Encode(report); encodeErr != nil {
		h.logger.Warn("encode status report", "error", encodeErr)
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writePlainText(w, http.StatusOK, "ok")
}

// recoverPanics caps and snapshots the body before the handler
// consumes it so oversized deliveries are refused outright and a
// recovered panic can still report the delivery it was processing.
func (h *Handler) recoverPanics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var snapshot []byte
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
			var err error
			snapshot, err = io.ReadAll(r.Body)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					h.logger.Warn("webhook body over limit", "limit_bytes", tooLarge.Limit)
					writePlainText(w, http.StatusRequestEntityTooLarge, "request body too large")
					return
				}
				h.logger.Warn("read request body", "error", err)
				writePlainText(w, http.StatusBadRequest, "unable to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(snapshot))
		}

		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			result := h.service.ReportPanic(r.Context(), core.WebhookRequest{
				Headers: flattenHeaders(r.Header),
				Body:    snapshot,
			}, recovered, debug.Stack())
			writePlainText(w, result.StatusCode, result.Message)
		}()

		next(w, r)
	}
}

func flattenHeaders(header http.Header) map[string]string {
	flattened := make(map[string]string, len(header))
	for key, values := range header {
		if len(values) == 0 {
			continue
		}
		flattened[key] = values[0]
	}
	return flattened
}

func writePlainText(w http.ResponseWriter, statusCode int, message string) {
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(message))
}
