package command

import (
	"github.com/goliatone/go-disputes/core"
)

const (
	TypeProcessWebhook = "disputes.command.webhook.process"
)

// ProcessWebhookMessage carries one raw webhook delivery through a
// go-command dispatcher. Transport-level gates (signature, topic, shop
// domain) stay in the service pipeline; Validate only rejects messages
// with nothing to process.
type ProcessWebhookMessage struct {
	Request core.WebhookRequest
}

func (ProcessWebhookMessage) Type() string { return TypeProcessWebhook }

func (m ProcessWebhookMessage) Validate() error {
	if len(m.Request.Body) == 0 {
		return commandValidationError("body", "webhook body is required")
	}
	return nil
}
