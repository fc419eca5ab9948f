package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-disputes/core"
)

type WebhookService interface {
	ProcessWebhook(ctx context.Context, req core.WebhookRequest) (core.WebhookResult, error)
}

type ProcessWebhookCommand struct {
	service WebhookService
}

func NewProcessWebhookCommand(service WebhookService) *ProcessWebhookCommand {
	return &ProcessWebhookCommand{service: service}
}

// Execute runs the delivery through the pipeline. The result is stored
// even when the service errors: rejected and failed deliveries still
// carry the status and message the caller answers with.
func (c *ProcessWebhookCommand) Execute(ctx context.Context, msg ProcessWebhookMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: webhook service is required")
	}
	out, err := c.service.ProcessWebhook(ctx, msg.Request)
	storeResult(ctx, out)
	return err
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
