package command

import (
	"context"
	"errors"
	"testing"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-disputes/core"
)

type stubWebhookService struct {
	processFn func(ctx context.Context, req core.WebhookRequest) (core.WebhookResult, error)
}

func (s stubWebhookService) ProcessWebhook(ctx context.Context, req core.WebhookRequest) (core.WebhookResult, error) {
	if s.processFn == nil {
		return core.WebhookResult{}, nil
	}
	return s.processFn(ctx, req)
}

func TestProcessWebhookCommand_ExecuteDelegatesAndStoresResult(t *testing.T) {
	expected := core.WebhookResult{
		Outcome:    core.OutcomeProcessed,
		StatusCode: 200,
		Message:    "OK",
		DisputeID:  987654321,
		OrderID:    820982911,
		Action:     "added first-offense flag.",
	}
	called := false

	svc := stubWebhookService{
		processFn: func(_ context.Context, req core.WebhookRequest) (core.WebhookResult, error) {
			called = true
			if string(req.Body) != `{"id":987654321,"type":"chargeback"}` {
				t.Fatalf("unexpected body: %s", req.Body)
			}
			return expected, nil
		},
	}

	cmd := NewProcessWebhookCommand(svc)
	collector := gocmd.NewResult[core.WebhookResult]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, ProcessWebhookMessage{Request: core.WebhookRequest{
		Headers: map[string]string{"X-Shopify-Topic": "disputes/create"},
		Body:    []byte(`{"id":987654321,"type":"chargeback"}`),
	}})
	if err != nil {
		t.Fatalf("execute process webhook: %v", err)
	}
	if !called {
		t.Fatalf("expected webhook service invocation")
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected result to be stored")
	}
	if result.DisputeID != expected.DisputeID || result.Action != expected.Action {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestProcessWebhookCommand_StoresResultForRejectedDeliveries(t *testing.T) {
	rejected := core.WebhookResult{
		Outcome:    core.OutcomeRejected,
		StatusCode: 401,
		Message:    "Unauthorized",
		Kind:       core.KindInvalidSignature,
	}
	serviceErr := errors.New("webhook signature mismatch")

	svc := stubWebhookService{
		processFn: func(_ context.Context, _ core.WebhookRequest) (core.WebhookResult, error) {
			return rejected, serviceErr
		},
	}

	cmd := NewProcessWebhookCommand(svc)
	collector := gocmd.NewResult[core.WebhookResult]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, ProcessWebhookMessage{Request: core.WebhookRequest{Body: []byte("{}")}})
	if !errors.Is(err, serviceErr) {
		t.Fatalf("expected service error to surface, got %v", err)
	}

	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected rejected result to be stored")
	}
	if result.StatusCode != 401 || result.Kind != core.KindInvalidSignature {
		t.Fatalf("unexpected rejected result: %#v", result)
	}
}

func TestProcessWebhookMessage_Type(t *testing.T) {
	if got := (ProcessWebhookMessage{}).Type(); got != TypeProcessWebhook {
		t.Fatalf("unexpected message type %q", got)
	}
}

func TestProcessWebhookMessage_ValidateRequiresBody(t *testing.T) {
	msg := ProcessWebhookMessage{Request: core.WebhookRequest{
		Headers: map[string]string{"X-Shopify-Topic": "disputes/create"},
	}}
	if err := msg.Validate(); err == nil {
		t.Fatalf("expected validation error for empty body")
	}

	msg.Request.Body = []byte("{}")
	if err := msg.Validate(); err != nil {
		t.Fatalf("expected empty-object body to validate, got %v", err)
	}
}
