package sqlstore

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-disputes/core"
)

func newProcessedWebhookRecord(in core.ProcessedWebhookRecord, now time.Time) *processedWebhookRecord {
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return &processedWebhookRecord{
		ID:            uuid.NewString(),
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		OrderID:       in.OrderID,
		EventJSON:     in.EventJSON,
		Action:        in.Action,
		TagsBefore:    in.TagsBefore,
		TagsAfter:     in.TagsAfter,
		DisputeID:     in.DisputeID,
		Amount:        in.Amount,
		Currency:      in.Currency,
		Reason:        in.Reason,
		Status:        in.Status,
		CreatedAt:     createdAt.UTC(),
	}
}

func (r *processedWebhookRecord) toDomain() core.ProcessedWebhookRecord {
	if r == nil {
		return core.ProcessedWebhookRecord{}
	}
	return core.ProcessedWebhookRecord{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		OrderID:       r.OrderID,
		EventJSON:     r.EventJSON,
		Action:        r.Action,
		TagsBefore:    r.TagsBefore,
		TagsAfter:     r.TagsAfter,
		DisputeID:     r.DisputeID,
		Amount:        r.Amount,
		Currency:      r.Currency,
		Reason:        r.Reason,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
	}
}

func newWebhookErrorRecord(in core.ErrorRecord, now time.Time) *webhookErrorRecord {
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return &webhookErrorRecord{
		ID:            uuid.NewString(),
		StatusCode:    in.StatusCode,
		Message:       in.Message,
		Kind:          in.Kind,
		Operation:     in.Operation,
		DisputeID:     in.DisputeID,
		OrderID:       in.OrderID,
		CustomerEmail: in.CustomerEmail,
		Payload:       in.Payload,
		Stack:         in.Stack,
		Environment:   in.Environment,
		CreatedAt:     createdAt.UTC(),
	}
}

func (r *webhookErrorRecord) toDomain() core.ErrorRecord {
	if r == nil {
		return core.ErrorRecord{}
	}
	return core.ErrorRecord{
		StatusCode:    r.StatusCode,
		Message:       r.Message,
		Kind:          r.Kind,
		Operation:     r.Operation,
		DisputeID:     r.DisputeID,
		OrderID:       r.OrderID,
		CustomerEmail: r.CustomerEmail,
		Payload:       r.Payload,
		Stack:         r.Stack,
		Environment:   r.Environment,
		CreatedAt:     r.CreatedAt,
	}
}

func newNotificationDispatchRecord(in core.NotificationDispatchRecord, now time.Time) *notificationDispatchRecord {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = "sent"
	}
	return &notificationDispatchRecord{
		ID:        uuid.NewString(),
		EventID:   strings.TrimSpace(in.EventID),
		Sink:      strings.TrimSpace(in.Sink),
		Kind:      strings.TrimSpace(in.Kind),
		Status:    status,
		Error:     strings.TrimSpace(in.Error),
		Metadata:  RedactMetadata(in.Metadata),
		CreatedAt: now,
	}
}
