package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-disputes/core"
)

// NotificationDispatchStore records every notification attempt. It is an
// audit trail, not a dedupe gate; redelivered webhooks notify again.
type NotificationDispatchStore struct {
	repo repository.Repository[*notificationDispatchRecord]
}

func NewNotificationDispatchStore(db *bun.DB) (*NotificationDispatchStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*notificationDispatchRecord](db, notificationDispatchHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid notification dispatch repository wiring: %w", err)
		}
	}
	return &NotificationDispatchStore{repo: repo}, nil
}

func (s *NotificationDispatchStore) Record(ctx context.Context, input core.NotificationDispatchRecord) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: notification dispatch store is not configured")
	}
	if strings.TrimSpace(input.EventID) == "" {
		return fmt.Errorf("sqlstore: event id is required")
	}
	if strings.TrimSpace(input.Sink) == "" {
		return fmt.Errorf("sqlstore: sink is required")
	}

	record := newNotificationDispatchRecord(input, time.Now().UTC())
	_, err := s.repo.Create(ctx, record)
	if err != nil && isUniqueConstraintError(err) {
		return nil
	}
	return err
}

// Sent reports how many dispatches exist for one event id, split by
// status. Serves operational checks; never consulted before sending.
func (s *NotificationDispatchStore) Sent(ctx context.Context, eventID string) (sent int, failed int, err error) {
	if s == nil || s.repo == nil {
		return 0, 0, fmt.Errorf("sqlstore: notification dispatch store is not configured")
	}
	key := strings.TrimSpace(eventID)
	if key == "" {
		return 0, 0, fmt.Errorf("sqlstore: event id is required")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("event_id", "=", key),
		repository.OrderBy("created_at ASC"),
	)
	if err != nil {
		return 0, 0, err
	}
	for _, record := range records {
		if record == nil {
			continue
		}
		if record.Status == "failed" {
			failed++
			continue
		}
		sent++
	}
	return sent, failed, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "unique") || strings.Contains(text, "duplicate")
}
