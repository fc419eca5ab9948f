package sqlstore

import (
	"context"
	"fmt"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-disputes/core"
)

const (
	tableProcessedWebhooks = "dispute_processed_webhooks"
	tableWebhookErrors     = "dispute_webhook_errors"
)

// RecordStore persists the processed/error audit trail over bun. Inserts
// are single atomic statements; callers treat failures as best-effort.
type RecordStore struct {
	db        *bun.DB
	processed repository.Repository[*processedWebhookRecord]
	failures  repository.Repository[*webhookErrorRecord]
}

func NewRecordStore(db *bun.DB) (*RecordStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	processed := repository.NewRepository[*processedWebhookRecord](db, processedWebhookHandlers())
	if validator, ok := processed.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid processed webhook repository wiring: %w", err)
		}
	}
	failures := repository.NewRepository[*webhookErrorRecord](db, webhookErrorHandlers())
	if validator, ok := failures.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid webhook error repository wiring: %w", err)
		}
	}
	return &RecordStore{
		db:        db,
		processed: processed,
		failures:  failures,
	}, nil
}

func (s *RecordStore) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: record store is not configured")
	}
	return s.db.PingContext(ctx)
}

func (s *RecordStore) InsertProcessed(ctx context.Context, input core.ProcessedWebhookRecord) error {
	if s == nil || s.processed == nil {
		return fmt.Errorf("sqlstore: record store is not configured")
	}
	record := newProcessedWebhookRecord(input, time.Now().UTC())
	_, err := s.processed.Create(ctx, record)
	return err
}

func (s *RecordStore) InsertError(ctx context.Context, input core.ErrorRecord) error {
	if s == nil || s.failures == nil {
		return fmt.Errorf("sqlstore: record store is not configured")
	}
	record := newWebhookErrorRecord(input, time.Now().UTC())
	_, err := s.failures.Create(ctx, record)
	return err
}

// Metrics counts processed and error rows for the all-time, current-day,
// and current-month windows. Boundaries are computed in UTC and passed as
// parameters so the same SQL runs on postgres and sqlite.
func (s *RecordStore) Metrics(ctx context.Context, now time.Time) (core.StatusMetrics, error) {
	if s == nil || s.db == nil {
		return core.StatusMetrics{}, fmt.Errorf("sqlstore: record store is not configured")
	}

	reference := now.UTC()
	dayStart := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, time.UTC)

	var metrics core.StatusMetrics
	counts := []struct {
		table string
		since *time.Time
		out   *int
	}{
		{table: tableProcessedWebhooks, out: &metrics.Processed.Total},
		{table: tableProcessedWebhooks, since: &dayStart, out: &metrics.Processed.Today},
		{table: tableProcessedWebhooks, since: &monthStart, out: &metrics.Processed.ThisMonth},
		{table: tableWebhookErrors, out: &metrics.Errors.Total},
		{table: tableWebhookErrors, since: &dayStart, out: &metrics.Errors.Today},
		{table: tableWebhookErrors, since: &monthStart, out: &metrics.Errors.ThisMonth},
	}
	for _, count := range counts {
		query := "SELECT COUNT(*) FROM " + count.table
		args := []any{}
		if count.since != nil {
			query += " WHERE created_at >= ?"
			args = append(args, *count.since)
		}
		if err := s.db.NewRaw(query, args...).Scan(ctx, count.out); err != nil {
			return core.StatusMetrics{}, fmt.Errorf("sqlstore: count %s: %w", count.table, err)
		}
	}
	return metrics, nil
}

// RecentProcessed returns the newest processed records, most recent first.
func (s *RecordStore) RecentProcessed(ctx context.Context, limit int) ([]core.ProcessedWebhookRecord, error) {
	if s == nil || s.processed == nil {
		return nil, fmt.Errorf("sqlstore: record store is not configured")
	}
	if limit <= 0 {
		limit = 20
	}
	records, _, err := s.processed.List(ctx,
		repository.OrderBy("created_at DESC"),
		repository.SelectPaginate(limit, 0),
	)
	if err != nil {
		return nil, err
	}
	out := make([]core.ProcessedWebhookRecord, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

// RecentErrors returns the newest error records, most recent first.
func (s *RecordStore) RecentErrors(ctx context.Context, limit int) ([]core.ErrorRecord, error) {
	if s == nil || s.failures == nil {
		return nil, fmt.Errorf("sqlstore: record store is not configured")
	}
	if limit <= 0 {
		limit = 20
	}
	records, _, err := s.failures.List(ctx,
		repository.OrderBy("created_at DESC"),
		repository.SelectPaginate(limit, 0),
	)
	if err != nil {
		return nil, err
	}
	out := make([]core.ErrorRecord, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}
