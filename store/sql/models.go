package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type processedWebhookRecord struct {
	bun.BaseModel `bun:"table:dispute_processed_webhooks,alias:dpw"`

	ID            string    `bun:"id,pk"`
	CustomerName  string    `bun:"customer_name,notnull"`
	CustomerEmail string    `bun:"customer_email,notnull"`
	OrderID       int64     `bun:"order_id,notnull"`
	EventJSON     string    `bun:"event_json,notnull"`
	Action        string    `bun:"action,notnull"`
	TagsBefore    string    `bun:"customer_tags_before"`
	TagsAfter     string    `bun:"customer_tags_after"`
	DisputeID     int64     `bun:"dispute_id,notnull"`
	Amount        string    `bun:"amount"`
	Currency      string    `bun:"currency"`
	Reason        string    `bun:"reason"`
	Status        string    `bun:"status"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type webhookErrorRecord struct {
	bun.BaseModel `bun:"table:dispute_webhook_errors,alias:dwe"`

	ID            string    `bun:"id,pk"`
	StatusCode    int       `bun:"status_code,notnull"`
	Message       string    `bun:"message,notnull"`
	Kind          string    `bun:"kind,notnull"`
	Operation     string    `bun:"operation,notnull"`
	DisputeID     int64     `bun:"dispute_id"`
	OrderID       int64     `bun:"order_id"`
	CustomerEmail string    `bun:"customer_email"`
	Payload       string    `bun:"payload"`
	Stack         string    `bun:"stack"`
	Environment   string    `bun:"environment,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type notificationDispatchRecord struct {
	bun.BaseModel `bun:"table:notification_dispatches,alias:nd"`

	ID        string         `bun:"id,pk"`
	EventID   string         `bun:"event_id,notnull"`
	Sink      string         `bun:"sink,notnull"`
	Kind      string         `bun:"kind,notnull"`
	Status    string         `bun:"status,notnull"`
	Error     string         `bun:"error,notnull"`
	Metadata  map[string]any `bun:"metadata,type:jsonb,notnull"`
	CreatedAt time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
