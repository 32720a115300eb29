package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"ecom-backend/internal/domain"
	"ecom-backend/internal/repository"
)

const createWebhookEventsTable = `
CREATE TABLE IF NOT EXISTS webhook_events (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	order_id TEXT NOT NULL DEFAULT '',
	received_at DATETIME NOT NULL
);
`

type WebhookEventRepository struct {
	db *sql.DB
}

func NewWebhookEventRepository(db *sql.DB) repository.WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createWebhookEventsTable); err != nil {
		return fmt.Errorf("create webhook_events table: %w", err)
	}
	return nil
}

func (r *WebhookEventRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM webhook_events WHERE id=?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("lookup webhook event: %w", err)
	}
	return n > 0, nil
}

// Record stores the event; recording the same id twice is a no-op.
func (r *WebhookEventRepository) Record(ctx context.Context, event domain.ProcessedEvent) error {
	_, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO webhook_events (id, type, order_id, received_at)
VALUES (?, ?, ?, ?)`,
		event.ID,
		event.Type,
		event.OrderID,
		event.ReceivedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert webhook event: %w", err)
	}
	return nil
}
