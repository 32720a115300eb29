package storage

import (
	"context"
	"time"

	"ecom-backend/internal/domain"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// EventArchive keeps a copy of verified payment events in object storage.
type EventArchive interface {
	Archive(ctx context.Context, event domain.WebhookEvent) (string, error)
	List(ctx context.Context, eventType string) ([]ObjectInfo, error)
}
