package repository

import (
	"context"

	"ecom-backend/internal/domain"
)

// OrderRepository exposes persistence operations for orders.
type OrderRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error
}

// WebhookEventRepository records payment events that have been applied.
type WebhookEventRepository interface {
	Init(ctx context.Context) error
	Exists(ctx context.Context, id string) (bool, error)
	Record(ctx context.Context, event domain.ProcessedEvent) error
}
