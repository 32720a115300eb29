package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ecom-backend/internal/domain"
	"ecom-backend/internal/repository"
)

// CreateOrderInput is what a customer submits at checkout.
type CreateOrderInput struct {
	TotalAmount   float64
	TotalItems    int
	PaymentMethod string
}

// OrderService coordinates order level operations backed by repositories.
type OrderService interface {
	CreateOrder(ctx context.Context, userID string, input CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOwn(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
}

type orderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) OrderService {
	return &orderService{orders: orders}
}

func (s *orderService) CreateOrder(ctx context.Context, userID string, input CreateOrderInput) (*domain.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	if input.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: totalAmount must be positive", ErrInvalidInput)
	}
	if input.TotalItems < 0 {
		return nil, fmt.Errorf("%w: totalItems must not be negative", ErrInvalidInput)
	}

	order := &domain.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		TotalAmount:   input.TotalAmount,
		TotalItems:    input.TotalItems,
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.Get(ctx, id)
}

func (s *orderService) ListOwn(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *orderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}
