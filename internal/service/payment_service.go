package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"ecom-backend/internal/domain"
	"ecom-backend/internal/payment"
	"ecom-backend/internal/repository"
	"ecom-backend/internal/storage"
)

const archiveTimeout = 5 * time.Second

// ErrPaymentProvider wraps failures reported by the payment provider.
var ErrPaymentProvider = errors.New("payment provider error")

// PaymentService applies verified payment events to orders and creates
// payment intents for checkout.
type PaymentService interface {
	HandleEvent(ctx context.Context, event domain.WebhookEvent) error
	CreateIntent(ctx context.Context, orderID string, totalAmount float64) (string, error)
	// Wait blocks until background archive uploads have finished.
	Wait()
}

type paymentService struct {
	orders  repository.OrderRepository
	events  repository.WebhookEventRepository
	intents payment.IntentCreator
	archive storage.EventArchive
	logger  *logrus.Logger

	archiving sync.WaitGroup
}

// NewPaymentService wires the payment workflow. intents and archive may be nil.
func NewPaymentService(
	orders repository.OrderRepository,
	events repository.WebhookEventRepository,
	intents payment.IntentCreator,
	archive storage.EventArchive,
	logger *logrus.Logger,
) PaymentService {
	if logger == nil {
		logger = logrus.New()
	}
	return &paymentService{
		orders:  orders,
		events:  events,
		intents: intents,
		archive: archive,
		logger:  logger,
	}
}

// HandleEvent returns nil for every event the provider should not redeliver,
// including events for unknown orders and unhandled types. A non-nil error
// means a store failure; the transition is idempotent so a redelivery is safe.
func (s *paymentService) HandleEvent(ctx context.Context, event domain.WebhookEvent) error {
	logger := s.logger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	switch event.Type {
	case domain.EventPaymentIntentSucceeded:
		replay, err := s.markPaymentReceived(ctx, logger.WithField("order_id", event.OrderID), event)
		if err != nil || replay {
			return err
		}
	default:
		logger.Infof("Unhandled event type %s", event.Type)
	}

	s.archiveEvent(ctx, logger, event)
	return nil
}

// markPaymentReceived reports replay=true when the ledger already holds the event.
func (s *paymentService) markPaymentReceived(ctx context.Context, logger *logrus.Entry, event domain.WebhookEvent) (replay bool, err error) {
	seen, err := s.events.Exists(ctx, event.ID)
	if err != nil {
		return false, fmt.Errorf("check event ledger: %w", err)
	}
	if seen {
		logger.Debug("event already applied")
		return true, nil
	}

	if event.OrderID == "" {
		logger.Warn("payment event carries no order id")
		return false, nil
	}

	order, err := s.orders.Get(ctx, event.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warn("order for payment event not found")
			return false, nil
		}
		return false, fmt.Errorf("load order %s: %w", event.OrderID, err)
	}

	if order.PaymentStatus == domain.PaymentStatusReceived {
		logger.Debug("payment already received")
	} else {
		if err := s.orders.UpdatePaymentStatus(ctx, order.ID, domain.PaymentStatusReceived); err != nil {
			return false, fmt.Errorf("mark order %s paid: %w", order.ID, err)
		}
		logger.Info("payment received")
	}

	if err := s.events.Record(ctx, domain.ProcessedEvent{
		ID:         event.ID,
		Type:       event.Type,
		OrderID:    event.OrderID,
		ReceivedAt: time.Now(),
	}); err != nil {
		logger.Warnf("record event: %v", err)
	}
	return false, nil
}

// archiveEvent uploads the raw event in the background so the provider gets
// its acknowledgement without waiting on object storage.
func (s *paymentService) archiveEvent(ctx context.Context, logger *logrus.Entry, event domain.WebhookEvent) {
	if s.archive == nil {
		return
	}

	s.archiving.Add(1)
	go func() {
		defer s.archiving.Done()

		archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
		defer cancel()

		location, err := s.archive.Archive(archiveCtx, event)
		if err != nil {
			logger.Warnf("archive event: %v", err)
			return
		}
		logger.Debugf("archived to %s", location)
	}()
}

func (s *paymentService) Wait() {
	s.archiving.Wait()
}

func (s *paymentService) CreateIntent(ctx context.Context, orderID string, totalAmount float64) (string, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return "", fmt.Errorf("%w: orderId is required", ErrInvalidInput)
	}
	if totalAmount <= 0 || math.IsInf(totalAmount, 0) || math.IsNaN(totalAmount) {
		return "", fmt.Errorf("%w: totalAmount must be positive", ErrInvalidInput)
	}
	if s.intents == nil {
		return "", fmt.Errorf("%w: not configured", ErrPaymentProvider)
	}

	secret, err := s.intents.CreatePaymentIntent(ctx, int64(math.Round(totalAmount*100)), orderID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	return secret, nil
}
