package domain

import "time"

// Payment provider event types the webhook understands.
const (
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
)

// WebhookEvent is a verified payment provider event.
type WebhookEvent struct {
	ID      string
	Type    string
	OrderID string
	Payload []byte
}

// ProcessedEvent is the ledger record of an event that was applied.
type ProcessedEvent struct {
	ID         string
	Type       string
	OrderID    string
	ReceivedAt time.Time
}
