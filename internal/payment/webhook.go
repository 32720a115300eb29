package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"ecom-backend/internal/domain"
)

// OrderIDMetadataKey is the payment intent metadata key holding our order id.
const OrderIDMetadataKey = "orderId"

var (
	// ErrSignature is returned when a payload does not match its signature header.
	ErrSignature = errors.New("signature verification failed")
	// ErrMalformedEvent is returned for a correctly signed payload we cannot decode.
	ErrMalformedEvent = errors.New("malformed event")
)

// Verifier checks inbound webhook payloads against the endpoint secret.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("webhook signing secret is empty")
	}
	return &Verifier{secret: secret}, nil
}

// ConstructEvent verifies payload, which must be the exact bytes received,
// against the signature header and decodes it.
func (v *Verifier) ConstructEvent(payload []byte, signatureHeader string) (domain.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return domain.WebhookEvent{}, fmt.Errorf("%w: %v", ErrSignature, err)
	}

	out := domain.WebhookEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Payload: payload,
	}

	if event.Type == stripe.EventTypePaymentIntentSucceeded {
		if event.Data == nil || len(event.Data.Raw) == 0 {
			return domain.WebhookEvent{}, fmt.Errorf("%w: event %s has no data object", ErrMalformedEvent, event.ID)
		}
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return domain.WebhookEvent{}, fmt.Errorf("%w: decode payment intent: %v", ErrMalformedEvent, err)
		}
		out.OrderID = intent.Metadata[OrderIDMetadataKey]
	}

	return out, nil
}
