package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// IntentCreator creates provider side payment intents.
type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, amountMinor int64, orderID string) (clientSecret string, err error)
}

// StripeGateway creates payment intents through the Stripe API using its own
// key instead of the package level stripe.Key.
type StripeGateway struct {
	intents  *paymentintent.Client
	currency string
}

func NewStripeGateway(secretKey, currency string) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is empty")
	}
	if currency == "" {
		currency = string(stripe.CurrencyINR)
	}
	return &StripeGateway{
		intents: &paymentintent.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: secretKey,
		},
		currency: currency,
	}, nil
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amountMinor int64, orderID string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata(OrderIDMetadataKey, orderID)

	intent, err := g.intents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

var _ IntentCreator = (*StripeGateway)(nil)
