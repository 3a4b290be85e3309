package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
)

// StripeProvider создает PaymentIntent через Stripe API
type StripeProvider struct {
	client paymentintent.Client
}

func NewStripeProvider(secretKey string) *StripeProvider {
	return NewStripeProviderWithBackend(secretKey, stripe.GetBackend(stripe.APIBackend))
}

// NewStripeProviderWithBackend - с явным backend (другой URL API, тесты)
func NewStripeProviderWithBackend(secretKey string, backend stripe.Backend) *StripeProvider {
	return &StripeProvider{
		client: paymentintent.Client{B: backend, Key: secretKey},
	}
}

func (p *StripeProvider) Name() string {
	return "stripe"
}

func (p *StripeProvider) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := p.client.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return nil, fmt.Errorf("stripe: %s (type=%s code=%s status=%d): %w",
				stripeErr.Msg, stripeErr.Type, stripeErr.Code, stripeErr.HTTPStatusCode, err)
		}
		return nil, fmt.Errorf("stripe: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}
