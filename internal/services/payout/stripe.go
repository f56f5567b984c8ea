package payout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	stripeapi "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/transfer"
)

// StripeProvider pays out to a Stripe Connect account.
type StripeProvider struct{}

// NewStripeProvider sets the global Stripe API key and returns the provider.
func NewStripeProvider(apiKey string) *StripeProvider {
	stripeapi.Key = apiKey
	return &StripeProvider{}
}

func (p *StripeProvider) Send(ctx context.Context, req Request) (string, error) {
	if req.Destination == "" {
		return "", fmt.Errorf("stripe payout requires a connected account destination")
	}

	params := &stripeapi.TransferParams{
		Amount:        stripeapi.Int64(toCents(req.Amount)),
		Currency:      stripeapi.String(req.Currency),
		Destination:   stripeapi.String(req.Destination),
		TransferGroup: stripeapi.String(req.Reference),
	}
	params.Context = ctx

	t, err := transfer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe transfer failed: %w", err)
	}
	return t.ID, nil
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
