// Package payout models the boundary to the upstream payment processor.
// The ledger core only dispatches a payout request after a withdrawal has
// been debited; delivery, retries and gateway protocol details live with
// the processor, not here.
package payout

import (
	"context"
	"fmt"

	"handy/internal/models"

	"github.com/shopspring/decimal"
)

// Request describes one outbound payout.
type Request struct {
	UserID      uint
	Amount      decimal.Decimal
	Currency    string
	PaymentType string // connect, paypal or bank_account
	Destination string // connected account id, paypal email or bank reference
	Reference   string // our transaction reference
}

// Provider sends a payout and returns the processor's reference id.
type Provider interface {
	Send(ctx context.Context, req Request) (string, error)
}

// Dispatcher routes payout requests to a provider per payment type.
type Dispatcher struct {
	providers map[string]Provider
}

func NewDispatcher(stripe Provider, manual Provider) *Dispatcher {
	return &Dispatcher{
		providers: map[string]Provider{
			models.PaymentTypeConnect:     stripe,
			models.PaymentTypePaypal:      manual,
			models.PaymentTypeBankAccount: manual,
		},
	}
}

func (d *Dispatcher) Send(ctx context.Context, req Request) (string, error) {
	p, ok := d.providers[req.PaymentType]
	if !ok {
		return "", fmt.Errorf("no payout provider for payment type %q", req.PaymentType)
	}
	return p.Send(ctx, req)
}
