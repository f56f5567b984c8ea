package payout

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ManualProvider covers payment types an operator settles out of band
// (paypal, bank transfers). It records the request and hands back our own
// reference so the transaction stays traceable.
type ManualProvider struct {
	log *zap.Logger
}

func NewManualProvider(log *zap.Logger) *ManualProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &ManualProvider{log: log}
}

func (p *ManualProvider) Send(ctx context.Context, req Request) (string, error) {
	p.log.Info("payout queued for manual settlement",
		zap.Uint("user_id", req.UserID),
		zap.String("payment_type", req.PaymentType),
		zap.String("amount", req.Amount.String()),
		zap.String("reference", req.Reference))
	return fmt.Sprintf("manual-%s", req.Reference), nil
}
