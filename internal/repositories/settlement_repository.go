package repositories

import "context"

// SettlementRepository records which settlement phases have been applied per
// order. ClaimPhase is the idempotency gate for the settlement handler.
type SettlementRepository interface {
	// ClaimPhase inserts the (orderID, phase) marker. It returns true when
	// this call claimed the phase and false when it was already claimed.
	ClaimPhase(ctx context.Context, orderID uint, phase string, providerUserID uint) (bool, error)
}
