package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the per-user balance aggregate. There is exactly one wallet per
// user; it is created lazily on first use and never deleted. Balance fields
// are mutated only by the wallet service, inside a row-locked transaction.
type Wallet struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	UserID      uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Description string `json:"description,omitempty"`

	// Available is withdrawable now; pending is held for orders that were
	// paid but not yet completed. Both stay >= 0 at all times.
	AvailableBalance   decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"available_balance"`
	PendingBalance     decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"pending_balance"`
	OutstandingCharges decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"outstanding_charges"`

	// Lifetime counters.
	TotalDeposits    decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"total_deposits"`
	TotalEarnings    decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"total_earnings"`
	TotalWithdrawals decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"total_withdrawals"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// GetAvailableBalance returns the withdrawable portion of the wallet.
func (w *Wallet) GetAvailableBalance() decimal.Decimal {
	return w.AvailableBalance
}

// GetPendingBalance returns funds held for not-yet-completed orders.
func (w *Wallet) GetPendingBalance() decimal.Decimal {
	return w.PendingBalance
}
