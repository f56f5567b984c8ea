package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeCharge     = "charge"
	TransactionTypeRefund     = "refund"
)

// Transaction statuses
const (
	TransactionStatusPending    = "pending"
	TransactionStatusProcessing = "processing"
	TransactionStatusAccepted   = "accepted"
	TransactionStatusRejected   = "rejected"
	TransactionStatusCompleted  = "completed"
	TransactionStatusCancelled  = "cancelled"
)

// Payment types
const (
	PaymentTypeConnect     = "connect"
	PaymentTypePaypal      = "paypal"
	PaymentTypeBankAccount = "bank_account"
)

// Transaction is an append-only record of a single balance-affecting event.
// Once its status reaches completed the record is immutable; rows are never
// deleted, so the table doubles as the audit trail.
type Transaction struct {
	ID       uint  `gorm:"primarykey" json:"id"`
	UserID   *uint `gorm:"index" json:"user_id,omitempty"`
	// WalletID is nullable: a transaction may outlive the wallet it touched.
	WalletID *uint `gorm:"index" json:"wallet_id,omitempty"`

	Amount      decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"amount"`
	Fee         decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"fee"`
	Description string          `json:"description,omitempty"`

	TransactionType string `gorm:"not null;default:'deposit'" json:"transaction_type"`
	Status          string `gorm:"not null;default:'pending'" json:"status"`
	PaymentType     string `json:"payment_type,omitempty"`

	// Reference is an external correlation id (payout reference etc).
	Reference string `gorm:"index" json:"reference,omitempty"`
	Metadata  JSON   `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// IsTerminal reports whether the transaction can no longer change.
func (t *Transaction) IsTerminal() bool {
	return TransactionStatusIsTerminal(t.Status)
}

// TransactionStatusIsTerminal reports whether status permits no further writes.
func TransactionStatusIsTerminal(status string) bool {
	switch status {
	case TransactionStatusCompleted, TransactionStatusRejected, TransactionStatusCancelled:
		return true
	}
	return false
}
