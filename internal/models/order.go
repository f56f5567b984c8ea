package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses relevant to settlement.
const (
	OrderStatusPending   = "pending"
	OrderStatusAccepted  = "accepted"
	OrderStatusRejected  = "rejected"
	OrderStatusCompleted = "completed"
)

// Payment statuses on an order.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusRefunded  = "refunded"
)

// Order is the minimal order record the ledger core needs: who provided the
// service, what was paid, and the two status fields that drive settlement.
// The full order lifecycle lives in the order subsystem; this table only
// mirrors what settlement decisions are made from.
type Order struct {
	ID             uint `gorm:"primarykey" json:"id"`
	UserID         uint `gorm:"index;not null" json:"user_id"`
	ProviderUserID uint `gorm:"index;not null" json:"provider_user_id"`

	TotalPrice decimal.Decimal `gorm:"type:numeric(20,8)" json:"total_price"`
	PaidPrice  decimal.Decimal `gorm:"type:numeric(20,8)" json:"paid_price"`

	OrderStatus   string `gorm:"not null;default:'pending'" json:"order_status"`
	PaymentStatus string `gorm:"not null;default:'pending'" json:"payment_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
