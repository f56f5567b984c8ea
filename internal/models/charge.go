package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee kinds a charge can carry.
const (
	FeeTypeListing            = "product_listing_fee"
	FeeTypeTransaction        = "transaction_fee"
	FeeTypeProcessing         = "payment_processing"
	FeeTypeDeposit            = "deposit_fee"
	FeeTypeCurrencyConversion = "currency_conversion"
	FeeTypeVATProcessing      = "vat_processing"
	FeeTypeVATSellerServices  = "vat_seller_services"
)

// Charge statuses
const (
	ChargeStatusInit      = "init"
	ChargeStatusPending   = "pending"
	ChargeStatusCompleted = "completed"
)

// OwnerKind tags the record a charge is billed against.
type OwnerKind string

const (
	OwnerKindOrder   OwnerKind = "order"
	OwnerKindBooking OwnerKind = "booking"
	OwnerKindListing OwnerKind = "listing"
)

// Valid reports whether k is a known owner kind.
func (k OwnerKind) Valid() bool {
	switch k {
	case OwnerKindOrder, OwnerKindBooking, OwnerKindListing:
		return true
	}
	return false
}

// Charge is a platform fee billed to a user against an owning record. The
// owner is a tagged pair (kind + id) rather than an untyped reference.
// Completing a charge is the only path that actually deducts the fee; once
// completed the record is immutable.
type Charge struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`

	OwnerKind OwnerKind `gorm:"index:idx_charge_owner;not null" json:"owner_kind"`
	OwnerID   uint      `gorm:"index:idx_charge_owner;not null" json:"owner_id"`

	FeeAmount   decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"fee_amount"`
	FeeType     string          `gorm:"not null" json:"fee_type"`
	Currency    string          `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Description string          `json:"description,omitempty"`

	Status   string `gorm:"not null;default:'init'" json:"status"`
	IsActive bool   `gorm:"not null;default:false" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Charge) TableName() string {
	return "charges"
}
