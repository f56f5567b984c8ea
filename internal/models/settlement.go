package models

import "time"

// Settlement phases. Hold credits the provider's pending balance when an
// order is paid; release moves pending into available when it completes.
const (
	SettlementPhaseHold    = "hold"
	SettlementPhaseRelease = "release"
)

// Settlement marks that a settlement phase has been applied for an order.
// The unique (order_id, phase) index is what makes replayed order
// notifications safe: the second insert conflicts and the handler skips the
// balance change.
type Settlement struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	OrderID        uint   `gorm:"uniqueIndex:idx_settlement_order_phase;not null" json:"order_id"`
	Phase          string `gorm:"uniqueIndex:idx_settlement_order_phase;not null" json:"phase"`
	ProviderUserID uint   `gorm:"index;not null" json:"provider_user_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (Settlement) TableName() string {
	return "settlements"
}
