package repositories

import (
	"context"
	"fmt"

	"handy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) SettlementRepository {
	return &settlementRepository{db: db}
}

func (r *settlementRepository) ClaimPhase(ctx context.Context, orderID uint, phase string, providerUserID uint) (bool, error) {
	marker := models.Settlement{
		OrderID:        orderID,
		Phase:          phase,
		ProviderUserID: providerUserID,
	}
	// The unique (order_id, phase) index arbitrates replays: the losing
	// insert affects zero rows and the caller skips the balance change.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "phase"}},
			DoNothing: true,
		}).
		Create(&marker)
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim settlement phase: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
