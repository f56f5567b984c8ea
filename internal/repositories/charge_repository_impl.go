package repositories

import (
	"context"
	"errors"
	"fmt"

	"handy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type chargeRepository struct {
	db *gorm.DB
}

func NewChargeRepository(db *gorm.DB) ChargeRepository {
	return &chargeRepository{db: db}
}

func (r *chargeRepository) Create(ctx context.Context, charge *models.Charge) error {
	if err := r.db.WithContext(ctx).Create(charge).Error; err != nil {
		return fmt.Errorf("failed to create charge: %w", err)
	}
	return nil
}

func (r *chargeRepository) GetByID(ctx context.Context, id uint) (*models.Charge, error) {
	var charge models.Charge
	if err := r.db.WithContext(ctx).First(&charge, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChargeNotFound
		}
		return nil, fmt.Errorf("failed to get charge: %w", err)
	}
	return &charge, nil
}

func (r *chargeRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Charge, error) {
	var charge models.Charge
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&charge, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChargeNotFound
		}
		return nil, fmt.Errorf("failed to lock charge: %w", err)
	}
	return &charge, nil
}

func (r *chargeRepository) Update(ctx context.Context, charge *models.Charge) error {
	if err := r.db.WithContext(ctx).Save(charge).Error; err != nil {
		return fmt.Errorf("failed to update charge: %w", err)
	}
	return nil
}

func (r *chargeRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Charge, error) {
	var charges []models.Charge
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&charges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list charges: %w", err)
	}
	return charges, nil
}

func (r *chargeRepository) ListByOwner(ctx context.Context, kind models.OwnerKind, ownerID uint) ([]models.Charge, error) {
	var charges []models.Charge
	err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ?", kind, ownerID).
		Order("created_at DESC").
		Find(&charges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list charges by owner: %w", err)
	}
	return charges, nil
}
