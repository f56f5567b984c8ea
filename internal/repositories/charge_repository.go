package repositories

import (
	"context"
	"errors"

	"handy/internal/models"
)

var ErrChargeNotFound = errors.New("charge not found")

// ChargeRepository persists platform fee charges. GetByIDForUpdate must be
// called inside a transaction: it locks the row so concurrent lifecycle
// advances cannot both act on a stale status and settle the fee twice.
type ChargeRepository interface {
	Create(ctx context.Context, charge *models.Charge) error
	GetByID(ctx context.Context, id uint) (*models.Charge, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Charge, error)
	Update(ctx context.Context, charge *models.Charge) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Charge, error)
	ListByOwner(ctx context.Context, kind models.OwnerKind, ownerID uint) ([]models.Charge, error)
}
