package repositories

import (
	"context"
	"errors"

	"handy/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository mirrors the order records settlement decisions are made
// from. The order subsystem owns the full lifecycle; this core only reads
// and upserts the settlement-relevant snapshot.
type OrderRepository interface {
	Upsert(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
}
