package repositories

import (
	"context"
	"errors"

	"handy/internal/models"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository persists the append-only transaction ledger. Rows
// are created and status-advanced, never deleted. GetByIDForUpdate must be
// called inside a transaction: it takes a row lock so two workers cannot
// both read a stale pending status and apply the balance change twice.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)
}
