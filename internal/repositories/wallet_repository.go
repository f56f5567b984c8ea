package repositories

import (
	"context"
	"errors"

	"handy/internal/models"
)

var (
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrDuplicateWallet = errors.New("wallet already exists")
)

// WalletRepository defines wallet persistence. GetByUserIDForUpdate must be
// called inside ExecuteInTransaction: it takes a row lock so that two
// concurrent debits cannot both validate against a stale balance.
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByID(ctx context.Context, id uint) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	GetByUserIDForUpdate(ctx context.Context, userID uint) (*models.Wallet, error)
	Update(ctx context.Context, wallet *models.Wallet) error

	// ExecuteInTransaction runs fn against a repository bound to a single
	// database transaction; fn returning an error rolls everything back.
	ExecuteInTransaction(ctx context.Context, fn func(WalletRepository) error) error
}
