package wallet

import (
	"context"

	"handy/internal/models"
	"handy/internal/repositories"

	"github.com/shopspring/decimal"
)

// Service is the wallet store contract.
type Service interface {
	// Wallet lifecycle
	GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error)
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)

	// Balance queries (read-only)
	GetAvailableBalance(ctx context.Context, userID uint) (decimal.Decimal, error)
	GetPendingBalance(ctx context.Context, userID uint) (decimal.Decimal, error)

	// Balance mutations; each runs in its own unit of work
	Credit(ctx context.Context, userID uint, amount decimal.Decimal, target Balance) error
	Debit(ctx context.Context, userID uint, amount decimal.Decimal, source Balance) error
	MovePendingToAvailable(ctx context.Context, userID uint) error

	// Tx variants mutate through a caller-supplied transaction-bound
	// repository so a processor can combine the balance change with its
	// own status write in one commit.
	CreditTx(ctx context.Context, repo repositories.WalletRepository, userID uint, amount decimal.Decimal, target Balance) error
	DebitTx(ctx context.Context, repo repositories.WalletRepository, userID uint, amount decimal.Decimal, source Balance) error
	MovePendingToAvailableTx(ctx context.Context, repo repositories.WalletRepository, userID uint) error

	// Charge accounting. AddOutstandingChargeTx records a fee owed;
	// SettleOutstandingChargeTx collects it from the available balance.
	AddOutstandingChargeTx(ctx context.Context, repo repositories.WalletRepository, userID uint, amount decimal.Decimal) error
	SettleOutstandingChargeTx(ctx context.Context, repo repositories.WalletRepository, userID uint, amount decimal.Decimal) error
}
