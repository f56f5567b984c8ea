package charge

import (
	"context"
	"errors"

	"handy/internal/models"
	"handy/internal/repositories"
	"handy/internal/services/wallet"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownOwnerKind = errors.New("unknown charge owner kind")
	ErrUnknownFeeType   = errors.New("unknown fee type")
)

// CreateRequest describes a new platform fee. A zero FeeAmount falls back
// to the schedule rate for FeeType.
type CreateRequest struct {
	UserID      uint
	OwnerKind   models.OwnerKind
	OwnerID     uint
	FeeAmount   decimal.Decimal
	FeeType     string
	Currency    string
	Description string
}

// Service is the charge processor contract. CompleteTx exists so the
// transaction processor can collect a charge inside its own unit of work.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*models.Charge, error)
	Advance(ctx context.Context, chargeID uint, newStatus string) (*models.Charge, error)
	CompleteTx(ctx context.Context, repos repositories.TxRepos, chargeID uint) (*models.Charge, error)
	Get(ctx context.Context, chargeID uint) (*models.Charge, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Charge, error)
	ListByOwner(ctx context.Context, kind models.OwnerKind, ownerID uint) ([]models.Charge, error)
}

// WalletOperator is the slice of the wallet store the processor needs.
type WalletOperator interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error)
	AddOutstandingChargeTx(ctx context.Context, repo repositories.WalletRepository, userID uint, amount decimal.Decimal) error
	SettleOutstandingChargeTx(ctx context.Context, repo repositories.WalletRepository, userID uint, amount decimal.Decimal) error
}

var _ WalletOperator = (wallet.Service)(nil)
