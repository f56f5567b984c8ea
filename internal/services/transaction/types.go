package transaction

import (
	"context"
	"errors"

	"handy/internal/models"
	"handy/internal/repositories"
	"handy/internal/services/payout"
	"handy/internal/services/wallet"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownType      = errors.New("unknown transaction type")
	ErrMissingChargeRef = errors.New("charge transaction has no charge reference")
)

// CreateRequest describes a new ledger transaction. Destination is only
// meaningful for withdrawals: it names where the payout should land.
type CreateRequest struct {
	UserID          uint
	Amount          decimal.Decimal
	Fee             decimal.Decimal
	TransactionType string
	PaymentType     string
	Description     string
	Destination     string
	Metadata        map[string]interface{}
}

// Service is the transaction processor contract. Create records the intent;
// Process applies it against the wallet and completes the record, in one
// unit of work. Process is idempotent once a transaction is completed.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*models.Transaction, error)
	Process(ctx context.Context, transactionID uint) (*models.Transaction, error)
	Get(ctx context.Context, transactionID uint) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)
}

// WalletOperator is the slice of the wallet store the processor needs.
type WalletOperator interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error)
	CreditTx(ctx context.Context, repo repositories.WalletRepository, userID uint, amount decimal.Decimal, target wallet.Balance) error
	DebitTx(ctx context.Context, repo repositories.WalletRepository, userID uint, amount decimal.Decimal, source wallet.Balance) error
}

// ChargeCompleter completes a platform fee charge inside the caller's unit
// of work; charge-type transactions delegate to it.
type ChargeCompleter interface {
	CompleteTx(ctx context.Context, repos repositories.TxRepos, chargeID uint) (*models.Charge, error)
}

// PayoutDispatcher hands a completed withdrawal to the upstream payment
// processor.
type PayoutDispatcher interface {
	Send(ctx context.Context, req payout.Request) (string, error)
}
