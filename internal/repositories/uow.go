package repositories

import (
	"context"

	"gorm.io/gorm"
)

// TxRepos bundles the ledger repositories bound to one database transaction.
// A processor that must flip a record's status and move wallet balance in
// the same unit of work runs both writes through the same TxRepos.
type TxRepos struct {
	Wallets      WalletRepository
	Transactions TransactionRepository
	Charges      ChargeRepository
	Settlements  SettlementRepository
	Orders       OrderRepository
}

// UnitOfWork runs a function against transaction-bound repositories; an
// error from fn rolls back every write made through them.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(TxRepos) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(TxRepos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(TxRepos{
			Wallets:      NewWalletRepository(tx),
			Transactions: NewTransactionRepository(tx),
			Charges:      NewChargeRepository(tx),
			Settlements:  NewSettlementRepository(tx),
			Orders:       NewOrderRepository(tx),
		})
	})
}
