package transaction

import (
	"context"
	stderrors "errors"
	"fmt"

	domain "handy/internal/errors"
	"handy/internal/models"
	"handy/internal/repositories"
	"handy/internal/services/payout"
	"handy/internal/services/wallet"
	"handy/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type service struct {
	uow     repositories.UnitOfWork
	txRepo  repositories.TransactionRepository
	wallets WalletOperator
	charges ChargeCompleter
	payouts PayoutDispatcher
	log     *zap.Logger
}

// NewService builds the transaction processor. charges and payouts may be
// nil when the deployment does not process charge transactions or dispatch
// withdrawals upstream.
func NewService(
	uow repositories.UnitOfWork,
	txRepo repositories.TransactionRepository,
	wallets WalletOperator,
	charges ChargeCompleter,
	payouts PayoutDispatcher,
	log *zap.Logger,
) Service {
	if uow == nil {
		panic("transaction: unit of work is required")
	}
	if txRepo == nil {
		panic("transaction: transaction repository is required")
	}
	if wallets == nil {
		panic("transaction: wallet service is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		uow:     uow,
		txRepo:  txRepo,
		wallets: wallets,
		charges: charges,
		payouts: payouts,
		log:     log,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*models.Transaction, error) {
	if err := validation.Amount(req.Amount); err != nil {
		return nil, err
	}
	switch req.TransactionType {
	case models.TransactionTypeDeposit,
		models.TransactionTypeWithdrawal,
		models.TransactionTypeCharge,
		models.TransactionTypeRefund:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, req.TransactionType)
	}

	w, err := s.wallets.GetOrCreate(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolving wallet for user %d: %w", req.UserID, err)
	}

	meta := req.Metadata
	if meta == nil {
		meta = map[string]interface{}{}
	}
	if req.Destination != "" {
		meta["destination"] = req.Destination
	}

	userID := req.UserID
	walletID := w.ID
	tx := &models.Transaction{
		UserID:          &userID,
		WalletID:        &walletID,
		Amount:          req.Amount,
		Fee:             req.Fee,
		TransactionType: req.TransactionType,
		Status:          models.TransactionStatusPending,
		PaymentType:     req.PaymentType,
		Reference:       uuid.NewString(),
		Description:     req.Description,
		Metadata:        models.NewJSON(meta),
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	s.log.Info("transaction created",
		zap.Uint("transaction_id", tx.ID),
		zap.Uint("user_id", req.UserID),
		zap.String("type", tx.TransactionType),
		zap.String("amount", tx.Amount.String()))
	return tx, nil
}

// Process applies a pending or processing transaction to its wallet and marks
// it completed. The balance change and the status flip commit together; if
// either fails, neither is persisted. Re-processing a completed transaction
// is a no-op success, so retries after a lost response are safe.
func (s *service) Process(ctx context.Context, transactionID uint) (*models.Transaction, error) {
	var processed *models.Transaction
	applied := false
	err := s.uow.Do(ctx, func(repos repositories.TxRepos) error {
		// Lock the row before checking status. Two workers racing on the
		// same pending transaction would otherwise both see it pending
		// and apply the balance change twice.
		tx, err := repos.Transactions.GetByIDForUpdate(ctx, transactionID)
		if err != nil {
			if stderrors.Is(err, repositories.ErrTransactionNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if tx.Status == models.TransactionStatusCompleted {
			processed = tx
			return nil
		}
		if tx.Status != models.TransactionStatusPending && tx.Status != models.TransactionStatusProcessing {
			return domain.ErrIllegalTransition
		}
		if err := validation.TransactionTransition(tx.Status, models.TransactionStatusCompleted); err != nil {
			return err
		}
		if tx.UserID == nil {
			return domain.ErrNotFound
		}

		switch tx.TransactionType {
		case models.TransactionTypeWithdrawal:
			err = s.wallets.DebitTx(ctx, repos.Wallets, *tx.UserID, tx.Amount, wallet.BalanceAvailable)
		case models.TransactionTypeDeposit, models.TransactionTypeRefund:
			err = s.wallets.CreditTx(ctx, repos.Wallets, *tx.UserID, tx.Amount, wallet.BalanceAvailable)
		case models.TransactionTypeCharge:
			err = s.completeCharge(ctx, repos, tx)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownType, tx.TransactionType)
		}
		if err != nil {
			return err
		}

		tx.Status = models.TransactionStatusCompleted
		if err := repos.Transactions.Update(ctx, tx); err != nil {
			return fmt.Errorf("completing transaction %d: %w", transactionID, err)
		}
		processed = tx
		applied = true
		return nil
	})
	if err != nil {
		s.log.Warn("transaction processing failed",
			zap.Uint("transaction_id", transactionID),
			zap.Error(err))
		return nil, err
	}

	s.log.Info("transaction processed",
		zap.Uint("transaction_id", processed.ID),
		zap.String("type", processed.TransactionType),
		zap.String("status", processed.Status))

	// Replays of an already-completed record stop here; only the commit
	// that actually flipped the status hands the payout to the gateway.
	if applied && processed.TransactionType == models.TransactionTypeWithdrawal {
		s.dispatchPayout(ctx, processed)
	}
	return processed, nil
}

// completeCharge settles a charge-type transaction by completing the fee
// charge it references, inside the same unit of work.
func (s *service) completeCharge(ctx context.Context, repos repositories.TxRepos, tx *models.Transaction) error {
	if s.charges == nil {
		return ErrMissingChargeRef
	}
	raw, ok := tx.Metadata["charge_id"]
	if !ok {
		return ErrMissingChargeRef
	}
	chargeID, ok := asUint(raw)
	if !ok {
		return ErrMissingChargeRef
	}
	_, err := s.charges.CompleteTx(ctx, repos, chargeID)
	return err
}

// dispatchPayout runs after the withdrawal has committed. A gateway failure
// here never rolls back the ledger; it is logged for operator reconciliation.
func (s *service) dispatchPayout(ctx context.Context, tx *models.Transaction) {
	if s.payouts == nil || tx.UserID == nil {
		return
	}
	dest, _ := tx.Metadata["destination"].(string)
	ref, err := s.payouts.Send(ctx, payout.Request{
		UserID:      *tx.UserID,
		Amount:      tx.Amount,
		Currency:    "usd",
		PaymentType: tx.PaymentType,
		Destination: dest,
		Reference:   tx.Reference,
	})
	if err != nil {
		s.log.Error("payout dispatch failed",
			zap.Uint("transaction_id", tx.ID),
			zap.String("reference", tx.Reference),
			zap.Error(err))
		return
	}
	s.log.Info("payout dispatched",
		zap.Uint("transaction_id", tx.ID),
		zap.String("provider_reference", ref))
}

func (s *service) Get(ctx context.Context, transactionID uint) (*models.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.txRepo.ListByUser(ctx, userID, limit, offset)
}

func asUint(v interface{}) (uint, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case uint:
		return n, true
	}
	return 0, false
}
