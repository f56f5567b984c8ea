package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "handy/internal/errors"
	"handy/internal/models"
	"handy/internal/repositories"
	"handy/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	repo    repositories.WalletRepository
	cache   repositories.CacheRepository
	metrics MetricsCollector
	log     *zap.Logger
}

// NewService creates a new wallet service.
func NewService(repo repositories.WalletRepository, cache repositories.CacheRepository, metrics MetricsCollector, log *zap.Logger) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{repo: repo, cache: cache, metrics: metrics, log: log}
}

func (s *service) GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error) {
	if w, err := s.GetWallet(ctx, userID); err == nil {
		return w, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	w := &models.Wallet{UserID: userID}
	err := s.repo.Create(ctx, w)
	if errors.Is(err, repositories.ErrDuplicateWallet) {
		// Lost the race against a concurrent first access; the winner's
		// row is the wallet.
		return s.GetWallet(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	s.log.Info("wallet created", zap.Uint("user_id", userID))
	if cacheErr := s.cache.SetWallet(ctx, userID, w); cacheErr != nil {
		s.log.Warn("failed to cache wallet", zap.Uint("user_id", userID), zap.Error(cacheErr))
	}
	return w, nil
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if w, err := s.cache.GetWallet(ctx, userID); err == nil {
		return w, nil
	}

	w, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if cacheErr := s.cache.SetWallet(ctx, userID, w); cacheErr != nil {
		s.log.Warn("failed to cache wallet", zap.Uint("user_id", userID), zap.Error(cacheErr))
	}
	return w, nil
}

func (s *service) GetAvailableBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	w, err := s.GetWallet(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return w.GetAvailableBalance(), nil
}

func (s *service) GetPendingBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	w, err := s.GetWallet(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return w.GetPendingBalance(), nil
}

func (s *service) Credit(ctx context.Context, userID uint, amount decimal.Decimal, target Balance) error {
	return s.mutate(ctx, "credit", userID, func(repo repositories.WalletRepository) error {
		return s.CreditTx(ctx, repo, userID, amount, target)
	})
}

func (s *service) Debit(ctx context.Context, userID uint, amount decimal.Decimal, source Balance) error {
	return s.mutate(ctx, "debit", userID, func(repo repositories.WalletRepository) error {
		return s.DebitTx(ctx, repo, userID, amount, source)
	})
}

func (s *service) MovePendingToAvailable(ctx context.Context, userID uint) error {
	return s.mutate(ctx, "move_pending", userID, func(repo repositories.WalletRepository) error {
		return s.MovePendingToAvailableTx(ctx, repo, userID)
	})
}

// mutate wraps a Tx mutation in its own unit of work and handles cache
// invalidation and metrics uniformly.
func (s *service) mutate(ctx context.Context, operation string, userID uint, fn func(repositories.WalletRepository) error) error {
	start := time.Now()
	err := s.repo.ExecuteInTransaction(ctx, fn)
	s.metrics.RecordOperationDuration(operation, time.Since(start))
	if err != nil {
		s.metrics.RecordOperation(operation, "failure")
		return err
	}
	s.metrics.RecordOperation(operation, "success")
	if cacheErr := s.cache.DeleteWallet(ctx, userID); cacheErr != nil {
		s.log.Warn("failed to invalidate wallet cache", zap.Uint("user_id", userID), zap.Error(cacheErr))
	}
	return nil
}

func (s *service) CreditTx(ctx context.Context, repo repositories.WalletRepository, userID uint, amount decimal.Decimal, target Balance) error {
	if err := validation.Amount(amount); err != nil {
		s.metrics.RecordError("credit", "invalid_amount")
		return err
	}
	if !target.Valid() {
		return fmt.Errorf("unknown balance target %q", target)
	}

	w, err := s.lockWallet(ctx, repo, userID)
	if err != nil {
		return err
	}

	switch target {
	case BalanceAvailable:
		w.AvailableBalance = w.AvailableBalance.Add(amount)
		w.TotalDeposits = w.TotalDeposits.Add(amount)
	case BalancePending:
		w.PendingBalance = w.PendingBalance.Add(amount)
		w.TotalEarnings = w.TotalEarnings.Add(amount)
	}

	if err := repo.Update(ctx, w); err != nil {
		return err
	}

	s.metrics.RecordBalanceChange("credit", amount.InexactFloat64())
	s.log.Info("wallet credited",
		zap.Uint("user_id", userID),
		zap.String("target", string(target)),
		zap.String("amount", amount.String()))
	s.invalidate(ctx, userID)
	return nil
}

func (s *service) DebitTx(ctx context.Context, repo repositories.WalletRepository, userID uint, amount decimal.Decimal, source Balance) error {
	if err := validation.Amount(amount); err != nil {
		s.metrics.RecordError("debit", "invalid_amount")
		return err
	}
	if !source.Valid() {
		return fmt.Errorf("unknown balance source %q", source)
	}

	w, err := s.lockWallet(ctx, repo, userID)
	if err != nil {
		return err
	}

	switch source {
	case BalanceAvailable:
		if err := validation.SufficientBalance(w, amount); err != nil {
			s.metrics.RecordError("debit", "insufficient_balance")
			s.log.Warn("insufficient balance",
				zap.Uint("user_id", userID),
				zap.String("available", w.AvailableBalance.String()),
				zap.String("requested", amount.String()))
			return err
		}
		w.AvailableBalance = w.AvailableBalance.Sub(amount)
		w.TotalWithdrawals = w.TotalWithdrawals.Add(amount)
	case BalancePending:
		if w.PendingBalance.LessThan(amount) {
			s.metrics.RecordError("debit", "insufficient_balance")
			return domain.ErrInsufficientBalance
		}
		w.PendingBalance = w.PendingBalance.Sub(amount)
	}

	if err := repo.Update(ctx, w); err != nil {
		return err
	}

	s.metrics.RecordBalanceChange("debit", amount.InexactFloat64())
	s.log.Info("wallet debited",
		zap.Uint("user_id", userID),
		zap.String("source", string(source)),
		zap.String("amount", amount.String()))
	s.invalidate(ctx, userID)
	return nil
}

func (s *service) MovePendingToAvailableTx(ctx context.Context, repo repositories.WalletRepository, userID uint) error {
	w, err := s.lockWallet(ctx, repo, userID)
	if err != nil {
		return err
	}

	// Nothing held is a no-op, not an error.
	if w.PendingBalance.IsZero() {
		return nil
	}

	moved := w.PendingBalance
	w.AvailableBalance = w.AvailableBalance.Add(moved)
	w.PendingBalance = decimal.Zero

	if err := repo.Update(ctx, w); err != nil {
		return err
	}

	s.metrics.RecordBalanceChange("move_pending", moved.InexactFloat64())
	s.log.Info("pending balance released",
		zap.Uint("user_id", userID),
		zap.String("amount", moved.String()))
	s.invalidate(ctx, userID)
	return nil
}

func (s *service) AddOutstandingChargeTx(ctx context.Context, repo repositories.WalletRepository, userID uint, amount decimal.Decimal) error {
	if err := validation.Amount(amount); err != nil {
		s.metrics.RecordError("add_outstanding", "invalid_amount")
		return err
	}
	w, err := s.lockWallet(ctx, repo, userID)
	if err != nil {
		return err
	}
	w.OutstandingCharges = w.OutstandingCharges.Add(amount)
	if err := repo.Update(ctx, w); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// SettleOutstandingChargeTx collects a fee: the amount leaves the available
// balance and the outstanding counter drops by the same amount. Fees are not
// withdrawals, so TotalWithdrawals is untouched.
func (s *service) SettleOutstandingChargeTx(ctx context.Context, repo repositories.WalletRepository, userID uint, amount decimal.Decimal) error {
	if err := validation.Amount(amount); err != nil {
		s.metrics.RecordError("settle_charge", "invalid_amount")
		return err
	}

	w, err := s.lockWallet(ctx, repo, userID)
	if err != nil {
		return err
	}

	if err := validation.SufficientBalance(w, amount); err != nil {
		s.metrics.RecordError("settle_charge", "insufficient_balance")
		s.log.Warn("insufficient balance for charge",
			zap.Uint("user_id", userID),
			zap.String("available", w.AvailableBalance.String()),
			zap.String("fee", amount.String()))
		return err
	}

	w.AvailableBalance = w.AvailableBalance.Sub(amount)
	w.OutstandingCharges = w.OutstandingCharges.Sub(amount)
	if w.OutstandingCharges.IsNegative() {
		w.OutstandingCharges = decimal.Zero
	}

	if err := repo.Update(ctx, w); err != nil {
		return err
	}

	s.metrics.RecordBalanceChange("settle_charge", amount.InexactFloat64())
	s.log.Info("charge settled",
		zap.Uint("user_id", userID),
		zap.String("amount", amount.String()))
	s.invalidate(ctx, userID)
	return nil
}

func (s *service) lockWallet(ctx context.Context, repo repositories.WalletRepository, userID uint) (*models.Wallet, error) {
	w, err := repo.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

func (s *service) invalidate(ctx context.Context, userID uint) {
	if err := s.cache.DeleteWallet(ctx, userID); err != nil {
		s.log.Warn("failed to invalidate wallet cache", zap.Uint("user_id", userID), zap.Error(err))
	}
}
