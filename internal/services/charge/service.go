package charge

import (
	"context"
	stderrors "errors"
	"fmt"

	domain "handy/internal/errors"
	"handy/internal/models"
	"handy/internal/repositories"
	"handy/internal/validation"

	"go.uber.org/zap"
)

type service struct {
	uow        repositories.UnitOfWork
	chargeRepo repositories.ChargeRepository
	wallets    WalletOperator
	log        *zap.Logger
}

// NewService builds the charge processor.
func NewService(uow repositories.UnitOfWork, chargeRepo repositories.ChargeRepository, wallets WalletOperator, log *zap.Logger) Service {
	if uow == nil {
		panic("charge: unit of work is required")
	}
	if chargeRepo == nil {
		panic("charge: charge repository is required")
	}
	if wallets == nil {
		panic("charge: wallet service is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{uow: uow, chargeRepo: chargeRepo, wallets: wallets, log: log}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*models.Charge, error) {
	if !req.OwnerKind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOwnerKind, req.OwnerKind)
	}

	amount := req.FeeAmount
	if amount.IsZero() {
		amount = models.DefaultFee(req.FeeType)
		if amount.IsZero() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFeeType, req.FeeType)
		}
	}
	if err := validation.Amount(amount); err != nil {
		return nil, err
	}

	if _, err := s.wallets.GetOrCreate(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("resolving wallet for user %d: %w", req.UserID, err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	c := &models.Charge{
		UserID:      req.UserID,
		OwnerKind:   req.OwnerKind,
		OwnerID:     req.OwnerID,
		FeeAmount:   amount,
		FeeType:     req.FeeType,
		Currency:    currency,
		Description: req.Description,
		Status:      models.ChargeStatusInit,
		IsActive:    true,
	}

	// The charge row and the outstanding counter move together.
	err := s.uow.Do(ctx, func(repos repositories.TxRepos) error {
		if err := repos.Charges.Create(ctx, c); err != nil {
			return fmt.Errorf("creating charge: %w", err)
		}
		return s.wallets.AddOutstandingChargeTx(ctx, repos.Wallets, req.UserID, amount)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("charge created",
		zap.Uint("charge_id", c.ID),
		zap.Uint("user_id", c.UserID),
		zap.String("owner_kind", string(c.OwnerKind)),
		zap.Uint("owner_id", c.OwnerID),
		zap.String("fee_type", c.FeeType),
		zap.String("amount", c.FeeAmount.String()))
	return c, nil
}

// Advance moves a charge to newStatus. The transition is validated before
// anything is written; advancing to completed collects the fee in the same
// commit as the status flip, so insufficient funds leave the charge (and the
// wallet) exactly as they were.
func (s *service) Advance(ctx context.Context, chargeID uint, newStatus string) (*models.Charge, error) {
	var advanced *models.Charge
	err := s.uow.Do(ctx, func(repos repositories.TxRepos) error {
		c, err := s.advanceTx(ctx, repos, chargeID, newStatus)
		if err != nil {
			return err
		}
		advanced = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("charge advanced",
		zap.Uint("charge_id", advanced.ID),
		zap.String("status", advanced.Status))
	return advanced, nil
}

// CompleteTx collects a charge inside a caller-owned unit of work.
func (s *service) CompleteTx(ctx context.Context, repos repositories.TxRepos, chargeID uint) (*models.Charge, error) {
	return s.advanceTx(ctx, repos, chargeID, models.ChargeStatusCompleted)
}

func (s *service) advanceTx(ctx context.Context, repos repositories.TxRepos, chargeID uint, newStatus string) (*models.Charge, error) {
	// Lock the row so a concurrent advance cannot read the same stale
	// status and settle the fee twice.
	c, err := repos.Charges.GetByIDForUpdate(ctx, chargeID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrChargeNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := validation.ChargeTransition(c.Status, newStatus); err != nil {
		return nil, err
	}

	if newStatus == models.ChargeStatusCompleted {
		if err := s.wallets.SettleOutstandingChargeTx(ctx, repos.Wallets, c.UserID, c.FeeAmount); err != nil {
			return nil, err
		}
		c.IsActive = false
	}

	c.Status = newStatus
	if err := repos.Charges.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("updating charge %d: %w", chargeID, err)
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, chargeID uint) (*models.Charge, error) {
	c, err := s.chargeRepo.GetByID(ctx, chargeID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrChargeNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Charge, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.chargeRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *service) ListByOwner(ctx context.Context, kind models.OwnerKind, ownerID uint) ([]models.Charge, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOwnerKind, kind)
	}
	return s.chargeRepo.ListByOwner(ctx, kind, ownerID)
}
