package settlement

import (
	"context"
	"fmt"

	"handy/internal/models"
	"handy/internal/repositories"
	"handy/internal/services/wallet"
	"handy/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderEvent is the order-saved notification the order subsystem sends.
type OrderEvent struct {
	OrderID        uint
	UserID         uint
	ProviderUserID uint
	TotalPrice     decimal.Decimal
	PaidAmount     decimal.Decimal
	OrderStatus    string
	PaymentStatus  string
}

// Handler reacts to order lifecycle notifications.
type Handler interface {
	OnOrderSaved(ctx context.Context, event OrderEvent) error
}

// WalletOperator is the slice of the wallet store the handler needs.
type WalletOperator interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error)
	CreditTx(ctx context.Context, repo repositories.WalletRepository, userID uint, amount decimal.Decimal, target wallet.Balance) error
	MovePendingToAvailableTx(ctx context.Context, repo repositories.WalletRepository, userID uint) error
}

type handler struct {
	uow     repositories.UnitOfWork
	wallets WalletOperator
	log     *zap.Logger
}

// NewHandler builds the settlement event handler.
func NewHandler(uow repositories.UnitOfWork, wallets WalletOperator, log *zap.Logger) Handler {
	if uow == nil {
		panic("settlement: unit of work is required")
	}
	if wallets == nil {
		panic("settlement: wallet service is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &handler{uow: uow, wallets: wallets, log: log}
}

// OnOrderSaved applies at most one settlement phase for the event:
//
//	order pending  + payment completed -> hold: credit provider pending
//	order completed + payment completed -> release: pending into available
//
// Any other status combination is not the handler's business and returns
// nil. Each phase is guarded by a (order_id, phase) claim row, so replayed
// notifications never double-credit.
func (h *handler) OnOrderSaved(ctx context.Context, event OrderEvent) error {
	if event.PaymentStatus != models.PaymentStatusCompleted {
		return nil
	}

	var phase string
	switch event.OrderStatus {
	case models.OrderStatusPending:
		phase = models.SettlementPhaseHold
	case models.OrderStatusCompleted:
		phase = models.SettlementPhaseRelease
	default:
		return nil
	}

	if phase == models.SettlementPhaseHold {
		if err := validation.Amount(event.PaidAmount); err != nil {
			return fmt.Errorf("order %d paid amount: %w", event.OrderID, err)
		}
	}

	// The provider needs a wallet before the hold can land anywhere.
	if _, err := h.wallets.GetOrCreate(ctx, event.ProviderUserID); err != nil {
		return fmt.Errorf("resolving wallet for provider %d: %w", event.ProviderUserID, err)
	}

	applied := false
	err := h.uow.Do(ctx, func(repos repositories.TxRepos) error {
		if err := repos.Orders.Upsert(ctx, &models.Order{
			ID:             event.OrderID,
			UserID:         event.UserID,
			ProviderUserID: event.ProviderUserID,
			TotalPrice:     event.TotalPrice,
			PaidPrice:      event.PaidAmount,
			OrderStatus:    event.OrderStatus,
			PaymentStatus:  event.PaymentStatus,
		}); err != nil {
			return fmt.Errorf("mirroring order %d: %w", event.OrderID, err)
		}

		claimed, err := repos.Settlements.ClaimPhase(ctx, event.OrderID, phase, event.ProviderUserID)
		if err != nil {
			return fmt.Errorf("claiming %s for order %d: %w", phase, event.OrderID, err)
		}
		if !claimed {
			return nil
		}

		switch phase {
		case models.SettlementPhaseHold:
			err = h.wallets.CreditTx(ctx, repos.Wallets, event.ProviderUserID, event.PaidAmount, wallet.BalancePending)
		case models.SettlementPhaseRelease:
			err = h.wallets.MovePendingToAvailableTx(ctx, repos.Wallets, event.ProviderUserID)
		}
		if err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		h.log.Warn("settlement failed",
			zap.Uint("order_id", event.OrderID),
			zap.String("phase", phase),
			zap.Error(err))
		return err
	}

	if applied {
		h.log.Info("settlement applied",
			zap.Uint("order_id", event.OrderID),
			zap.Uint("provider_user_id", event.ProviderUserID),
			zap.String("phase", phase),
			zap.String("paid_amount", event.PaidAmount.String()))
	} else {
		h.log.Debug("settlement already applied",
			zap.Uint("order_id", event.OrderID),
			zap.String("phase", phase))
	}
	return nil
}
