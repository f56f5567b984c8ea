package handlers

import (
	"handy/internal/models"
	"handy/internal/services/transaction"
	"handy/internal/services/wallet"
	"handy/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletService      wallet.Service
	transactionService transaction.Service
}

func NewWalletHandler(walletService wallet.Service, transactionService transaction.Service) *WalletHandler {
	return &WalletHandler{
		walletService:      walletService,
		transactionService: transactionService,
	}
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.GetOrCreate(c.Context(), claims.UserID)
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Success(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.GetOrCreate(c.Context(), claims.UserID)
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"available_balance":   w.AvailableBalance,
		"pending_balance":     w.PendingBalance,
		"outstanding_charges": w.OutstandingCharges,
	})
}

// Withdraw records a withdrawal request and immediately processes it: the
// available balance drops and the payout is handed to the provider in one
// call. The transaction is returned either way so the client can poll it.
func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount      decimal.Decimal `json:"amount"`
		PaymentType string          `json:"payment_type"`
		Destination string          `json:"destination"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	paymentType := input.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentTypeConnect
	}

	tx, err := h.transactionService.Create(c.Context(), transaction.CreateRequest{
		UserID:          claims.UserID,
		Amount:          input.Amount,
		TransactionType: models.TransactionTypeWithdrawal,
		PaymentType:     paymentType,
		Destination:     input.Destination,
		Description:     "wallet withdrawal",
	})
	if err != nil {
		return utils.DomainError(c, err)
	}

	processed, err := h.transactionService.Process(c.Context(), tx.ID)
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Success(c, fiber.Map{"transaction": processed})
}
