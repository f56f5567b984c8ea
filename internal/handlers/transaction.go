package handlers

import (
	"strconv"

	"handy/internal/services/transaction"
	"handy/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	transactionService transaction.Service
}

func NewTransactionHandler(transactionService transaction.Service) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	txs, err := h.transactionService.ListByUser(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list transactions")
	}

	return utils.Success(c, fiber.Map{
		"transactions": txs,
		"limit":        limit,
		"offset":       offset,
	})
}

func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "invalid transaction id")
	}

	tx, err := h.transactionService.Get(c.Context(), uint(id))
	if err != nil {
		return utils.DomainError(c, err)
	}
	if tx.UserID == nil || *tx.UserID != claims.UserID {
		return utils.NotFound(c, "transaction not found")
	}

	return utils.Success(c, fiber.Map{"transaction": tx})
}

// Process settles a pending transaction. Re-submitting a completed one is
// safe and returns the record unchanged.
func (h *TransactionHandler) Process(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "invalid transaction id")
	}

	tx, err := h.transactionService.Get(c.Context(), uint(id))
	if err != nil {
		return utils.DomainError(c, err)
	}
	if tx.UserID == nil || *tx.UserID != claims.UserID {
		return utils.NotFound(c, "transaction not found")
	}

	processed, err := h.transactionService.Process(c.Context(), uint(id))
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Success(c, fiber.Map{"transaction": processed})
}
