package handlers

import (
	"errors"
	"strconv"

	"handy/internal/models"
	"handy/internal/services/charge"
	"handy/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ChargeHandler struct {
	chargeService charge.Service
}

func NewChargeHandler(chargeService charge.Service) *ChargeHandler {
	return &ChargeHandler{chargeService: chargeService}
}

func (h *ChargeHandler) Create(c *fiber.Ctx) error {
	var input struct {
		UserID      uint            `json:"user_id"`
		OwnerKind   string          `json:"owner_kind"`
		OwnerID     uint            `json:"owner_id"`
		FeeAmount   decimal.Decimal `json:"fee_amount"`
		FeeType     string          `json:"fee_type"`
		Currency    string          `json:"currency"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	created, err := h.chargeService.Create(c.Context(), charge.CreateRequest{
		UserID:      input.UserID,
		OwnerKind:   models.OwnerKind(input.OwnerKind),
		OwnerID:     input.OwnerID,
		FeeAmount:   input.FeeAmount,
		FeeType:     input.FeeType,
		Currency:    input.Currency,
		Description: input.Description,
	})
	if err != nil {
		if errors.Is(err, charge.ErrUnknownOwnerKind) || errors.Is(err, charge.ErrUnknownFeeType) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.DomainError(c, err)
	}

	return utils.Created(c, fiber.Map{"charge": created})
}

func (h *ChargeHandler) Advance(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "invalid charge id")
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.Status == "" {
		return utils.BadRequest(c, "status is required")
	}

	advanced, err := h.chargeService.Advance(c.Context(), uint(id), input.Status)
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Success(c, fiber.Map{"charge": advanced})
}

func (h *ChargeHandler) ListMine(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	charges, err := h.chargeService.ListByUser(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list charges")
	}

	return utils.Success(c, fiber.Map{"charges": charges})
}
