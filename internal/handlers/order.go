package handlers

import (
	"strconv"

	"handy/internal/services/settlement"
	"handy/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// OrderHandler receives order lifecycle notifications from the order
// subsystem and feeds them to the settlement handler.
type OrderHandler struct {
	settlements settlement.Handler
}

func NewOrderHandler(settlements settlement.Handler) *OrderHandler {
	return &OrderHandler{settlements: settlements}
}

// Saved is the order-saved hook. The order subsystem calls it on every save;
// the settlement handler decides whether the save means anything for the
// provider's wallet. Replays are safe.
func (h *OrderHandler) Saved(c *fiber.Ctx) error {
	orderID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "invalid order id")
	}

	var input struct {
		UserID         uint            `json:"user_id"`
		ProviderUserID uint            `json:"provider_user_id"`
		TotalPrice     decimal.Decimal `json:"total_price"`
		PaidAmount     decimal.Decimal `json:"paid_amount"`
		OrderStatus    string          `json:"order_status"`
		PaymentStatus  string          `json:"payment_status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.ProviderUserID == 0 {
		return utils.BadRequest(c, "provider_user_id is required")
	}

	err = h.settlements.OnOrderSaved(c.Context(), settlement.OrderEvent{
		OrderID:        uint(orderID),
		UserID:         input.UserID,
		ProviderUserID: input.ProviderUserID,
		TotalPrice:     input.TotalPrice,
		PaidAmount:     input.PaidAmount,
		OrderStatus:    input.OrderStatus,
		PaymentStatus:  input.PaymentStatus,
	})
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "order processed"})
}
