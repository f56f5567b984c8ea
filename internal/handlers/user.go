package handlers

import (
	"errors"
	"strings"

	"handy/internal/repositories"
	"handy/internal/services/user"
	"handy/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	u, err := h.userService.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "user not found")
		}
		return utils.InternalError(c, "Failed to load profile")
	}

	return utils.Success(c, fiber.Map{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"status":     u.Status,
		"created_at": u.CreatedAt,
	})
}

// UpdateMe renames the authenticated user's profile.
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return utils.BadRequest(c, "name is required")
	}

	u, err := h.userService.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "user not found")
		}
		return utils.InternalError(c, "Failed to load profile")
	}

	u.Name = input.Name
	if err := h.userService.Update(c.Context(), u); err != nil {
		return utils.InternalError(c, "Failed to update profile")
	}

	return utils.Success(c, fiber.Map{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	})
}
