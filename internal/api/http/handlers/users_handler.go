package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/anonrelay/internal/api/dto"
	"github.com/spec-kit/anonrelay/internal/service"
	apperrors "github.com/spec-kit/anonrelay/pkg/util"
)

// UsersHandler exposes administrator views of relay users.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// Info handles GET /v1/users/:id.
func (h *UsersHandler) Info(c *fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.UserInfo(c.UserContext(), userID)
	if err != nil {
		return err
	}

	var alias string
	if user.HasAlias() {
		alias = *user.Alias
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"id":         user.ID,
		"alias":      alias,
		"banned":     user.Banned,
		"created_at": user.CreatedAt,
	}})
}

// SetBan handles POST /v1/users/:id/ban.
func (h *UsersHandler) SetBan(c *fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req dto.BanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.accounts.SetBan(c.UserContext(), userID, req.Banned); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": userID, "banned": req.Banned}})
}
