package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/anonrelay/internal/api/dto"
	"github.com/spec-kit/anonrelay/internal/service"
	apperrors "github.com/spec-kit/anonrelay/pkg/util"
)

// AdminsHandler exposes login and administrator management.
type AdminsHandler struct {
	auth     *service.AuthService
	accounts *service.AccountService
}

// NewAdminsHandler constructs handler.
func NewAdminsHandler(authService *service.AuthService, accounts *service.AccountService) *AdminsHandler {
	return &AdminsHandler{auth: authService, accounts: accounts}
}

// Login handles POST /auth/admins/login.
func (h *AdminsHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID == 0 || req.Password == "" {
		return apperrors.NewValidationError("id and password required", nil)
	}

	token, exp, err := h.auth.Login(c.UserContext(), req.ID, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	}})
}

// Create handles POST /v1/admins.
func (h *AdminsHandler) Create(c *fiber.Ctx) error {
	var req dto.AdminCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID == 0 {
		return apperrors.NewValidationError("id required", nil)
	}

	admin, err := h.accounts.AddAdmin(c.UserContext(), req.ID, req.DisplayName, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":           admin.ID,
		"display_name": req.DisplayName,
	}})
}

// Remove handles DELETE /v1/admins/:id.
func (h *AdminsHandler) Remove(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return apperrors.NewValidationError("invalid admin id", map[string]any{"id": c.Params("id")})
	}

	if err := h.accounts.RemoveAdmin(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// List handles GET /v1/admins.
func (h *AdminsHandler) List(c *fiber.Ctx) error {
	admins, err := h.accounts.ListAdmins(c.UserContext())
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(admins))
	for _, admin := range admins {
		item := fiber.Map{"id": admin.ID}
		if admin.DisplayName != nil {
			item["display_name"] = *admin.DisplayName
		}
		items = append(items, item)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"admins": items}})
}
