package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/anonrelay/internal/api/dto"
	"github.com/spec-kit/anonrelay/internal/domain"
	"github.com/spec-kit/anonrelay/internal/service"
	apperrors "github.com/spec-kit/anonrelay/pkg/util"
)

// ModerationHandler exposes the pending queue to administrators.
type ModerationHandler struct {
	moderation *service.ModerationService
}

// NewModerationHandler constructs handler.
func NewModerationHandler(moderation *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

// ListPending handles GET /v1/moderation/pending.
func (h *ModerationHandler) ListPending(c *fiber.Ctx) error {
	subs, err := h.moderation.ListPending(c.UserContext())
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(subs))
	for _, sub := range subs {
		items = append(items, fiber.Map{
			"id":          sub.ID,
			"user_id":     sub.UserID,
			"content_ref": sub.ContentRef,
			"kind":        string(sub.Kind),
			"caption":     sub.Caption,
			"created_at":  sub.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"pending": items}})
}

// Decide handles POST /v1/moderation/:id/decision. The decision string is
// decoded into a typed value here, at the boundary, and nowhere else.
func (h *ModerationHandler) Decide(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperrors.NewValidationError("invalid submission id", map[string]any{"id": c.Params("id")})
	}

	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var decision domain.Decision
	switch req.Decision {
	case "approve":
		decision = domain.DecisionApprove
	case "reject":
		decision = domain.DecisionReject
	default:
		return apperrors.NewValidationError("decision must be approve or reject", map[string]any{"decision": req.Decision})
	}

	result, err := h.moderation.DecideMedia(c.UserContext(), id, decision)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"outcome":     string(result.Outcome),
		"owner_id":    result.OwnerID,
		"owner_alias": result.OwnerAlias,
		"content_ref": result.ContentRef,
		"kind":        string(result.Kind),
		"caption":     result.Caption,
	}})
}
