package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/anonrelay/internal/api/dto"
	"github.com/spec-kit/anonrelay/internal/domain"
	"github.com/spec-kit/anonrelay/internal/service"
	apperrors "github.com/spec-kit/anonrelay/pkg/util"
)

// MessagesHandler exposes the inbound message intake and flow controls.
type MessagesHandler struct {
	intake *service.IntakeService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(intake *service.IntakeService) *MessagesHandler {
	return &MessagesHandler{intake: intake}
}

// Handle handles POST /v1/messages.
func (h *MessagesHandler) Handle(c *fiber.Ctx) error {
	var req dto.InboundMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == 0 {
		return apperrors.NewValidationError("user_id required", nil)
	}

	msg := service.IntakeMessage{Text: req.Text}
	if req.Media != nil {
		kind := domain.MediaKind(req.Media.Kind)
		if !kind.Valid() {
			return apperrors.NewValidationError("unsupported media kind", map[string]any{"kind": req.Media.Kind})
		}
		msg.Media = &service.MediaInput{
			ContentRef: req.Media.ContentRef,
			Kind:       kind,
			Caption:    req.Media.Caption,
		}
	}

	result, err := h.intake.HandleMessage(c.UserContext(), req.UserID, msg)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": intakeResponse(result)})
}

// StartAliasFlow handles POST /v1/users/:id/flows/alias.
func (h *MessagesHandler) StartAliasFlow(c *fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}
	if err := h.intake.StartAliasFlow(c.UserContext(), userID); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": fiber.Map{"state": string(domain.StateAwaitingAlias)}})
}

// StartSubmissionFlow handles POST /v1/users/:id/flows/submission.
func (h *MessagesHandler) StartSubmissionFlow(c *fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	result, err := h.intake.StartSubmissionFlow(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if !result.Admitted {
		resp := intakeResponse(service.IntakeResult{Status: service.IntakeRejected, Admission: result})
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"data": resp})
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": fiber.Map{"state": string(domain.StateAwaitingSubmission)}})
}

// StartBroadcastFlow handles POST /v1/users/:id/flows/broadcast.
func (h *MessagesHandler) StartBroadcastFlow(c *fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}
	if err := h.intake.StartBroadcastFlow(c.UserContext(), userID); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": fiber.Map{"state": string(domain.StateAwaitingBroadcast)}})
}

// CancelFlow handles DELETE /v1/users/:id/flows.
func (h *MessagesHandler) CancelFlow(c *fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}
	if err := h.intake.CancelFlow(c.UserContext(), userID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"state": string(domain.StateNone)}})
}

func intakeResponse(result service.IntakeResult) dto.IntakeResponse {
	resp := dto.IntakeResponse{
		Status:       string(result.Status),
		SubmissionID: result.SubmissionID,
	}
	if result.Status == service.IntakeRejected {
		resp.Reason = string(result.Admission.Reason)
		if result.Admission.RetryAfter > 0 {
			resp.RetryAfterMS = result.Admission.RetryAfter.Milliseconds()
		}
	}
	return resp
}

func userIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("invalid user id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}
