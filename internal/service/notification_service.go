package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/anonrelay/internal/domain"
	"github.com/spec-kit/anonrelay/internal/events"
	"github.com/spec-kit/anonrelay/internal/notify"
)

// NotificationService turns committed domain events into outbound messages.
// Dispatch failures are logged and swallowed: a decision already committed is
// final regardless of downstream delivery, which keeps retries from
// publishing twice.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   notify.Notifier
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier notify.Notifier, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSubmissionPublished, n.handleSubmissionPublished)
	n.dispatcher.Subscribe(events.EventMediaQueued, n.handleMediaQueued)
	n.dispatcher.Subscribe(events.EventMediaDecided, n.handleMediaDecided)
}

func (n *NotificationService) handleSubmissionPublished(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SubmissionPublishedPayload)
	if !ok {
		return nil
	}
	if err := n.notifier.PublishText(ctx, formatPublication(payload.Alias, payload.Text)); err != nil {
		n.logger.Error("channel publish failed", zap.Int64("user_id", event.UserID), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleMediaQueued(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MediaQueuedPayload)
	if !ok {
		return nil
	}
	preview := formatModerationPreview(payload.SubmissionID, payload.Alias, payload.Caption)
	if err := n.notifier.NotifyAdmins(ctx, preview); err != nil {
		n.logger.Error("admin notify failed", zap.Int64("submission_id", payload.SubmissionID), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleMediaDecided(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MediaDecidedPayload)
	if !ok {
		return nil
	}

	switch payload.Outcome {
	case domain.OutcomeApproved:
		caption := formatPublication(payload.Alias, payload.Caption)
		if err := n.notifier.PublishMedia(ctx, payload.ContentRef, payload.Kind, caption); err != nil {
			n.logger.Error("channel publish failed",
				zap.Int64("submission_id", payload.SubmissionID), zap.Error(err))
		}
		n.notifyOwner(ctx, event.UserID, "your media was approved and published to the channel")
	case domain.OutcomeRejected:
		n.notifyOwner(ctx, event.UserID, "your media was rejected by a moderator")
	}
	return nil
}

func (n *NotificationService) notifyOwner(ctx context.Context, userID int64, text string) {
	if err := n.notifier.Notify(ctx, userID, text); err != nil {
		n.logger.Error("owner notify failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// CooldownMessage renders the user-facing cooldown hint.
func CooldownMessage(result domain.AdmissionResult) string {
	if result.Reason != domain.RejectCooldown {
		return ""
	}
	return fmt.Sprintf("please wait %s before submitting again", result.RetryAfter.Round(time.Second))
}
