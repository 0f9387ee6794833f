package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/anonrelay/internal/config"
	"github.com/spec-kit/anonrelay/internal/domain"
)

// Notifier is the messaging-transport collaborator. Calls are fire-and-forget
// from the core's perspective: failures are logged by the implementation and
// never invalidate an already-committed state transition.
type Notifier interface {
	// PublishText posts formatted text to the broadcast channel.
	PublishText(ctx context.Context, text string) error
	// PublishMedia posts previously-uploaded media to the broadcast channel.
	PublishMedia(ctx context.Context, contentRef string, kind domain.MediaKind, caption string) error
	// Notify sends a direct message to one user.
	Notify(ctx context.Context, userID int64, text string) error
	// NotifyAdmins sends a message to the administrator chat.
	NotifyAdmins(ctx context.Context, text string) error
}

// logNotifier logs outbound traffic instead of delivering it. It stands in
// for the real transport in development and when no webhook is configured.
type logNotifier struct {
	logger *zap.Logger
	cfg    config.NotifyConfig
}

// NewLogNotifier builds the logging transport stub.
func NewLogNotifier(logger *zap.Logger, cfg config.NotifyConfig) Notifier {
	return &logNotifier{logger: logger, cfg: cfg}
}

func (n *logNotifier) PublishText(ctx context.Context, text string) error {
	n.logger.Info("publish text",
		zap.String("channel", n.cfg.ChannelID),
		zap.String("text", text))
	return nil
}

func (n *logNotifier) PublishMedia(ctx context.Context, contentRef string, kind domain.MediaKind, caption string) error {
	n.logger.Info("publish media",
		zap.String("channel", n.cfg.ChannelID),
		zap.String("content_ref", contentRef),
		zap.String("kind", string(kind)),
		zap.String("caption", caption))
	return nil
}

func (n *logNotifier) Notify(ctx context.Context, userID int64, text string) error {
	n.logger.Info("notify user",
		zap.Int64("user_id", userID),
		zap.String("text", text))
	return nil
}

func (n *logNotifier) NotifyAdmins(ctx context.Context, text string) error {
	n.logger.Info("notify admins",
		zap.String("chat", n.cfg.AdminChatID),
		zap.String("text", text))
	return nil
}
