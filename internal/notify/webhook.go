package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/anonrelay/internal/config"
	"github.com/spec-kit/anonrelay/internal/domain"
)

// webhookNotifier forwards outbound messages to a relay webhook as JSON. The
// webhook side owns delivery to the actual messaging platform.
type webhookNotifier struct {
	logger *zap.Logger
	cfg    config.NotifyConfig
	client *http.Client
}

// NewWebhookNotifier builds the webhook transport. Falls back to the logging
// stub when no URL is configured.
func NewWebhookNotifier(logger *zap.Logger, cfg config.NotifyConfig) Notifier {
	if cfg.WebhookURL == "" {
		logger.Warn("NOTIFY_WEBHOOK_URL not set; outbound messages will only be logged")
		return NewLogNotifier(logger, cfg)
	}
	return &webhookNotifier{
		logger: logger,
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type outboundMessage struct {
	Target     string `json:"target"`
	UserID     int64  `json:"user_id,omitempty"`
	Text       string `json:"text,omitempty"`
	ContentRef string `json:"content_ref,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Caption    string `json:"caption,omitempty"`
}

func (n *webhookNotifier) PublishText(ctx context.Context, text string) error {
	return n.post(ctx, outboundMessage{Target: n.cfg.ChannelID, Text: text})
}

func (n *webhookNotifier) PublishMedia(ctx context.Context, contentRef string, kind domain.MediaKind, caption string) error {
	return n.post(ctx, outboundMessage{
		Target:     n.cfg.ChannelID,
		ContentRef: contentRef,
		Kind:       string(kind),
		Caption:    caption,
	})
}

func (n *webhookNotifier) Notify(ctx context.Context, userID int64, text string) error {
	return n.post(ctx, outboundMessage{Target: "user", UserID: userID, Text: text})
}

func (n *webhookNotifier) NotifyAdmins(ctx context.Context, text string) error {
	return n.post(ctx, outboundMessage{Target: n.cfg.AdminChatID, Text: text})
}

func (n *webhookNotifier) post(ctx context.Context, msg outboundMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Error("webhook dispatch failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := fmt.Errorf("webhook returned status %d", resp.StatusCode)
		n.logger.Error("webhook dispatch failed", zap.Error(err))
		return err
	}
	return nil
}
