package events

import (
	"time"

	"github.com/spec-kit/anonrelay/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubmissionPublished EventType = "submission_published"
	EventMediaQueued         EventType = "media_queued"
	EventMediaDecided        EventType = "media_decided"
	EventAliasSet            EventType = "alias_set"
	EventBanChanged          EventType = "ban_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SubmissionPublishedPayload payload.
type SubmissionPublishedPayload struct {
	Alias string `json:"alias"`
	Text  string `json:"text"`
}

// MediaQueuedPayload payload.
type MediaQueuedPayload struct {
	SubmissionID int64            `json:"submission_id"`
	Alias        string           `json:"alias"`
	ContentRef   string           `json:"content_ref"`
	Kind         domain.MediaKind `json:"kind"`
	Caption      string           `json:"caption"`
}

// MediaDecidedPayload payload.
type MediaDecidedPayload struct {
	SubmissionID int64                  `json:"submission_id"`
	Outcome      domain.DecisionOutcome `json:"outcome"`
	Alias        string                 `json:"alias"`
	ContentRef   string                 `json:"content_ref"`
	Kind         domain.MediaKind       `json:"kind"`
	Caption      string                 `json:"caption"`
}

// AliasSetPayload payload.
type AliasSetPayload struct {
	Alias string `json:"alias"`
}

// BanChangedPayload payload.
type BanChangedPayload struct {
	Banned bool `json:"banned"`
}
