package domain

import "time"

// MediaKind enumerates the media types accepted for moderation.
type MediaKind string

const (
	MediaKindPhoto MediaKind = "photo"
	MediaKindVideo MediaKind = "video"
)

// Valid reports whether the kind is one the queue accepts.
func (k MediaKind) Valid() bool {
	return k == MediaKindPhoto || k == MediaKindVideo
}

// SubmissionKind distinguishes immediate-publish text from queued media.
type SubmissionKind string

const (
	SubmissionKindText  SubmissionKind = "text"
	SubmissionKindMedia SubmissionKind = "media"
)

// PendingSubmission is a media submission awaiting an administrator decision.
// It exists only while pending: approve and reject both remove the row.
type PendingSubmission struct {
	ID         int64
	UserID     int64
	ContentRef string
	Kind       MediaKind
	Caption    string
	CreatedAt  time.Time
}

// Decision is an administrator's verdict on a pending submission, decoded
// once at the API boundary rather than carried around as a string.
type Decision int

const (
	DecisionApprove Decision = iota
	DecisionReject
)

func (d Decision) String() string {
	if d == DecisionApprove {
		return "approve"
	}
	return "reject"
}

// DecisionOutcome reports what a decide call actually did.
type DecisionOutcome string

const (
	OutcomeApproved       DecisionOutcome = "approved"
	OutcomeRejected       DecisionOutcome = "rejected"
	OutcomeAlreadyHandled DecisionOutcome = "already_handled"
)
