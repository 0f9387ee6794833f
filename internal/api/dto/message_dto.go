package dto

// MediaPayload carries an inbound media reference.
type MediaPayload struct {
	ContentRef string `json:"content_ref"`
	Kind       string `json:"kind"`
	Caption    string `json:"caption"`
}

// InboundMessageRequest is one message from the transport glue.
type InboundMessageRequest struct {
	UserID int64         `json:"user_id"`
	Text   string        `json:"text"`
	Media  *MediaPayload `json:"media,omitempty"`
}

// IntakeResponse reports the routing outcome.
type IntakeResponse struct {
	Status       string `json:"status"`
	SubmissionID int64  `json:"submission_id,omitempty"`
	Reason       string `json:"reason,omitempty"`
	RetryAfterMS int64  `json:"retry_after_ms,omitempty"`
}
