package domain

// ConversationState tracks where a user is in a multi-message flow. It is
// ephemeral: set when a flow starts, cleared on completion, cancellation, or
// policy rejection, and expired by TTL.
type ConversationState string

const (
	StateNone               ConversationState = ""
	StateAwaitingAlias      ConversationState = "awaiting_alias"
	StateAwaitingSubmission ConversationState = "awaiting_submission"
	StateAwaitingBroadcast  ConversationState = "awaiting_broadcast"
)
