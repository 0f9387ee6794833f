package domain

import "time"

// RejectReason enumerates policy rejections. These are expected, user-facing
// outcomes, not faults.
type RejectReason string

const (
	RejectBanned        RejectReason = "banned"
	RejectNoAlias       RejectReason = "no_alias"
	RejectOutsideWindow RejectReason = "outside_window"
	RejectCooldown      RejectReason = "cooldown"
	RejectProfanity     RejectReason = "profanity"
)

// AdmissionResult is the verdict of the admission pipeline for one submission.
// RetryAfter is set only for cooldown rejections.
type AdmissionResult struct {
	Admitted   bool
	Reason     RejectReason
	RetryAfter time.Duration
}

// Admit is the successful result.
func Admit() AdmissionResult {
	return AdmissionResult{Admitted: true}
}

// Reject builds a rejection for the given reason.
func Reject(reason RejectReason) AdmissionResult {
	return AdmissionResult{Reason: reason}
}

// RejectWithRetry builds a cooldown rejection carrying the remaining wait.
func RejectWithRetry(reason RejectReason, wait time.Duration) AdmissionResult {
	return AdmissionResult{Reason: reason, RetryAfter: wait}
}
