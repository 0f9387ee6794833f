package domain

import "time"

// Administrator can review queued media, manage bans, and publish directly.
// Administrators are never bannable targets.
type Administrator struct {
	ID           int64
	DisplayName  *string
	PasswordHash string
	CreatedAt    time.Time
}
