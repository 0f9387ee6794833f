package domain

import "time"

// User is the domain model for people interacting with the relay. A row is
// created on first contact; users are never deleted.
type User struct {
	ID               int64
	Alias            *string
	LastSubmissionAt *time.Time
	Banned           bool
	CreatedAt        time.Time
}

// HasAlias reports whether the user has chosen a display alias.
func (u *User) HasAlias() bool {
	return u.Alias != nil && *u.Alias != ""
}

// AliasOrAnonymous returns the display alias, falling back to a placeholder
// for users whose alias was never set.
func (u *User) AliasOrAnonymous() string {
	if u.HasAlias() {
		return *u.Alias
	}
	return "anonymous"
}
