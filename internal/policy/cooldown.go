package policy

import "time"

// CooldownRemaining returns the wait left before the user may submit again,
// or zero (and false) once the cooldown has elapsed. A nil last-submission
// time means no prior submission and therefore no cooldown.
func CooldownRemaining(now time.Time, last *time.Time, duration time.Duration) (time.Duration, bool) {
	if last == nil || duration <= 0 {
		return 0, false
	}
	elapsed := now.Sub(*last)
	if elapsed >= duration {
		return 0, false
	}
	return duration - elapsed, true
}
