package policy

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window is a daily working-hours window in minutes since midnight. Windows
// may wrap past midnight (start 07:00, end 01:00 covers 07:00–24:00 and
// 00:00–01:00). A window with Start == End is open around the clock.
type Window struct {
	Start int
	End   int
}

// ParseWindow reads "HH:MM" boundaries. Empty strings yield a disabled
// (always-open) window.
func ParseWindow(start, end string) (Window, error) {
	if start == "" && end == "" {
		return Window{}, nil
	}
	s, err := parseMinutes(start)
	if err != nil {
		return Window{}, fmt.Errorf("window start: %w", err)
	}
	e, err := parseMinutes(end)
	if err != nil {
		return Window{}, fmt.Errorf("window end: %w", err)
	}
	return Window{Start: s, End: e}, nil
}

// Disabled reports whether the window never restricts submissions.
func (w Window) Disabled() bool {
	return w.Start == w.End
}

// Contains reports whether the clock time of now falls inside the window.
// Boundaries are inclusive.
func (w Window) Contains(now time.Time) bool {
	if w.Disabled() {
		return true
	}
	minute := now.Hour()*60 + now.Minute()
	if w.Start > w.End {
		return w.Start <= minute || minute <= w.End
	}
	return w.Start <= minute && minute <= w.End
}

func parseMinutes(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}
