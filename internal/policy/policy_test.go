package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(hour, minute int) time.Time {
	return time.Date(2025, 6, 15, hour, minute, 0, 0, time.UTC)
}

func TestWindowWraparound(t *testing.T) {
	w, err := ParseWindow("07:00", "01:00")
	require.NoError(t, err)

	assert.False(t, w.Contains(clock(2, 0)), "02:00 is outside 07:00-01:00")
	assert.True(t, w.Contains(clock(0, 30)), "00:30 is inside the wrapped tail")
	assert.True(t, w.Contains(clock(7, 0)), "start boundary is inclusive")
	assert.True(t, w.Contains(clock(1, 0)), "end boundary is inclusive")
	assert.True(t, w.Contains(clock(23, 59)))
	assert.False(t, w.Contains(clock(6, 59)))
}

func TestWindowSameDay(t *testing.T) {
	w, err := ParseWindow("09:00", "18:00")
	require.NoError(t, err)

	assert.True(t, w.Contains(clock(9, 0)))
	assert.True(t, w.Contains(clock(12, 30)))
	assert.True(t, w.Contains(clock(18, 0)))
	assert.False(t, w.Contains(clock(8, 59)))
	assert.False(t, w.Contains(clock(18, 1)))
}

func TestWindowDisabled(t *testing.T) {
	w, err := ParseWindow("", "")
	require.NoError(t, err)
	assert.True(t, w.Disabled())
	assert.True(t, w.Contains(clock(3, 33)))

	w, err = ParseWindow("10:00", "10:00")
	require.NoError(t, err)
	assert.True(t, w.Disabled())
	assert.True(t, w.Contains(clock(23, 0)))
}

func TestParseWindowRejectsGarbage(t *testing.T) {
	for _, tc := range []struct{ start, end string }{
		{"7am", "01:00"},
		{"07:00", "25:00"},
		{"07:61", "01:00"},
		{"0700", "0100"},
	} {
		_, err := ParseWindow(tc.start, tc.end)
		assert.Error(t, err, "start=%q end=%q", tc.start, tc.end)
	}
}

func TestCooldownRemaining(t *testing.T) {
	now := clock(12, 0)

	last := now.Add(-90 * time.Second)
	wait, active := CooldownRemaining(now, &last, 2*time.Minute)
	assert.True(t, active)
	assert.Equal(t, 30*time.Second, wait)

	last = now.Add(-121 * time.Second)
	_, active = CooldownRemaining(now, &last, 2*time.Minute)
	assert.False(t, active)

	// Exactly elapsed is not a violation.
	last = now.Add(-2 * time.Minute)
	_, active = CooldownRemaining(now, &last, 2*time.Minute)
	assert.False(t, active)
}

func TestCooldownNoPriorSubmission(t *testing.T) {
	_, active := CooldownRemaining(clock(12, 0), nil, 2*time.Minute)
	assert.False(t, active)
}

func TestCooldownDisabled(t *testing.T) {
	last := clock(11, 59)
	_, active := CooldownRemaining(clock(12, 0), &last, 0)
	assert.False(t, active)
}
