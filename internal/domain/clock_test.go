package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualClockAdvance(t *testing.T) {
	t.Parallel()

	start := VirtualTimeOf(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	clock := NewVirtualClock(start)

	now := clock.Advance(90 * time.Minute)
	assert.Equal(t, 9, now.Hour())
	assert.Equal(t, 30, now.Minute())
	assert.Equal(t, now, clock.Now())
}

func TestVirtualClockPauseStopsAdvance(t *testing.T) {
	t.Parallel()

	start := VirtualTimeOf(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	clock := NewVirtualClock(start)

	clock.Pause()
	require.True(t, clock.Paused())
	assert.Equal(t, start, clock.Advance(time.Hour))

	clock.Resume()
	assert.Equal(t, start.Add(time.Hour), clock.Advance(time.Hour))
}

func TestVirtualClockSkipToNeverMovesBackward(t *testing.T) {
	t.Parallel()

	start := VirtualTimeOf(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	clock := NewVirtualClock(start)

	assert.Equal(t, start, clock.SkipTo(start.Add(-time.Hour)))

	target := start.Add(5 * time.Hour)
	assert.Equal(t, target, clock.SkipTo(target))
}

func TestVirtualClockResetMovesBackward(t *testing.T) {
	t.Parallel()

	start := VirtualTimeOf(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	clock := NewVirtualClock(start)
	clock.Advance(24 * time.Hour)
	clock.Pause()

	clock.Reset(start)
	assert.Equal(t, start, clock.Now())
	assert.False(t, clock.Paused())
}

func TestVirtualTimeDayKey(t *testing.T) {
	t.Parallel()

	ts := VirtualTimeOf(time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "2024-03-01", ts.DayKey())
	assert.Equal(t, "2024-03-02", ts.Add(time.Minute).DayKey())
}
