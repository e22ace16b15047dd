package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledJobActiveAt(t *testing.T) {
	t.Parallel()

	dayShift := ScheduledJob{ID: "day", StartHour: 9, EndHour: 17}
	nightShift := ScheduledJob{ID: "night", StartHour: 22, EndHour: 6}

	testCases := []struct {
		name string
		job  ScheduledJob
		hour int
		want bool
	}{
		{name: "day start inclusive", job: dayShift, hour: 9, want: true},
		{name: "day mid", job: dayShift, hour: 12, want: true},
		{name: "day end exclusive", job: dayShift, hour: 17, want: false},
		{name: "day before", job: dayShift, hour: 8, want: false},
		{name: "wrap late evening", job: nightShift, hour: 23, want: true},
		{name: "wrap past midnight", job: nightShift, hour: 2, want: true},
		{name: "wrap start inclusive", job: nightShift, hour: 22, want: true},
		{name: "wrap end exclusive", job: nightShift, hour: 6, want: false},
		{name: "wrap daytime", job: nightShift, hour: 10, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.job.ActiveAt(tc.hour))
		})
	}
}

func TestScheduledJobNextEnd(t *testing.T) {
	t.Parallel()

	job := ScheduledJob{ID: "day", StartHour: 9, EndHour: 17}

	// Before the boundary: same day.
	now := VirtualTimeOf(time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC))
	assert.Equal(t, VirtualTimeOf(time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC)), job.NextEnd(now))

	// At or past the boundary hour: rolls to the next day.
	now = VirtualTimeOf(time.Date(2024, 3, 1, 17, 10, 0, 0, time.UTC))
	assert.Equal(t, VirtualTimeOf(time.Date(2024, 3, 2, 17, 0, 0, 0, time.UTC)), job.NextEnd(now))

	night := ScheduledJob{ID: "night", StartHour: 22, EndHour: 6}
	now = VirtualTimeOf(time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, VirtualTimeOf(time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC)), night.NextEnd(now))
}

func TestScheduledJobValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, ScheduledJob{ID: "ok", StartHour: 9, EndHour: 17}.Validate())

	assert.Error(t, ScheduledJob{StartHour: 9, EndHour: 17}.Validate())
	assert.Error(t, ScheduledJob{ID: "bad", StartHour: 24, EndHour: 17}.Validate())
	assert.Error(t, ScheduledJob{ID: "bad", StartHour: 9, EndHour: -1}.Validate())
	assert.Error(t, ScheduledJob{ID: "bad", StartHour: 9, EndHour: 9}.Validate())
	assert.Error(t, ScheduledJob{ID: "bad", StartHour: 9, EndHour: 17, DailySalary: -1}.Validate())
}
