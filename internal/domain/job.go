package domain

import (
	"fmt"
	"time"
)

type JobID string

// ScheduledJob is a recurring daily work shift. When StartHour > EndHour the
// window wraps past midnight (e.g. 22 → 6).
type ScheduledJob struct {
	ID          JobID
	Name        string
	StartHour   int
	EndHour     int
	DailySalary int64
}

func (j ScheduledJob) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("job id is required")
	}
	if j.StartHour < 0 || j.StartHour > 23 {
		return fmt.Errorf("job %q start hour %d out of range [0,23]", j.ID, j.StartHour)
	}
	if j.EndHour < 0 || j.EndHour > 23 {
		return fmt.Errorf("job %q end hour %d out of range [0,23]", j.ID, j.EndHour)
	}
	if j.StartHour == j.EndHour {
		return fmt.Errorf("job %q start and end hour are both %d", j.ID, j.StartHour)
	}
	if j.DailySalary < 0 {
		return fmt.Errorf("job %q daily salary is negative", j.ID)
	}

	return nil
}

// ActiveAt reports whether the shift covers the given hour. Start is
// inclusive, end exclusive; wrapped windows cover both sides of midnight.
func (j ScheduledJob) ActiveAt(hour int) bool {
	if j.StartHour < j.EndHour {
		return hour >= j.StartHour && hour < j.EndHour
	}
	return hour >= j.StartHour || hour < j.EndHour
}

// NextEnd returns the next occurrence of the shift's end boundary strictly
// after the current hour, rolling to the next day when the end hour is not
// later than the current hour. Used by "skip work" to fast-forward the clock.
func (j ScheduledJob) NextEnd(now VirtualTime) VirtualTime {
	t := now.Time()
	end := time.Date(t.Year(), t.Month(), t.Day(), j.EndHour, 0, 0, 0, time.UTC)
	if j.EndHour <= t.Hour() {
		end = end.AddDate(0, 0, 1)
	}
	return VirtualTimeOf(end)
}
