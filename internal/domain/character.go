package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type CharacterID string

// DefaultTrait is the neutral slider position; a trait left at this value is
// treated as "not authored" by the coherence scorer.
const DefaultTrait = 50

// TraitSet holds the five authored personality sliders, each 0-100.
type TraitSet struct {
	Openness          int
	Conscientiousness int
	Extraversion      int
	Agreeableness     int
	Neuroticism       int
}

func DefaultTraits() TraitSet {
	return TraitSet{
		Openness:          DefaultTrait,
		Conscientiousness: DefaultTrait,
		Extraversion:      DefaultTrait,
		Agreeableness:     DefaultTrait,
		Neuroticism:       DefaultTrait,
	}
}

func (t TraitSet) Values() [5]int {
	return [5]int{t.Openness, t.Conscientiousness, t.Extraversion, t.Agreeableness, t.Neuroticism}
}

// StdDev is the population standard deviation of the five slider values; the
// coherence scorer rewards spread as a proxy for an uneven, deliberate build.
func (t TraitSet) StdDev() float64 {
	values := t.Values()
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}

// Scenario describes where and when a character's simulation begins. The
// start fields are free-form author input kept as strings; each field that
// fails to parse falls back to the matching component of the wall clock.
type Scenario struct {
	Location    string
	StartYear   string
	StartMonth  string
	StartDay    string
	StartHour   string
	StartMinute string
}

// StartTime resolves the scenario start into a concrete timestamp. Fallback
// is per field, not all-or-nothing, so a scenario with only an authored hour
// still starts "today at that hour".
func (s Scenario) StartTime(now time.Time) time.Time {
	now = now.UTC()

	year := parseField(s.StartYear, now.Year())
	month := parseField(s.StartMonth, int(now.Month()))
	day := parseField(s.StartDay, now.Day())
	hour := parseField(s.StartHour, now.Hour())
	minute := parseField(s.StartMinute, now.Minute())

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
}

func parseField(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

// Character is an authored companion definition. Everything here is static
// authoring input; the evolving state lives in Session and DerivedProfile.
type Character struct {
	ID   CharacterID
	Name string

	// Identity
	RoleTitle string
	Backstory string

	// Psyche
	StabilityDescriptor string
	Fears               string
	Desires             string

	// Duality
	PublicPersona   string
	PrivateSelf     string
	MaskDescription string

	// Lore
	WorldSetting string
	Memories     []string

	Traits        TraitSet
	Scenario      Scenario
	PersonaPrompt string

	// Jobs defines the character's known shifts; AssignedJobs lists the ids
	// currently held, in assignment order (most recent last).
	Jobs         []ScheduledJob
	AssignedJobs []JobID
}

func (c Character) Validate() error {
	if strings.TrimSpace(string(c.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	for _, job := range c.Jobs {
		if err := job.Validate(); err != nil {
			return fmt.Errorf("validate job: %w", err)
		}
	}

	return nil
}

// JobByID looks up a job definition. Unknown ids are not an error at this
// layer; the scheduler treats them as "no active job".
func (c Character) JobByID(id JobID) (ScheduledJob, bool) {
	for _, job := range c.Jobs {
		if job.ID == id {
			return job, true
		}
	}
	return ScheduledJob{}, false
}
