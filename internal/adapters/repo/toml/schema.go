package toml

import (
	"fmt"

	"github.com/bnema/persona-cli/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version    int               `toml:"version"`
	Characters []characterSchema `toml:"characters"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported characters schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type characterSchema struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`

	Identity identitySchema `toml:"identity"`
	Psyche   psycheSchema   `toml:"psyche"`
	Duality  dualitySchema  `toml:"duality"`
	Lore     loreSchema     `toml:"lore,omitempty"`

	Traits   traitsSchema   `toml:"traits,omitempty"`
	Scenario scenarioSchema `toml:"scenario,omitempty"`

	PersonaPrompt string `toml:"persona_prompt,omitempty"`

	Jobs         []jobSchema `toml:"jobs,omitempty"`
	AssignedJobs []string    `toml:"assigned_jobs,omitempty"`
}

type identitySchema struct {
	Role      string `toml:"role,omitempty"`
	Backstory string `toml:"backstory,omitempty"`
}

type psycheSchema struct {
	Stability string `toml:"stability,omitempty"`
	Fears     string `toml:"fears,omitempty"`
	Desires   string `toml:"desires,omitempty"`
}

type dualitySchema struct {
	PublicPersona string `toml:"public_persona,omitempty"`
	PrivateSelf   string `toml:"private_self,omitempty"`
	Mask          string `toml:"mask,omitempty"`
}

type loreSchema struct {
	WorldSetting string   `toml:"world_setting,omitempty"`
	Memories     []string `toml:"memories,omitempty"`
}

type traitsSchema struct {
	Openness          int `toml:"openness"`
	Conscientiousness int `toml:"conscientiousness"`
	Extraversion      int `toml:"extraversion"`
	Agreeableness     int `toml:"agreeableness"`
	Neuroticism       int `toml:"neuroticism"`
}

type scenarioSchema struct {
	Location    string `toml:"location,omitempty"`
	StartYear   string `toml:"start_year,omitempty"`
	StartMonth  string `toml:"start_month,omitempty"`
	StartDay    string `toml:"start_day,omitempty"`
	StartHour   string `toml:"start_hour,omitempty"`
	StartMinute string `toml:"start_minute,omitempty"`
}

type jobSchema struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	StartHour   int    `toml:"start_hour"`
	EndHour     int    `toml:"end_hour"`
	DailySalary int64  `toml:"daily_salary"`
}

func toSchema(ch domain.Character) characterSchema {
	jobs := make([]jobSchema, 0, len(ch.Jobs))
	for _, job := range ch.Jobs {
		jobs = append(jobs, jobSchema{
			ID:          string(job.ID),
			Name:        job.Name,
			StartHour:   job.StartHour,
			EndHour:     job.EndHour,
			DailySalary: job.DailySalary,
		})
	}

	assigned := make([]string, 0, len(ch.AssignedJobs))
	for _, id := range ch.AssignedJobs {
		assigned = append(assigned, string(id))
	}

	return characterSchema{
		ID:   string(ch.ID),
		Name: ch.Name,
		Identity: identitySchema{
			Role:      ch.RoleTitle,
			Backstory: ch.Backstory,
		},
		Psyche: psycheSchema{
			Stability: ch.StabilityDescriptor,
			Fears:     ch.Fears,
			Desires:   ch.Desires,
		},
		Duality: dualitySchema{
			PublicPersona: ch.PublicPersona,
			PrivateSelf:   ch.PrivateSelf,
			Mask:          ch.MaskDescription,
		},
		Lore: loreSchema{
			WorldSetting: ch.WorldSetting,
			Memories:     ch.Memories,
		},
		Traits: traitsSchema{
			Openness:          ch.Traits.Openness,
			Conscientiousness: ch.Traits.Conscientiousness,
			Extraversion:      ch.Traits.Extraversion,
			Agreeableness:     ch.Traits.Agreeableness,
			Neuroticism:       ch.Traits.Neuroticism,
		},
		Scenario: scenarioSchema{
			Location:    ch.Scenario.Location,
			StartYear:   ch.Scenario.StartYear,
			StartMonth:  ch.Scenario.StartMonth,
			StartDay:    ch.Scenario.StartDay,
			StartHour:   ch.Scenario.StartHour,
			StartMinute: ch.Scenario.StartMinute,
		},
		PersonaPrompt: ch.PersonaPrompt,
		Jobs:          jobs,
		AssignedJobs:  assigned,
	}
}

func fromSchema(entry characterSchema) domain.Character {
	// A missing traits table decodes as the zero struct; that means
	// "not authored", which maps to the neutral defaults, not five zeros.
	traits := domain.TraitSet{
		Openness:          entry.Traits.Openness,
		Conscientiousness: entry.Traits.Conscientiousness,
		Extraversion:      entry.Traits.Extraversion,
		Agreeableness:     entry.Traits.Agreeableness,
		Neuroticism:       entry.Traits.Neuroticism,
	}
	if entry.Traits == (traitsSchema{}) {
		traits = domain.DefaultTraits()
	}

	jobs := make([]domain.ScheduledJob, 0, len(entry.Jobs))
	for _, job := range entry.Jobs {
		jobs = append(jobs, domain.ScheduledJob{
			ID:          domain.JobID(job.ID),
			Name:        job.Name,
			StartHour:   job.StartHour,
			EndHour:     job.EndHour,
			DailySalary: job.DailySalary,
		})
	}

	assigned := make([]domain.JobID, 0, len(entry.AssignedJobs))
	for _, id := range entry.AssignedJobs {
		assigned = append(assigned, domain.JobID(id))
	}

	return domain.Character{
		ID:                  domain.CharacterID(entry.ID),
		Name:                entry.Name,
		RoleTitle:           entry.Identity.Role,
		Backstory:           entry.Identity.Backstory,
		StabilityDescriptor: entry.Psyche.Stability,
		Fears:               entry.Psyche.Fears,
		Desires:             entry.Psyche.Desires,
		PublicPersona:       entry.Duality.PublicPersona,
		PrivateSelf:         entry.Duality.PrivateSelf,
		MaskDescription:     entry.Duality.Mask,
		WorldSetting:        entry.Lore.WorldSetting,
		Memories:            entry.Lore.Memories,
		Traits:              traits,
		Scenario: domain.Scenario{
			Location:    entry.Scenario.Location,
			StartYear:   entry.Scenario.StartYear,
			StartMonth:  entry.Scenario.StartMonth,
			StartDay:    entry.Scenario.StartDay,
			StartHour:   entry.Scenario.StartHour,
			StartMinute: entry.Scenario.StartMinute,
		},
		PersonaPrompt: entry.PersonaPrompt,
		Jobs:          jobs,
		AssignedJobs:  assigned,
	}
}
