package domain

import "strings"

// Category caps for the coherence score. They sum to 100.
const (
	CoherenceIdentityMax   = 20
	CoherencePsycheMax     = 25
	CoherenceDualityMax    = 20
	CoherenceLoreMax       = 20
	CoherenceComplexityMax = 15
)

// CategoryScore is one capped sub-score plus its display percentage.
type CategoryScore struct {
	Points  int
	Max     int
	Percent float64
}

// CoherenceReport is the realism/depth signal for a character definition.
// It gates nothing; the UI surfaces it so authors can see where a definition
// is thin.
type CoherenceReport struct {
	Total      int
	Identity   CategoryScore
	Psyche     CategoryScore
	Duality    CategoryScore
	Lore       CategoryScore
	Complexity CategoryScore
}

// ScoreCoherence evaluates a (possibly partial) character definition. Absent
// fields simply fail their checks and contribute zero; filling a previously
// empty field never lowers any score.
func ScoreCoherence(ch Character) CoherenceReport {
	identity := scoreIdentity(ch)
	psyche := scorePsyche(ch)
	duality := scoreDuality(ch)
	lore := scoreLore(ch)
	complexity := scoreComplexity(ch)

	total := identity + psyche + duality + lore + complexity

	return CoherenceReport{
		Total:      clamp(total, 0, 100),
		Identity:   category(identity, CoherenceIdentityMax),
		Psyche:     category(psyche, CoherencePsycheMax),
		Duality:    category(duality, CoherenceDualityMax),
		Lore:       category(lore, CoherenceLoreMax),
		Complexity: category(complexity, CoherenceComplexityMax),
	}
}

func category(points, max int) CategoryScore {
	return CategoryScore{
		Points:  points,
		Max:     max,
		Percent: float64(points) / float64(max) * 100,
	}
}

func scoreIdentity(ch Character) int {
	points := 0
	if filled(ch.Name) {
		points += 4
	}
	if filled(ch.RoleTitle) {
		points += 4
	}
	if longerThan(ch.Backstory, 10) {
		points += 6
	}
	if longerThan(ch.Backstory, 80) {
		points += 6
	}
	return points
}

func scorePsyche(ch Character) int {
	points := 0
	if filled(ch.StabilityDescriptor) {
		points += 9
	}
	if filled(ch.Fears) {
		points += 8
	}
	if filled(ch.Desires) {
		points += 8
	}
	return points
}

func scoreDuality(ch Character) int {
	points := 0
	if filled(ch.PublicPersona) {
		points += 7
	}
	if filled(ch.PrivateSelf) {
		points += 7
	}
	if filled(ch.MaskDescription) {
		points += 6
	}
	return points
}

func scoreLore(ch Character) int {
	points := 0
	if longerThan(ch.WorldSetting, 10) {
		points += 8
	}
	if len(ch.Memories) >= 1 {
		points += 6
	}
	if len(ch.Memories) >= 2 {
		points += 6
	}
	return points
}

// Trait spread thresholds reward an uneven build over five flat sliders.
func scoreComplexity(ch Character) int {
	points := 0
	for _, v := range ch.Traits.Values() {
		if v != DefaultTrait {
			points += 3
			break
		}
	}

	dev := ch.Traits.StdDev()
	if dev > 5 {
		points += 4
	}
	if dev > 15 {
		points += 4
	}
	if dev > 20 {
		points += 4
	}
	return points
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}

func longerThan(s string, n int) bool {
	return len(strings.TrimSpace(s)) >= n
}
