package domain

import "strings"

// DerivedProfile is a pure projection of (character, recent messages, virtual
// time). It is recomputed on demand and never stored.
type DerivedProfile struct {
	Stability       int
	StabilityStatus StabilityStatus
	Trend           Trend

	Level        int
	LevelLabel   string
	Trust        int
	MaxTrust     int
	TrustPercent float64

	Mask        MaskIntegrity
	MemoryFocus []string
}

type StabilityStatus string

const (
	StabilityStable   StabilityStatus = "Stable"
	StabilityFragile  StabilityStatus = "Fragile"
	StabilityCritical StabilityStatus = "Critical"
)

type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

type MaskIntegrity string

const (
	MaskIntact     MaskIntegrity = "Intact"
	MaskCracking   MaskIntegrity = "Cracking"
	MaskFracturing MaskIntegrity = "Fracturing"
)

// MemoryFocusEmpty is the sentinel produced when the latest user message
// yields no usable keywords.
const MemoryFocusEmpty = "awaiting input"

// Lexical rule tables. These are deliberately simple keyword heuristics, kept
// as data so they can be tested and tuned without touching the scoring logic.
var (
	stabilityBaselines = []struct {
		Keywords []string
		Base     int
	}{
		{Keywords: []string{"high", "stoic", "calm", "grounded"}, Base: 80},
		{Keywords: []string{"low", "fragile", "volatile", "unstable"}, Base: 30},
	}

	comfortLexicon = []string{
		"sorry", "apologize", "apologise", "forgive",
		"love", "dear", "sweet", "care",
		"safe", "okay", "calm", "gentle", "here",
		"thank", "thanks", "hug",
	}

	stopWords = map[string]struct{}{
		"about": {}, "after": {}, "again": {}, "been": {}, "before": {},
		"being": {}, "could": {}, "doing": {}, "dont": {}, "from": {},
		"have": {}, "just": {}, "like": {}, "really": {}, "should": {},
		"that": {}, "their": {}, "them": {}, "then": {}, "there": {},
		"they": {}, "this": {}, "very": {}, "want": {}, "what": {},
		"when": {}, "where": {}, "will": {}, "with": {}, "would": {},
		"your": {}, "youre": {},
	}
)

// Stress/comfort weights applied per matched rule on recent user messages.
const (
	stressPerExclamation = 2
	stressAllCaps        = 5
	stressNightHours     = 15
	comfortLongMessage   = 3
	comfortLexiconWord   = 4

	allCapsMinLen    = 6
	longMessageLen   = 50
	recentUserWindow = 5

	nightStartHour = 0
	nightEndHour   = 5
)

type trustTier struct {
	Level    int
	MinXP    int
	MaxTrust int
	Label    string
}

// trustLadder is cumulative and ordered; a tier applies when xp is strictly
// above MinXP (level 1 applies from zero).
var trustLadder = []trustTier{
	{Level: 1, MinXP: -1, MaxTrust: 100, Label: "Stranger"},
	{Level: 2, MinXP: 100, MaxTrust: 500, Label: "Acquaintance"},
	{Level: 3, MinXP: 500, MaxTrust: 1500, Label: "Confidant"},
	{Level: 4, MinXP: 1500, MaxTrust: 5000, Label: "Intimate"},
	{Level: 5, MinXP: 5000, MaxTrust: 99999, Label: "Kindred"},
}

const xpPerMessage = 10

// ComputeProfile derives the full character profile. It is pure: same inputs,
// same output, no mutation of any argument.
func ComputeProfile(ch Character, msgs []Message, now VirtualTime) DerivedProfile {
	stability, trend := computeStability(ch, msgs, now)

	p := DerivedProfile{
		Stability:       stability,
		StabilityStatus: stabilityStatus(stability),
		Trend:           trend,
		Mask:            maskIntegrity(stability),
		MemoryFocus:     MemoryFocus(msgs),
	}

	xp := conversationXP(msgs)
	tier := tierForXP(xp)
	p.Level = tier.Level
	p.LevelLabel = tier.Label
	p.MaxTrust = tier.MaxTrust
	p.Trust = xp
	if p.Trust > tier.MaxTrust {
		p.Trust = tier.MaxTrust
	}
	p.TrustPercent = float64(p.Trust) / float64(tier.MaxTrust) * 100

	return p
}

func computeStability(ch Character, msgs []Message, now VirtualTime) (int, Trend) {
	base := baselineStability(ch.StabilityDescriptor)

	stress, comfort := 0, 0
	if h := now.Hour(); h >= nightStartHour && h < nightEndHour {
		stress += stressNightHours
	}

	for _, msg := range recentUserMessages(msgs, recentUserWindow) {
		stress += strings.Count(msg.Text, "!") * stressPerExclamation
		if isShouted(msg.Text) {
			stress += stressAllCaps
		}
		if len(msg.Text) > longMessageLen {
			comfort += comfortLongMessage
		}
		if containsComfortWord(msg.Text) {
			comfort += comfortLexiconWord
		}
	}

	stability := clamp(base-stress+comfort, 0, 100)

	trend := TrendStable
	switch {
	case comfort > stress:
		trend = TrendRising
	case stress > comfort:
		trend = TrendFalling
	}

	return stability, trend
}

func baselineStability(descriptor string) int {
	lowered := strings.ToLower(descriptor)
	for _, rule := range stabilityBaselines {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				return rule.Base
			}
		}
	}
	return 50
}

func stabilityStatus(stability int) StabilityStatus {
	switch {
	case stability < 20:
		return StabilityCritical
	case stability < 40:
		return StabilityFragile
	default:
		return StabilityStable
	}
}

func maskIntegrity(stability int) MaskIntegrity {
	switch {
	case stability >= 60:
		return MaskIntact
	case stability >= 30:
		return MaskCracking
	default:
		return MaskFracturing
	}
}

// recentUserMessages returns up to limit user-authored messages, oldest
// first, scanning backward from the end of the log. System events and model
// turns are skipped.
func recentUserMessages(msgs []Message, limit int) []Message {
	recent := make([]Message, 0, limit)
	for i := len(msgs) - 1; i >= 0 && len(recent) < limit; i-- {
		if msgs[i].Role == RoleUser && !msgs[i].IsSystemEvent {
			recent = append(recent, msgs[i])
		}
	}
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent
}

func isShouted(text string) bool {
	if len(text) <= allCapsMinLen-1 {
		return false
	}
	hasLetter := false
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func containsComfortWord(text string) bool {
	lowered := strings.ToLower(text)
	for _, word := range comfortLexicon {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

func conversationXP(msgs []Message) int {
	count := 0
	for _, msg := range msgs {
		if !msg.IsSystemEvent {
			count++
		}
	}
	return count * xpPerMessage
}

func tierForXP(xp int) trustTier {
	tier := trustLadder[0]
	for _, candidate := range trustLadder[1:] {
		if xp > candidate.MinXP {
			tier = candidate
		}
	}
	return tier
}

// MemoryFocus extracts up to 3 content keywords from the most recent user
// message: lowercase, punctuation stripped, stop words and short tokens
// dropped, last three surviving tokens kept.
func MemoryFocus(msgs []Message) []string {
	var latest *Message
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser && !msgs[i].IsSystemEvent {
			latest = &msgs[i]
			break
		}
	}
	if latest == nil {
		return []string{MemoryFocusEmpty}
	}

	var keywords []string
	for _, token := range strings.Fields(strings.ToLower(latest.Text)) {
		token = stripPunctuation(token)
		if len(token) <= 3 {
			continue
		}
		if _, ok := stopWords[token]; ok {
			continue
		}
		keywords = append(keywords, token)
	}

	if len(keywords) == 0 {
		return []string{MemoryFocusEmpty}
	}
	if len(keywords) > 3 {
		keywords = keywords[len(keywords)-3:]
	}
	return keywords
}

func stripPunctuation(token string) string {
	var b strings.Builder
	for _, r := range token {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
