package status

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/persona-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderOptions carries display context shared by the profile and coherence
// views.
type RenderOptions struct {
	CharacterName string
	VirtualTime   domain.VirtualTime
	Working       bool
}

func renderProfileView(profile domain.DerivedProfile, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Character State"),
		s.header.Render(profileHeader(opts)),
	}

	stability := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.key.Render("stability:"),
		" ",
		renderBar(float64(profile.Stability), 24, s),
		" ",
		s.detail.Render(fmt.Sprintf("%3d/100", profile.Stability)),
		" ",
		s.meta.Render(fmt.Sprintf("(%s)", profile.Trend)),
	)
	if profile.StabilityStatus != domain.StabilityStable {
		style := s.warning
		if profile.StabilityStatus == domain.StabilityCritical {
			style = s.critical
		}
		stability += " " + style.Render("["+string(profile.StabilityStatus)+"]")
	}
	lines = append(lines, stability)

	lines = append(lines, lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.key.Render("trust:"),
		"     ",
		renderBar(profile.TrustPercent, 24, s),
		" ",
		s.detail.Render(fmt.Sprintf("lv%d %s", profile.Level, profile.LevelLabel)),
		" ",
		s.meta.Render(fmt.Sprintf("(%d/%d)", profile.Trust, profile.MaxTrust)),
	))

	mask := s.detail.Render(string(profile.Mask))
	if profile.Mask == domain.MaskCracking {
		mask = s.warning.Render(string(profile.Mask))
	} else if profile.Mask == domain.MaskFracturing {
		mask = s.critical.Render(string(profile.Mask))
	}
	lines = append(lines, s.key.Render("mask:")+"      "+mask)

	lines = append(lines, s.key.Render("focus:")+"     "+s.meta.Render(strings.Join(profile.MemoryFocus, ", ")))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func profileHeader(opts RenderOptions) string {
	header := opts.CharacterName
	if !opts.VirtualTime.IsZero() {
		header += " · " + opts.VirtualTime.Time().Format("Mon 15:04")
	}
	if opts.Working {
		header += " · at work"
	}
	return header
}

func renderCoherenceView(report domain.CoherenceReport, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Definition Coherence"),
		s.header.Render(fmt.Sprintf("%s · %d/100", opts.CharacterName, report.Total)),
	}

	categories := []struct {
		name  string
		score domain.CategoryScore
	}{
		{"identity", report.Identity},
		{"psyche", report.Psyche},
		{"duality", report.Duality},
		{"lore", report.Lore},
		{"complexity", report.Complexity},
	}

	for _, c := range categories {
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.key.Render(fmt.Sprintf("%-11s", c.name+":")),
			renderBar(c.score.Percent, 24, s),
			" ",
			s.detail.Render(fmt.Sprintf("%2d/%d", c.score.Points, c.score.Max)),
		))
	}

	if report.Total == 0 {
		lines = append(lines, s.empty.Render("Definition is empty; fill in identity and psyche first."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	fraction := clampPercent(percent) / 100.0
	filled := int(math.Round(float64(width) * fraction))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	empty := width - filled
	fillSegment := s.barFill.Render(strings.Repeat("=", filled))
	emptySegment := s.barEmpty.Render(strings.Repeat("-", empty))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fillSegment,
		emptySegment,
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
