package status

import (
	"errors"
	"io"

	"github.com/bnema/persona-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type renderFunc func(s styles) string

type model struct {
	render renderFunc
	styles styles
	output string
}

func newModel(render renderFunc) model {
	return model{render: render, styles: newStyles()}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.render(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// RenderProfile renders the derived character state panel.
func RenderProfile(profile domain.DerivedProfile, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderProfileView(profile, opts, s)
	})
}

// RenderCoherence renders the definition coherence breakdown.
func RenderCoherence(report domain.CoherenceReport, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderCoherenceView(report, opts, s)
	})
}

func run(render renderFunc) (string, error) {
	p := tea.NewProgram(
		newModel(render),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
