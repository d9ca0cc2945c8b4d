package drill

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingo/internal/ui/components"
	"github.com/abhisek/lingo/internal/ui/theme"
)

// renderQuestion renders the prompt and the answer input.
func (s *DrillScreen) renderQuestion(width int) string {
	it, ok := s.drill.Current()
	if !ok {
		return ""
	}

	var b strings.Builder
	answered, total := s.drill.Progress()
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.NewProgressBar(answered, total, min(width-8, 60)).View()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(it.Prompt))
	b.WriteString("\n")
	if it.Hint != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Inherit(theme.Hint).
			Render(it.Hint))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "> "+s.input.View()))
	return b.String()
}

// renderFeedback renders the grade of the last answer.
func (s *DrillScreen) renderFeedback(width int) string {
	res := s.last
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Render(theme.RenderLabel(res.Label)))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Text).Render(res.Feedback))
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.TextDim).Render("You wrote: " + res.UserAnswer))
	b.WriteString("\n")
	if res.MinimalRewrite != "" {
		b.WriteString(center.Foreground(theme.Accent).Render("Correct answer: " + res.MinimalRewrite))
		b.WriteString("\n")
	}
	return b.String()
}
