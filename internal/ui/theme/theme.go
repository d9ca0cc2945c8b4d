package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingo/internal/grading"
)

// Color palette
var (
	Primary   = lipgloss.Color("#2563EB") // Blue
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// Grade labels
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Variant = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	NearMiss = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// LabelStyle returns the style a grade label is rendered with.
func LabelStyle(l grading.Label) lipgloss.Style {
	switch l {
	case grading.LabelCorrect:
		return Correct
	case grading.LabelVariant:
		return Variant
	case grading.LabelNearMiss:
		return NearMiss
	case grading.LabelWrong:
		return Incorrect
	default:
		panic("theme: unhandled label " + string(l))
	}
}

// LabelText is the short heading shown for a grade label.
func LabelText(l grading.Label) string {
	switch l {
	case grading.LabelCorrect:
		return "Correct"
	case grading.LabelVariant:
		return "Accepted variant"
	case grading.LabelNearMiss:
		return "Near miss"
	case grading.LabelWrong:
		return "Wrong"
	default:
		panic("theme: unhandled label " + string(l))
	}
}

// RenderLabel renders the heading of l in its style.
func RenderLabel(l grading.Label) string {
	return LabelStyle(l).Render(LabelText(l))
}
