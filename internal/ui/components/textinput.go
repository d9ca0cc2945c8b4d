package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/ui/theme"
)

// TextInput wraps bubbles/textinput for typing sentence answers.
type TextInput struct {
	Model textinput.Model
	label grading.Label
}

// NewTextInput creates a focused input. charLimit of zero means no limit.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input, followed by a mark once it has been graded.
func (t TextInput) View() string {
	view := t.Model.View()
	switch {
	case t.label == "":
	case t.label.Accepted():
		view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	case t.label == grading.LabelNearMiss:
		view += " " + lipgloss.NewStyle().Foreground(theme.Accent).Render("~")
	default:
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// Grade marks the input with the label its answer received.
func (t *TextInput) Grade(l grading.Label) {
	t.label = l
}

// Reset clears the value and the grade mark for the next prompt.
func (t *TextInput) Reset() {
	t.Model.Reset()
	t.label = ""
}
