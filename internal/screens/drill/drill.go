// Package drill is the screen that asks deck prompts one at a time.
package drill

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingo/internal/drill"
	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/router"
	"github.com/abhisek/lingo/internal/screen"
	"github.com/abhisek/lingo/internal/screens/summary"
	"github.com/abhisek/lingo/internal/ui/components"
	"github.com/abhisek/lingo/internal/ui/layout"
)

const answerCharLimit = 200

type phase int

const (
	phaseQuestion phase = iota
	phaseFeedback
)

// DrillScreen shows one prompt, grades the typed sentence and shows
// feedback before moving on.
type DrillScreen struct {
	drill *drill.Drill
	input components.TextInput
	phase phase
	last  *grading.ItemResult
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)
var _ screen.StatusProvider = (*DrillScreen)(nil)

// New creates a DrillScreen for d.
func New(d *drill.Drill) *DrillScreen {
	return &DrillScreen{
		drill: d,
		input: components.NewTextInput("Type the English sentence", answerCharLimit),
	}
}

func (s *DrillScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *DrillScreen) Title() string {
	if s.drill.Title != "" {
		return s.drill.Title
	}
	return "Drill"
}

func (s *DrillScreen) Status() string {
	answered, total := s.drill.Progress()
	return fmt.Sprintf("%d/%d", answered, total)
}

func (s *DrillScreen) KeyHints() []layout.KeyHint {
	if s.phase == phaseFeedback {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Finish"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Check"},
		{Key: "Esc", Description: "Finish"},
	}
}

func (s *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if s.phase == phaseQuestion {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if kmsg.String() == "esc" {
		return s, s.finish()
	}

	switch s.phase {
	case phaseQuestion:
		if kmsg.String() == "enter" {
			return s, s.submit()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	case phaseFeedback:
		if kmsg.String() == "enter" {
			return s, s.advance()
		}
	}
	return s, nil
}

func (s *DrillScreen) submit() tea.Cmd {
	if _, ok := s.drill.Current(); !ok {
		return s.finish()
	}
	res := s.drill.Submit(s.input.Value())
	s.last = &res
	s.input.Grade(res.Label)
	s.input.Model.Blur()
	s.phase = phaseFeedback
	return nil
}

func (s *DrillScreen) advance() tea.Cmd {
	if !s.drill.Next() {
		return s.finish()
	}
	s.last = nil
	s.input.Reset()
	s.phase = phaseQuestion
	return s.input.Model.Focus()
}

func (s *DrillScreen) finish() tea.Cmd {
	next := summary.New(s.drill.Summary())
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *DrillScreen) View(width, height int) string {
	if s.phase == phaseFeedback && s.last != nil {
		return s.renderFeedback(width)
	}
	return s.renderQuestion(width)
}
