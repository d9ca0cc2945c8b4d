package app

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingo/internal/drill"
	drillscreen "github.com/abhisek/lingo/internal/screens/drill"
)

func newTestModel(t *testing.T) AppModel {
	t.Helper()
	deck, err := drill.ParseJSON([]byte(`{"title": "Basics", "items": [{"id": "a", "prompt": "사과", "answer_en": "Apple."}]}`))
	if err != nil {
		t.Fatal(err)
	}
	return newAppModel(drillscreen.New(drill.New(deck, 0, time.Now)))
}

func TestAppModel_ViewFrame(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	view := updated.(AppModel).render()
	for _, want := range []string{"lingo", "Basics", "0/1", "Check"} {
		if !strings.Contains(view, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}

func TestAppModel_TooSmall(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(updated.(AppModel).render(), "Terminal too small") {
		t.Error("expected the min size message")
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}
