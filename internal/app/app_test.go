package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examprep/internal/practice"
	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
	summaryscreen "github.com/abhisek/examprep/internal/screens/summary"
	"github.com/abhisek/examprep/internal/summary"
)

type oneQuestion struct{}

func (oneQuestion) Search(context.Context, question.SearchQuery) (question.Page, error) {
	return question.Page{
		Questions:  []question.Question{{ID: "q1", Choices: []question.Choice{{Label: "A"}}, CorrectAnswer: "A"}},
		Pagination: question.Pagination{Total: 1, Limit: 1, Returned: 1},
	}, nil
}

func newTestModel() AppModel {
	return newAppModel(Options{Deps: screen.Deps{Practice: practice.NewController(oneQuestion{})}})
}

func TestAppModel_EscAtRootDoesNothing(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("Esc on the home screen should do nothing")
	}
}

func TestAppModel_EscPopsPushedScreen(t *testing.T) {
	m := newTestModel()
	next, _ := m.Update(router.PushScreenMsg{Screen: summaryscreen.New(summary.Summary{}, nil)})
	m = next.(AppModel)
	if m.router.Depth() != 2 {
		t.Fatalf("Depth = %d, want 2", m.router.Depth())
	}

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected Esc to pop the summary screen")
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected ctrl+c to quit")
	}
}

func TestAppModel_ForwardsEngineMessages(t *testing.T) {
	m := newTestModel()
	cmd := m.deps.Practice.StartSession(question.ModeTutor, question.Filters{QuestionCount: 1})
	if cmd == nil {
		t.Fatal("StartSession returned no command")
	}
	m.Update(cmd())

	if m.deps.Practice.Session() == nil {
		t.Error("the practice controller should receive its load result through the app")
	}
}

func TestAppModel_InitialScreen(t *testing.T) {
	m := newAppModel(Options{
		Deps: screen.Deps{Practice: practice.NewController(oneQuestion{})},
		Initial: func(screen.Deps) screen.Screen {
			return summaryscreen.New(summary.Summary{}, nil)
		},
	})
	if m.initial == nil {
		t.Fatal("expected the initial screen to be built")
	}
	if m.Init() == nil {
		t.Error("expected Init to return commands")
	}
}
