package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/summary"
)

func testSummary() summary.Summary {
	a, c := "A", "C"
	return summary.Summary{
		Mode:           question.ModeTutor,
		Total:          3,
		Correct:        1,
		Incorrect:      1,
		Omitted:        1,
		AverageSeconds: 42,
		CompletedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Performances: []summary.Performance{
			{QuestionID: "q1", Index: 0, Selected: &a, CorrectAnswer: "A", Correct: true, ElapsedSeconds: 30},
			{QuestionID: "q2", Index: 1, Selected: &c, CorrectAnswer: "B", ElapsedSeconds: 60},
			{QuestionID: "q3", Index: 2, CorrectAnswer: "D", ElapsedSeconds: 36},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary(), nil)
	if s.Title() != "Block Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Block Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testSummary(), []question.Question{{ID: "q1", Stem: "Which nerve innervates the deltoid?"}})
	view := s.View(100, 30)
	for _, want := range []string{"Tutor block complete", "1 correct", "1 omitted", "33%", "0:42", "deltoid"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_EnterReturnsHome(t *testing.T) {
	s := New(testSummary(), nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected Enter to return to the home screen")
	}
}

func TestSummaryScreen_Scroll(t *testing.T) {
	s := New(testSummary(), nil)
	for range 5 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if s.offset != 2 {
		t.Errorf("offset = %d, want 2", s.offset)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.offset != 1 {
		t.Errorf("offset = %d, want 1", s.offset)
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testSummary(), nil)
	if len(s.KeyHints()) != 3 {
		t.Errorf("KeyHints length = %d, want 3", len(s.KeyHints()))
	}
}
