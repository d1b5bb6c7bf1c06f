package practice

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	sess "github.com/abhisek/examprep/internal/practice"
	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
	summaryscreen "github.com/abhisek/examprep/internal/screens/summary"
)

type fakeSource struct {
	questions []question.Question
}

func (f *fakeSource) Search(_ context.Context, q question.SearchQuery) (question.Page, error) {
	n := min(q.Limit, len(f.questions))
	return question.Page{
		Questions:  f.questions[:n],
		Pagination: question.Pagination{Total: len(f.questions), Limit: q.Limit, Returned: n},
	}, nil
}

func testQuestions(n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{
			ID:   fmt.Sprintf("q%d", i+1),
			Stem: fmt.Sprintf("Stem number %d", i+1),
			Choices: []question.Choice{
				{Label: "A", Text: "alpha"},
				{Label: "B", Text: "beta"},
				{Label: "C", Text: "gamma"},
			},
			CorrectAnswer: "B",
			Explanation:   &question.Explanation{Summary: "Beta is the answer"},
		}
	}
	return qs
}

// newScreen starts a block of n questions and returns a screen showing it.
func newScreen(t *testing.T, mode question.Mode, n int) (*PracticeScreen, *sess.Controller) {
	t.Helper()
	ctrl := sess.NewController(&fakeSource{questions: testQuestions(n)})
	cmd := ctrl.StartSession(mode, question.Filters{QuestionCount: n})
	if cmd == nil {
		t.Fatal("StartSession returned no command")
	}
	ctrl.Update(cmd())
	if ctrl.Session() == nil {
		t.Fatalf("block not started: %v", ctrl.Err())
	}
	return New(screen.Deps{Practice: ctrl}), ctrl
}

func press(p *PracticeScreen, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyPressMsg
		switch k {
		case "enter":
			msg = tea.KeyPressMsg{Code: tea.KeyEnter}
		case "esc":
			msg = tea.KeyPressMsg{Code: tea.KeyEscape}
		case "right":
			msg = tea.KeyPressMsg{Code: tea.KeyRight}
		case "left":
			msg = tea.KeyPressMsg{Code: tea.KeyLeft}
		case "down":
			msg = tea.KeyPressMsg{Code: tea.KeyDown}
		default:
			msg = tea.KeyPressMsg{Code: rune(k[0]), Text: k}
		}
		_, cmd = p.Update(msg)
	}
	return cmd
}

func TestPracticeScreen_Title(t *testing.T) {
	p, _ := newScreen(t, question.ModeTutor, 2)
	if p.Title() != "Tutor Block" {
		t.Errorf("Title = %q, want %q", p.Title(), "Tutor Block")
	}
}

func TestPracticeScreen_AnswerByLetter(t *testing.T) {
	p, ctrl := newScreen(t, question.ModeTimed, 2)
	press(p, "c")

	got, ok := ctrl.Session().Answer("q1")
	if !ok || got != "C" {
		t.Errorf("answer for q1 = %q (%v), want C", got, ok)
	}
}

func TestPracticeScreen_AnswerWithEnter(t *testing.T) {
	p, ctrl := newScreen(t, question.ModeTimed, 2)
	press(p, "down", "enter")

	got, _ := ctrl.Session().Answer("q1")
	if got != "B" {
		t.Errorf("answer for q1 = %q, want B", got)
	}
}

func TestPracticeScreen_TutorRevealsOnAnswer(t *testing.T) {
	p, _ := newScreen(t, question.ModeTutor, 2)
	press(p, "b")

	view := p.View(100, 40)
	if !strings.Contains(view, "Beta is the answer") {
		t.Error("expected the explanation after answering in tutor mode")
	}
}

func TestPracticeScreen_TimedHidesExplanation(t *testing.T) {
	p, ctrl := newScreen(t, question.ModeTimed, 2)
	press(p, "b", "r")

	if ctrl.Session().Revealed("q1") {
		t.Error("timed mode should not reveal explanations during the block")
	}
	if strings.Contains(p.View(100, 40), "Beta is the answer") {
		t.Error("explanation rendered during a timed block")
	}
}

func TestPracticeScreen_Navigate(t *testing.T) {
	p, ctrl := newScreen(t, question.ModeTimed, 3)
	press(p, "right", "right")
	if got := ctrl.Session().CurrentIndex; got != 2 {
		t.Fatalf("CurrentIndex = %d, want 2", got)
	}
	if !strings.Contains(p.View(100, 40), "Stem number 3") {
		t.Error("view does not show the third question")
	}
	press(p, "left")
	if got := ctrl.Session().CurrentIndex; got != 1 {
		t.Errorf("CurrentIndex = %d, want 1", got)
	}
}

func TestPracticeScreen_FinishConfirm(t *testing.T) {
	p, ctrl := newScreen(t, question.ModeTimed, 3)
	press(p, "b", "x")
	if !strings.Contains(p.View(100, 40), "2 unanswered") {
		t.Error("expected the finish prompt to count unanswered questions")
	}

	press(p, "n")
	if ctrl.Session().Completed {
		t.Fatal("declining the prompt completed the block")
	}

	press(p, "x", "y")
	s := ctrl.Session()
	if !s.Completed || s.Summary == nil {
		t.Fatal("expected a completed block with a summary")
	}
	if s.Summary.Correct != 1 || s.Summary.Omitted != 2 {
		t.Errorf("summary = %d correct / %d omitted, want 1 / 2", s.Summary.Correct, s.Summary.Omitted)
	}
}

func TestPracticeScreen_LastAnswerCompletes(t *testing.T) {
	p, ctrl := newScreen(t, question.ModeTutor, 2)
	press(p, "b", "right", "a")

	if !ctrl.Session().Completed {
		t.Fatal("answering every question should complete the block")
	}
	if p.Title() != "Review" {
		t.Errorf("Title = %q, want Review", p.Title())
	}

	cmd := press(p, "s")
	if cmd == nil {
		t.Fatal("expected a command for the summary key")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected the summary to replace the review screen")
	}
	if _, ok := msg.Screen.(*summaryscreen.SummaryScreen); !ok {
		t.Errorf("replacement screen is %T", msg.Screen)
	}
}

func TestPracticeScreen_QuitDiscards(t *testing.T) {
	p, ctrl := newScreen(t, question.ModeTimed, 2)
	if !p.HandlesEscape() {
		t.Fatal("a running block should capture Esc")
	}
	press(p, "esc")
	cmd := press(p, "y")

	if ctrl.Session() != nil {
		t.Error("expected the block to be discarded")
	}
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected the screen to pop after quitting")
	}
	if ctrl.LastSummary() != nil {
		t.Error("a discarded block must not produce a summary")
	}
}

func TestPracticeScreen_KeyHintsByMode(t *testing.T) {
	hasExplain := func(p *PracticeScreen) bool {
		for _, h := range p.KeyHints() {
			if h.Key == "R" {
				return true
			}
		}
		return false
	}
	timed, _ := newScreen(t, question.ModeTimed, 1)
	if hasExplain(timed) {
		t.Error("timed mode should not offer the explain key")
	}
	tutor, _ := newScreen(t, question.ModeTutor, 1)
	if !hasExplain(tutor) {
		t.Error("tutor mode should offer the explain key")
	}
}

func TestPracticeScreen_StatusShowsClock(t *testing.T) {
	timed, _ := newScreen(t, question.ModeTimed, 2)
	if !strings.Contains(timed.Status(), "3:30") {
		t.Errorf("Status = %q, want the 3:30 block clock", timed.Status())
	}
	tutor, _ := newScreen(t, question.ModeTutor, 2)
	if tutor.Status() != "" {
		t.Errorf("untimed block Status = %q, want empty", tutor.Status())
	}
}
