package home

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examprep/internal/assessment"
	"github.com/abhisek/examprep/internal/practice"
	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/screens/assess"
	"github.com/abhisek/examprep/internal/screens/setup"
	summaryscreen "github.com/abhisek/examprep/internal/screens/summary"
	"github.com/abhisek/examprep/internal/summary"
)

type stubStore struct {
	last *summary.Summary
}

func (s *stubStore) SaveLast(_ context.Context, sum summary.Summary) error {
	s.last = &sum
	return nil
}

func (s *stubStore) Last(context.Context) (*summary.Summary, error) {
	return s.last, nil
}

type stubRecent struct {
	accuracy float64
	answered int
}

func (s stubRecent) RecentAccuracy(context.Context, int) (float64, int, error) {
	return s.accuracy, s.answered, nil
}

type noBackend struct{}

func (noBackend) Create(context.Context, assessment.Blueprint) (assessment.Created, error) {
	return assessment.Created{}, nil
}

func (noBackend) Start(context.Context, string) (assessment.Started, error) {
	return assessment.Started{}, nil
}

func (noBackend) Submit(context.Context, string, []assessment.Response) (assessment.Submission, error) {
	return assessment.Submission{}, nil
}

func down(h *HomeScreen, n int) {
	for range n {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
}

func enter(h *HomeScreen) tea.Cmd {
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

// load runs Init and routes its messages the way the app does.
func load(h *HomeScreen) {
	cmd := h.Init()
	if cmd == nil {
		return
	}
	msgs := []tea.Msg{cmd()}
	if batch, ok := msgs[0].(tea.BatchMsg); ok {
		msgs = msgs[:0]
		for _, c := range batch {
			if c != nil {
				msgs = append(msgs, c())
			}
		}
	}
	for _, msg := range msgs {
		h.deps.Practice.Update(msg)
		h.Update(msg)
	}
}

func TestHomeScreen_Title(t *testing.T) {
	h := New(screen.Deps{Practice: practice.NewController(nil)})
	if h.Title() != "Home" {
		t.Errorf("Title = %q, want Home", h.Title())
	}
}

func TestHomeScreen_StartsTimedSetup(t *testing.T) {
	h := New(screen.Deps{Practice: practice.NewController(nil)})
	cmd := enter(h)
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected a PushScreenMsg")
	}
	s, ok := msg.Screen.(*setup.SetupScreen)
	if !ok {
		t.Fatalf("pushed screen is %T", msg.Screen)
	}
	if s.Mode() != question.ModeTimed {
		t.Errorf("Mode = %q, want timed", s.Mode())
	}
}

func TestHomeScreen_TutorItem(t *testing.T) {
	h := New(screen.Deps{Practice: practice.NewController(nil)})
	down(h, 1)
	msg := enter(h)().(router.PushScreenMsg)
	if s := msg.Screen.(*setup.SetupScreen); s.Mode() != question.ModeTutor {
		t.Errorf("Mode = %q, want tutor", s.Mode())
	}
}

func TestHomeScreen_SkipsDisabledItems(t *testing.T) {
	h := New(screen.Deps{Practice: practice.NewController(nil)})
	// No assessment backend and no summary: CUSTOM moves straight to QUIT.
	down(h, 3)
	cmd := enter(h)
	if cmd == nil {
		t.Fatal("expected the quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QUIT to be selected")
	}
}

func TestHomeScreen_AssessmentItem(t *testing.T) {
	deps := screen.Deps{
		Practice:    practice.NewController(nil),
		Assessment:  assessment.New(noBackend{}),
		CandidateID: "cand-1",
	}
	h := New(deps)
	down(h, 3)
	msg, ok := enter(h)().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected a PushScreenMsg")
	}
	a, ok := msg.Screen.(*assess.AssessScreen)
	if !ok {
		t.Fatalf("pushed screen is %T", msg.Screen)
	}
	if got := a.Blueprint().CandidateID; got != "cand-1" {
		t.Errorf("CandidateID = %q, want cand-1", got)
	}
}

func TestHomeScreen_LastSummary(t *testing.T) {
	store := &stubStore{last: &summary.Summary{
		Mode:        question.ModeTimed,
		Total:       4,
		Correct:     3,
		Omitted:     1,
		CompletedAt: time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC),
	}}
	deps := screen.Deps{
		Practice: practice.NewController(nil, practice.WithSummaryStore(store)),
		Recent:   stubRecent{accuracy: 0.6, answered: 25},
	}
	h := New(deps)
	load(h)

	view := h.View(100, 50)
	for _, want := range []string{"Last timed block: 3/4 correct (75%)", "Last 25 answers: 60% correct"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	down(h, 3)
	msg, ok := enter(h)().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected a PushScreenMsg")
	}
	if _, ok := msg.Screen.(*summaryscreen.SummaryScreen); !ok {
		t.Errorf("pushed screen is %T", msg.Screen)
	}
}

func TestHomeScreen_NoSummaryYet(t *testing.T) {
	h := New(screen.Deps{Practice: practice.NewController(nil)})
	if !strings.Contains(h.View(100, 50), "No completed blocks yet.") {
		t.Error("expected the empty panel text")
	}
}
