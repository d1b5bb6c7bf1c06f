package assess

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examprep/internal/analytics"
	"github.com/abhisek/examprep/internal/assessment"
	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
)

type fakeBackend struct {
	questions int
	limit     *int
	createErr error
	submitErr []error

	creates []assessment.Blueprint
	submits [][]assessment.Response
}

func (f *fakeBackend) Create(_ context.Context, bp assessment.Blueprint) (assessment.Created, error) {
	f.creates = append(f.creates, bp)
	if f.createErr != nil {
		return assessment.Created{}, f.createErr
	}
	return assessment.Created{AssessmentID: "as-9", QuestionCount: f.questions}, nil
}

func (f *fakeBackend) Start(_ context.Context, id string) (assessment.Started, error) {
	qs := make([]question.Question, f.questions)
	for i := range qs {
		qs[i] = question.Question{
			ID:      fmt.Sprintf("q%d", i+1),
			Stem:    fmt.Sprintf("Assessment stem %d", i+1),
			Choices: []question.Choice{{Label: "A", Text: "yes"}, {Label: "B", Text: "no"}},
		}
	}
	return assessment.Started{AssessmentID: id, TimeLimitSeconds: f.limit, Questions: qs}, nil
}

func (f *fakeBackend) Submit(_ context.Context, id string, responses []assessment.Response) (assessment.Submission, error) {
	f.submits = append(f.submits, responses)
	if len(f.submitErr) > 0 {
		err := f.submitErr[0]
		f.submitErr = f.submitErr[1:]
		if err != nil {
			return assessment.Submission{}, err
		}
	}
	correct := 0
	for _, r := range responses {
		if r.Answer != nil {
			correct++
		}
	}
	return assessment.Submission{
		AssessmentID: id,
		Score: assessment.Score{
			TotalQuestions: len(responses),
			Correct:        correct,
			Omitted:        len(responses) - correct,
			Percentage:     100 * float64(correct) / float64(len(responses)),
		},
	}, nil
}

type fakeAnalytics struct{}

func (fakeAnalytics) FetchLatest(context.Context) (analytics.Snapshot, error) {
	return analytics.Snapshot{
		TotalAnswered: 120,
		Accuracy:      0.75,
		Subjects:      []analytics.SubjectStat{{Subject: "Cardiology", Answered: 40, Accuracy: 0.5}},
	}, nil
}

func newScreen(be *fakeBackend, bp assessment.Blueprint, opts ...assessment.Option) *AssessScreen {
	deps := screen.Deps{Assessment: assessment.New(be, opts...)}
	return New(deps, bp)
}

// run executes cmd and routes each message through the lifecycle and the
// screen, following lifecycle commands except clock ticks.
func run(a *AssessScreen, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var last tea.Cmd
		for _, c := range batch {
			if next := run(a, c); next != nil {
				last = next
			}
		}
		return last
	}
	follow := a.deps.Assessment.Update(msg)
	_, next := a.Update(msg)
	if a.deps.Assessment.Stage() == assessment.StageCompleted && follow != nil {
		run(a, follow)
	}
	return next
}

func keyMsg(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	case "ctrl+r":
		return tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	}
	return tea.KeyPressMsg{Code: rune(k[0]), Text: k}
}

func press(a *AssessScreen, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = a.Update(keyMsg(k))
	}
	return cmd
}

func TestAssessScreen_FormPrefill(t *testing.T) {
	minutes := 45
	a := newScreen(&fakeBackend{}, assessment.Blueprint{
		CandidateID:      "cand-7",
		Subject:          "Pharmacology",
		Tags:             []string{"renal", "acid-base"},
		TimeLimitMinutes: &minutes,
		QuestionCount:    20,
	})

	bp := a.Blueprint()
	if bp.CandidateID != "cand-7" || bp.Subject != "Pharmacology" || bp.QuestionCount != 20 {
		t.Errorf("Blueprint = %+v", bp)
	}
	if bp.TimeLimitMinutes == nil || *bp.TimeLimitMinutes != 45 {
		t.Errorf("TimeLimitMinutes = %v, want 45", bp.TimeLimitMinutes)
	}
	if len(bp.Tags) != 2 {
		t.Errorf("Tags = %v", bp.Tags)
	}
	if a.HandlesEscape() {
		t.Error("the form should let Esc leave the screen")
	}
}

func TestAssessScreen_TypeIntoForm(t *testing.T) {
	a := newScreen(&fakeBackend{}, assessment.Blueprint{})
	press(a, "c", "9", "tab", "x")

	bp := a.Blueprint()
	if bp.CandidateID != "c9" {
		t.Errorf("CandidateID = %q, want c9", bp.CandidateID)
	}
	if bp.Subject != "x" {
		t.Errorf("Subject = %q, want x", bp.Subject)
	}
}

func TestAssessScreen_BeginAnswerSubmit(t *testing.T) {
	be := &fakeBackend{questions: 3}
	a := newScreen(be, assessment.Blueprint{CandidateID: "c1"})

	run(a, press(a, "enter"))
	if got := a.deps.Assessment.Stage(); got != assessment.StageRunning {
		t.Fatalf("Stage = %v, want running", got)
	}
	if !a.HandlesEscape() {
		t.Error("a running assessment should capture Esc")
	}
	if !strings.Contains(a.View(100, 40), "Assessment stem 1") {
		t.Error("expected the first question in the view")
	}

	press(a, "a", "right", "b")
	run(a, press(a, "ctrl+s"))

	if got := a.deps.Assessment.Stage(); got != assessment.StageCompleted {
		t.Fatalf("Stage = %v, want completed", got)
	}
	if len(be.submits) != 1 || len(be.submits[0]) != 3 {
		t.Fatalf("submits = %v", be.submits)
	}
	if be.submits[0][2].Answer != nil {
		t.Error("the unanswered question should be submitted as omitted")
	}

	view := a.View(100, 40)
	for _, want := range []string{"2 correct", "1 omitted", "Analytics unavailable"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	cmd := press(a, "enter")
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected Enter to return home")
	}
	if a.deps.Assessment.Stage() != assessment.StageSetup {
		t.Error("leaving should reset the lifecycle")
	}
}

func TestAssessScreen_AnalyticsSnapshot(t *testing.T) {
	a := newScreen(&fakeBackend{questions: 1}, assessment.Blueprint{CandidateID: "c1"},
		assessment.WithAnalytics(fakeAnalytics{}))
	run(a, press(a, "enter"))
	press(a, "a")
	run(a, press(a, "ctrl+s"))

	view := a.View(100, 40)
	for _, want := range []string{"120 answered", "75% correct", "Cardiology"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAssessScreen_SubmitFailureRetry(t *testing.T) {
	be := &fakeBackend{questions: 2, submitErr: []error{errors.New("gateway timeout")}}
	a := newScreen(be, assessment.Blueprint{CandidateID: "c1"})
	run(a, press(a, "enter"))
	press(a, "a")

	run(a, press(a, "ctrl+s"))
	if got := a.deps.Assessment.Stage(); got != assessment.StageRunning {
		t.Fatalf("Stage = %v, want running after a failed submit", got)
	}
	view := a.View(100, 40)
	if !strings.Contains(view, "gateway timeout") || !strings.Contains(view, "Ctrl+R") {
		t.Error("expected the submit error and the retry hint")
	}

	run(a, press(a, "ctrl+r"))
	if got := a.deps.Assessment.Stage(); got != assessment.StageCompleted {
		t.Fatalf("Stage = %v, want completed after retry", got)
	}
	if len(be.submits) != 2 {
		t.Errorf("submits = %d, want 2", len(be.submits))
	}
}

func TestAssessScreen_BeginFailureStaysOnForm(t *testing.T) {
	be := &fakeBackend{createErr: errors.New("unknown candidate")}
	a := newScreen(be, assessment.Blueprint{CandidateID: "ghost"})
	run(a, press(a, "enter"))

	if got := a.deps.Assessment.Stage(); got != assessment.StageSetup {
		t.Fatalf("Stage = %v, want setup", got)
	}
	if !strings.Contains(a.View(100, 40), "unknown candidate") {
		t.Error("expected the start error on the form")
	}
}

func TestAssessScreen_AbandonConfirm(t *testing.T) {
	be := &fakeBackend{questions: 2}
	a := newScreen(be, assessment.Blueprint{CandidateID: "c1"})
	run(a, press(a, "enter"))

	press(a, "esc")
	if !strings.Contains(a.View(100, 40), "Abandon this assessment?") {
		t.Fatal("expected the abandon prompt")
	}
	press(a, "n")
	if a.deps.Assessment.Stage() != assessment.StageRunning {
		t.Fatal("declining should keep the run")
	}

	press(a, "esc")
	cmd := press(a, "y")
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected the screen to pop")
	}
	if len(be.submits) != 0 {
		t.Error("abandoning must not submit")
	}
}

func TestAssessScreen_ZeroLimitAutoSubmits(t *testing.T) {
	zero := 0
	be := &fakeBackend{questions: 2, limit: &zero}
	a := newScreen(be, assessment.Blueprint{CandidateID: "c1"})

	next := press(a, "enter")
	msg := next()
	submit := a.deps.Assessment.Update(msg)
	if submit == nil {
		t.Fatal("a zero time limit should submit immediately")
	}
	run(a, submit)

	if got := a.deps.Assessment.Stage(); got != assessment.StageCompleted {
		t.Fatalf("Stage = %v, want completed", got)
	}
	if !strings.Contains(a.View(100, 40), "Submitted automatically") {
		t.Error("expected the timed-out banner")
	}
}
