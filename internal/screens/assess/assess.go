// Package assess hosts the formal assessment flow: blueprint form, timed
// delivery, submission and score.
package assess

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examprep/internal/assessment"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/layout"
)

type formField struct {
	label string
	input components.TextInput
}

const (
	fCandidate = iota
	fSubject
	fSystem
	fDifficulty
	fTags
	fMinutes
	fCount
)

// AssessScreen drives the shared assessment lifecycle.
type AssessScreen struct {
	deps    screen.Deps
	form    []*formField
	focus   int
	choice  components.MultiChoice
	shownID string
	confirm bool
}

var _ screen.Screen = (*AssessScreen)(nil)
var _ screen.KeyHintProvider = (*AssessScreen)(nil)
var _ screen.StatusProvider = (*AssessScreen)(nil)
var _ screen.EscapeHandler = (*AssessScreen)(nil)

// New discards any previous run and opens the form prefilled from bp.
func New(deps screen.Deps, bp assessment.Blueprint) *AssessScreen {
	deps.Assessment.Reset()

	itoa := func(p *int) string {
		if p == nil {
			return ""
		}
		return strconv.Itoa(*p)
	}
	count := ""
	if bp.QuestionCount > 0 {
		count = strconv.Itoa(bp.QuestionCount)
	}
	field := func(label, value, placeholder string, numeric bool) *formField {
		return &formField{label: label, input: components.NewTextInput(placeholder, value, numeric, 64)}
	}

	a := &AssessScreen{deps: deps}
	a.form = []*formField{
		fCandidate:  field("Candidate ID", bp.CandidateID, "required", false),
		fSubject:    field("Subject", bp.Subject, "any", false),
		fSystem:     field("System", bp.System, "any", false),
		fDifficulty: field("Difficulty", bp.Difficulty, "any", false),
		fTags:       field("Tags", strings.Join(bp.Tags, ", "), "comma separated", false),
		fMinutes:    field("Time limit (min)", itoa(bp.TimeLimitMinutes), "untimed", true),
		fCount:      field("Questions", count, "server default", true),
	}
	a.form[a.focus].input.Focus()
	return a
}

func (a *AssessScreen) Init() tea.Cmd {
	return nil
}

func (a *AssessScreen) Title() string {
	return "Assessment"
}

func (a *AssessScreen) Status() string {
	secs, ok := a.deps.Assessment.Remaining()
	return layout.RenderClock(secs, ok)
}

// HandlesEscape keeps Esc from leaving a run that still needs attention.
func (a *AssessScreen) HandlesEscape() bool {
	switch a.deps.Assessment.Stage() {
	case assessment.StageLoading, assessment.StageRunning, assessment.StageSubmitting:
		return true
	}
	return false
}

func (a *AssessScreen) KeyHints() []layout.KeyHint {
	l := a.deps.Assessment
	switch {
	case a.confirm:
		return []layout.KeyHint{{Key: "Y", Description: "Yes"}, {Key: "N", Description: "No"}}
	case l.Stage() == assessment.StageSetup:
		return []layout.KeyHint{
			{Key: "↑↓/Tab", Description: "Field"},
			{Key: "Enter", Description: "Begin"},
			{Key: "Esc", Description: "Back"},
		}
	case l.Stage() == assessment.StageRunning && l.Err() != nil:
		return []layout.KeyHint{
			{Key: "Ctrl+R", Description: "Retry submit"},
			{Key: "←→", Description: "Question"},
		}
	case l.Stage() == assessment.StageRunning:
		return []layout.KeyHint{
			{Key: "A-E/Enter", Description: "Answer"},
			{Key: "←→", Description: "Question"},
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Esc", Description: "Abandon"},
		}
	case l.Stage() == assessment.StageCompleted:
		return []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

// Blueprint returns the blueprint described by the form.
func (a *AssessScreen) Blueprint() assessment.Blueprint {
	bp := assessment.Blueprint{
		CandidateID: a.form[fCandidate].input.Value(),
		Subject:     a.form[fSubject].input.Value(),
		System:      a.form[fSystem].input.Value(),
		Difficulty:  a.form[fDifficulty].input.Value(),
	}
	for _, t := range strings.Split(a.form[fTags].input.Value(), ",") {
		if t = strings.TrimSpace(t); t != "" {
			bp.Tags = append(bp.Tags, t)
		}
	}
	if n, ok := a.form[fMinutes].input.IntValue(); ok {
		bp.TimeLimitMinutes = &n
	}
	if n, ok := a.form[fCount].input.IntValue(); ok {
		bp.QuestionCount = n
	}
	return bp
}

func (a *AssessScreen) sync() {
	run := a.deps.Assessment.Run()
	if run.CurrentIndex >= len(run.Questions) {
		return
	}
	q := run.Questions[run.CurrentIndex]
	if q.ID != a.shownID {
		a.choice = components.NewMultiChoice(q, run.Answers[q.ID])
		a.shownID = q.ID
	}
	a.choice.Chosen = run.Answers[q.ID]
	secs, timed := a.deps.Assessment.Remaining()
	a.choice.Locked = run.Stage != assessment.StageRunning || run.TimedOut || (timed && secs == 0)
}

func (a *AssessScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	defer a.sync()

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	l := a.deps.Assessment

	if a.confirm {
		switch strings.ToLower(kmsg.String()) {
		case "y":
			a.confirm = false
			l.Reset()
			return a, router.Pop
		case "n", "esc":
			a.confirm = false
		}
		return a, nil
	}

	switch l.Stage() {
	case assessment.StageSetup:
		return a, a.updateForm(kmsg)
	case assessment.StageLoading:
		if kmsg.String() == "esc" {
			l.Reset()
			return a, router.Pop
		}
	case assessment.StageRunning:
		return a, a.updateRunning(kmsg)
	case assessment.StageCompleted:
		if key.Matches(kmsg, components.KeyEnter) {
			l.Reset()
			return a, router.PopToRoot
		}
	}
	return a, nil
}

func (a *AssessScreen) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "shift+tab":
		return a.moveFocus(-1)
	case "down", "tab":
		return a.moveFocus(1)
	case "enter":
		return a.deps.Assessment.Begin(a.Blueprint())
	}
	var cmd tea.Cmd
	a.form[a.focus].input, cmd = a.form[a.focus].input.Update(msg)
	return cmd
}

func (a *AssessScreen) moveFocus(step int) tea.Cmd {
	a.form[a.focus].input.Blur()
	a.focus = (a.focus + step + len(a.form)) % len(a.form)
	return a.form[a.focus].input.Focus()
}

func (a *AssessScreen) updateRunning(msg tea.KeyMsg) tea.Cmd {
	l := a.deps.Assessment
	switch msg.String() {
	case "ctrl+s":
		return l.Submit()
	case "ctrl+r":
		return l.Retry()
	case "esc":
		a.confirm = true
		return nil
	}

	var picked string
	a.choice, picked = a.choice.Update(msg)
	if picked != "" {
		l.SelectAnswer(a.shownID, picked)
		return nil
	}

	idx := l.Run().CurrentIndex
	switch {
	case key.Matches(msg, components.KeyLeft):
		l.GoToQuestion(idx - 1)
	case key.Matches(msg, components.KeyRight):
		l.GoToQuestion(idx + 1)
	}
	return nil
}
