// Package practice renders a running practice block.
package practice

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
	summaryscreen "github.com/abhisek/examprep/internal/screens/summary"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/layout"
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmFinish
	confirmQuit
)

// PracticeScreen shows one question at a time of the controller's block.
// After completion it stays up in review mode with every explanation
// visible.
type PracticeScreen struct {
	deps    screen.Deps
	choice  components.MultiChoice
	shownID string
	confirm confirmKind
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)
var _ screen.EscapeHandler = (*PracticeScreen)(nil)

// New creates a screen for the controller's current block.
func New(deps screen.Deps) *PracticeScreen {
	p := &PracticeScreen{deps: deps}
	p.sync()
	return p
}

func (p *PracticeScreen) Init() tea.Cmd {
	return nil
}

func (p *PracticeScreen) Title() string {
	s := p.deps.Practice.Session()
	if s == nil {
		return "Practice"
	}
	if s.Completed {
		return "Review"
	}
	return strings.ToUpper(string(s.Mode[:1])) + string(s.Mode[1:]) + " Block"
}

func (p *PracticeScreen) Status() string {
	s := p.deps.Practice.Session()
	if s == nil || s.RemainingSeconds == nil {
		return ""
	}
	return layout.RenderClock(*s.RemainingSeconds, true)
}

func (p *PracticeScreen) HandlesEscape() bool {
	s := p.deps.Practice.Session()
	return p.confirm != confirmNone || (s != nil && !s.Completed)
}

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	if p.confirm != confirmNone {
		return []layout.KeyHint{
			{Key: "Y", Description: "Yes"},
			{Key: "N", Description: "No"},
		}
	}
	s := p.deps.Practice.Session()
	if s != nil && s.Completed {
		return []layout.KeyHint{
			{Key: "←→", Description: "Question"},
			{Key: "S", Description: "Summary"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "A-E/Enter", Description: "Answer"},
		{Key: "←→", Description: "Question"},
	}
	if s != nil && s.Mode != question.ModeTimed {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Explain"})
	}
	return append(hints,
		layout.KeyHint{Key: "X", Description: "Finish"},
		layout.KeyHint{Key: "Esc", Description: "Quit"},
	)
}

// sync rebuilds the choice component when the displayed question changes
// and refreshes its answer and reveal state.
func (p *PracticeScreen) sync() {
	s := p.deps.Practice.Session()
	if s == nil {
		return
	}
	q, ok := s.CurrentQuestion()
	if !ok {
		return
	}
	answer, _ := s.Answer(q.ID)
	if q.ID != p.shownID {
		p.choice = components.NewMultiChoice(q, answer)
		p.shownID = q.ID
	}
	p.choice.Chosen = answer
	p.choice.Revealed = s.Revealed(q.ID)
	p.choice.Locked = s.Completed
}

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	defer p.sync()

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	ctrl := p.deps.Practice
	s := ctrl.Session()
	if s == nil {
		return p, router.Pop
	}

	if p.confirm != confirmNone {
		return p, p.handleConfirm(kmsg)
	}

	var picked string
	p.choice, picked = p.choice.Update(kmsg)
	if picked != "" {
		return p, ctrl.SelectAnswer(p.shownID, picked)
	}

	switch {
	case key.Matches(kmsg, components.KeyLeft):
		ctrl.GoToQuestion(s.CurrentIndex - 1)
	case key.Matches(kmsg, components.KeyRight):
		ctrl.GoToQuestion(s.CurrentIndex + 1)
	}

	switch strings.ToLower(kmsg.String()) {
	case "esc":
		if !s.Completed {
			p.confirm = confirmQuit
		}
	case "r":
		if !s.Completed && s.Mode != question.ModeTimed {
			ctrl.RevealExplanation(p.shownID)
		}
	case "x":
		if !s.Completed {
			p.confirm = confirmFinish
		}
	case "s":
		if s.Completed && s.Summary != nil {
			return p, router.Replace(summaryscreen.New(*s.Summary, s.Questions))
		}
	}
	return p, nil
}

func (p *PracticeScreen) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	switch strings.ToLower(msg.String()) {
	case "y":
		kind := p.confirm
		p.confirm = confirmNone
		if kind == confirmQuit {
			p.deps.Practice.ResetSession()
			return router.Pop
		}
		return p.deps.Practice.CompleteSession()
	case "n", "esc":
		p.confirm = confirmNone
	}
	return nil
}
