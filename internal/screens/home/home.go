package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examprep/internal/assessment"
	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/screens/assess"
	"github.com/abhisek/examprep/internal/screens/setup"
	summaryscreen "github.com/abhisek/examprep/internal/screens/summary"
	"github.com/abhisek/examprep/internal/ui/components"
)

// recentWindow is how many recorded answers the accuracy line covers.
const recentWindow = 50

const lastSummaryItem = 4

// recentAccuracyMsg carries the local event log's accuracy figure.
type recentAccuracyMsg struct {
	accuracy float64
	answered int
	err      error
}

// HomeScreen is the main menu with the recent performance panel.
type HomeScreen struct {
	deps   screen.Deps
	menu   components.Menu
	recent *recentAccuracyMsg
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screen.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	practiceItem := func(label string, mode question.Mode) components.MenuItem {
		return components.MenuItem{Label: label, Action: func() tea.Cmd {
			return router.Push(setup.New(deps, mode, question.Filters{QuestionCount: setup.DefaultQuestionCount}))
		}}
	}
	items := []components.MenuItem{
		practiceItem("TIMED PRACTICE", question.ModeTimed),
		practiceItem("TUTOR PRACTICE", question.ModeTutor),
		practiceItem("CUSTOM PRACTICE", question.ModeCustom),
		{Label: "ASSESSMENT", Disabled: deps.Assessment == nil, Action: func() tea.Cmd {
			return router.Push(assess.New(deps, assessment.Blueprint{CandidateID: deps.CandidateID}))
		}},
		{Label: "LAST SUMMARY", Action: func() tea.Cmd {
			last := deps.Practice.LastSummary()
			if last == nil {
				return nil
			}
			return router.Push(summaryscreen.New(*last, nil))
		}},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	h.syncMenu()
	return h
}

// Init refreshes the panel; it runs again whenever the screen comes back
// to the top of the stack.
func (h *HomeScreen) Init() tea.Cmd {
	return tea.Batch(h.deps.Practice.LoadLastSummary(), h.fetchRecent())
}

func (h *HomeScreen) fetchRecent() tea.Cmd {
	src := h.deps.Recent
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		acc, n, err := src.RecentAccuracy(ctx, recentWindow)
		return recentAccuracyMsg{accuracy: acc, answered: n, err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(recentAccuracyMsg); ok {
		if m.err == nil {
			h.recent = &m
		}
		return h, nil
	}

	h.syncMenu()
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// syncMenu enables the summary item once a summary is known.
func (h *HomeScreen) syncMenu() {
	h.menu.SetDisabled(lastSummaryItem, h.deps.Practice.LastSummary() == nil)
}

func (h *HomeScreen) View(width, height int) string {
	h.syncMenu()
	cw := components.ContentWidth(width)

	sections := []string{
		renderTitle(cw),
		renderRecentPanel(h.deps.Practice.LastSummary(), h.recent, cw),
		renderMenu(h.menu, cw),
	}
	return components.Center(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
