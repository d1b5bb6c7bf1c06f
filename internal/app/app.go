package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/screens/home"
	"github.com/abhisek/examprep/internal/ui/layout"
)

// Options configure the program.
type Options struct {
	Deps screen.Deps
	Log  *zap.Logger

	// Initial is pushed above the home screen at startup when set.
	Initial func(screen.Deps) screen.Screen
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps    screen.Deps
	log     *zap.Logger
	router  *router.Router
	initial screen.Screen
	width   int
	height  int
}

// newAppModel creates a new AppModel with the home screen at the bottom of
// the stack.
func newAppModel(opts Options) AppModel {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := AppModel{
		deps:   opts.Deps,
		log:    log,
		router: router.New(home.New(opts.Deps)),
	}
	if opts.Initial != nil {
		m.initial = opts.Initial(opts.Deps)
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init()}
	if m.initial != nil {
		cmds = append(cmds, router.Push(m.initial))
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.log.Debug("window resized", zap.Int("width", msg.Width), zap.Int("height", msg.Height))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				return m, m.router.Update(msg)
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
		return m, m.router.Update(msg)
	}

	// Engine components see every non-key message first; they ignore
	// messages that are not theirs.
	var cmds []tea.Cmd
	if m.deps.Practice != nil {
		cmds = append(cmds, m.deps.Practice.Update(msg))
	}
	if m.deps.Assessment != nil {
		cmds = append(cmds, m.deps.Assessment.Update(msg))
	}
	if m.deps.Preview != nil {
		m.deps.Preview.Update(msg)
	}
	cmds = append(cmds, m.router.Update(msg))
	return m, tea.Batch(cmds...)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}
	if footerHints == nil {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		} else {
			footerHints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
