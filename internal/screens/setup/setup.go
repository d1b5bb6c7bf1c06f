// Package setup is the practice block builder: filter form on the left,
// paged preview of matching questions on the right.
package setup

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/screens/practice"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/layout"
)

// DefaultQuestionCount is the block size offered by the form.
const DefaultQuestionCount = 10

type fieldKind int

const (
	fieldChoice fieldKind = iota
	fieldText
	fieldToggle
)

type fieldID int

const (
	fMode fieldID = iota
	fSubject
	fSystem
	fDifficulty
	fStatus
	fQuery
	fTags
	fCount
	fSeconds
	fShuffle
	fExplain
	fieldCount
)

type field struct {
	label   string
	kind    fieldKind
	options []string // fieldChoice; "" means any
	index   int
	input   components.TextInput
	on      bool
}

func (f *field) value() string {
	switch f.kind {
	case fieldChoice:
		if f.index < len(f.options) {
			return f.options[f.index]
		}
		return ""
	case fieldText:
		return f.input.Value()
	}
	return ""
}

// setOptions replaces the choice list and keeps the current value if it is
// still offered.
func (f *field) setOptions(opts []string) {
	cur := f.value()
	f.options = append([]string{""}, opts...)
	f.index = max(slices.Index(f.options, cur), 0)
}

type optionsLoadedMsg struct {
	options question.FilterOptions
	err     error
}

// SetupScreen collects filters, previews matches and starts a block.
type SetupScreen struct {
	deps     screen.Deps
	fields   []*field
	selected fieldID
	editing  bool
	starting bool
	errMsg   string

	// previewed is the fingerprint of the filters last sent to the preview.
	previewed string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)
var _ screen.EscapeHandler = (*SetupScreen)(nil)

// New creates a setup screen prefilled with mode and f.
func New(deps screen.Deps, mode question.Mode, f question.Filters) *SetupScreen {
	if f.QuestionCount <= 0 {
		f.QuestionCount = DefaultQuestionCount
	}
	seconds := ""
	if f.TimePerQuestionSeconds != nil {
		seconds = strconv.Itoa(*f.TimePerQuestionSeconds)
	}

	choice := func(label, cur string) *field {
		fl := &field{label: label, kind: fieldChoice}
		fl.options = []string{""}
		if cur != "" {
			fl.options = append(fl.options, cur)
			fl.index = 1
		}
		return fl
	}
	text := func(label, value string, numeric bool, placeholder string) *field {
		return &field{label: label, kind: fieldText, input: components.NewTextInput(placeholder, value, numeric, 64)}
	}

	fields := make([]*field, fieldCount)
	fields[fMode] = &field{
		label:   "Mode",
		kind:    fieldChoice,
		options: []string{string(question.ModeTimed), string(question.ModeTutor), string(question.ModeCustom)},
	}
	fields[fMode].index = max(slices.Index(fields[fMode].options, string(mode)), 0)
	fields[fSubject] = choice("Subject", f.Subject)
	fields[fSystem] = choice("System", f.System)
	fields[fDifficulty] = choice("Difficulty", f.Difficulty)
	fields[fStatus] = choice("Status", f.Status)
	fields[fQuery] = text("Search", f.Query, false, "keywords")
	fields[fTags] = text("Tags", strings.Join(f.Tags, ", "), false, "comma separated")
	fields[fCount] = text("Questions", strconv.Itoa(f.QuestionCount), true, "")
	fields[fSeconds] = text("Seconds each", seconds, true, strconv.Itoa(question.DefaultTimePerQuestionSeconds))
	fields[fShuffle] = &field{label: "Shuffle", kind: fieldToggle, on: f.RandomizeOrder}
	fields[fExplain] = &field{label: "Explain on answer", kind: fieldToggle, on: f.ShowExplanationOnSubmit}

	return &SetupScreen{deps: deps, fields: fields}
}

func (s *SetupScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.loadPreview(s.Filters())}
	if src := s.deps.Filters; src != nil {
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			opts, err := src.FetchFilters(ctx)
			return optionsLoadedMsg{options: opts, err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (s *SetupScreen) Title() string {
	return "Build a Block"
}

func (s *SetupScreen) HandlesEscape() bool {
	return s.editing
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Done"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Edit"},
		{Key: "P", Description: "Preview"},
		{Key: "M", Description: "More"},
		{Key: "S", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

// Mode returns the selected mode.
func (s *SetupScreen) Mode() question.Mode {
	return question.Mode(s.fields[fMode].value())
}

// Filters returns the filters described by the form.
func (s *SetupScreen) Filters() question.Filters {
	f := question.Filters{
		Subject:                 s.fields[fSubject].value(),
		System:                  s.fields[fSystem].value(),
		Difficulty:              s.fields[fDifficulty].value(),
		Status:                  s.fields[fStatus].value(),
		Query:                   s.fields[fQuery].value(),
		RandomizeOrder:          s.fields[fShuffle].on,
		ShowExplanationOnSubmit: s.fields[fExplain].on,
	}
	for _, t := range strings.Split(s.fields[fTags].value(), ",") {
		if t = strings.TrimSpace(t); t != "" {
			f.Tags = append(f.Tags, t)
		}
	}
	if n, ok := s.fields[fCount].input.IntValue(); ok {
		f.QuestionCount = n
	}
	if n, ok := s.fields[fSeconds].input.IntValue(); ok {
		f.TimePerQuestionSeconds = &n
	}
	return f
}

// refreshPreview reloads the preview when the filters select a different
// result set.
func (s *SetupScreen) refreshPreview() tea.Cmd {
	if s.deps.Preview == nil {
		return nil
	}
	f := s.Filters()
	if s.previewed != "" && f.Fingerprint() == s.previewed {
		return nil
	}
	return s.loadPreview(f)
}

func (s *SetupScreen) loadPreview(f question.Filters) tea.Cmd {
	if s.deps.Preview == nil {
		return nil
	}
	s.previewed = f.Fingerprint()
	return s.deps.Preview.LoadPreview(f)
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case optionsLoadedMsg:
		if msg.err != nil {
			s.errMsg = "filter options unavailable: " + msg.err.Error()
			return s, nil
		}
		s.fields[fSubject].setOptions(msg.options.Subjects)
		s.fields[fSystem].setOptions(msg.options.Systems)
		s.fields[fDifficulty].setOptions(msg.options.Difficulties)
		s.fields[fStatus].setOptions(msg.options.Statuses)
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, s.checkStarted()
}

// checkStarted moves on to the block once the controller has loaded it.
func (s *SetupScreen) checkStarted() tea.Cmd {
	ctrl := s.deps.Practice
	if !s.starting || ctrl.Loading() {
		return nil
	}
	s.starting = false
	if ctrl.Err() != nil {
		s.errMsg = ctrl.ErrorMessage()
		return nil
	}
	return router.Push(practice.New(s.deps))
}

func (s *SetupScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	cur := s.fields[s.selected]

	if s.editing {
		switch msg.String() {
		case "enter", "esc", "tab":
			s.editing = false
			cur.input.Blur()
			return s, s.refreshPreview()
		}
		var cmd tea.Cmd
		cur.input, cmd = cur.input.Update(msg)
		return s, cmd
	}

	switch {
	case key.Matches(msg, components.KeyUp):
		s.selected = max(s.selected-1, 0)
	case key.Matches(msg, components.KeyDown):
		s.selected = min(s.selected+1, fieldCount-1)
	case key.Matches(msg, components.KeyLeft):
		return s, s.cycle(cur, -1)
	case key.Matches(msg, components.KeyRight):
		return s, s.cycle(cur, 1)
	case key.Matches(msg, components.KeyToggle):
		if cur.kind == fieldToggle {
			cur.on = !cur.on
		}
	case key.Matches(msg, components.KeyEnter):
		switch cur.kind {
		case fieldText:
			s.editing = true
			return s, cur.input.Focus()
		case fieldToggle:
			cur.on = !cur.on
		}
	default:
		switch strings.ToLower(msg.String()) {
		case "p":
			return s, s.loadPreview(s.Filters())
		case "m":
			if s.deps.Preview != nil {
				return s, s.deps.Preview.LoadMorePreview()
			}
		case "s":
			return s, s.start()
		}
	}
	return s, nil
}

func (s *SetupScreen) cycle(f *field, step int) tea.Cmd {
	switch f.kind {
	case fieldChoice:
		n := len(f.options)
		if n == 0 {
			return nil
		}
		f.index = (f.index + step + n) % n
		if s.selected == fMode {
			return nil
		}
		return s.refreshPreview()
	case fieldToggle:
		f.on = !f.on
	}
	return nil
}

func (s *SetupScreen) start() tea.Cmd {
	if s.starting {
		return nil
	}
	s.errMsg = ""
	cmd := s.deps.Practice.StartSession(s.Mode(), s.Filters())
	if cmd == nil {
		s.errMsg = s.deps.Practice.ErrorMessage()
		return nil
	}
	s.starting = true
	return cmd
}
