package summary

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/summary"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/layout"
	"github.com/abhisek/examprep/internal/ui/theme"
)

// SummaryScreen displays a completed block's results.
type SummaryScreen struct {
	summary summary.Summary
	stems   map[string]string
	offset  int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. questions, when given, supply the stems
// shown next to each result.
func New(s summary.Summary, questions []question.Question) *SummaryScreen {
	stems := make(map[string]string, len(questions))
	for _, q := range questions {
		stems[q.ID] = q.Stem
	}
	return &SummaryScreen{summary: s, stems: stems}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Block Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch {
	case key.Matches(kmsg, components.KeyEnter):
		return s, router.PopToRoot
	case key.Matches(kmsg, components.KeyUp):
		s.offset = max(s.offset-1, 0)
	case key.Matches(kmsg, components.KeyDown):
		s.offset = min(s.offset+1, max(len(s.summary.Performances)-1, 0))
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("%s block complete", modeName(sum.Mode))))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(sum.CompletedAt.Local().Format("Mon Jan 2 15:04")))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("%s   %s   %s   %s",
		theme.Correct.Render(fmt.Sprintf("✓ %d correct", sum.Correct)),
		theme.Incorrect.Render(fmt.Sprintf("✗ %d incorrect", sum.Incorrect)),
		theme.Disabled.Render(fmt.Sprintf("○ %d omitted", sum.Omitted)),
		theme.Body.Render(fmt.Sprintf("%.0f%%", sum.Accuracy()*100)),
	)
	b.WriteString(stats)
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Average time per question: %s",
		layout.FormatClock(sum.AverageSeconds))))
	b.WriteString("\n\n")
	b.WriteString(layout.Divider(cw))
	b.WriteString("\n")

	// Header, stats and the card frame take about 14 rows.
	rows := max(height-14, 3)
	end := min(s.offset+rows, len(sum.Performances))
	for _, p := range sum.Performances[s.offset:end] {
		b.WriteString(s.performanceLine(p, cw))
		b.WriteString("\n")
	}
	if end < len(sum.Performances) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("… %d more", len(sum.Performances)-end)))
	}

	return components.Center(components.Panel("", b.String(), cw), width, height)
}

func (s *SummaryScreen) performanceLine(p summary.Performance, cw int) string {
	mark, style := "○", theme.Disabled
	selected := "—"
	if p.Selected != nil {
		selected = *p.Selected
		mark, style = "✗", theme.Incorrect
		if p.Correct {
			mark, style = "✓", theme.Correct
		}
	}
	head := fmt.Sprintf("%s %2d. %s→%s  %s", mark, p.Index+1, selected, p.CorrectAnswer,
		layout.FormatClock(p.ElapsedSeconds))
	line := style.Render(head)

	if stem := s.stems[p.QuestionID]; stem != "" {
		room := cw - lipgloss.Width(head) - 6
		if room > 8 {
			line += "  " + theme.Subtitle.Render(truncate(stem, room))
		}
	}
	return line
}

func modeName(m question.Mode) string {
	switch m {
	case question.ModeTimed:
		return "Timed"
	case question.ModeTutor:
		return "Tutor"
	case question.ModeCustom:
		return "Custom"
	}
	return "Practice"
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
