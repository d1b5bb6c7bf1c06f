package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/theme"
)

func (p *PracticeScreen) View(width, height int) string {
	s := p.deps.Practice.Session()
	if s == nil {
		return components.Center(theme.Hint.Render("No active block."), width, height)
	}
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", s.CurrentIndex+1, len(s.Questions))))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("Answered", s.AnsweredCount(), len(s.Questions), cw).View())
	b.WriteString("\n")
	b.WriteString(renderStrip(p, cw))
	b.WriteString("\n\n")
	b.WriteString(p.choice.View(cw))

	switch {
	case p.confirm == confirmFinish:
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(fmt.Sprintf("Finish now? %d unanswered question(s) will be omitted. (y/n)",
			len(s.Questions)-s.AnsweredCount())))
	case p.confirm == confirmQuit:
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render("Discard this block without saving? (y/n)"))
	case s.Completed && s.Summary != nil:
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render(fmt.Sprintf("Block complete: %d/%d correct. Press S for the summary.",
			s.Summary.Correct, s.Summary.Total)))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Padding(1, 0).Render(b.String()))
}

// renderStrip draws one cell per question: the current one highlighted,
// answered ones filled and, once revealed, marked right or wrong.
func renderStrip(p *PracticeScreen, cw int) string {
	s := p.deps.Practice.Session()
	cells := make([]string, 0, len(s.Questions))
	for i, q := range s.Questions {
		answer, answered := s.Answer(q.ID)
		cell, style := "·", theme.Disabled
		switch {
		case answered && s.Revealed(q.ID) && answer == q.CorrectAnswer:
			cell, style = "✓", theme.Correct
		case answered && s.Revealed(q.ID):
			cell, style = "✗", theme.Incorrect
		case answered:
			cell, style = "●", theme.Answered
		}
		if i == s.CurrentIndex {
			style = style.Underline(true).Foreground(theme.Primary)
		}
		cells = append(cells, style.Render(cell))
	}
	return lipgloss.NewStyle().MaxWidth(cw).Render(strings.Join(cells, " "))
}
