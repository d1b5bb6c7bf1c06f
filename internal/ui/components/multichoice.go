package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/ui/theme"
)

// MultiChoice renders one question and tracks the highlighted choice. The
// chosen answer itself lives in the engine; the component only reports
// which label the learner picked.
type MultiChoice struct {
	Question question.Question

	// Chosen is the recorded answer, empty if none.
	Chosen string

	// Revealed shows correctness and the explanation.
	Revealed bool

	// Locked ignores picks, e.g. after completion or expiry.
	Locked bool

	cursor int
}

// NewMultiChoice creates a component for q with the cursor on the chosen
// answer, or on the first choice.
func NewMultiChoice(q question.Question, chosen string) MultiChoice {
	m := MultiChoice{Question: q, Chosen: chosen}
	for i, c := range q.Choices {
		if c.Label == chosen {
			m.cursor = i
		}
	}
	return m
}

// Update moves the cursor and returns the label picked with Enter or by
// typing the label letter directly. picked is empty when nothing was chosen.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, string) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Question.Choices) == 0 {
		return m, ""
	}

	switch {
	case key.Matches(kmsg, KeyUp):
		m.cursor = max(m.cursor-1, 0)
		return m, ""
	case key.Matches(kmsg, KeyDown):
		m.cursor = min(m.cursor+1, len(m.Question.Choices)-1)
		return m, ""
	case key.Matches(kmsg, KeyEnter):
		if m.Locked {
			return m, ""
		}
		return m, m.Question.Choices[m.cursor].Label
	}

	if m.Locked {
		return m, ""
	}
	typed := strings.ToUpper(kmsg.String())
	for i, c := range m.Question.Choices {
		if c.Label == typed {
			m.cursor = i
			return m, c.Label
		}
	}
	return m, ""
}

// View renders the stem, the choices and, once revealed, the explanation.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	wrap := lipgloss.NewStyle().Width(max(width, 20))

	b.WriteString(wrap.Foreground(theme.Text).Bold(true).Render(m.Question.Stem))
	b.WriteString("\n\n")

	for i, c := range m.Question.Choices {
		prefix := "  "
		if i == m.cursor && !m.Locked {
			prefix = "▸ "
		}
		marker := " "
		if c.Label == m.Chosen {
			marker = "●"
		}
		line := fmt.Sprintf("%s%s %s) %s", prefix, marker, c.Label, c.Text)
		b.WriteString(wrap.Render(m.choiceStyle(i, c).Render(line)))
		b.WriteString("\n")
	}

	if m.Revealed {
		b.WriteString("\n")
		b.WriteString(m.explanationView(wrap))
	}
	return b.String()
}

func (m MultiChoice) choiceStyle(i int, c question.Choice) lipgloss.Style {
	switch {
	case m.Revealed && c.Label == m.Question.CorrectAnswer:
		return theme.Correct
	case m.Revealed && c.Label == m.Chosen:
		return theme.Incorrect
	case m.Revealed:
		return theme.Disabled
	case c.Label == m.Chosen:
		return theme.Answered
	case i == m.cursor && !m.Locked:
		return theme.Selected
	default:
		return theme.Unselected
	}
}

func (m MultiChoice) explanationView(wrap lipgloss.Style) string {
	var b strings.Builder
	verdict := theme.Incorrect.Render("Omitted")
	switch {
	case m.Chosen == m.Question.CorrectAnswer:
		verdict = theme.Correct.Render("Correct")
	case m.Chosen != "":
		verdict = theme.Incorrect.Render("Incorrect")
	}
	answer := m.Question.CorrectAnswer
	if c, ok := m.Question.ChoiceByLabel(answer); ok && c.Text != "" {
		answer = fmt.Sprintf("%s) %s", c.Label, c.Text)
	}
	b.WriteString(verdict)
	b.WriteString(theme.Subtitle.Render("  answer " + answer))
	b.WriteString("\n")

	exp := m.Question.Explanation
	if exp == nil {
		b.WriteString(theme.Hint.Render("No explanation available."))
		return b.String()
	}
	if exp.Summary != "" {
		b.WriteString(wrap.Foreground(theme.Text).Render(exp.Summary))
		b.WriteString("\n")
	}
	for _, c := range m.Question.Choices {
		if why, ok := exp.Choices[c.Label]; ok && why != "" {
			b.WriteString(wrap.Foreground(theme.TextDim).Render(fmt.Sprintf("%s: %s", c.Label, why)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
