package setup

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/theme"
)

func (s *SetupScreen) View(width, height int) string {
	formWidth := 44
	previewWidth := max(width-formWidth-6, 20)

	form := s.renderForm(formWidth)
	if s.starting {
		form += "\n\n" + theme.Hint.Render("Loading questions...")
	}
	if s.errMsg != "" {
		form += "\n\n" + lipgloss.NewStyle().Width(formWidth).Render(theme.ErrorText.Render(s.errMsg))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 2).Render(form),
		lipgloss.NewStyle().Padding(1, 0).Render(s.renderPreview(previewWidth, height-2)),
	)
}

func (s *SetupScreen) renderForm(width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Filters"))
	b.WriteString("\n\n")

	for i, f := range s.fields {
		if !s.relevant(fieldID(i)) {
			continue
		}
		label := fmt.Sprintf("%-18s", f.label)
		value := s.fieldValue(f, fieldID(i))

		line := label + value
		switch {
		case fieldID(i) == s.selected && s.editing:
			line = theme.Selected.Render("✎ "+label) + value
		case fieldID(i) == s.selected:
			line = theme.Selected.Render("▸ " + line)
		default:
			line = theme.Unselected.Render("  " + line)
		}
		b.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(modeHint(s.Mode(), s.Filters())))
	return b.String()
}

func (s *SetupScreen) fieldValue(f *field, id fieldID) string {
	switch f.kind {
	case fieldChoice:
		v := f.value()
		if v == "" {
			v = "any"
		}
		return "‹ " + v + " ›"
	case fieldToggle:
		if f.on {
			return "[x]"
		}
		return "[ ]"
	}
	if s.editing && id == s.selected {
		return f.input.View()
	}
	if v := f.value(); v != "" {
		return v
	}
	return theme.Disabled.Render(f.input.Model.Placeholder)
}

// relevant hides fields the selected mode ignores.
func (s *SetupScreen) relevant(id fieldID) bool {
	switch id {
	case fSeconds:
		return s.Mode() != question.ModeTutor
	case fExplain:
		return s.Mode() == question.ModeCustom
	}
	return true
}

func modeHint(mode question.Mode, f question.Filters) string {
	switch mode {
	case question.ModeTimed:
		per := question.DefaultTimePerQuestionSeconds
		if f.TimePerQuestionSeconds != nil {
			per = *f.TimePerQuestionSeconds
		}
		return fmt.Sprintf("Timed: %ds per question, explanations after the block.", per)
	case question.ModeTutor:
		return "Tutor: untimed, explanation after each answer."
	default:
		return "Custom: timed only if seconds are set."
	}
}

func (s *SetupScreen) renderPreview(width, height int) string {
	p := s.deps.Preview
	if p == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Preview"))
	b.WriteString("\n")

	switch {
	case p.Loading() && len(p.Items()) == 0:
		b.WriteString(theme.Hint.Render("Searching..."))
	case p.Err() != nil:
		b.WriteString(theme.ErrorText.Render(p.ErrorMessage()))
	case p.Total() == 0:
		b.WriteString(theme.Hint.Render("No questions match these filters."))
	default:
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Showing %d of %d matches", len(p.Items()), p.Total())))
	}
	b.WriteString("\n\n")

	rows := max(height-6, 1)
	items := p.Items()
	for i, q := range items[:min(rows, len(items))] {
		line := fmt.Sprintf("%3d. %s", i+1, oneLine(q.Stem))
		b.WriteString(lipgloss.NewStyle().MaxWidth(width).Foreground(theme.Text).Render(line))
		b.WriteString("\n")
	}
	if len(items) > rows {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  … %d more loaded", len(items)-rows)))
		b.WriteString("\n")
	}
	if p.CanLoadMore() {
		hint := "M loads more"
		if p.Loading() {
			hint = "Loading more..."
		}
		b.WriteString(theme.Hint.Render(hint))
	}
	return components.Panel("", b.String(), width)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
