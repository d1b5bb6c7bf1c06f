package assess

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/assessment"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/layout"
	"github.com/abhisek/examprep/internal/ui/theme"
)

func (a *AssessScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	l := a.deps.Assessment

	var body string
	switch l.Stage() {
	case assessment.StageSetup:
		body = a.renderForm(cw)
	case assessment.StageLoading:
		body = theme.Hint.Render("Creating assessment...")
	case assessment.StageRunning, assessment.StageSubmitting:
		body = a.renderRunning(cw)
	case assessment.StageCompleted:
		body = a.renderCompleted(cw)
	}
	return components.Center(body, width, height)
}

func (a *AssessScreen) renderForm(cw int) string {
	var b strings.Builder
	for i, f := range a.form {
		label := fmt.Sprintf("%-18s", f.label)
		if i == a.focus {
			label = theme.Selected.Render("▸ " + label)
		} else {
			label = theme.Unselected.Render("  " + label)
		}
		b.WriteString(label + f.input.View())
		b.WriteString("\n")
	}
	if msg := a.deps.Assessment.ErrorMessage(); msg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(cw - 6).Render(theme.ErrorText.Render(msg)))
	}
	return components.Panel("New assessment", b.String(), cw)
}

func (a *AssessScreen) renderRunning(cw int) string {
	l := a.deps.Assessment
	run := l.Run()

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", run.CurrentIndex+1, len(run.Questions))))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("Answered", len(run.Answers), len(run.Questions), cw).View())
	b.WriteString("\n\n")
	b.WriteString(a.choice.View(cw))
	b.WriteString("\n")

	switch {
	case a.confirm:
		b.WriteString(theme.ErrorText.Render("Abandon this assessment? Nothing will be submitted. (y/n)"))
	case run.Stage == assessment.StageSubmitting && run.TimedOut:
		b.WriteString(theme.ClockOut.Render("Time is up. Submitting your answers..."))
	case run.Stage == assessment.StageSubmitting:
		b.WriteString(theme.Hint.Render("Submitting..."))
	case l.Err() != nil:
		b.WriteString(theme.ErrorText.Render(l.ErrorMessage()))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Press Ctrl+R to try the submission again."))
	case run.TimedOut:
		b.WriteString(theme.ClockOut.Render("Time is up."))
	}
	return b.String()
}

func (a *AssessScreen) renderCompleted(cw int) string {
	run := a.deps.Assessment.Run()
	if run.Submission == nil {
		return ""
	}
	score := run.Submission.Score

	var b strings.Builder
	if run.TimedOut {
		b.WriteString(theme.ClockOut.Render("Submitted automatically when time ran out."))
		b.WriteString("\n\n")
	}
	b.WriteString(fmt.Sprintf("%s   %s   %s\n",
		theme.Correct.Render(fmt.Sprintf("✓ %d correct", score.Correct)),
		theme.Incorrect.Render(fmt.Sprintf("✗ %d incorrect", score.Incorrect)),
		theme.Disabled.Render(fmt.Sprintf("○ %d omitted", score.Omitted)),
	))
	b.WriteString(theme.Body.Render(fmt.Sprintf("Score %.1f%% of %d questions", score.Percentage, score.TotalQuestions)))
	if score.DurationSeconds > 0 {
		b.WriteString(theme.Subtitle.Render("  in " + layout.FormatClock(score.DurationSeconds)))
	}
	b.WriteString("\n\n")
	b.WriteString(layout.Divider(cw - 6))
	b.WriteString("\n")

	switch {
	case run.Analytics != nil:
		snap := run.Analytics
		b.WriteString(theme.Answered.Render(fmt.Sprintf("Overall: %d answered, %.0f%% correct, avg %.0fs",
			snap.TotalAnswered, snap.Accuracy*100, snap.AverageSeconds)))
		b.WriteString("\n")
		for _, st := range snap.Subjects {
			b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %-20s %4d  %3.0f%%", st.Subject, st.Answered, st.Accuracy*100)))
			b.WriteString("\n")
		}
	case run.AnalyticsPending:
		b.WriteString(theme.Hint.Render("Analytics pending..."))
	default:
		b.WriteString(theme.Hint.Render("Analytics unavailable."))
	}
	return components.Panel("Assessment complete", b.String(), cw)
}
