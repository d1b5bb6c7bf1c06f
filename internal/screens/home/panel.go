package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/summary"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/layout"
	"github.com/abhisek/examprep/internal/ui/theme"
)

const titleArt = `┌─┐─┐ ┬┌─┐┌┬┐┌─┐┬─┐┌─┐┌─┐
├┤ ┌┴┬┘├─┤│││├─┘├┬┘├┤ ├─┘
└─┘┴ └─┴ ┴┴ ┴┴  ┴└─└─┘┴  `

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(titleArt)
}

// renderRecentPanel shows the last completed block and, when the local
// event log is available, accuracy over recent answers.
func renderRecentPanel(last *summary.Summary, recent *recentAccuracyMsg, cw int) string {
	var lines []string
	if last == nil {
		lines = append(lines, theme.Hint.Render("No completed blocks yet."))
	} else {
		lines = append(lines,
			theme.Body.Render(fmt.Sprintf("Last %s block: %d/%d correct (%.0f%%)",
				last.Mode, last.Correct, last.Total, last.Accuracy()*100)),
			theme.Subtitle.Render(fmt.Sprintf("%d omitted · avg %s per question · %s",
				last.Omitted,
				layout.FormatClock(last.AverageSeconds),
				last.CompletedAt.Local().Format("Jan 2 15:04"))),
		)
	}
	if recent != nil && recent.answered > 0 {
		lines = append(lines, theme.Answered.Render(fmt.Sprintf("Last %d answers: %.0f%% correct",
			recent.answered, recent.accuracy*100)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func renderMenu(m components.Menu, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(m.View(buttonWidth))
}
