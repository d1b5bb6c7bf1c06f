package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/ui/theme"
)

// ContentWidth returns the uniform inner width for a screen's sections.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 72)
}

// Panel wraps content in a rounded card with an optional title.
func Panel(title, content string, cw int) string {
	if title != "" {
		content = theme.Title.Render(title) + "\n\n" + content
	}
	return theme.Card.
		Width(cw).
		Render(content)
}

// Center places block horizontally and vertically within the area.
func Center(block string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
