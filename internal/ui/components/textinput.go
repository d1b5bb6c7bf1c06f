package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput wraps bubbles/textinput for the setup forms.
type TextInput struct {
	Model       textinput.Model
	NumericOnly bool
}

// NewTextInput creates an unfocused text input holding value.
func NewTextInput(placeholder, value string, numericOnly bool, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.SetValue(value)
	return TextInput{Model: ti, NumericOnly: numericOnly}
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Update handles messages. Numeric inputs drop non-digit runes.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			k := kmsg.String()
			if len(k) == 1 && (k[0] < '0' || k[0] > '9') {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// IntValue returns the value as an integer. ok is false when the input is
// empty or not a number.
func (t TextInput) IntValue() (int, bool) {
	n, err := strconv.Atoi(t.Value())
	if err != nil {
		return 0, false
	}
	return n, true
}
