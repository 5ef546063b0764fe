package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewcoach/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and a focus border.
type TextInput struct {
	Label string
	Model textinput.Model
}

// NewTextInput creates a blurred, labelled text input. A charLimit of 0
// means no limit.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit

	return TextInput{
		Label: label,
		Model: ti,
	}
}

// Focus focuses the input and returns the cursor blink command.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label above a bordered input box of the given width.
func (t TextInput) View(width int) string {
	box := theme.InputBlurred
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	if t.Focused() {
		box = theme.InputFocused
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	if width > 4 {
		box = box.Width(width)
	}
	return label.Render(t.Label) + "\n" + box.Render(t.Model.View())
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}
