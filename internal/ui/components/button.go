package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewcoach/internal/ui/theme"
)

// Button is a styled button component. While Busy it shows BusyLabel
// and ignores presses.
type Button struct {
	Label     string
	BusyLabel string
	Active    bool
	Busy      bool
	OnPress   func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label, busyLabel string, onPress func() tea.Cmd) Button {
	return Button{
		Label:     label,
		BusyLabel: busyLabel,
		Active:    true,
		OnPress:   onPress,
	}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Active || b.Busy {
		return b, nil
	}

	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if kmsg.String() == "enter" && b.OnPress != nil {
			return b, b.OnPress()
		}
	}

	return b, nil
}

// View renders the button.
func (b Button) View() string {
	if b.Busy {
		return theme.ButtonInactive.Render("  " + b.BusyLabel + " ")
	}
	label := "  ▸ " + b.Label + " "
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
