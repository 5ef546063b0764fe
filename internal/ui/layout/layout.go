package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewcoach/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24
)

// Steps are the practice stages shown in the header, in order.
var Steps = []string{"Upload", "Mock Interview", "Results"}

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"The window is too small for a practice session.\n\nResize to at least %d x %d\n(currently %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader renders the app name, the screen title and, when step is a
// valid index into Steps, the practice progress. Pass -1 outside the
// practice flow.
func RenderHeader(title string, step int, width int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Interview Coach")
	steps := renderSteps(step)

	inner := max(width-4, 0)
	// The step indicator already names the stage.
	if steps != "" {
		title = ""
	}
	room := inner - lipgloss.Width(name) - lipgloss.Width(steps) - 2
	title = truncate(title, room)
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(name), 1)
	rightGap := max(inner-lipgloss.Width(name)-leftGap-lipgloss.Width(center)-lipgloss.Width(steps), 1)

	content := name + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + steps
	return bar(width).Render(content)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func renderSteps(step int) string {
	if step < 0 || step >= len(Steps) {
		return ""
	}
	parts := make([]string, len(Steps))
	for i, label := range Steps {
		n := fmt.Sprintf("%d", i+1)
		switch {
		case i < step:
			parts[i] = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		case i == step:
			parts[i] = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(n + " " + label)
		default:
			parts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render(n)
		}
	}
	return strings.Join(parts, lipgloss.NewStyle().Foreground(theme.Border).Render(" › ")) + " "
}

// RenderFooter renders key hints left to right. Hints that do not fit
// are dropped, except the last one.
func RenderFooter(hints []KeyHint, width int) string {
	sep := "   "
	inner := max(width-4, 0)

	rendered := make([]string, len(hints))
	for i, h := range hints {
		rendered[i] = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
	}

	var kept []string
	used := 2
	for i, r := range rendered {
		w := lipgloss.Width(r)
		if len(kept) > 0 {
			w += len(sep)
		}
		last := i == len(rendered)-1
		reserve := 0
		if !last {
			reserve = len(sep) + lipgloss.Width(rendered[len(rendered)-1])
		}
		if used+w+reserve > inner && !last {
			continue
		}
		kept = append(kept, r)
		used += w
	}

	return bar(width).Render("  " + strings.Join(kept, sep))
}

// RenderFrame stacks header, content and footer, sizing the content to
// fill the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)

	return header + "\n" + body + "\n" + footer
}
