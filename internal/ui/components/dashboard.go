package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewcoach/internal/report"
	"github.com/abhisek/interviewcoach/internal/ui/theme"
)

// RenderDashboard renders the evaluation dashboard. Only the parts
// present in d are drawn.
func RenderDashboard(d report.Dashboard, width int) string {
	if d.Empty() {
		return theme.Hint.Render("The evaluator returned no results for this attempt.")
	}

	var blocks []string

	if d.Notice != "" {
		blocks = append(blocks, theme.Notice.Width(width-2).Render("⚠ "+d.Notice))
	}

	if p := d.Prediction; p != nil {
		blocks = append(blocks, renderPrediction(*p, width))
	}

	for _, sec := range d.Sections {
		lines := []string{theme.Heading.Render(sec.Title)}
		for _, card := range sec.Cards {
			lines = append(lines, NewScoreBar(card, width-2).View())
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	for _, fb := range d.Feedback {
		blocks = append(blocks, renderList(fb.Title, fb.Items, "•", width))
	}

	if len(d.Resources) > 0 {
		blocks = append(blocks, renderList("Learning Resources", d.Resources, "→", width))
	}

	return strings.Join(blocks, "\n\n")
}

func renderPrediction(p report.Prediction, width int) string {
	score := theme.BandStyle(p.Band).Render(fmt.Sprintf("%d%%", int(p.Score+0.5)))
	head := theme.Heading.Render("Success Prediction") + "  " + score +
		"  " + theme.Hint.Render(bandLabel(p.Band))
	if len(p.Justification) == 0 {
		return head
	}
	return head + "\n" + renderItems(p.Justification, "·", width)
}

func renderList(title string, items []string, bullet string, width int) string {
	return theme.Heading.Render(title) + "\n" + renderItems(items, bullet, width)
}

func renderItems(items []string, bullet string, width int) string {
	style := lipgloss.NewStyle().Foreground(theme.Text).Width(width - 4)
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(bullet) + " " + style.Render(it)
	}
	return strings.Join(lines, "\n")
}

func bandLabel(b report.Band) string {
	switch b {
	case report.BandHigh:
		return "strong"
	case report.BandMedium:
		return "promising"
	default:
		return "needs work"
	}
}
