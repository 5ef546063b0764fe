package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewcoach/internal/report"
	"github.com/abhisek/interviewcoach/internal/ui/theme"
)

// ScoreBar displays a 0-100 score as a horizontal bar in its band color.
type ScoreBar struct {
	Label string
	Score float64
	Band  report.Band
	Width int
}

// NewScoreBar creates a score bar for a dashboard card.
func NewScoreBar(card report.ScoreCard, width int) ScoreBar {
	return ScoreBar{
		Label: card.Title,
		Score: card.Score,
		Band:  card.Band,
		Width: width,
	}
}

// View renders the score bar.
func (p ScoreBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Width(28).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	scoreWidth := 7 // "  100%"

	barWidth := p.Width - labelWidth - scoreWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Score / 100)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	filledStr := lipgloss.NewStyle().
		Background(theme.BandColor(p.Band)).
		Render(strings.Repeat(" ", filled))

	emptyStr := theme.ProgressEmpty.
		Render(strings.Repeat(" ", empty))

	result += filledStr + emptyStr
	result += theme.BandStyle(p.Band).Render(fmt.Sprintf("  %d%%", int(p.Score+0.5)))

	return result
}
