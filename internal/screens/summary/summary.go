package summary

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewcoach/internal/report"
	"github.com/abhisek/interviewcoach/internal/router"
	"github.com/abhisek/interviewcoach/internal/store"
	"github.com/abhisek/interviewcoach/internal/ui/components"
	"github.com/abhisek/interviewcoach/internal/ui/layout"
	"github.com/abhisek/interviewcoach/internal/ui/theme"
)

// SummaryScreen displays a stored attempt: its dashboard and the
// questions with the answers that were given.
type SummaryScreen struct {
	attempt   *store.Attempt
	dashboard report.Dashboard
	scroll    int
}

var _ router.Screen = (*SummaryScreen)(nil)
var _ router.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(attempt *store.Attempt) *SummaryScreen {
	s := &SummaryScreen{attempt: attempt}
	if attempt != nil {
		var r report.Report
		if err := json.Unmarshal(attempt.Report, &r); err == nil {
			s.dashboard = report.Project(&r)
		}
	}
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Attempt Details"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			s.scroll++
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	a := s.attempt
	if a == nil {
		return ""
	}
	cw := min(width-4, 100)

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(a.Timestamp.Format("Monday, Jan 02 2006 at 15:04")))
	b.WriteString("\n")

	meta := fmt.Sprintf("Resume: %s    Questions: %d    Answered: %d",
		orDash(a.ResumeName), len(a.Questions), countAnswered(a.Answers))
	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(meta))
	b.WriteString("\n\n")

	b.WriteString(components.RenderDashboard(s.dashboard, cw))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
	b.WriteString(theme.Heading.Render("Your Answers"))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")

	answerStyle := lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 4).PaddingLeft(4)
	for i, q := range a.Questions {
		b.WriteString(theme.Body.Bold(true).Width(cw).Render(fmt.Sprintf("%d. %s", i+1, q)))
		b.WriteString("\n")
		ans := ""
		if i < len(a.Answers) {
			ans = strings.TrimSpace(a.Answers[i])
		}
		if ans == "" {
			b.WriteString(theme.Hint.PaddingLeft(4).Render("(no answer)"))
		} else {
			b.WriteString(answerStyle.Render(ans))
		}
		b.WriteString("\n\n")
	}

	lines := strings.Split(b.String(), "\n")
	maxScroll := max(len(lines)-height, 0)
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}
	lines = lines[s.scroll:]

	return lipgloss.NewStyle().
		PaddingLeft(max((width-cw)/2, 0)).
		Render(strings.Join(lines, "\n"))
}

func countAnswered(answers []string) int {
	n := 0
	for _, a := range answers {
		if strings.TrimSpace(a) != "" {
			n++
		}
	}
	return n
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
