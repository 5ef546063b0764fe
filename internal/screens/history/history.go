package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewcoach/internal/report"
	"github.com/abhisek/interviewcoach/internal/router"
	"github.com/abhisek/interviewcoach/internal/screens/summary"
	"github.com/abhisek/interviewcoach/internal/store"
	"github.com/abhisek/interviewcoach/internal/ui/layout"
	"github.com/abhisek/interviewcoach/internal/ui/theme"
)

const listLimit = 50

type historyLoadedMsg struct {
	Attempts []store.Attempt
	Err      error
}

// HistoryScreen lists past practice attempts.
type HistoryScreen struct {
	attemptRepo store.AttemptRepo
	attempts    []store.Attempt
	selected    int
	loaded      bool
	errMsg      string
}

var _ router.Screen = (*HistoryScreen)(nil)
var _ router.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(attemptRepo store.AttemptRepo) *HistoryScreen {
	return &HistoryScreen{attemptRepo: attemptRepo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.attemptRepo
	return func() tea.Msg {
		attempts, err := repo.List(context.Background(), store.QueryOpts{Limit: listLimit})
		return historyLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Past Attempts"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.attempts = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected < len(s.attempts) {
				a := s.attempts[s.selected]
				return s, func() tea.Msg {
					return router.PushScreenMsg{Screen: summary.New(&a)}
				}
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, a := range s.attempts {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		name := a.ResumeName
		if name == "" {
			name = "(no resume)"
		}
		line := fmt.Sprintf("%s%s  %-24s  %d questions  ",
			prefix, a.Timestamp.Format("Jan 02, 2006 15:04"), truncate(name, 24), len(a.Questions))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)+renderScore(a.Report)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderScore shows the headline score of a stored report.
func renderScore(raw json.RawMessage) string {
	score, ok := report.HeadlineScore(raw)
	if !ok {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("  --")
	}
	return theme.BandStyle(report.BandFor(score)).Render(fmt.Sprintf("%3.0f%%", score))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
