// Package welcome is the splash shown at startup.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewcoach/internal/router"
	"github.com/abhisek/interviewcoach/internal/ui/layout"
	"github.com/abhisek/interviewcoach/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bannerAt     = 400 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

// The three practice steps, revealed one per tick after the banner.
var steps = []string{
	"1  Upload your resume and the job description",
	"2  Answer tailored behavioral questions",
	"3  Review scores and feedback",
}

type tickMsg time.Time

// WelcomeScreen shows a short intro before handing over to the home screen.
type WelcomeScreen struct {
	homeFactory  func() router.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ router.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() router.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Any key", Description: "Continue"}}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		// A key during the animation finishes it; after that it continues.
		if w.elapsed < totalDur {
			w.elapsed = totalDur
			return w, nil
		}
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// visibleSteps is how many practice steps have been revealed.
func (w *WelcomeScreen) visibleSteps() int {
	if w.elapsed < bannerAt {
		return 0
	}
	n := int((w.elapsed-bannerAt)/(3*tickInterval)) + 1
	return min(n, len(steps))
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	if w.elapsed >= bannerAt {
		sections = append(sections, RenderBanner(width), "")
	}

	stepStyle := lipgloss.NewStyle().Foreground(theme.Text)
	for _, s := range steps[:w.visibleSteps()] {
		sections = append(sections, stepStyle.Render(s))
	}

	if w.elapsed >= totalDur {
		sections = append(sections, "")
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, hint)
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
