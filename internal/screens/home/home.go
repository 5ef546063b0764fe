package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewcoach/internal/evalapi"
	"github.com/abhisek/interviewcoach/internal/router"
	"github.com/abhisek/interviewcoach/internal/screens/history"
	"github.com/abhisek/interviewcoach/internal/screens/interview"
	"github.com/abhisek/interviewcoach/internal/store"
	"github.com/abhisek/interviewcoach/internal/ui/components"
	"github.com/abhisek/interviewcoach/internal/ui/theme"
	"github.com/abhisek/interviewcoach/internal/workflow"
)

const healthTimeout = 5 * time.Second

// Deps are the collaborators the home menu hands to the screens it opens.
type Deps struct {
	// Service is used for health checks and releasing abandoned sessions.
	Service evalapi.Service

	// NewController builds the controller for a fresh practice session.
	NewController func() *workflow.Controller

	Attempts store.AttemptRepo
	BaseURL  string
}

type healthCheckedMsg struct {
	Status *evalapi.HealthStatus
	Err    error
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	deps     Deps
	menu     components.Menu
	checking bool
	status   string
	healthy  bool
}

var _ router.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	items := []components.MenuItem{
		{Label: "Start practice", Hint: "Upload a resume and answer tailored questions", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: interview.New(deps.NewController(), deps.Service)}
			}
		}, Disabled: deps.NewController == nil},
		{Label: "Past attempts", Hint: "Review earlier scores and answers", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(deps.Attempts)}
			}
		}, Disabled: deps.Attempts == nil},
		{Label: "Check service", Hint: "Ping " + deps.BaseURL, Action: h.checkHealth, Disabled: deps.Service == nil},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.deps.Service == nil {
		return nil
	}
	return h.checkHealth()
}

func (h *HomeScreen) checkHealth() tea.Cmd {
	h.checking = true
	svc := h.deps.Service
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()
		hs, err := svc.Health(ctx)
		return healthCheckedMsg{Status: hs, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if msg, ok := msg.(healthCheckedMsg); ok {
		h.checking = false
		h.healthy = msg.Err == nil && msg.Status != nil && msg.Status.Status == "healthy"
		switch {
		case msg.Err != nil:
			h.status = "unreachable"
		case msg.Status != nil && msg.Status.Message != "":
			h.status = msg.Status.Message
		case msg.Status != nil:
			h.status = msg.Status.Status
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := contentWidth(width)

	var sections []string

	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Title.Render("INTERVIEW COACH")+"\n"+
			theme.Subtitle.Render("Practice behavioral interviews against your resume")))

	sections = append(sections, h.renderStatus(cw))

	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2).
		Render(strings.TrimRight(h.menu.View(), "\n")))

	content := strings.Join(sections, "\n\n")

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (h *HomeScreen) renderStatus(cw int) string {
	dot := lipgloss.NewStyle().Foreground(theme.TextDim).Render("○")
	text := "not checked"
	switch {
	case h.checking:
		text = "checking..."
	case h.status != "" && h.healthy:
		dot = lipgloss.NewStyle().Foreground(theme.Success).Render("●")
		text = h.status
	case h.status != "":
		dot = lipgloss.NewStyle().Foreground(theme.Error).Render("●")
		text = h.status
	}
	line := dot + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.deps.BaseURL+"  "+text)
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, line)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}
