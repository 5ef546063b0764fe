package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewcoach/internal/router"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (router.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "home" }
func (s *stubScreen) Title() string                          { return "Home" }

func newTestWelcomeWithCounter() (*WelcomeScreen, *int) {
	callCount := 0
	factory := func() router.Screen {
		callCount++
		return &stubScreen{}
	}
	return New(factory), &callCount
}

func sendTicks(w *WelcomeScreen, n int) (router.Screen, tea.Cmd) {
	var s router.Screen = w
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		s, cmd = s.Update(tickMsg(time.Now()))
	}
	return s, cmd
}

func containsBanner(view string) bool {
	return strings.Contains(view, "██") || strings.Contains(view, bannerCompact)
}

func TestPhaseTransitions(t *testing.T) {
	w, _ := newTestWelcomeWithCounter()

	if view := w.View(100, 30); containsBanner(view) {
		t.Error("banner should not be visible at start")
	}

	sendTicks(w, 4)
	if w.elapsed != 400*time.Millisecond {
		t.Errorf("expected elapsed 400ms, got %v", w.elapsed)
	}
	view := w.View(100, 30)
	if !containsBanner(view) {
		t.Error("banner should be visible after 400ms")
	}
	if !strings.Contains(view, "Upload your resume") {
		t.Error("first step should be visible with the banner")
	}
	if strings.Contains(view, "press any key") {
		t.Error("hint should not be visible before the animation ends")
	}

	_, cmd := sendTicks(w, 11)
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed %v, got %v", totalDur, w.elapsed)
	}
	if cmd != nil {
		t.Error("ticking should stop once the animation is complete")
	}
	view = w.View(100, 30)
	if !strings.Contains(view, "Review scores and feedback") || !strings.Contains(view, "press any key") {
		t.Errorf("expected all steps and the hint:\n%s", view)
	}
}

func TestKeypressDuringAnimationSkipsToEnd(t *testing.T) {
	w, count := newTestWelcomeWithCounter()
	sendTicks(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd != nil {
		t.Error("first key should only finish the animation")
	}
	if w.elapsed != totalDur {
		t.Errorf("elapsed = %v, want %v", w.elapsed, totalDur)
	}
	if *count != 0 {
		t.Error("home should not be built yet")
	}
}

func TestKeypressAfterAnimationEmitsReplace(t *testing.T) {
	w, count := newTestWelcomeWithCounter()
	sendTicks(w, 15)

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a transition command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if msg.Screen.Title() != "Home" {
		t.Errorf("replaced with %q", msg.Screen.Title())
	}

	// A second key does not build home again.
	_, cmd = w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil || *count != 1 {
		t.Errorf("factory called %d times, want 1", *count)
	}
}

func TestRenderBanner_Compact(t *testing.T) {
	if got := RenderBanner(60); !strings.Contains(got, bannerCompact) {
		t.Errorf("narrow banner = %q", got)
	}
}
