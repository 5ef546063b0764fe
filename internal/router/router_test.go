package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

type stubScreen struct {
	title   string
	inits   int
	updates int
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	s.updates++
	return s, nil
}

func (s *stubScreen) View(width, height int) string { return s.title }
func (s *stubScreen) Title() string                  { return s.title }

func TestRouter_PushPop(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)

	next := &stubScreen{title: "next"}
	r.Update(PushScreenMsg{Screen: next})
	if r.Depth() != 2 || r.Active() != next {
		t.Fatalf("push: depth=%d active=%v", r.Depth(), r.Active().Title())
	}
	if next.inits != 1 {
		t.Errorf("pushed screen Init calls = %d, want 1", next.inits)
	}

	r.Update(PopScreenMsg{})
	if r.Active() != home {
		t.Errorf("pop: active = %q, want home", r.Active().Title())
	}

	// The root screen is never popped.
	r.Update(PopScreenMsg{})
	if r.Depth() != 1 {
		t.Errorf("depth = %d, want 1", r.Depth())
	}
}

func TestRouter_Replace(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	r.Update(PushScreenMsg{Screen: &stubScreen{title: "a"}})

	b := &stubScreen{title: "b"}
	r.Update(ReplaceScreenMsg{Screen: b})
	if r.Depth() != 2 {
		t.Errorf("depth = %d, want 2", r.Depth())
	}
	if r.Active() != b || b.inits != 1 {
		t.Errorf("replace did not install and init the new screen")
	}
}

func TestRouter_ForwardsToActive(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if home.updates != 1 {
		t.Errorf("updates = %d, want 1", home.updates)
	}
	if got := r.View(80, 24); got != "home" {
		t.Errorf("View = %q, want home", got)
	}
}
