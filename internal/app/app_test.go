package app

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewcoach/internal/evalapi"
	"github.com/abhisek/interviewcoach/internal/report"
	"github.com/abhisek/interviewcoach/internal/router"
	"github.com/abhisek/interviewcoach/internal/screens/home"
	"github.com/abhisek/interviewcoach/internal/workflow"
)

type offlineService struct{}

func (offlineService) GenerateQuestions(context.Context, *evalapi.Resume, string) (*evalapi.QuestionSet, error) {
	return &evalapi.QuestionSet{Questions: []string{"Q1"}, SessionID: "s-1"}, nil
}

func (offlineService) SubmitAnswers(context.Context, string, []evalapi.AnswerPair) (*report.Report, error) {
	return &report.Report{}, nil
}

func (offlineService) CleanupSession(context.Context, string) error { return nil }

func (offlineService) Health(context.Context) (*evalapi.HealthStatus, error) {
	return nil, errors.New("offline")
}

func testDeps(svc offlineService) home.Deps {
	return home.Deps{
		Service:       svc,
		NewController: func() *workflow.Controller { return workflow.New(svc) },
		BaseURL:       "http://127.0.0.1:8000",
	}
}

func testModel() AppModel {
	svc := offlineService{}
	m := newAppModel(testDeps(svc), false)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(AppModel)
}

func push(m AppModel) AppModel {
	updated, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = updated.(AppModel)
	updated, _ = m.Update(cmd())
	return updated.(AppModel)
}

func TestApp_HeaderShowsStage(t *testing.T) {
	m := push(testModel())
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}
	sp, ok := m.router.Active().(router.StepProvider)
	if !ok || sp.Step() != 0 {
		t.Errorf("active screen should report the intake step")
	}

	hints := m.footerHints(m.router.Active())
	var found bool
	for _, h := range hints {
		if h.Description == "Generate questions" {
			found = true
		}
	}
	if !found {
		t.Errorf("footer should show the screen's key hints: %+v", hints)
	}
	if last := hints[len(hints)-1]; last.Key != "Ctrl+C" {
		t.Errorf("last hint = %+v, want Ctrl+C", last)
	}
}

func TestApp_EscPopsIntake(t *testing.T) {
	m := push(testModel())
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestApp_EscAtRootIsNoop(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("Esc on the home screen should do nothing")
	}
}

func TestApp_SplashReplacedByHome(t *testing.T) {
	m := newAppModel(testDeps(offlineService{}), true)
	if title := m.router.Active().Title(); title != "" {
		t.Fatalf("splash title = %q, want empty", title)
	}

	// First key ends the animation, the second hands over to home.
	updated, _ := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = updated.(AppModel)
	updated, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = updated.(AppModel)
	if cmd == nil {
		t.Fatal("expected a replace command")
	}
	updated, _ = m.Update(cmd())
	m = updated.(AppModel)

	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
	if title := m.router.Active().Title(); title != "Home" {
		t.Errorf("active = %q, want Home", title)
	}
}
