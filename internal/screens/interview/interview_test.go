package interview

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewcoach/internal/evalapi"
	"github.com/abhisek/interviewcoach/internal/report"
	"github.com/abhisek/interviewcoach/internal/router"
	"github.com/abhisek/interviewcoach/internal/workflow"
)

// mockService implements workflow.Service for testing. When gate is
// non-nil question requests block until it is closed.
type mockService struct {
	mu        sync.Mutex
	pairs     []evalapi.AnswerPair
	genCalls  int
	cleanedUp []string

	started chan struct{}
	gate    chan struct{}
}

func (m *mockService) GenerateQuestions(_ context.Context, _ *evalapi.Resume, _ string) (*evalapi.QuestionSet, error) {
	m.mu.Lock()
	m.genCalls++
	m.mu.Unlock()
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.gate != nil {
		<-m.gate
	}
	return &evalapi.QuestionSet{
		Questions: []string{"Tell me about a conflict.", "Describe a failure."},
		SessionID: "sess-1",
	}, nil
}

func (m *mockService) SubmitAnswers(_ context.Context, _ string, pairs []evalapi.AnswerPair) (*report.Report, error) {
	m.mu.Lock()
	m.pairs = pairs
	m.mu.Unlock()
	return &report.Report{MockResponse: &report.MockResponse{
		Tone:       report.NewScore(85),
		Confidence: report.NewScore(70),
		Relevance:  report.NewScore(55),
	}}, nil
}

func (m *mockService) CleanupSession(_ context.Context, id string) error {
	m.mu.Lock()
	m.cleanedUp = append(m.cleanedUp, id)
	m.mu.Unlock()
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func typeText(t *testing.T, scr router.Screen, text string) router.Screen {
	t.Helper()
	for _, r := range text {
		scr, _ = scr.Update(keyPress(r))
	}
	return scr
}

// runCmd executes cmd and any batched commands, returning their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func testScreen(t *testing.T) (*InterviewScreen, *mockService) {
	t.Helper()
	svc := &mockService{}
	s := New(workflow.New(svc), svc)
	s.Init()
	return s, svc
}

func writeResume(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cv.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// setupQuestioning drives the screen through intake into the question stage.
func setupQuestioning(t *testing.T, s *InterviewScreen) {
	t.Helper()
	s.resumeInput.SetValue(writeResume(t))
	s.jdInput.SetValue("Backend engineer, Go")

	if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd == nil {
		t.Fatal("expected a request command after Enter")
	}
	s.Update(s.requestQuestions()())

	if s.ctrl.Snapshot().Stage != workflow.StageQuestioning {
		t.Fatalf("stage = %v, want questioning (err %q)", s.ctrl.Snapshot().Stage, s.ctrl.Snapshot().Err)
	}
}

func TestInterviewScreen_Title(t *testing.T) {
	s, _ := testScreen(t)
	if s.Title() != "Upload" {
		t.Errorf("Title = %q, want %q", s.Title(), "Upload")
	}
	if s.Step() != 0 {
		t.Errorf("Step = %d, want 0", s.Step())
	}
	if s.HandlesEscape() {
		t.Error("intake should let Esc go back")
	}
}

func TestInterviewScreen_GenerateValidation(t *testing.T) {
	s, svc := testScreen(t)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a request command")
	}
	s.Update(s.requestQuestions()())

	view := s.View(100, 30)
	if !strings.Contains(view, "Please upload a resume and provide job description") {
		t.Errorf("expected validation message in view:\n%s", view)
	}
	if svc.genCalls != 0 {
		t.Errorf("service called %d times, want 0", svc.genCalls)
	}
	if s.busy() {
		t.Error("screen should not be busy after a failed request")
	}
}

func TestInterviewScreen_MissingResumeFile(t *testing.T) {
	s, svc := testScreen(t)
	s.resumeInput.SetValue(filepath.Join(t.TempDir(), "missing.pdf"))
	s.jdInput.SetValue("Backend engineer")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no request when the resume cannot be read")
	}
	if s.localErr == "" {
		t.Error("expected a local error")
	}
	if svc.genCalls != 0 {
		t.Errorf("service called %d times, want 0", svc.genCalls)
	}
}

func TestInterviewScreen_TabSwitchesField(t *testing.T) {
	s, _ := testScreen(t)

	var scr router.Screen = s
	scr = typeText(t, scr, "cv.pdf")
	scr, _ = scr.Update(specialKey(tea.KeyTab))
	scr = typeText(t, scr, "Go")

	if s.resumeInput.Value() != "cv.pdf" {
		t.Errorf("resume = %q, want %q", s.resumeInput.Value(), "cv.pdf")
	}
	if s.jdInput.Value() != "Go" {
		t.Errorf("job description = %q, want %q", s.jdInput.Value(), "Go")
	}
}

func TestInterviewScreen_AnswerAndSubmit(t *testing.T) {
	s, svc := testScreen(t)
	setupQuestioning(t, s)

	if s.Title() != "Mock Interview" || s.Step() != 1 {
		t.Errorf("Title/Step = %q/%d, want Mock Interview/1", s.Title(), s.Step())
	}
	if view := s.View(100, 30); !strings.Contains(view, "Question 1 of 2") {
		t.Errorf("expected question progress in view:\n%s", view)
	}

	var scr router.Screen = s
	scr = typeText(t, scr, "hi")
	scr, _ = scr.Update(specialKey(tea.KeyDown))
	scr = typeText(t, scr, "ok")
	scr, _ = scr.Update(specialKey(tea.KeyUp))

	if s.answerInput.Value() != "hi" {
		t.Errorf("answer input = %q, want the stored first answer", s.answerInput.Value())
	}
	if got := s.ctrl.Snapshot().Answer(1); got != "ok" {
		t.Errorf("answer 1 = %q, want %q", got, "ok")
	}

	_, cmd := scr.Update(ctrlKey('s'))
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	s.Update(s.submitAnswers()())

	if s.Title() != "Results" {
		t.Errorf("Title = %q, want Results", s.Title())
	}
	if len(svc.pairs) != 2 || svc.pairs[0].Answer != "hi" || svc.pairs[1].Answer != "ok" {
		t.Errorf("submitted pairs = %+v", svc.pairs)
	}
	view := s.View(100, 40)
	for _, want := range []string{"Interview Tone", "85%"} {
		if !strings.Contains(view, want) {
			t.Errorf("results view missing %q:\n%s", want, view)
		}
	}
}

func TestInterviewScreen_EnterAdvancesThenSubmits(t *testing.T) {
	s, _ := testScreen(t)
	setupQuestioning(t, s)

	s.Update(specialKey(tea.KeyEnter))
	if s.current != 1 {
		t.Errorf("current = %d, want 1", s.current)
	}
	if s.pending {
		t.Error("Enter before the last question should not submit")
	}

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil || !s.pending {
		t.Error("Enter on the last question should submit")
	}
}

func TestInterviewScreen_BusyIgnoresKeys(t *testing.T) {
	s, _ := testScreen(t)
	s.resumeInput.SetValue(writeResume(t))
	s.jdInput.SetValue("Backend engineer")

	s.Update(specialKey(tea.KeyEnter))
	if !s.pending {
		t.Fatal("expected pending after Enter")
	}

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected Enter to be ignored while a request is outstanding")
	}

	if _, cmd := s.Update(spinnerTickMsg{}); cmd == nil {
		t.Error("spinner should keep ticking while busy")
	}
}

func TestInterviewScreen_RestartConfirm(t *testing.T) {
	s, svc := testScreen(t)
	setupQuestioning(t, s)

	var scr router.Screen = s
	scr, _ = scr.Update(ctrlKey('r'))
	if !s.confirmRestart {
		t.Fatal("expected restart confirmation")
	}
	if !s.HandlesEscape() {
		t.Error("confirmation should own Esc")
	}

	scr, _ = scr.Update(keyPress('n'))
	if s.confirmRestart || s.Step() != 1 {
		t.Error("expected confirmation dismissed and stage unchanged")
	}

	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	_, cmd := scr.Update(keyPress('y'))
	if s.Step() != 0 {
		t.Errorf("Step = %d after restart, want 0", s.Step())
	}

	var cleaned bool
	for _, msg := range runCmd(cmd) {
		if m, ok := msg.(cleanupDoneMsg); ok && m.SessionID == "sess-1" {
			cleaned = true
		}
	}
	if !cleaned || len(svc.cleanedUp) != 1 {
		t.Errorf("expected the unevaluated session to be released, got %v", svc.cleanedUp)
	}
}

func TestInterviewScreen_StaleResultIgnored(t *testing.T) {
	svc := &mockService{started: make(chan struct{}), gate: make(chan struct{})}
	s := New(workflow.New(svc), svc)
	s.Init()
	s.resumeInput.SetValue(writeResume(t))
	s.jdInput.SetValue("Backend engineer")
	s.Update(specialKey(tea.KeyEnter))

	done := make(chan tea.Msg, 1)
	go func() { done <- s.requestQuestions()() }()
	<-svc.started

	s.Update(ctrlKey('r'))
	close(svc.gate)
	s.Update(<-done)

	if s.Step() != 0 {
		t.Errorf("Step = %d, want 0 after a stale result", s.Step())
	}
	if s.busy() {
		t.Error("restart should clear busy")
	}
}

func TestInterviewScreen_ReportNewPractice(t *testing.T) {
	s, _ := testScreen(t)
	setupQuestioning(t, s)
	typeText(t, s, "Calmly")
	s.Update(ctrlKey('s'))
	s.Update(s.submitAnswers()())
	if s.Step() != 2 {
		t.Fatalf("Step = %d, want 2 (err %q)", s.Step(), s.ctrl.Snapshot().Err)
	}

	s.Update(keyPress('n'))
	if s.Step() != 0 {
		t.Errorf("Step = %d, want 0", s.Step())
	}
	if s.ctrl.Snapshot().Report != nil {
		t.Error("expected report cleared")
	}
}

func TestInterviewScreen_KeyHints(t *testing.T) {
	s, _ := testScreen(t)
	if hints := s.KeyHints(); len(hints) == 0 || hints[1].Description != "Generate questions" {
		t.Errorf("intake hints = %+v", hints)
	}
	setupQuestioning(t, s)
	hints := s.KeyHints()
	found := false
	for _, h := range hints {
		if h.Key == "Ctrl+S" {
			found = true
		}
	}
	if !found {
		t.Errorf("question hints missing submit: %+v", hints)
	}
}

func TestReadJobDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.txt")
	if err := os.WriteFile(path, []byte("Senior Go developer"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := readJobDescription("@" + path)
	if err != nil || got != "Senior Go developer" {
		t.Errorf("readJobDescription(@file) = %q, %v", got, err)
	}
	got, err = readJobDescription("  inline text ")
	if err != nil || got != "inline text" {
		t.Errorf("readJobDescription(inline) = %q, %v", got, err)
	}
	if _, err := readJobDescription("@" + filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
