// Package interview is the practice screen: resume and job description
// intake, the question and answer loop, and the results dashboard.
package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewcoach/internal/evalapi"
	"github.com/abhisek/interviewcoach/internal/router"
	"github.com/abhisek/interviewcoach/internal/ui/components"
	"github.com/abhisek/interviewcoach/internal/ui/layout"
	"github.com/abhisek/interviewcoach/internal/workflow"
)

const (
	spinnerInterval = 100 * time.Millisecond
	cleanupTimeout  = 10 * time.Second
)

// SessionCleaner releases sessions that were abandoned before submission.
type SessionCleaner interface {
	CleanupSession(ctx context.Context, sessionID string) error
}

const (
	fieldResume = iota
	fieldJobDescription
)

// InterviewScreen implements router.Screen for the practice flow.
type InterviewScreen struct {
	ctrl    *workflow.Controller
	cleaner SessionCleaner

	resumeInput components.TextInput
	jdInput     components.TextInput
	focus       int

	answerInput components.TextInput
	current     int

	// pending is set from the moment a request is dispatched until its
	// result arrives.
	pending      bool
	spinnerFrame int

	confirmRestart bool
	scroll         int
	localErr       string
}

var _ router.Screen = (*InterviewScreen)(nil)
var _ router.KeyHintProvider = (*InterviewScreen)(nil)
var _ router.StepProvider = (*InterviewScreen)(nil)
var _ router.EscapeHandler = (*InterviewScreen)(nil)

// New creates the practice screen around ctrl. cleaner may be nil.
func New(ctrl *workflow.Controller, cleaner SessionCleaner) *InterviewScreen {
	s := &InterviewScreen{
		ctrl:        ctrl,
		cleaner:     cleaner,
		resumeInput: components.NewTextInput("Resume (PDF or DOCX path)", "~/Documents/resume.pdf", 0),
		jdInput:     components.NewTextInput("Job description (text, or @file)", "Paste the job description...", 0),
		answerInput: components.NewTextInput("Your answer", "Type your answer...", 0),
	}
	return s
}

func (s *InterviewScreen) Init() tea.Cmd {
	s.focus = fieldResume
	return s.resumeInput.Focus()
}

func (s *InterviewScreen) Title() string {
	return s.ctrl.Snapshot().Stage.Title()
}

// Step returns the index of the current stage for the header.
func (s *InterviewScreen) Step() int {
	return int(s.ctrl.Snapshot().Stage)
}

// HandlesEscape reports whether Esc is consumed by the screen. Leaving
// mid-interview asks for confirmation first.
func (s *InterviewScreen) HandlesEscape() bool {
	return s.confirmRestart || s.ctrl.Snapshot().Stage == workflow.StageQuestioning
}

func (s *InterviewScreen) KeyHints() []layout.KeyHint {
	if s.confirmRestart {
		return []layout.KeyHint{
			{Key: "Y", Description: "Discard answers"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.busy() {
		return []layout.KeyHint{
			{Key: "Ctrl+R", Description: "Cancel and restart"},
		}
	}
	switch s.ctrl.Snapshot().Stage {
	case workflow.StageQuestioning:
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Question"},
			{Key: "Enter", Description: "Next"},
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Ctrl+R", Description: "Restart"},
		}
	case workflow.StageReport:
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Scroll"},
			{Key: "N", Description: "New practice"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Switch field"},
			{Key: "Enter", Description: "Generate questions"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *InterviewScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsDoneMsg:
		return s.handleQuestionsDone(msg)

	case submitDoneMsg:
		return s.handleSubmitDone(msg)

	case cleanupDoneMsg:
		if msg.Err != nil {
			slog.Warn("release abandoned session", "session_id", msg.SessionID, "error", msg.Err)
		}
		return s, nil

	case spinnerTickMsg:
		if !s.busy() {
			return s, nil
		}
		s.spinnerFrame++
		return s, spinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forwardToInput(msg)
}

func (s *InterviewScreen) busy() bool {
	return s.pending || s.ctrl.Snapshot().Busy
}

func (s *InterviewScreen) handleKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	key := msg.String()
	s.localErr = ""
	s.ctrl.DismissError()

	if s.confirmRestart {
		switch key {
		case "y", "Y":
			s.confirmRestart = false
			return s, s.restart()
		case "n", "N", "esc":
			s.confirmRestart = false
		}
		return s, nil
	}

	if key == "ctrl+r" {
		if s.ctrl.Snapshot().Stage == workflow.StageQuestioning && !s.busy() {
			s.confirmRestart = true
			return s, nil
		}
		return s, s.restart()
	}

	if s.busy() {
		return s, nil
	}

	switch s.ctrl.Snapshot().Stage {
	case workflow.StageIntake:
		return s.handleIntakeKey(msg)
	case workflow.StageQuestioning:
		return s.handleQuestionKey(msg)
	case workflow.StageReport:
		return s.handleReportKey(msg)
	}
	return s, nil
}

func (s *InterviewScreen) handleIntakeKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		return s, s.switchField()
	case "enter":
		return s, s.generate()
	}
	return s.forwardToInput(msg)
}

func (s *InterviewScreen) handleQuestionKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	snap := s.ctrl.Snapshot()
	switch msg.String() {
	case "esc":
		s.confirmRestart = true
		return s, nil
	case "up", "shift+tab":
		return s, s.moveTo(s.current - 1)
	case "down", "tab":
		return s, s.moveTo(s.current + 1)
	case "enter":
		if s.current < len(snap.Questions)-1 {
			return s, s.moveTo(s.current + 1)
		}
		return s, s.submit()
	case "ctrl+s":
		return s, s.submit()
	}
	return s.forwardToInput(msg)
}

func (s *InterviewScreen) handleReportKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.scroll > 0 {
			s.scroll--
		}
	case "down", "j":
		s.scroll++
	case "n", "N":
		return s, s.restart()
	}
	return s, nil
}

// forwardToInput passes msg to whichever text input is active and keeps
// the controller's copy of the text in sync.
func (s *InterviewScreen) forwardToInput(msg tea.Msg) (router.Screen, tea.Cmd) {
	if s.busy() || s.confirmRestart {
		return s, nil
	}
	var cmd tea.Cmd
	switch s.ctrl.Snapshot().Stage {
	case workflow.StageIntake:
		if s.focus == fieldResume {
			s.resumeInput, cmd = s.resumeInput.Update(msg)
		} else {
			s.jdInput, cmd = s.jdInput.Update(msg)
		}
	case workflow.StageQuestioning:
		s.answerInput, cmd = s.answerInput.Update(msg)
		if err := s.ctrl.SetAnswer(s.current, s.answerInput.Value()); err != nil {
			slog.Debug("set answer", "index", s.current, "error", err)
		}
	}
	return s, cmd
}

func (s *InterviewScreen) switchField() tea.Cmd {
	if s.focus == fieldResume {
		s.focus = fieldJobDescription
		s.resumeInput.Blur()
		return s.jdInput.Focus()
	}
	s.focus = fieldResume
	s.jdInput.Blur()
	return s.resumeInput.Focus()
}

// moveTo stores the current answer and shows question i.
func (s *InterviewScreen) moveTo(i int) tea.Cmd {
	snap := s.ctrl.Snapshot()
	if i < 0 || i >= len(snap.Questions) || i == s.current {
		return nil
	}
	if err := s.ctrl.SetAnswer(s.current, s.answerInput.Value()); err != nil {
		slog.Debug("set answer", "index", s.current, "error", err)
	}
	s.current = i
	s.answerInput.SetValue(snap.Answer(i))
	return s.answerInput.Focus()
}

// generate stages the intake fields on the controller and dispatches
// the question request. Problems reading local files are reported
// without contacting the service.
func (s *InterviewScreen) generate() tea.Cmd {
	var resume *evalapi.Resume
	if path := strings.TrimSpace(s.resumeInput.Value()); path != "" {
		r, err := evalapi.LoadResume(expandHome(path))
		if err != nil {
			s.localErr = err.Error()
			return nil
		}
		resume = r
	}

	jd, err := readJobDescription(s.jdInput.Value())
	if err != nil {
		s.localErr = err.Error()
		return nil
	}

	if err := s.ctrl.SetResume(resume); err != nil {
		s.localErr = workflow.DisplayMessage(evalapi.OpGenerateQuestions, err)
		return nil
	}
	if err := s.ctrl.SetJobDescription(jd); err != nil {
		s.localErr = workflow.DisplayMessage(evalapi.OpGenerateQuestions, err)
		return nil
	}

	s.pending = true
	return tea.Batch(s.requestQuestions(), spinnerTick())
}

func (s *InterviewScreen) requestQuestions() tea.Cmd {
	ctrl := s.ctrl
	return func() tea.Msg {
		return questionsDoneMsg{Err: ctrl.RequestQuestions(context.Background())}
	}
}

func (s *InterviewScreen) handleQuestionsDone(msg questionsDoneMsg) (router.Screen, tea.Cmd) {
	if errors.Is(msg.Err, workflow.ErrStale) {
		return s, nil
	}
	s.pending = false
	if msg.Err != nil {
		return s, nil
	}
	s.current = 0
	s.scroll = 0
	s.resumeInput.Blur()
	s.jdInput.Blur()
	s.answerInput.SetValue("")
	return s, s.answerInput.Focus()
}

func (s *InterviewScreen) submit() tea.Cmd {
	if err := s.ctrl.SetAnswer(s.current, s.answerInput.Value()); err != nil {
		slog.Debug("set answer", "index", s.current, "error", err)
	}
	s.pending = true
	return tea.Batch(s.submitAnswers(), spinnerTick())
}

func (s *InterviewScreen) submitAnswers() tea.Cmd {
	ctrl := s.ctrl
	return func() tea.Msg {
		return submitDoneMsg{Err: ctrl.SubmitAnswers(context.Background())}
	}
}

func (s *InterviewScreen) handleSubmitDone(msg submitDoneMsg) (router.Screen, tea.Cmd) {
	if errors.Is(msg.Err, workflow.ErrStale) {
		return s, nil
	}
	s.pending = false
	if msg.Err == nil {
		s.answerInput.Blur()
		s.scroll = 0
	}
	return s, nil
}

// restart resets the controller and the form. A session that was issued
// but never evaluated is released on the service in the background.
func (s *InterviewScreen) restart() tea.Cmd {
	discarded := s.ctrl.Restart()

	s.pending = false
	s.confirmRestart = false
	s.current = 0
	s.scroll = 0
	s.resumeInput.SetValue("")
	s.jdInput.SetValue("")
	s.answerInput.SetValue("")
	s.answerInput.Blur()
	s.jdInput.Blur()
	s.focus = fieldResume

	cmds := []tea.Cmd{s.resumeInput.Focus()}
	if discarded != "" && s.cleaner != nil {
		cmds = append(cmds, s.cleanup(discarded))
	}
	return tea.Batch(cmds...)
}

func (s *InterviewScreen) cleanup(sessionID string) tea.Cmd {
	cleaner := s.cleaner
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		return cleanupDoneMsg{SessionID: sessionID, Err: cleaner.CleanupSession(ctx, sessionID)}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// readJobDescription returns the field text, or the contents of the
// named file when the text starts with '@'.
func readJobDescription(v string) (string, error) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "@") {
		return v, nil
	}
	path := expandHome(strings.TrimSpace(v[1:]))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	return string(data), nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + path[1:]
}
