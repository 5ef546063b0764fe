package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/abhisek/interviewcoach/internal/evalapi"
	"github.com/abhisek/interviewcoach/internal/report"
	"github.com/abhisek/interviewcoach/internal/store"
)

// Service is the pair of remote operations the controller drives.
type Service interface {
	QuestionGenerator
	AnswerEvaluator
}

// AttemptRecorder persists completed attempts. store.AttemptRepo
// satisfies it.
type AttemptRecorder interface {
	Append(ctx context.Context, data store.AttemptData) (string, error)
}

// State is a point-in-time copy of the session for rendering.
type State struct {
	Stage          Stage
	Busy           bool
	SessionID      string
	ResumeName     string
	JobDescription string
	Questions      []string
	Answers        map[int]string
	Report         *report.Report
	Dashboard      report.Dashboard
	AttemptID      string

	// Err is the display message of the last failed operation.
	Err string
}

// Answer returns the answer for question i, or "".
func (s State) Answer(i int) string { return s.Answers[i] }

// Answered counts questions with a non-blank answer.
func (s State) Answered() int {
	n := 0
	for _, p := range BuildPayload(s.Questions, s.Answers) {
		if trimmed(p.Answer) != "" {
			n++
		}
	}
	return n
}

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy sets the answer completion policy.
func WithPolicy(p SubmitPolicy) Option {
	return func(c *Controller) { c.answers = NewAnswerCoordinator(c.svc, p) }
}

// WithRecorder records every evaluated attempt.
func WithRecorder(r AttemptRecorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// Controller owns the single practice session. All mutation goes through
// its methods; it is safe for use from multiple goroutines.
type Controller struct {
	svc       Service
	questions *QuestionCoordinator
	answers   *AnswerCoordinator
	recorder  AttemptRecorder

	mu             sync.Mutex
	stage          Stage
	busy           bool
	epoch          uint64
	sessionID      string
	resume         *evalapi.Resume
	jobDescription string
	questionList   []string
	answerMap      map[int]string
	rep            *report.Report
	attemptID      string
	lastErr        string
}

// New creates a controller in the Intake stage.
func New(svc Service, opts ...Option) *Controller {
	c := &Controller{
		svc:       svc,
		questions: NewQuestionCoordinator(svc),
		answers:   NewAnswerCoordinator(svc, DefaultSubmitPolicy),
		answerMap: map[int]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the answer completion policy in effect.
func (c *Controller) Policy() SubmitPolicy { return c.answers.Policy() }

// SetResume stages the resume for the next question request.
func (c *Controller) SetResume(r *evalapi.Resume) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != StageIntake {
		return ErrWrongStage
	}
	c.resume = r
	return nil
}

// SetJobDescription stages the job description for the next question request.
func (c *Controller) SetJobDescription(jd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != StageIntake {
		return ErrWrongStage
	}
	c.jobDescription = jd
	return nil
}

// SetAnswer records the answer for question index.
func (c *Controller) SetAnswer(index int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != StageQuestioning {
		return ErrWrongStage
	}
	if c.busy {
		return ErrBusy
	}
	if index < 0 || index >= len(c.questionList) {
		return fmt.Errorf("question %d out of range (have %d)", index, len(c.questionList))
	}
	c.answerMap[index] = text
	return nil
}

// RequestQuestions moves Intake to Questioning. On success the questions
// and session id are installed, the answers reset and any previous report
// cleared. On failure the stage is unchanged.
func (c *Controller) RequestQuestions(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.stage != StageIntake {
		c.mu.Unlock()
		return ErrWrongStage
	}
	resume, jd, epoch := c.resume, c.jobDescription, c.epoch
	c.busy = true
	c.lastErr = ""
	c.mu.Unlock()

	qs, err := c.questions.Request(ctx, resume, jd)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		if qs != nil {
			slog.Info("discarding questions from a restarted session", "session_id", qs.SessionID)
		}
		return ErrStale
	}
	c.busy = false
	if err != nil {
		c.lastErr = DisplayMessage(evalapi.OpGenerateQuestions, err)
		return err
	}

	c.stage = StageQuestioning
	c.questionList = append([]string(nil), qs.Questions...)
	c.sessionID = qs.SessionID
	c.answerMap = map[int]string{}
	c.rep = nil
	c.attemptID = ""
	slog.Info("questions generated", "session_id", qs.SessionID, "count", len(qs.Questions))
	return nil
}

// SubmitAnswers moves Questioning to Report and installs the evaluation.
// On failure the stage is unchanged.
func (c *Controller) SubmitAnswers(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.stage != StageQuestioning {
		c.mu.Unlock()
		return ErrWrongStage
	}
	sessionID, epoch := c.sessionID, c.epoch
	questions := append([]string(nil), c.questionList...)
	answers := copyAnswers(c.answerMap)
	name, jd := resumeName(c.resume), c.jobDescription
	c.busy = true
	c.lastErr = ""
	c.mu.Unlock()

	rep, err := c.answers.Submit(ctx, sessionID, questions, answers)

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return ErrStale
	}
	c.busy = false
	if err != nil {
		c.lastErr = DisplayMessage(evalapi.OpSubmitAnswers, err)
		c.mu.Unlock()
		return err
	}
	c.stage = StageReport
	c.rep = rep
	c.mu.Unlock()

	slog.Info("answers evaluated", "session_id", sessionID)
	if c.recorder == nil {
		return nil
	}

	id := c.record(ctx, store.AttemptData{
		SessionID:      sessionID,
		ResumeName:     name,
		JobDescription: jd,
		Questions:      questions,
		Answers:        answerList(BuildPayload(questions, answers)),
	}, rep)

	c.mu.Lock()
	if epoch == c.epoch {
		c.attemptID = id
	}
	c.mu.Unlock()
	return nil
}

func (c *Controller) record(ctx context.Context, data store.AttemptData, rep *report.Report) string {
	raw, err := json.Marshal(rep)
	if err != nil {
		slog.Warn("encode report for history", "error", err)
		return ""
	}
	data.Report = raw
	id, err := c.recorder.Append(context.WithoutCancel(ctx), data)
	if err != nil {
		slog.Warn("record attempt", "session_id", data.SessionID, "error", err)
		return ""
	}
	return id
}

// Restart returns to Intake and clears all session state. It always
// succeeds, even while a request is outstanding; that request's result is
// discarded when it resolves. The returned id is the session that was
// issued but never evaluated, or "" if there is none, so the caller can
// release it on the service.
func (c *Controller) Restart() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	discarded := ""
	if c.stage == StageQuestioning {
		discarded = c.sessionID
	}

	c.epoch++
	c.stage = StageIntake
	c.busy = false
	c.sessionID = ""
	c.resume = nil
	c.jobDescription = ""
	c.questionList = nil
	c.answerMap = map[int]string{}
	c.rep = nil
	c.attemptID = ""
	c.lastErr = ""
	return discarded
}

// DismissError clears the last error message.
func (c *Controller) DismissError() {
	c.mu.Lock()
	c.lastErr = ""
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state with the dashboard
// projected from the report.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Stage:          c.stage,
		Busy:           c.busy,
		SessionID:      c.sessionID,
		ResumeName:     resumeName(c.resume),
		JobDescription: c.jobDescription,
		Questions:      append([]string(nil), c.questionList...),
		Answers:        copyAnswers(c.answerMap),
		Report:         c.rep,
		AttemptID:      c.attemptID,
		Err:            c.lastErr,
	}
	if c.rep != nil {
		s.Dashboard = report.Project(c.rep)
	}
	return s
}

func resumeName(r *evalapi.Resume) string {
	if r == nil {
		return ""
	}
	return r.Filename
}

func copyAnswers(m map[int]string) map[int]string {
	out := make(map[int]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func answerList(pairs []evalapi.AnswerPair) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.Answer
	}
	return out
}
