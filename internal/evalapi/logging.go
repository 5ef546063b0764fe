package evalapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/interviewcoach/internal/report"
	"github.com/abhisek/interviewcoach/internal/store"
)

// LoggingService is a decorator that records every service call in the
// request log.
type LoggingService struct {
	inner   Service
	repo    store.EventRepo
	baseURL string
}

// WithLogging wraps a Service with request logging. baseURL is recorded
// with each event.
func WithLogging(s Service, repo store.EventRepo, baseURL string) Service {
	return &LoggingService{inner: s, repo: repo, baseURL: baseURL}
}

func (l *LoggingService) GenerateQuestions(ctx context.Context, resume *Resume, jobDescription string) (*QuestionSet, error) {
	start := time.Now()
	qs, err := l.inner.GenerateQuestions(ctx, resume, jobDescription)
	sessionID := ""
	if qs != nil {
		sessionID = qs.SessionID
	}
	l.record(ctx, OpGenerateQuestions, sessionID, start, err)
	return qs, err
}

func (l *LoggingService) SubmitAnswers(ctx context.Context, sessionID string, answers []AnswerPair) (*report.Report, error) {
	start := time.Now()
	r, err := l.inner.SubmitAnswers(ctx, sessionID, answers)
	l.record(ctx, OpSubmitAnswers, sessionID, start, err)
	return r, err
}

func (l *LoggingService) CleanupSession(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := l.inner.CleanupSession(ctx, sessionID)
	l.record(ctx, OpCleanupSession, sessionID, start, err)
	return err
}

func (l *LoggingService) Health(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()
	hs, err := l.inner.Health(ctx)
	l.record(ctx, OpHealth, "", start, err)
	return hs, err
}

func (l *LoggingService) record(ctx context.Context, op, sessionID string, start time.Time, err error) {
	data := store.RequestEventData{
		Operation: op,
		BaseURL:   l.baseURL,
		SessionID: sessionID,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		slog.Warn("service call failed", "op", op, "session_id", sessionID, "latency_ms", data.LatencyMs, "error", err)
	} else {
		slog.Debug("service call", "op", op, "session_id", sessionID, "latency_ms", data.LatencyMs)
	}

	// The caller's context may already be cancelled; logging must still land.
	if logErr := l.repo.AppendRequest(context.WithoutCancel(ctx), data); logErr != nil {
		slog.Warn("failed to log request event", "op", op, "error", logErr)
	}
}
