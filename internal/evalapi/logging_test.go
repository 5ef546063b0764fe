package evalapi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/interviewcoach/internal/report"
	"github.com/abhisek/interviewcoach/internal/store"
)

type stubService struct {
	err error
}

func (s *stubService) GenerateQuestions(ctx context.Context, resume *Resume, jd string) (*QuestionSet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &QuestionSet{Questions: []string{"Q1"}, SessionID: "sess-9"}, nil
}

func (s *stubService) SubmitAnswers(ctx context.Context, sessionID string, answers []AnswerPair) (*report.Report, error) {
	return &report.Report{}, s.err
}

func (s *stubService) CleanupSession(ctx context.Context, sessionID string) error { return s.err }

func (s *stubService) Health(ctx context.Context) (*HealthStatus, error) {
	return &HealthStatus{Status: "healthy"}, s.err
}

type recordingRepo struct {
	events []store.RequestEventData
	err    error
}

func (r *recordingRepo) AppendRequest(ctx context.Context, data store.RequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func (r *recordingRepo) QueryRequests(ctx context.Context, opts store.QueryOpts) ([]store.RequestEvent, error) {
	return nil, nil
}

func TestWithLogging_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	svc := WithLogging(&stubService{}, repo, "http://svc")

	qs, err := svc.GenerateQuestions(context.Background(), testResume(), "jd")
	require.NoError(t, err)
	assert.Equal(t, "sess-9", qs.SessionID)

	_, err = svc.SubmitAnswers(context.Background(), "sess-9", nil)
	require.NoError(t, err)

	require.Len(t, repo.events, 2)
	assert.Equal(t, OpGenerateQuestions, repo.events[0].Operation)
	assert.Equal(t, "sess-9", repo.events[0].SessionID)
	assert.Equal(t, "http://svc", repo.events[0].BaseURL)
	assert.True(t, repo.events[0].Success)
	assert.Equal(t, OpSubmitAnswers, repo.events[1].Operation)
}

func TestWithLogging_RecordsFailure(t *testing.T) {
	repo := &recordingRepo{}
	boom := &ServiceError{Op: OpHealth, StatusCode: 503, Message: "down"}
	svc := WithLogging(&stubService{err: boom}, repo, "http://svc")

	_, err := svc.Health(context.Background())
	require.ErrorIs(t, err, boom)

	err = svc.CleanupSession(context.Background(), "sess-1")
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	assert.False(t, repo.events[0].Success)
	assert.Contains(t, repo.events[0].ErrorMessage, "down")
	assert.Equal(t, OpCleanupSession, repo.events[1].Operation)
	assert.Equal(t, "sess-1", repo.events[1].SessionID)
}

func TestWithLogging_RepoFailureDoesNotFailCall(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	svc := WithLogging(&stubService{}, repo, "")

	hs, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", hs.Status)
}

func TestWithLogging_CancelledContextStillRecorded(t *testing.T) {
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	svc := WithLogging(&stubService{}, s.EventRepo(), "http://svc")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.Health(ctx)
	require.NoError(t, err)

	events, err := s.EventRepo().QueryRequests(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, OpHealth, events[0].Operation)
}
