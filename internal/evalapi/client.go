package evalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/interviewcoach/internal/report"
)

// DefaultTimeout bounds a single request so the caller is never left
// waiting on a hung connection. Evaluation runs several model calls
// server-side, hence the generous default.
const DefaultTimeout = 120 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// Client talks to the evaluation service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Service = (*Client)(nil)

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type questionsResponse struct {
	Success   bool     `json:"success"`
	Data      []string `json:"data"`
	SessionID string   `json:"session_id"`
	Message   string   `json:"message"`
}

type evaluationResponse struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Feedback json.RawMessage `json:"feedback"`
	Message  string          `json:"message"`
}

func (c *Client) GenerateQuestions(ctx context.Context, resume *Resume, jobDescription string) (*QuestionSet, error) {
	if resume == nil {
		return nil, fmt.Errorf("%s: resume is required", OpGenerateQuestions)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(FieldResume, resume.Filename)
	if err != nil {
		return nil, fmt.Errorf("create resume part: %w", err)
	}
	if _, err := part.Write(resume.Data); err != nil {
		return nil, fmt.Errorf("write resume part: %w", err)
	}
	if err := w.WriteField(FieldJobDescription, jobDescription); err != nil {
		return nil, fmt.Errorf("write job description: %w", err)
	}
	// The service's request shape has a candidate_response field; it is
	// ignored at this stage but must be present.
	if err := w.WriteField(FieldCandidateResponse, ""); err != nil {
		return nil, fmt.Errorf("write candidate response: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	raw, err := c.do(ctx, OpGenerateQuestions, http.MethodPost, PathGenerateQuestions, &body, w.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var resp questionsResponse
	if err := c.decodeEnvelope(OpGenerateQuestions, raw, questionsEnvelope, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ServiceError{Op: OpGenerateQuestions, StatusCode: raw.status, Message: resp.Message}
	}
	if resp.SessionID == "" {
		return nil, &ServiceError{Op: OpGenerateQuestions, StatusCode: raw.status, Message: "no session was issued for the generated questions"}
	}

	questions := resp.Data
	if questions == nil {
		questions = []string{}
	}
	return &QuestionSet{Questions: questions, SessionID: resp.SessionID}, nil
}

func (c *Client) SubmitAnswers(ctx context.Context, sessionID string, answers []AnswerPair) (*report.Report, error) {
	if answers == nil {
		answers = []AnswerPair{}
	}
	encoded, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField(FieldSessionID, sessionID); err != nil {
		return nil, fmt.Errorf("write session id: %w", err)
	}
	if err := w.WriteField(FieldAnswers, string(encoded)); err != nil {
		return nil, fmt.Errorf("write answers: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	raw, err := c.do(ctx, OpSubmitAnswers, http.MethodPost, PathSubmitAnswers, &body, w.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var resp evaluationResponse
	if err := c.decodeEnvelope(OpSubmitAnswers, raw, evaluationEnvelope, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ServiceError{Op: OpSubmitAnswers, StatusCode: raw.status, Message: resp.Message}
	}

	return reportFrom(resp), nil
}

// reportFrom picks the report out of the envelope. Deployments differ
// in the key they use: feedback is preferred, data is accepted, and a
// missing report is an empty one.
func reportFrom(resp evaluationResponse) *report.Report {
	body := resp.Feedback
	if len(body) == 0 || isJSONNull(body) {
		body = resp.Data
	}
	r := &report.Report{}
	if len(body) == 0 || isJSONNull(body) {
		return r
	}
	if err := json.Unmarshal(body, r); err != nil {
		return &report.Report{}
	}
	return r
}

func (c *Client) CleanupSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	path := PathCleanupSession + url.PathEscape(sessionID)
	_, err := c.do(ctx, OpCleanupSession, http.MethodDelete, path, nil, "")
	return err
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	raw, err := c.do(ctx, OpHealth, http.MethodGet, PathHealth, nil, "")
	if err != nil {
		return nil, err
	}
	var hs HealthStatus
	if err := json.Unmarshal(raw.body, &hs); err != nil {
		return nil, &TransportError{Op: OpHealth, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	return &hs, nil
}

// rawResponse is a fully read response body that is known to be JSON.
type rawResponse struct {
	status int
	body   []byte
}

// do sends the request and returns the JSON body. Non-JSON bodies and
// network failures become TransportError. Error statuses become
// ServiceError carrying the service's detail or message.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string) (*rawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if !json.Valid(data) {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("non-JSON response (HTTP %d)", resp.StatusCode)}
	}

	if resp.StatusCode >= 400 {
		return nil, &ServiceError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	return &rawResponse{status: resp.StatusCode, body: data}, nil
}

func (c *Client) decodeEnvelope(op string, raw *rawResponse, schema *envelopeSchema, v any) error {
	if err := validateEnvelope(schema, raw.body); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if err := json.Unmarshal(raw.body, v); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	return nil
}

// errorMessage extracts a human-readable reason from an error body:
// a string "detail" (FastAPI style) or a "message" field.
func errorMessage(body []byte) string {
	var probe struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	var detail string
	if len(probe.Detail) > 0 && json.Unmarshal(probe.Detail, &detail) == nil && detail != "" {
		return detail
	}
	return probe.Message
}

func isJSONNull(b json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}
