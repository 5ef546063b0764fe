// Package mockservice is a local stand-in for the question-generation and
// answer-evaluation services. It speaks the same wire contract with
// canned questions and a deterministic report, for development and tests.
package mockservice

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// maxUploadBytes bounds the multipart body of a question request.
const maxUploadBytes = 10 << 20

// DefaultQuestions are served for every resume.
var DefaultQuestions = []string{
	"Tell me about a time you had a conflict with a teammate and how you resolved it.",
	"Describe a project that failed. What did you learn from it?",
	"Give an example of a goal you set and how you achieved it.",
	"Tell me about a time you had to learn something new quickly.",
	"Describe a situation where you disagreed with a decision from your manager.",
}

type session struct {
	ResumeName     string
	ResumeBytes    int
	JobDescription string
	Questions      []string
	CreatedAt      time.Time
}

// Server holds the in-memory session table and the HTTP router.
type Server struct {
	router    *chi.Mux
	logger    *slog.Logger
	questions []string
	now       func() time.Time
	newID     func() string

	mu       sync.Mutex
	sessions map[string]*session
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithQuestions replaces the canned question list.
func WithQuestions(qs []string) Option {
	return func(s *Server) { s.questions = append([]string(nil), qs...) }
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(f func() string) Option {
	return func(s *Server) { s.newID = f }
}

// New creates a Server with all routes registered.
func New(opts ...Option) *Server {
	s := &Server{
		logger:    slog.Default(),
		questions: DefaultQuestions,
		now:       time.Now,
		newID:     newSessionID,
		sessions:  map[string]*session{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRouter()
	return s
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// The web frontend calls these endpoints from another origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/run-interview-evaluation/", s.handleGenerateQuestions)
	r.Post("/submit-mock-answers/", s.handleSubmitAnswers)
	r.Delete("/cleanup-session/{id}", s.handleCleanupSession)
	r.Get("/session/{id}", s.handleSessionInfo)

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondDetail writes an error in the {"detail": "..."} shape.
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
