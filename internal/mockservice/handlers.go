package mockservice

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/abhisek/interviewcoach/internal/evalapi"
)

func newSessionID() string { return uuid.New().String() }

type questionsResponse struct {
	Success   bool     `json:"success"`
	Data      []string `json:"data,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
	Message   string   `json:"message,omitempty"`
}

type evaluationResponse struct {
	Success  bool   `json:"success"`
	Feedback any    `json:"feedback,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, evalapi.HealthStatus{
		Status:  "healthy",
		Message: "Interview Evaluation API is running",
	})
}

func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "expected a multipart form")
		return
	}

	file, hdr, err := r.FormFile(evalapi.FieldResume)
	if err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "field required: resume")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "could not read resume")
		return
	}
	if _, ok := r.MultipartForm.Value[evalapi.FieldJobDescription]; !ok {
		respondDetail(w, http.StatusUnprocessableEntity, "field required: job_description")
		return
	}
	jd := r.FormValue(evalapi.FieldJobDescription)

	if len(data) == 0 || strings.TrimSpace(jd) == "" {
		respondJSON(w, http.StatusOK, questionsResponse{
			Success: false,
			Message: "Failed to generate questions",
		})
		return
	}

	id := s.newID()
	sess := &session{
		ResumeName:     hdr.Filename,
		ResumeBytes:    len(data),
		JobDescription: jd,
		Questions:      append([]string(nil), s.questions...),
		CreatedAt:      s.now(),
	}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Info("session opened", "session_id", id, "resume", hdr.Filename, "questions", len(sess.Questions))
	respondJSON(w, http.StatusOK, questionsResponse{
		Success:   true,
		Data:      sess.Questions,
		SessionID: id,
	})
}

func (s *Server) handleSubmitAnswers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "expected a multipart form")
		return
	}
	id := r.FormValue(evalapi.FieldSessionID)
	if id == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "field required: session_id")
		return
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		respondDetail(w, http.StatusBadRequest, "Invalid or expired session ID")
		return
	}

	var answers []evalapi.AnswerPair
	if err := json.Unmarshal([]byte(r.FormValue(evalapi.FieldAnswers)), &answers); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid JSON format for answers")
		return
	}

	rep := Evaluate(sess.ResumeBytes, sess.JobDescription, answers)

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	s.logger.Info("session evaluated", "session_id", id, "answers", len(answers))
	respondJSON(w, http.StatusOK, evaluationResponse{Success: true, Feedback: rep})
}

func (s *Server) handleCleanupSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		respondDetail(w, http.StatusNotFound, "Session not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Session cleaned up successfully"})
}

// handleSessionInfo is a debug view of one open session.
func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		respondDetail(w, http.StatusNotFound, "Session not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id":             id,
		"resume_name":            sess.ResumeName,
		"has_resume_text":        sess.ResumeBytes > 0,
		"question_count":         len(sess.Questions),
		"job_description_length": len(sess.JobDescription),
		"created_at":             sess.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}
