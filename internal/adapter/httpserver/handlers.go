// Package httpserver exposes the core operations over a thin HTTP
// surface. Every handler delegates to a usecase service; no business
// logic lives here.
package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/usecase"
)

// Server bundles the usecase services behind HTTP handlers.
type Server struct {
	Sessions    *usecase.SessionService
	Reports     usecase.ReportService
	Transcriber domain.Transcriber
	MaxUploadMB int64
}

// Routes mounts all endpoints on a chi router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/start-interview", s.handleStartInterview)
	r.Post("/upload-resume", s.handleUploadResume)
	r.Get("/interview/{id}/question/{qid}", s.handleGetQuestion)
	r.Post("/analyze-answer", s.handleAnalyzeAnswer)
	r.Post("/generate-next-question", s.handleNextQuestion)
	r.Get("/interview/{id}/summary", s.handleSummary)
	r.Post("/transcribe", s.handleTranscribe)
}

func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	source := domain.Source(r.FormValue("source"))
	if source == "" {
		source = domain.SourceResume
	}
	sess, err := s.Sessions.CreateFromText(r.Context(), r.FormValue("content"), source)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSessionCreated(w, sess)
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.MaxUploadMB << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(io.LimitReader(file, s.MaxUploadMB<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	source := domain.Source(r.FormValue("source"))
	if source == "" {
		source = domain.SourceResume
	}
	sess, err := s.Sessions.CreateFromDocument(r.Context(), data, header.Filename, source)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSessionCreated(w, sess)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	qid, err := strconv.Atoi(chi.URLParam(r, "qid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "question id must be an integer")
		return
	}
	q, total, err := s.Sessions.Question(r.Context(), id, qid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"current_question": q,
		"total_questions":  total,
		"interview_id":     id,
	})
}

func (s *Server) handleAnalyzeAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InterviewID string `json:"interview_id"`
		QuestionID  int    `json:"question_id"`
		Question    string `json:"question"`
		Answer      string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	eval, err := s.Sessions.SubmitAnswer(r.Context(), req.InterviewID, req.QuestionID, req.Question, req.Answer)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InterviewID       string `json:"interview_id"`
		CurrentQuestionID int    `json:"current_question_id"`
		AnswerText        string `json:"answer_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	q, err := s.Sessions.InsertFollowUp(r.Context(), req.InterviewID, req.CurrentQuestionID, req.AnswerText)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	report, err := s.Reports.Build(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.Transcriber == nil {
		writeError(w, http.StatusServiceUnavailable, "transcription is not configured")
		return
	}
	if err := r.ParseMultipartForm(s.MaxUploadMB << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio is required")
		return
	}
	defer func() { _ = file.Close() }()
	audio, err := io.ReadAll(io.LimitReader(file, s.MaxUploadMB<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read audio")
		return
	}
	language := r.FormValue("language")
	if language == "" {
		language = "en"
	}
	text, err := s.Transcriber.Transcribe(r.Context(), audio, language, r.FormValue("candidate_name"))
	if err != nil {
		if errors.Is(err, domain.ErrServiceUnavailable) {
			writeError(w, http.StatusBadGateway, "transcription service unavailable")
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func writeSessionCreated(w http.ResponseWriter, sess domain.Session) {
	writeJSON(w, http.StatusOK, map[string]any{
		"interview_id":    sess.ID,
		"total_questions": len(sess.Questions),
		"first_question":  sess.Questions[0],
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnreadableDocument), errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("request failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
