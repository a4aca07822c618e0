package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fairyhunter13/ai-interviewer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-interviewer/internal/config"
	"github.com/fairyhunter13/ai-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-interviewer/internal/usecase"
	"github.com/fairyhunter13/ai-interviewer/pkg/textx"
)

// Server aggregates handlers dependencies.
type Server struct {
	Cfg          config.Config
	Interview    usecase.InterviewService
	Evaluate     usecase.EvaluateService
	Speech       usecase.SpeechService
	Extractor    domain.TextExtractor
	LLMCheck     func(ctx domain.Context) error
	STTCheck     func(ctx domain.Context) error
	SessionCheck func(ctx domain.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, interview usecase.InterviewService, eval usecase.EvaluateService, speech usecase.SpeechService, extractor domain.TextExtractor, llmCheck, sttCheck, sessionCheck func(ctx domain.Context) error) *Server {
	return &Server{Cfg: cfg, Interview: interview, Evaluate: eval, Speech: speech, Extractor: extractor, LLMCheck: llmCheck, STTCheck: sttCheck, SessionCheck: sessionCheck}
}

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// allowedExt enforces an allowlist for job-description uploads: .txt, .pdf, .docx
func allowedExt(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".txt") || strings.HasSuffix(n, ".pdf") || strings.HasSuffix(n, ".docx")
}

func allowedMIMEFor(m string, filename string) bool {
	m = strings.ToLower(m)
	// For .txt files, accept any text/* as some detectors misclassify rich text
	if strings.HasSuffix(strings.ToLower(filename), ".txt") {
		if strings.HasPrefix(m, "text/") {
			return true
		}
	}
	if strings.HasPrefix(m, "text/plain") { // allow parameters such as charset
		return true
	}
	return m == "application/pdf" || m == "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// bodyTooLarge reports whether err stems from http.MaxBytesReader tripping.
// The limit error surfaces through form parsing only as wrapped text.
func bodyTooLarge(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "too large")
}

// notAcceptable rejects requests that cannot accept JSON responses.
func notAcceptable(w http.ResponseWriter, r *http.Request) bool {
	if a := r.Header.Get("Accept"); a != "" && a != "*/*" && !strings.Contains(a, "application/json") {
		writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "not acceptable", Details: map[string]any{"accept": a}}})
		return true
	}
	return false
}

// ExtractAndGenerateHandler extracts skills from a job description and
// generates interview questions, storing the session state under the
// caller-supplied session id. The job description arrives either as the
// jd_text form field or as an uploaded .txt/.pdf/.docx file, never both.
func (s *Server) ExtractAndGenerateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r) {
			return
		}
		sessionID := chi.URLParam(r, "session_id")
		if !sessionIDPattern.MatchString(sessionID) {
			writeError(w, r, fmt.Errorf("%w: invalid session id", domain.ErrInvalidArgument), map[string]string{"field": "session_id"})
			return
		}

		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		jdText, fromFile, err := s.readJobDescription(r, maxBytes)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if textx.SanitizeText(jdText) == "" {
			detail := "jd_text"
			if fromFile {
				detail = "file"
			}
			writeError(w, r, fmt.Errorf("%w: empty job description", domain.ErrInvalidArgument), map[string]string{"field": detail})
			return
		}

		sess, err := s.Interview.Prepare(r.Context(), sessionID, jdText)
		if err != nil {
			LoggerFrom(r).Error("interview preparation failed", "session_id", sessionID, "error", err)
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id": sess.ID,
			"skills":     sess.Skills,
			"questions":  sess.Questions,
		})
	}
}

// readJobDescription returns the job-description text from the request. The
// jd_text field and file upload are mutually exclusive; supplying both or
// neither is an invalid-argument error.
func (s *Server) readJobDescription(r *http.Request, maxBytes int64) (string, bool, error) {
	ct := r.Header.Get("Content-Type")
	if strings.Contains(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if bodyTooLarge(err) {
				return "", false, fmt.Errorf("%w: payload exceeds %d MB", domain.ErrPayloadTooLarge, s.Cfg.MaxUploadMB)
			}
			return "", false, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			if bodyTooLarge(err) {
				return "", false, fmt.Errorf("%w: payload exceeds %d MB", domain.ErrPayloadTooLarge, s.Cfg.MaxUploadMB)
			}
			return "", false, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
		}
	}

	jdText := r.FormValue("jd_text")
	file, header, ferr := r.FormFile("file")
	hasFile := ferr == nil
	if hasFile {
		defer func() { _ = file.Close() }()
	}

	switch {
	case jdText != "" && hasFile:
		return "", false, fmt.Errorf("%w: provide either jd_text or file, not both", domain.ErrInvalidArgument)
	case jdText == "" && !hasFile:
		return "", false, fmt.Errorf("%w: provide jd_text or file", domain.ErrInvalidArgument)
	case jdText != "":
		return jdText, false, nil
	}

	if !allowedExt(header.Filename) {
		return "", true, fmt.Errorf("%w: unsupported extension for %q", domain.ErrUnsupportedMedia, header.Filename)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", true, fmt.Errorf("%w: read upload: %v", domain.ErrInvalidArgument, err)
	}
	if m := mimetype.Detect(data); !allowedMIMEFor(m.String(), header.Filename) {
		return "", true, fmt.Errorf("%w: unsupported content %q for %q", domain.ErrUnsupportedMedia, m.String(), header.Filename)
	}
	text, err := s.Extractor.Extract(header.Filename, data)
	if err != nil {
		return "", true, err
	}
	return text, true, nil
}

// EvaluateAnswersHandler scores a batch of question/answer pairs against an
// existing session. Unknown or expired session ids fail the request;
// individual evaluations never do.
func (s *Server) EvaluateAnswersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r) {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
		var req struct {
			SessionID string          `json:"session_id" validate:"required,max=100"`
			QAPairs   []domain.QAPair `json:"qa_pairs" validate:"required,min=1,dive"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if bodyTooLarge(err) {
				writeError(w, r, fmt.Errorf("%w: body exceeds 1 MB", domain.ErrPayloadTooLarge), nil)
				return
			}
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			verrs := map[string]string{}
			if ve, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range ve {
					verrs[strings.ToLower(fe.Field())] = fe.Tag()
				}
			}
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
			return
		}

		evaluations, err := s.Evaluate.Batch(r.Context(), req.SessionID, req.QAPairs)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		for _, ev := range evaluations {
			observability.ObserveEvaluationScore(ev.Score)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id":  req.SessionID,
			"evaluations": evaluations,
		})
	}
}

// SpeechToTextHandler accepts uploaded audio, stores it under the session's
// media directory, and returns the transcript. Storage and transcription
// failures are reported in an error field with a 200 status; only malformed
// requests get an HTTP error.
func (s *Server) SpeechToTextHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r) {
			return
		}
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if bodyTooLarge(err) {
				writeError(w, r, fmt.Errorf("%w: payload exceeds %d MB", domain.ErrPayloadTooLarge, s.Cfg.MaxUploadMB), nil)
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		sessionID := r.FormValue("session_id")
		if !sessionIDPattern.MatchString(sessionID) {
			writeError(w, r, fmt.Errorf("%w: invalid session id", domain.ErrInvalidArgument), map[string]string{"field": "session_id"})
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: audio file required", domain.ErrInvalidArgument), map[string]string{"field": "file"})
			return
		}
		defer func() { _ = file.Close() }()
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: read upload: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		transcript, storedPath, err := s.Speech.Ingest(r.Context(), sessionID, header.Filename, data)
		if err != nil {
			LoggerFrom(r).Warn("speech ingestion failed", "session_id", sessionID, "error", err)
			writeJSON(w, http.StatusOK, map[string]any{"error": err.Error(), "stored_path": storedPath})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"transcript":  transcript,
			"stored_path": storedPath,
		})
	}
}

// ReadyzHandler probes the LLM backend, the speech backend, and the session
// store when a remote one is configured.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 3)
		run := func(name string, fn func(ctx domain.Context) error) {
			if fn == nil {
				return
			}
			if err := fn(ctx); err != nil {
				checks = append(checks, check{Name: name, OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: name, OK: true})
			}
		}
		run("llm", s.LLMCheck)
		run("stt", s.STTCheck)
		run("sessions", s.SessionCheck)
		st := http.StatusOK
		for _, c := range checks {
			if !c.OK {
				st = http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
