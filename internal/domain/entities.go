package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrUnsupportedMedia    = errors.New("unsupported media")
	ErrPayloadTooLarge     = errors.New("payload too large")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrInternal            = errors.New("internal error")
)

// Session is the state accumulated for one interview preparation run, keyed
// by a caller-chosen identifier. A later call with the same identifier fully
// replaces the entry; entries are never merged.
type Session struct {
	ID             string      `json:"id"`
	JobDescription string      `json:"job_description"`
	Skills         []string    `json:"skills"`
	Questions      QuestionSet `json:"questions"`
	CreatedAt      time.Time   `json:"created_at"`
}

// QuestionSet is a tagged union: either a structured mapping from skill to
// question list, or the raw model output when that mapping could not be
// parsed. Exactly one branch is populated.
type QuestionSet struct {
	Structured map[string][]string
	Raw        string
}

// IsStructured reports whether the structured branch is populated.
func (q QuestionSet) IsStructured() bool { return q.Structured != nil }

// MarshalJSON renders the populated branch: a JSON object for structured
// question sets, a JSON string otherwise.
func (q QuestionSet) MarshalJSON() ([]byte, error) {
	if q.Structured != nil {
		return json.Marshal(q.Structured)
	}
	return json.Marshal(q.Raw)
}

// UnmarshalJSON accepts either branch, so stored sessions round-trip.
func (q *QuestionSet) UnmarshalJSON(b []byte) error {
	var m map[string][]string
	if err := json.Unmarshal(b, &m); err == nil {
		q.Structured = m
		q.Raw = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	q.Structured = nil
	q.Raw = s
	return nil
}

// QAPair is one question/answer pair submitted for evaluation. It exists only
// for the lifetime of a single evaluate-answers request.
type QAPair struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
	Mode     string `json:"mode,omitempty"`
}

// Evaluation is the model's judgement of a single answer. The score is taken
// from the model verbatim; the intended range is 1-10 but it is not clamped.
type Evaluation struct {
	Score        int    `json:"score"`
	Strengths    string `json:"strengths"`
	Improvements string `json:"improvements"`
}

// DefaultEvaluation is returned whenever the model's output cannot be parsed.
// Evaluation never hard-fails a batch.
func DefaultEvaluation() Evaluation {
	return Evaluation{
		Score:        5,
		Strengths:    "Answer has some valid points",
		Improvements: "Provide more structured explanation",
	}
}

// SessionStore (port)
//
// Put overwrites any existing entry with the same id. Get returns
// ErrNotFound for ids that were never stored or whose entry expired.
type SessionStore interface {
	Put(ctx Context, s Session) error
	Get(ctx Context, id string) (Session, error)
}

// LLMClient (port)
//
// Generate issues one prompt to a text-generation backend and returns the
// fully assembled output text. In streaming mode the implementation
// concatenates incremental fragments in arrival order.
type LLMClient interface {
	Generate(ctx Context, model, prompt string, stream bool) (string, error)
}

// Transcriber (port) converts a stored audio file into text.
type Transcriber interface {
	Transcribe(ctx Context, path string) (string, error)
}

// TextExtractor (port) extracts plain text from an uploaded document.
type TextExtractor interface {
	Extract(filename string, data []byte) (string, error)
}

// MediaStore (port) persists uploaded audio under a per-session directory and
// returns the stored path.
type MediaStore interface {
	Save(ctx Context, sessionID, filename string, data []byte) (string, error)
}

// Context is an alias to context.Context; adapters and usecases pass the
// standard context through.
type Context = context.Context
