// Package usecase contains application business logic services.
package usecase

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-interviewer/pkg/jsonx"
)

const evaluateAnswerPrompt = `You are an interviewer. Evaluate the candidate's answer.

Question: %s
Answer: %s

Return the evaluation ONLY as a JSON object.
Do not include any text, explanations, or code fences.
The JSON must strictly follow this schema:

{
  "score": <integer 1-10>,
  "strengths": "<short text>",
  "improvements": "<short text>"
}`

// AnswerEvaluation pairs one submitted answer with the model's judgement.
type AnswerEvaluation struct {
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Score        int    `json:"score"`
	Strengths    string `json:"strengths"`
	Improvements string `json:"improvements"`
}

// EvaluateService scores candidate answers against session questions via the
// LLM gateway.
type EvaluateService struct {
	AI       domain.LLMClient
	Model    string
	Sessions domain.SessionStore
}

// NewEvaluateService constructs an EvaluateService.
func NewEvaluateService(ai domain.LLMClient, model string, sessions domain.SessionStore) EvaluateService {
	return EvaluateService{AI: ai, Model: model, Sessions: sessions}
}

// Batch validates the session exists and evaluates every pair in order.
// Unknown sessions return domain.ErrNotFound; individual evaluations never
// fail the batch.
func (s EvaluateService) Batch(ctx domain.Context, sessionID string, pairs []domain.QAPair) ([]AnswerEvaluation, error) {
	if _, err := s.Sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	out := make([]AnswerEvaluation, 0, len(pairs))
	for _, qa := range pairs {
		ev := s.Evaluate(ctx, qa.Question, qa.Answer)
		out = append(out, AnswerEvaluation{
			Question:     qa.Question,
			Answer:       qa.Answer,
			Score:        ev.Score,
			Strengths:    ev.Strengths,
			Improvements: ev.Improvements,
		})
	}
	return out, nil
}

// Evaluate scores one answer with a non-streaming generation call. Upstream
// failures and unparseable output both degrade to the fixed default
// evaluation; the score is taken from the model verbatim, unclamped.
func (s EvaluateService) Evaluate(ctx domain.Context, question, answer string) domain.Evaluation {
	prompt := fmt.Sprintf(evaluateAnswerPrompt, question, answer)
	out, err := s.AI.Generate(ctx, s.Model, prompt, false)
	if err != nil {
		slog.Warn("evaluation call failed, returning default", slog.Any("error", err))
		return domain.DefaultEvaluation()
	}
	return ParseEvaluation(out)
}

// ParseEvaluation parses model output as the evaluation object. Any parse
// failure yields the fixed default rather than an error.
func ParseEvaluation(out string) domain.Evaluation {
	var ev domain.Evaluation
	if err := json.Unmarshal([]byte(out), &ev); err == nil {
		return ev
	}
	if extracted, ok := jsonx.ExtractObject(jsonx.Clean(out)); ok {
		if err := json.Unmarshal([]byte(extracted), &ev); err == nil {
			return ev
		}
	}
	slog.Debug("unparseable evaluation output, returning default")
	return domain.DefaultEvaluation()
}
