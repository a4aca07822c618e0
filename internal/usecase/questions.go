package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-interviewer/pkg/jsonx"
)

const generateQuestionsPrompt = `You are an expert technical interviewer.
Generate interview questions for the following skills:
%s

For each skill:
- Give 1 technical question (focused on practical knowledge).
- Give 1 behavioral question (focused on teamwork, problem-solving, project experience).

Return the result as a JSON dictionary, where each key is a skill and its value is a list of the questions.

Example format: { "java": ["q1", "q2"], "python": ["q1", "q2"] }
Return the JSON only, with no extra explanation or text.`

// QuestionService generates per-skill interview questions via the LLM gateway.
type QuestionService struct {
	AI    domain.LLMClient
	Model string
}

// NewQuestionService constructs a QuestionService.
func NewQuestionService(ai domain.LLMClient, model string) QuestionService {
	return QuestionService{AI: ai, Model: model}
}

// Generate prompts the model (streaming) with the comma-joined skill list and
// parses its output. When the output is not a JSON object the raw text is
// returned on the Raw branch; consumers must handle both.
func (s QuestionService) Generate(ctx domain.Context, skills []string) (domain.QuestionSet, error) {
	prompt := fmt.Sprintf(generateQuestionsPrompt, strings.Join(skills, ", "))
	out, err := s.AI.Generate(ctx, s.Model, prompt, true)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("generate questions: %w", err)
	}
	return ParseQuestionSet(out), nil
}

// ParseQuestionSet parses model output into the QuestionSet tagged union:
// structured mapping when the output is a JSON object of string lists,
// raw passthrough otherwise.
func ParseQuestionSet(out string) domain.QuestionSet {
	var m map[string][]string
	if err := json.Unmarshal([]byte(out), &m); err == nil {
		return domain.QuestionSet{Structured: m}
	}
	if cleaned := jsonx.Clean(out); json.Unmarshal([]byte(cleaned), &m) == nil {
		return domain.QuestionSet{Structured: m}
	}
	return domain.QuestionSet{Raw: out}
}
