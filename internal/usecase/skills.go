package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/fairyhunter13/ai-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-interviewer/pkg/jsonx"
	"github.com/fairyhunter13/ai-interviewer/pkg/textx"
)

const extractSkillsPrompt = `Extract all technical skills, programming languages, frameworks, libraries and tools mentioned in this job description.

Return only a JSON list of the extracted items, with no additional text or explanation.

Job Description:
%s`

// SkillService extracts normalized skill names from job-description text via
// the LLM gateway.
type SkillService struct {
	AI    domain.LLMClient
	Model string
}

// NewSkillService constructs a SkillService.
func NewSkillService(ai domain.LLMClient, model string) SkillService {
	return SkillService{AI: ai, Model: model}
}

// Extract prompts the model (streaming) and parses its output into a skill
// list. Upstream failures propagate; malformed model output degrades to
// comma-splitting and is never an error.
func (s SkillService) Extract(ctx domain.Context, jdText string) ([]string, error) {
	out, err := s.AI.Generate(ctx, s.Model, fmt.Sprintf(extractSkillsPrompt, jdText), true)
	if err != nil {
		return nil, fmt.Errorf("extract skills: %w", err)
	}
	return ParseSkillList(out), nil
}

// ParseSkillList parses model output as a JSON list of strings, preserving
// order. Non-JSON output falls back to the comma-split, whitespace-trimmed,
// non-empty tokens of the raw text. This degradation is accepted, not an
// error.
func ParseSkillList(out string) []string {
	var skills []string
	if err := json.Unmarshal([]byte(out), &skills); err == nil {
		return skills
	}
	if cleaned := jsonx.Clean(out); json.Unmarshal([]byte(cleaned), &skills) == nil {
		return skills
	}
	return textx.SplitCommaList(out)
}
