package usecase_test

import (
	"github.com/fairyhunter13/ai-interviewer/internal/domain"
)

// stubLLM returns canned outputs in call order and records every call.
type stubLLM struct {
	outputs []string
	err     error
	calls   []llmCall
}

type llmCall struct {
	Model  string
	Prompt string
	Stream bool
}

func (s *stubLLM) Generate(_ domain.Context, model, prompt string, stream bool) (string, error) {
	s.calls = append(s.calls, llmCall{Model: model, Prompt: prompt, Stream: stream})
	if s.err != nil {
		return "", s.err
	}
	i := len(s.calls) - 1
	if i >= len(s.outputs) {
		i = len(s.outputs) - 1
	}
	return s.outputs[i], nil
}
