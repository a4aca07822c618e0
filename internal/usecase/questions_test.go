package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interviewer/internal/usecase"
)

func TestQuestionService_Generate_Structured(t *testing.T) {
	t.Parallel()
	llm := &stubLLM{outputs: []string{`{"go": ["q1", "q2"], "python": ["q3"]}`}}
	svc := usecase.NewQuestionService(llm, "test-model")

	qs, err := svc.Generate(context.Background(), []string{"go", "python"})
	require.NoError(t, err)
	require.True(t, qs.IsStructured())
	assert.Equal(t, []string{"q1", "q2"}, qs.Structured["go"])
	require.Len(t, llm.calls, 1)
	assert.True(t, llm.calls[0].Stream)
	assert.Contains(t, llm.calls[0].Prompt, "go, python")
}

func TestQuestionService_Generate_RawFallback(t *testing.T) {
	t.Parallel()
	raw := "Here are some questions:\n1. What is a goroutine?"
	llm := &stubLLM{outputs: []string{raw}}
	svc := usecase.NewQuestionService(llm, "test-model")

	qs, err := svc.Generate(context.Background(), []string{"go"})
	require.NoError(t, err)
	assert.False(t, qs.IsStructured())
	assert.Equal(t, raw, qs.Raw)
}

func TestParseQuestionSet_FencedObject(t *testing.T) {
	t.Parallel()
	qs := usecase.ParseQuestionSet("```json\n{\"go\": [\"q1\"]}\n```")
	require.True(t, qs.IsStructured())
	assert.Equal(t, []string{"q1"}, qs.Structured["go"])
}
