package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interviewer/internal/domain"
)

func TestQuestionSet_MarshalStructured(t *testing.T) {
	t.Parallel()
	q := domain.QuestionSet{Structured: map[string][]string{"go": {"q1", "q2"}}}
	b, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"go":["q1","q2"]}`, string(b))
}

func TestQuestionSet_MarshalRaw(t *testing.T) {
	t.Parallel()
	q := domain.QuestionSet{Raw: "the model said something unstructured"}
	b, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, `"the model said something unstructured"`, string(b))
}

func TestQuestionSet_UnmarshalBothBranches(t *testing.T) {
	t.Parallel()
	var q domain.QuestionSet
	require.NoError(t, json.Unmarshal([]byte(`{"go":["q1"]}`), &q))
	assert.True(t, q.IsStructured())
	assert.Equal(t, []string{"q1"}, q.Structured["go"])

	require.NoError(t, json.Unmarshal([]byte(`"raw text"`), &q))
	assert.False(t, q.IsStructured())
	assert.Equal(t, "raw text", q.Raw)
}

func TestSession_JSONRoundTrip(t *testing.T) {
	t.Parallel()
	s := domain.Session{
		ID:             "sess-1",
		JobDescription: "backend role",
		Skills:         []string{"Go", "Postgres"},
		Questions:      domain.QuestionSet{Structured: map[string][]string{"Go": {"q1"}}},
	}
	b, err := json.Marshal(s)
	require.NoError(t, err)
	var got domain.Session
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, s.Skills, got.Skills)
	assert.Equal(t, s.Questions, got.Questions)
}

func TestDefaultEvaluation(t *testing.T) {
	t.Parallel()
	ev := domain.DefaultEvaluation()
	assert.Equal(t, 5, ev.Score)
	assert.Equal(t, "Answer has some valid points", ev.Strengths)
	assert.Equal(t, "Provide more structured explanation", ev.Improvements)
}
