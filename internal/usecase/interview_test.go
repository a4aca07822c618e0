package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memorystore "github.com/fairyhunter13/ai-interviewer/internal/adapter/session/memory"
	"github.com/fairyhunter13/ai-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-interviewer/internal/usecase"
)

func newInterviewService(llm *stubLLM, store domain.SessionStore) usecase.InterviewService {
	return usecase.NewInterviewService(
		usecase.NewSkillService(llm, "test-model"),
		usecase.NewQuestionService(llm, "test-model"),
		store,
	)
}

func TestInterviewService_Prepare_StoresSession(t *testing.T) {
	t.Parallel()
	llm := &stubLLM{outputs: []string{
		`["Go", "Kubernetes"]`,
		`{"Go": ["q1"], "Kubernetes": ["q2"]}`,
	}}
	store := memorystore.New(0)
	svc := newInterviewService(llm, store)

	sess, err := svc.Prepare(context.Background(), "sess-1", "build things in Go")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes"}, sess.Skills)
	assert.True(t, sess.Questions.IsStructured())

	stored, err := store.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess.Skills, stored.Skills)
	assert.Equal(t, "build things in Go", stored.JobDescription)
}

func TestInterviewService_Prepare_OverwritesPriorEntry(t *testing.T) {
	t.Parallel()
	store := memorystore.New(0)

	llm := &stubLLM{outputs: []string{`["Go"]`, `{"Go": ["q1"]}`}}
	_, err := newInterviewService(llm, store).Prepare(context.Background(), "sess-1", "first jd")
	require.NoError(t, err)

	llm2 := &stubLLM{outputs: []string{`["Rust"]`, `{"Rust": ["q9"]}`}}
	_, err = newInterviewService(llm2, store).Prepare(context.Background(), "sess-1", "second jd")
	require.NoError(t, err)

	got, err := store.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	// Full replacement, not a merge.
	assert.Equal(t, "second jd", got.JobDescription)
	assert.Equal(t, []string{"Rust"}, got.Skills)
	assert.Nil(t, got.Questions.Structured["Go"])
}

func TestInterviewService_Prepare_LLMFailureLeavesStoreUntouched(t *testing.T) {
	t.Parallel()
	store := memorystore.New(0)
	llm := &stubLLM{err: errors.New("backend down")}
	svc := newInterviewService(llm, store)

	_, err := svc.Prepare(context.Background(), "sess-1", "jd")
	require.Error(t, err)

	_, err = store.Get(context.Background(), "sess-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
