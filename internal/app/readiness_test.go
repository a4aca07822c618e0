package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interviewer/internal/config"
)

func TestBuildReadinessChecks(t *testing.T) {
	t.Parallel()
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	cfg := config.Config{OllamaBaseURL: up.URL, WhisperBaseURL: down.URL}
	llmCheck, sttCheck, sessionCheck := BuildReadinessChecks(cfg, nil)

	assert.NoError(t, llmCheck(context.Background()))
	assert.ErrorContains(t, sttCheck(context.Background()), "status 500")
	require.Nil(t, sessionCheck)
}
