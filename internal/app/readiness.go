package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fairyhunter13/ai-interviewer/internal/config"
)

// Pinger is the minimal interface for a session backend capable of Ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BuildReadinessChecks returns readiness checks for the LLM backend, the
// speech backend, and the session backend. The session check is nil for the
// in-memory store.
func BuildReadinessChecks(cfg config.Config, sessions Pinger) (
	func(ctx context.Context) error,
	func(ctx context.Context) error,
	func(ctx context.Context) error,
) {
	httpCheck := func(url string) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			client := &http.Client{Timeout: 2 * time.Second}
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil
			}
			return fmt.Errorf("status %d", resp.StatusCode)
		}
	}

	llmCheck := httpCheck(cfg.OllamaBaseURL + "/api/tags")
	sttCheck := httpCheck(cfg.WhisperBaseURL + "/health")

	var sessionCheck func(ctx context.Context) error
	if sessions != nil {
		sessionCheck = sessions.Ping
	}
	return llmCheck, sttCheck, sessionCheck
}
