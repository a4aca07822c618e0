// Package whisper provides a speech-recognition HTTP client implementing
// domain.Transcriber.
//
// It targets a whisper.cpp server style API: POST /inference with the audio
// file as multipart form data, returning {"text": "..."}.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/ai-interviewer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-interviewer/internal/domain"
)

// Client is a minimal transcription client. Transport failures and 5xx
// responses are retried with exponential backoff; 4xx responses are not.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxElapsed time.Duration
}

// New constructs a Client. maxElapsed caps total retry time; 0 selects 30s.
func New(baseURL string, maxElapsed time.Duration) *Client {
	if maxElapsed <= 0 {
		maxElapsed = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		maxElapsed: maxElapsed,
	}
}

type inferenceResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// Transcribe uploads the stored audio file at path and returns its transcript.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}

	var transcript string
	op := func() error {
		t, err := c.infer(ctx, filepath.Base(path), data)
		if err != nil {
			return err
		}
		transcript = t
		return nil
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.maxElapsed
	err = backoff.Retry(op, backoff.WithContext(bo, ctx))
	if err != nil {
		observability.TranscriptionsTotal.WithLabelValues("error").Inc()
		return "", err
	}
	observability.TranscriptionsTotal.WithLabelValues("ok").Inc()
	return transcript, nil
}

func (c *Client) infer(ctx context.Context, filename string, data []byte) (string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", backoff.Permanent(err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", backoff.Permanent(err)
	}
	if err := mw.Close(); err != nil {
		return "", backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/inference", buf)
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("%w: inference status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", backoff.Permanent(fmt.Errorf("%w: inference status %d: %s", domain.ErrInvalidArgument, resp.StatusCode, strings.TrimSpace(string(body))))
	}
	var out inferenceResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode inference response: %w", err))
	}
	if out.Error != "" {
		// Recognition errors (corrupt audio, unsupported codec) will not
		// improve on retry.
		return "", backoff.Permanent(fmt.Errorf("transcription failed: %s", out.Error))
	}
	return strings.TrimSpace(out.Text), nil
}
