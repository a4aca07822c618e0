// Package ollama provides a minimal HTTP client for an Ollama-style
// text-generation backend implementing domain.LLMClient.
//
// It performs POST /api/generate. In streaming mode the backend responds
// with newline-delimited JSON fragments; fragments that fail to parse are
// skipped rather than surfaced. In non-streaming mode a single JSON object
// carries the full text under "response".
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-interviewer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-interviewer/internal/domain"
)

// maxFragmentSize bounds a single streamed NDJSON line.
const maxFragmentSize = 1 << 20

// Client talks to one Ollama-compatible endpoint. The zero timeouts are
// replaced with defaults in New; the model identifier is caller-supplied and
// not validated against an allow-list.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	streamTimeout   time.Duration
	generateTimeout time.Duration
}

// New constructs a Client. streamTimeout bounds streaming calls (0 disables
// the bound); generateTimeout bounds non-streaming calls.
func New(baseURL string, streamTimeout, generateTimeout time.Duration) *Client {
	if generateTimeout <= 0 {
		generateTimeout = 120 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Timeouts are applied per-request via context so that streaming
		// responses are not cut off mid-body by a client-wide deadline.
		httpClient:      &http.Client{},
		streamTimeout:   streamTimeout,
		generateTimeout: generateTimeout,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateFragment struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate issues one prompt and returns the assembled output text.
func (c *Client) Generate(ctx context.Context, model, prompt string, stream bool) (string, error) {
	mode := "generate"
	timeout := c.generateTimeout
	if stream {
		mode = "generate_stream"
		timeout = c.streamTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.generate(ctx, model, prompt, stream)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	observability.ObserveLLMRequest(model, mode, outcome, time.Since(start))
	return text, err
}

func (c *Client) generate(ctx context.Context, model, prompt string, stream bool) (string, error) {
	body, err := json.Marshal(generateRequest{Model: model, Prompt: prompt, Stream: stream})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.mapTransportErr(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: generate status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	if !stream {
		var out generateFragment
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", fmt.Errorf("%w: decode generate response: %v", domain.ErrUpstreamUnavailable, err)
		}
		return out.Response, nil
	}

	var sb strings.Builder
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), maxFragmentSize)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var frag generateFragment
		if err := json.Unmarshal(line, &frag); err != nil {
			// Malformed fragments are expected noise; keep the stream going.
			continue
		}
		sb.WriteString(frag.Response)
		if frag.Done {
			break
		}
	}
	if err := sc.Err(); err != nil {
		// A stalled stream fails this one request; partial output is dropped.
		return "", c.mapTransportErr(err)
	}
	return sb.String(), nil
}

func (c *Client) mapTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
}
