// Package jsonx provides helpers for recovering JSON from LLM output.
//
// Models frequently wrap otherwise valid JSON in markdown code fences or
// surround it with prose. These helpers strip that noise so a strict
// json.Unmarshal can be attempted; callers fall back to their own degraded
// parsing when recovery fails.
package jsonx

import (
	"strings"
)

// Clean strips markdown code fences and surrounding whitespace from s.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimLeft(s, "\r\n")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractObject returns the first balanced {...} object embedded in s.
// The second return is false when no complete object is present.
func ExtractObject(s string) (string, bool) {
	return extractBalanced(s, '{', '}')
}

func extractBalanced(s string, open, closing byte) (string, bool) {
	start := strings.IndexByte(s, open)
	if start == -1 {
		return "", false
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
