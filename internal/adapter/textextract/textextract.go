// Package textextract extracts plain text from uploaded job-description
// documents. It handles .txt, .pdf, and .docx locally; anything else is an
// explicit unsupported-format error, never a best-effort parse.
package textextract

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/fairyhunter13/ai-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-interviewer/pkg/textx"
)

// Extractor implements domain.TextExtractor with local parsers.
type Extractor struct{}

// New constructs an Extractor.
func New() Extractor { return Extractor{} }

// Extract returns the plain text of the document, dispatching on extension.
func (Extractor) Extract(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return textx.SanitizeText(string(data)), nil
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDocx(data)
	default:
		return "", fmt.Errorf("%w: unsupported file extension %q", domain.ErrUnsupportedMedia, ext)
	}
}

// extractPDF concatenates per-page text with newlines.
func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", domain.ErrInvalidArgument, err)
	}
	var sb strings.Builder
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(text)
	}
	return textx.SanitizeText(sb.String()), nil
}

var docxTag = regexp.MustCompile(`<[^>]+>`)

// extractDocx concatenates paragraph text with newlines.
func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: parse docx: %v", domain.ErrInvalidArgument, err)
	}
	defer func() { _ = doc.Close() }()
	content := doc.Editable().GetContent()
	// The library returns the raw document XML; paragraph boundaries become
	// newlines and the remaining markup is stripped.
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = docxTag.ReplaceAllString(content, "")
	return textx.SanitizeText(html.UnescapeString(content)), nil
}
