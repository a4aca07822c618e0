package textx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-interviewer/pkg/textx"
)

func TestSanitizeText_StripsControlChars(t *testing.T) {
	t.Parallel()
	in := "  hello\x00world\ttab\nline\r\n  "
	assert.Equal(t, "helloworld\ttab\nline", textx.SanitizeText(in))
}

func TestSanitizeText_InvalidUTF8(t *testing.T) {
	t.Parallel()
	in := string([]byte{0xff, 0xfe}) + "ok"
	assert.Equal(t, "ok", textx.SanitizeText(in))
}

func TestSplitCommaList(t *testing.T) {
	t.Parallel()
	got := textx.SplitCommaList(" Go , , Python,Kubernetes ,")
	assert.Equal(t, []string{"Go", "Python", "Kubernetes"}, got)
}

func TestSplitCommaList_NoCommas(t *testing.T) {
	t.Parallel()
	got := textx.SplitCommaList("just some prose output")
	assert.Equal(t, []string{"just some prose output"}, got)
}
