package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interviewer/internal/domain"
)

func TestStampName_RoundTrip(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 29, 12, 30, 45, 0, time.UTC)
	name := StampName("answer.wav", now)
	assert.True(t, strings.HasPrefix(name, "answer_20260829123045_"))
	assert.True(t, strings.HasSuffix(name, ".wav"))

	ts, err := ParseStamp(name)
	require.NoError(t, err)
	assert.Equal(t, now, ts)
}

func TestStampName_UnderscoredClientName(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	name := StampName("my_long_recording_name.wav", now)
	// The timestamp must stay in the second-to-last segment regardless of
	// underscores in the client-supplied stem.
	ts, err := ParseStamp(name)
	require.NoError(t, err)
	assert.Equal(t, now, ts)
}

func TestStampName_TraversalStripped(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC().Truncate(time.Second)
	name := StampName("../../etc/passwd", now)
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "..")
	_, err := ParseStamp(name)
	require.NoError(t, err)
}

func TestStampName_EmptyGetsGeneratedStem(t *testing.T) {
	t.Parallel()
	name := StampName("", time.Now().UTC())
	parts := strings.Split(name, "_")
	require.GreaterOrEqual(t, len(parts), 3)
	assert.NotEmpty(t, parts[0])
}

func TestParseStamp_Malformed(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"plain.wav", "one_segment", "a_notatimestamp_b.wav"} {
		_, err := ParseStamp(name)
		assert.Error(t, err, name)
	}
}

func TestStore_Save_WritesUnderSessionDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	st, err := NewStore(root)
	require.NoError(t, err)
	st.now = func() time.Time { return time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC) }

	path, err := st.Save(context.Background(), "sess-1", "rec.wav", []byte("audio"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sess-1"), filepath.Dir(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "audio", string(b))
}

func TestStore_Save_RejectsBadSessionID(t *testing.T) {
	t.Parallel()
	st, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"", "../up", "a/b", "white space"} {
		_, err := st.Save(context.Background(), id, "rec.wav", []byte("x"))
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, id)
	}
}
