package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNamed(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o640))
	return path
}

func TestSweepOnce_DeletesOnlyExpired(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	sessDir := filepath.Join(root, "sess-1")
	require.NoError(t, os.MkdirAll(sessDir, 0o750))

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	old := writeNamed(t, sessDir, StampName("old.wav", now.Add(-48*time.Hour)))
	fresh := writeNamed(t, sessDir, StampName("fresh.wav", now.Add(-time.Hour)))
	malformed := writeNamed(t, sessDir, "no-timestamp-here.wav")

	sw := NewSweeper(root, 24*time.Hour)
	sw.now = func() time.Time { return now }

	deleted := sw.SweepOnce(context.Background())
	assert.Equal(t, 1, deleted)

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, malformed)
}

func TestSweepOnce_ExactlyAtCutoffKept(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	boundary := writeNamed(t, root, StampName("edge.wav", now.Add(-24*time.Hour)))

	sw := NewSweeper(root, 24*time.Hour)
	sw.now = func() time.Time { return now }

	assert.Equal(t, 0, sw.SweepOnce(context.Background()))
	assert.FileExists(t, boundary)
}

func TestSweepOnce_EmptyRoot(t *testing.T) {
	t.Parallel()
	sw := NewSweeper(t.TempDir(), time.Hour)
	assert.Equal(t, 0, sw.SweepOnce(context.Background()))
}

func TestRunPeriodic_StopsOnCancel(t *testing.T) {
	t.Parallel()
	sw := NewSweeper(t.TempDir(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.RunPeriodic(ctx, 50*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
