package media

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fairyhunter13/ai-interviewer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-interviewer/internal/domain"
)

// Sweeper deletes stored media files whose filename-embedded timestamp is
// older than the retention window. Per-file errors are logged and skipped;
// one bad file never aborts a sweep.
type Sweeper struct {
	root      string
	retention time.Duration
	now       func() time.Time
}

// NewSweeper constructs a Sweeper over root with the given retention window.
func NewSweeper(root string, retention time.Duration) *Sweeper {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &Sweeper{root: root, retention: retention, now: time.Now}
}

// SweepOnce scans the media root and deletes every regular file older than
// the retention window. It returns the number of files deleted.
func (s *Sweeper) SweepOnce(ctx domain.Context) int {
	cutoff := s.now().UTC().Add(-s.retention)
	deleted := 0
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("sweep: cannot access entry", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		ts, perr := ParseStamp(d.Name())
		if perr != nil {
			// Malformed names are never deleted.
			slog.Debug("sweep: skipping malformed name", slog.String("name", d.Name()), slog.Any("error", perr))
			return nil
		}
		if !ts.Before(cutoff) {
			return nil
		}
		if rerr := os.Remove(path); rerr != nil {
			// An upload finishing mid-sweep may already have moved or
			// vanished; a missed file is fine, a crash is not.
			if !errors.Is(rerr, fs.ErrNotExist) {
				slog.Warn("sweep: delete failed", slog.String("path", path), slog.Any("error", rerr))
			}
			return nil
		}
		deleted++
		observability.MediaFilesSweptTotal.Inc()
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("sweep: walk aborted", slog.Any("error", err))
	}
	if deleted > 0 {
		slog.Info("media sweep completed", slog.Int("deleted", deleted), slog.Time("cutoff", cutoff))
	}
	return deleted
}

// RunPeriodic sweeps immediately and then on every tick until ctx is
// cancelled. Cancellation is observed during the sleep phase.
func (s *Sweeper) RunPeriodic(ctx domain.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.SweepOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("media sweeper stopping")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}
