// Package media persists uploaded audio under a per-session directory and
// runs the retention sweeper that deletes stored files once their
// filename-embedded timestamp passes the retention window.
package media

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/fairyhunter13/ai-interviewer/internal/domain"
)

// StampLayout is the timestamp format embedded in stored filenames.
const StampLayout = "20060102150405"

var (
	sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	unsafeStemChars  = regexp.MustCompile(`[^A-Za-z0-9.-]+`)
	extPattern       = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)
)

var nameEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // Weak random is sufficient for name entropy.

// Store writes uploaded media below a single root directory. Client-supplied
// filenames are never used as paths directly; stored names are generated so
// the retention timestamp always sits in the second-to-last "_" segment.
type Store struct {
	root string
	now  func() time.Time
}

// NewStore creates the media root if needed and returns a Store.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &Store{root: root, now: time.Now}, nil
}

// Root returns the media root directory.
func (s *Store) Root() string { return s.root }

// Save writes data to <root>/<sessionID>/<stamped name> and returns the path.
func (s *Store) Save(_ domain.Context, sessionID, filename string, data []byte) (string, error) {
	if !sessionIDPattern.MatchString(sessionID) {
		return "", fmt.Errorf("%w: invalid session id", domain.ErrInvalidArgument)
	}
	dir := filepath.Join(s.root, sessionID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	path := filepath.Join(dir, StampName(filename, s.now().UTC()))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return path, nil
}

// StampName derives the stored filename for an upload:
// <sanitized stem>_<YYYYMMDDHHMMSS>_<ulid><ext>. The ulid suffix carries no
// underscore, so ParseStamp can rely on the second-to-last segment even when
// the client stem contains underscores of its own.
func StampName(original string, now time.Time) string {
	base := filepath.Base(strings.TrimSpace(original))
	ext := strings.ToLower(filepath.Ext(base))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = unsafeStemChars.ReplaceAllString(stem, "-")
	stem = strings.Trim(stem, ".-")
	if stem == "" {
		stem = uuid.NewString()
	}
	suffix := ulid.MustNew(ulid.Timestamp(now), nameEntropy).String()
	return fmt.Sprintf("%s_%s_%s%s", stem, now.Format(StampLayout), suffix, ext)
}

// ParseStamp extracts the embedded creation time from a stored filename.
// The timestamp is the second-to-last "_"-separated segment.
func ParseStamp(name string) (time.Time, error) {
	parts := strings.Split(name, "_")
	if len(parts) < 3 {
		return time.Time{}, fmt.Errorf("no timestamp segment in %q", name)
	}
	ts, err := time.ParseInLocation(StampLayout, parts[len(parts)-2], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp in %q: %w", name, err)
	}
	return ts, nil
}
