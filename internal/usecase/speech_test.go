package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-interviewer/internal/usecase"
)

type stubMedia struct {
	path string
	err  error
	data []byte
}

func (s *stubMedia) Save(_ domain.Context, _, _ string, data []byte) (string, error) {
	s.data = data
	return s.path, s.err
}

type stubTranscriber struct {
	transcript string
	err        error
	gotPath    string
}

func (s *stubTranscriber) Transcribe(_ domain.Context, path string) (string, error) {
	s.gotPath = path
	return s.transcript, s.err
}

func TestSpeechService_Ingest_Success(t *testing.T) {
	t.Parallel()
	media := &stubMedia{path: "media/sess-1/rec_20260101000000_x.wav"}
	stt := &stubTranscriber{transcript: "hello world"}
	svc := usecase.NewSpeechService(media, stt)

	transcript, path, err := svc.Ingest(context.Background(), "sess-1", "rec.wav", []byte("audio"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", transcript)
	assert.Equal(t, media.path, path)
	assert.Equal(t, media.path, stt.gotPath)
	assert.Equal(t, []byte("audio"), media.data)
}

func TestSpeechService_Ingest_TranscriptionFailureKeepsStoredPath(t *testing.T) {
	t.Parallel()
	media := &stubMedia{path: "media/sess-1/rec_20260101000000_x.wav"}
	stt := &stubTranscriber{err: errors.New("unsupported codec")}
	svc := usecase.NewSpeechService(media, stt)

	_, path, err := svc.Ingest(context.Background(), "sess-1", "rec.wav", []byte("audio"))
	require.Error(t, err)
	assert.Equal(t, media.path, path)
}

func TestSpeechService_Ingest_SaveFailure(t *testing.T) {
	t.Parallel()
	media := &stubMedia{err: errors.New("disk full")}
	svc := usecase.NewSpeechService(media, &stubTranscriber{})

	_, _, err := svc.Ingest(context.Background(), "sess-1", "rec.wav", []byte("audio"))
	require.Error(t, err)
}
