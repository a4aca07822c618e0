package usecase

import (
	"fmt"

	"github.com/fairyhunter13/ai-interviewer/internal/domain"
)

// SpeechService persists uploaded audio and converts it to text.
type SpeechService struct {
	Media       domain.MediaStore
	Transcriber domain.Transcriber
}

// NewSpeechService constructs a SpeechService.
func NewSpeechService(media domain.MediaStore, transcriber domain.Transcriber) SpeechService {
	return SpeechService{Media: media, Transcriber: transcriber}
}

// Ingest stores the audio under the session's media directory and transcribes
// it. The stored path is returned even when transcription fails so callers
// can report both. Ingest does not touch session state.
func (s SpeechService) Ingest(ctx domain.Context, sessionID, filename string, data []byte) (transcript, storedPath string, err error) {
	storedPath, err = s.Media.Save(ctx, sessionID, filename, data)
	if err != nil {
		return "", "", fmt.Errorf("store audio: %w", err)
	}
	transcript, err = s.Transcriber.Transcribe(ctx, storedPath)
	if err != nil {
		return "", storedPath, err
	}
	return transcript, storedPath, nil
}
