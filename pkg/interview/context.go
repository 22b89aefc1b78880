package interview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"time"

	// Register the decoders the upload boundary accepts.
	_ "image/jpeg"
	_ "image/png"

	"github.com/Dharanikpdb-007/Interview-practice-partners/internal/metrics"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/chat"
)

// DefaultMaxUploadSize caps uploaded context images at 5MB.
const DefaultMaxUploadSize = 5 * 1024 * 1024

// ErrContextLoaded is returned when a second context upload arrives in the
// same session.
var ErrContextLoaded = errors.New("context already loaded for this session")

// LoadContext validates an uploaded image and inserts it as the session's
// single context turn, directly after the system prefix. It runs at most
// once per session; on a decode failure the guard is cleared so the user
// may retry, and the transcript is left untouched.
func (s *Session) LoadContext(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()

	if s.contextLoaded {
		return ErrContextLoaded
	}
	s.contextLoaded = true

	mimeType, err := sniffImage(data)
	if err != nil {
		s.contextLoaded = false
		metrics.RecordContextUpload(false)
		s.logger.Warn().Err(err).Msg("context upload rejected")
		return err
	}

	turn := chat.NewContextTurn(s.persona.ContextPrompt, mimeType, data)
	if err := s.transcript.InsertContext(turn); err != nil {
		s.contextLoaded = false
		metrics.RecordContextUpload(false)
		return err
	}

	metrics.RecordContextUpload(true)
	s.logger.Info().Str("mime_type", mimeType).Int("size", len(data)).Msg("context loaded")
	return nil
}

// sniffImage verifies the bytes decode as PNG or JPEG and returns the MIME
// type. Size limits are enforced at the HTTP boundary.
func sniffImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("uploaded file is empty")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("not a valid image: %w", err)
	}

	switch format {
	case "png":
		return "image/png", nil
	case "jpeg":
		return "image/jpeg", nil
	default:
		return "", fmt.Errorf("unsupported image format: %s", format)
	}
}
