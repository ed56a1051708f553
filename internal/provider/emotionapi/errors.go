package emotionapi

import (
	"errors"
	"fmt"

	"github.com/saturnino-fabrica-de-software/memeface/internal/provider"
)

var (
	ErrUnavailable        = errors.New("emotion api unavailable")
	ErrMalformedResponse  = fmt.Errorf("emotion api: %w", provider.ErrMalformedDetection)
	ErrMalformedFace      = fmt.Errorf("emotion api face: %w", provider.ErrMalformedDetection)
	ErrUnexpectedStatus   = errors.New("unexpected emotion api status")
	ErrMissingEndpointURL = errors.New("emotion api url not configured")
)

// FaceError reports a face entry that is a JSON object but breaks the
// faceRectangle/scores contract.
type FaceError struct {
	Index int
	Field string
	Err   error
}

func (e *FaceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("face %d: %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("face %d: %s", e.Index, e.Field)
}

// Unwrap exposes ErrMalformedFace so callers can match with errors.Is.
func (e *FaceError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedFace, e.Err}
	}
	return []error{ErrMalformedFace}
}
