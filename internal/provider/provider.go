package provider

import (
	"context"
	"errors"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
)

// EmotionDetector defines the interface for facial emotion detection backends
type EmotionDetector interface {
	// DetectEmotions sends the raw (non transport encoded) image to the
	// detection backend and returns the detected faces in backend order.
	// An image with no faces yields an empty slice and a nil error.
	DetectEmotions(ctx context.Context, image []byte, mimeType string) ([]domain.Face, error)

	// Name identifies the backend in logs and audit events
	Name() string
}

// ErrMalformedDetection is wrapped by every backend when a detection reply
// breaks its structural contract
var ErrMalformedDetection = errors.New("malformed detection response")
