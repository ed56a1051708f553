package rekognition

import (
	"errors"
	"fmt"

	"github.com/saturnino-fabrica-de-software/memeface/internal/provider"
)

var (
	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")

	// ErrInvalidImage indicates that Rekognition refused the image bytes
	ErrInvalidImage = errors.New("image rejected by rekognition")

	// ErrThrottled indicates that the account hit its Rekognition rate limit
	ErrThrottled = errors.New("rekognition throttled the request")

	// ErrMissingBoundingBox indicates a face detail without a usable bounding box
	ErrMissingBoundingBox = fmt.Errorf("rekognition face without bounding box: %w", provider.ErrMalformedDetection)
)
