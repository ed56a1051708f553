package deepface

import (
	"errors"
	"fmt"

	"github.com/saturnino-fabrica-de-software/memeface/internal/provider"
)

var (
	ErrDeepFaceUnavailable = errors.New("deepface service unavailable")
	ErrInvalidResponse     = fmt.Errorf("invalid response from deepface: %w", provider.ErrMalformedDetection)
)
