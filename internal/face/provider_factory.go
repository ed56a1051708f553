package face

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/memeface/internal/config"
	"github.com/saturnino-fabrica-de-software/memeface/internal/provider"
	"github.com/saturnino-fabrica-de-software/memeface/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/memeface/internal/provider/emotionapi"
	"github.com/saturnino-fabrica-de-software/memeface/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/memeface/internal/provider/rekognition"
)

// DetectorType defines supported emotion detection backends
type DetectorType string

const (
	// DetectorTypeEmotionAPI is the face/emotion HTTP API (default)
	DetectorTypeEmotionAPI DetectorType = "emotionapi"
	// DetectorTypeDeepFace is the DeepFace provider (local, for dev/test)
	DetectorTypeDeepFace DetectorType = "deepface"
	// DetectorTypeRekognition is the AWS Rekognition provider (cloud)
	DetectorTypeRekognition DetectorType = "rekognition"
	// DetectorTypeMock is a deterministic in-process detector
	DetectorTypeMock DetectorType = "mock"
)

// NewEmotionDetector creates an EmotionDetector instance based on configuration
//
// Environment variables:
//   - DETECTOR: "emotionapi", "deepface", "rekognition" or "mock" (default: "emotionapi")
//   - EMOTION_API_URL, DETECTION_TIMEOUT, DETECTION_RETRIES: emotion API client
//   - DEEPFACE_URL, DEEPFACE_RETRIES: DeepFace client
//   - AWS_REGION: AWS region for Rekognition (credentials via AWS SDK credential chain)
func NewEmotionDetector(ctx context.Context, cfg *config.Config) (provider.EmotionDetector, error) {
	switch DetectorType(cfg.Detector) {
	case DetectorTypeEmotionAPI, "":
		return createEmotionAPIDetector(cfg), nil

	case DetectorTypeDeepFace:
		return createDeepFaceDetector(cfg), nil

	case DetectorTypeRekognition:
		return createRekognitionDetector(ctx, cfg)

	case DetectorTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown detector type: %s (supported: %s, %s, %s, %s)",
			cfg.Detector, DetectorTypeEmotionAPI, DetectorTypeDeepFace, DetectorTypeRekognition, DetectorTypeMock)
	}
}

func createEmotionAPIDetector(cfg *config.Config) provider.EmotionDetector {
	apiConfig := emotionapi.DefaultConfig()
	if cfg.EmotionAPIURL != "" {
		apiConfig.URL = cfg.EmotionAPIURL
	}
	if cfg.DetectionTimeout > 0 {
		apiConfig.Timeout = cfg.DetectionTimeout
	}
	apiConfig.RetryCount = cfg.DetectionRetries

	return emotionapi.NewProvider(apiConfig)
}

// createDeepFaceDetector creates a DeepFace provider instance
func createDeepFaceDetector(cfg *config.Config) provider.EmotionDetector {
	deepfaceConfig := deepface.DefaultConfig()

	if cfg.DeepFaceURL != "" {
		deepfaceConfig.BaseURL = cfg.DeepFaceURL
	}
	if cfg.DetectionTimeout > 0 {
		deepfaceConfig.Timeout = cfg.DetectionTimeout
	}
	deepfaceConfig.RetryCount = cfg.DeepFaceRetries

	return deepface.NewProvider(deepfaceConfig)
}

// createRekognitionDetector creates an AWS Rekognition provider instance
func createRekognitionDetector(ctx context.Context, cfg *config.Config) (provider.EmotionDetector, error) {
	rekogConfig := rekognition.DefaultConfig()
	if cfg.AWSRegion != "" {
		rekogConfig.Region = cfg.AWSRegion
	}

	prov, err := rekognition.NewProvider(ctx, rekogConfig)
	if err != nil {
		return nil, fmt.Errorf("create rekognition detector: %w", err)
	}

	return prov, nil
}
