package deepface

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
	"github.com/saturnino-fabrica-de-software/memeface/internal/provider"
)

// labels maps DeepFace emotion names onto the detection API vocabulary
var labels = map[string]string{
	"angry":    "anger",
	"disgust":  "disgust",
	"fear":     "fear",
	"happy":    "happiness",
	"sad":      "sadness",
	"surprise": "surprise",
	"neutral":  "neutral",
}

// Provider implements provider.EmotionDetector using DeepFace API
type Provider struct {
	client            *Client
	minFaceConfidence float64
}

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client:            NewClient(config),
		minFaceConfidence: config.MinFaceConfidence,
	}
}

// Name implements provider.EmotionDetector
func (p *Provider) Name() string {
	return "deepface"
}

// DetectEmotions analyzes the image and converts DeepFace results to faces
func (p *Provider) DetectEmotions(ctx context.Context, image []byte, mimeType string) ([]domain.Face, error) {
	img := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	resp, err := p.client.Analyze(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("detect emotions: %w", err)
	}

	faces := make([]domain.Face, 0, len(resp.Results))
	for i, result := range resp.Results {
		// with enforce_detection off DeepFace reports the whole image
		// at confidence 0 when it found nothing
		if result.FaceConfidence != nil && *result.FaceConfidence < p.minFaceConfidence {
			continue
		}

		rect := domain.Rect{
			X:      result.Region.X,
			Y:      result.Region.Y,
			Width:  result.Region.W,
			Height: result.Region.H,
		}
		if !rect.Valid() {
			return nil, fmt.Errorf("detect emotions: result %d: %w: empty region", i, ErrInvalidResponse)
		}

		faces = append(faces, domain.NewFace(NormalizeScores(result.Emotion), rect))
	}

	return faces, nil
}

// NormalizeScores renames DeepFace labels and rescales percentages to [0, 1].
// Unknown labels are kept as received.
func NormalizeScores(emotion map[string]float64) domain.EmotionScores {
	scores := make(domain.EmotionScores, len(emotion))
	for label, pct := range emotion {
		if mapped, ok := labels[label]; ok {
			label = mapped
		}
		scores[label] = pct / 100
	}
	return scores
}

// Ensure Provider implements provider.EmotionDetector
var _ provider.EmotionDetector = (*Provider)(nil)
