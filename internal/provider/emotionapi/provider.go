package emotionapi

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
	"github.com/saturnino-fabrica-de-software/memeface/internal/provider"
)

// Provider implements provider.EmotionDetector against a face/emotion API
// that answers with [{faceRectangle: {...}, scores: {...}}, ...]
type Provider struct {
	client *Client
}

var _ provider.EmotionDetector = (*Provider)(nil)

// NewProvider creates a new emotion API provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// Name implements provider.EmotionDetector
func (p *Provider) Name() string {
	return "emotionapi"
}

// DetectEmotions implements provider.EmotionDetector
func (p *Provider) DetectEmotions(ctx context.Context, image []byte, mimeType string) ([]domain.Face, error) {
	body, err := p.client.Detect(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("detect emotions: %w", err)
	}

	faces, err := ParseFaces(body)
	if err != nil {
		return nil, fmt.Errorf("detect emotions: %w", err)
	}

	return faces, nil
}
