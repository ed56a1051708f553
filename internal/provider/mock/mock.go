package mock

import (
	"bytes"
	"context"
	"crypto/sha256"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
	"github.com/saturnino-fabrica-de-software/memeface/internal/emotion"
	"github.com/saturnino-fabrica-de-software/memeface/internal/provider"
)

// Provider implementa provider.EmotionDetector para testes e desenvolvimento
type Provider struct{}

// New cria uma nova instância do MockProvider
func New() *Provider {
	return &Provider{}
}

// Name implements provider.EmotionDetector
func (p *Provider) Name() string {
	return "mock"
}

// DetectEmotions simula detecção: uma face centralizada com scores
// determinísticos baseados no hash da imagem
func (p *Provider) DetectEmotions(ctx context.Context, img []byte, mimeType string) ([]domain.Face, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	if cfg.Width < 2 || cfg.Height < 2 {
		return []domain.Face{}, nil
	}

	rect := domain.Rect{
		X:      cfg.Width / 4,
		Y:      cfg.Height / 4,
		Width:  cfg.Width / 2,
		Height: cfg.Height / 2,
	}

	return []domain.Face{domain.NewFace(generateScores(img), rect)}, nil
}

// generateScores gera scores determinísticos que somam 1
func generateScores(img []byte) domain.EmotionScores {
	hash := sha256.Sum256(img)
	labels := emotion.DefaultPriority

	scores := make(domain.EmotionScores, len(labels))
	total := 0.0
	for i, label := range labels {
		//nolint:gosec // i is always < len(hash), there are fewer labels than hash bytes
		v := float64(hash[i]) + 1
		scores[label] = v
		total += v
	}

	for label, v := range scores {
		scores[label] = v / total
	}

	return scores
}

var _ provider.EmotionDetector = (*Provider)(nil)
