package rekognition

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
	"github.com/saturnino-fabrica-de-software/memeface/internal/provider"
)

// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
const maxImageSize = 5 * 1024 * 1024

// labels maps Rekognition emotion types onto the detection API vocabulary.
// UNKNOWN is dropped.
var labels = map[types.EmotionName]string{
	types.EmotionNameHappy:     "happiness",
	types.EmotionNameSad:       "sadness",
	types.EmotionNameAngry:     "anger",
	types.EmotionNameSurprised: "surprise",
	types.EmotionNameDisgusted: "disgust",
	types.EmotionNameCalm:      "neutral",
	types.EmotionNameFear:      "fear",
	types.EmotionNameConfused:  "confusion",
}

// Provider implements provider.EmotionDetector using AWS Rekognition DetectFaces
type Provider struct {
	client            *Client
	minFaceConfidence float64
}

// Ensure Provider implements provider.EmotionDetector interface at compile time
var _ provider.EmotionDetector = (*Provider)(nil)

// NewProvider creates a new Rekognition provider
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}

	return &Provider{
		client:            client,
		minFaceConfidence: cfg.MinFaceConfidence,
	}, nil
}

// Name implements provider.EmotionDetector
func (p *Provider) Name() string {
	return "rekognition"
}

// DetectEmotions detects faces with all attributes and converts their
// emotions and ratio bounding boxes to pixel faces.
// Returns an empty slice if no faces are detected (not an error)
func (p *Provider) DetectEmotions(ctx context.Context, img []byte, mimeType string) ([]domain.Face, error) {
	payload, bounds, err := prepareImage(img, mimeType)
	if err != nil {
		return nil, err
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: payload,
		},
		Attributes: []types.Attribute{types.AttributeAll},
	}

	output, err := p.client.rekognition.DetectFaces(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", ParseAPIError(err))
	}

	faces := make([]domain.Face, 0, len(output.FaceDetails))
	for i, detail := range output.FaceDetails {
		if detail.Confidence != nil && float64(*detail.Confidence)/100 < p.minFaceConfidence {
			continue
		}

		rect, err := toRect(detail.BoundingBox, bounds)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}

		faces = append(faces, domain.NewFace(emotionScores(detail.Emotions), rect))
	}

	return faces, nil
}

// prepareImage checks the size limit, reads the pixel dimensions and
// transcodes formats Rekognition cannot read to PNG.
func prepareImage(img []byte, mimeType string) ([]byte, image.Point, error) {
	if len(img) == 0 {
		return nil, image.Point{}, ErrInvalidImage
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	bounds := image.Pt(cfg.Width, cfg.Height)

	if format != "jpeg" && format != "png" {
		decoded, _, err := image.Decode(bytes.NewReader(img))
		if err != nil {
			return nil, image.Point{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, decoded); err != nil {
			return nil, image.Point{}, fmt.Errorf("transcode %s: %w", mimeType, err)
		}
		img = buf.Bytes()
	}

	if len(img) > maxImageSize {
		return nil, image.Point{}, fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(img), maxImageSize)
	}

	return img, bounds, nil
}

// toRect converts a ratio bounding box to pixels. Boxes may extend past the
// image edge and are not clamped.
func toRect(box *types.BoundingBox, bounds image.Point) (domain.Rect, error) {
	if box == nil || box.Left == nil || box.Top == nil || box.Width == nil || box.Height == nil {
		return domain.Rect{}, ErrMissingBoundingBox
	}

	rect := domain.Rect{
		X:      int(math.Round(float64(*box.Left) * float64(bounds.X))),
		Y:      int(math.Round(float64(*box.Top) * float64(bounds.Y))),
		Width:  max(1, int(math.Round(float64(*box.Width)*float64(bounds.X)))),
		Height: max(1, int(math.Round(float64(*box.Height)*float64(bounds.Y)))),
	}
	if *box.Width <= 0 || *box.Height <= 0 {
		return domain.Rect{}, fmt.Errorf("%w: non-positive size", ErrMissingBoundingBox)
	}

	return rect, nil
}

func emotionScores(emotions []types.Emotion) domain.EmotionScores {
	scores := make(domain.EmotionScores, len(emotions))
	for _, e := range emotions {
		label, ok := labels[e.Type]
		if !ok || e.Confidence == nil {
			continue
		}
		scores[label] = float64(*e.Confidence) / 100
	}
	return scores
}
