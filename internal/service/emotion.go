package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/saturnino-fabrica-de-software/memeface/internal/audit"
	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
	"github.com/saturnino-fabrica-de-software/memeface/internal/emotion"
	"github.com/saturnino-fabrica-de-software/memeface/internal/meme"
	"github.com/saturnino-fabrica-de-software/memeface/internal/provider"
	"github.com/saturnino-fabrica-de-software/memeface/internal/render"
)

// ErrDetection marks failures of the detection backend, as opposed to
// decoding or compositing failures.
var ErrDetection = errors.New("emotion detection failed")

// RenderRequest is one image to decorate, with the transport encoding
// already removed.
type RenderRequest struct {
	Image     []byte
	MimeType  string
	Locale    language.Tag
	RequestID string
	IPAddress string
	UserAgent string
}

// RenderResult is the decorated image plus what was drawn on it.
type RenderResult struct {
	Image    *domain.RenderedImage
	Emotions []string
}

type EmotionService struct {
	detector    provider.EmotionDetector
	selector    *emotion.Selector
	resolver    *meme.Resolver
	compositor  *render.Compositor
	auditLogger audit.Logger
	logger      *slog.Logger
}

// Option configures optional EmotionService dependencies
type Option func(*EmotionService)

// WithAuditLogger sets the audit logger for the service
func WithAuditLogger(logger audit.Logger) Option {
	return func(s *EmotionService) {
		s.auditLogger = logger
	}
}

// WithLogger sets the structured logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *EmotionService) {
		s.logger = logger
	}
}

func NewEmotionService(
	detector provider.EmotionDetector,
	selector *emotion.Selector,
	resolver *meme.Resolver,
	compositor *render.Compositor,
	opts ...Option,
) *EmotionService {
	s := &EmotionService{
		detector:    detector,
		selector:    selector,
		resolver:    resolver,
		compositor:  compositor,
		auditLogger: &audit.NoOpLogger{},
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Render decodes the image, detects faces, and draws a decoration on each
// one. The image is decoded before detection so undecodable input never
// reaches the detector.
func (s *EmotionService) Render(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	start := time.Now()

	src, err := s.compositor.Decode(req.Image)
	if err != nil {
		return nil, err
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = src.MimeType
	}

	faces, err := s.detector.DetectEmotions(ctx, req.Image, mimeType)
	if err != nil {
		s.logAudit(ctx, req, audit.EventDetectionFailed, 0, err, nil)
		return nil, fmt.Errorf("%w with %s: %w", ErrDetection, s.detector.Name(), err)
	}
	s.logAudit(ctx, req, audit.EventEmotionsDetected, len(faces), nil, nil)

	layers := s.Decide(faces, req.Locale)

	out, err := s.compositor.Composite(src, layers)
	if err != nil {
		s.logAudit(ctx, req, audit.EventRenderFailed, len(faces), err, nil)
		return nil, fmt.Errorf("composite: %w", err)
	}

	emotions := make([]string, len(layers))
	for i, l := range layers {
		emotions[i] = l.Decision.Emotion
	}

	s.logAudit(ctx, req, audit.EventImageRendered, len(faces), nil, map[string]string{
		"mime_type": out.MimeType,
		"emotions":  strings.Join(emotions, ","),
		"locale":    req.Locale.String(),
	})

	s.logger.DebugContext(ctx, "image rendered",
		slog.String("request_id", req.RequestID),
		slog.String("detector", s.detector.Name()),
		slog.Int("faces", len(faces)),
		slog.String("mime_type", out.MimeType),
		slog.Duration("duration", time.Since(start)),
	)

	return &RenderResult{Image: out, Emotions: emotions}, nil
}

// Decide builds one layer per face, in detection order.
func (s *EmotionService) Decide(faces []domain.Face, locale language.Tag) []domain.Layer {
	layers := make([]domain.Layer, 0, len(faces))
	for _, f := range faces {
		label := s.selector.Select(f.Scores())
		layers = append(layers, domain.Layer{
			Face:     f,
			Decision: s.resolver.Resolve(label, locale),
		})
	}
	return layers
}

// DetectorName identifies the configured detection backend.
func (s *EmotionService) DetectorName() string {
	return s.detector.Name()
}

// logAudit logs an audit event if an audit logger is configured
// Audit failure does not affect the operation (fire-and-forget)
func (s *EmotionService) logAudit(ctx context.Context, req RenderRequest, eventType audit.EventType, faces int, err error, metadata map[string]string) {
	if s.auditLogger == nil {
		return
	}

	event := audit.Event{
		RequestID:  req.RequestID,
		EventType:  eventType,
		Provider:   s.detector.Name(),
		FacesCount: faces,
		Success:    err == nil,
		Metadata:   metadata,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
	}

	if err != nil {
		event.Error = err.Error()
	}

	_ = s.auditLogger.Log(ctx, event)
}
