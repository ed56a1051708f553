package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"

	"github.com/saturnino-fabrica-de-software/memeface/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
	"github.com/saturnino-fabrica-de-software/memeface/internal/meme"
	"github.com/saturnino-fabrica-de-software/memeface/internal/provider"
	"github.com/saturnino-fabrica-de-software/memeface/internal/render"
	"github.com/saturnino-fabrica-de-software/memeface/internal/service"
	"github.com/saturnino-fabrica-de-software/memeface/internal/transport"
)

// HeaderEmotions lists the emotion drawn on each face, in detection order.
const HeaderEmotions = "X-Emotions"

// Renderer is the part of the emotion service the handler needs
type Renderer interface {
	Render(ctx context.Context, req service.RenderRequest) (*service.RenderResult, error)
}

// EmotionHandler handles POST /emotions
type EmotionHandler struct {
	renderer      Renderer
	defaultLocale language.Tag
	maxImageSize  int64
	logger        *slog.Logger
}

// NewEmotionHandler creates a new EmotionHandler instance
func NewEmotionHandler(renderer Renderer, defaultLocale language.Tag, maxImageSize int64, logger *slog.Logger) *EmotionHandler {
	return &EmotionHandler{
		renderer:      renderer,
		defaultLocale: defaultLocale,
		maxImageSize:  maxImageSize,
		logger:        logger,
	}
}

// Render POST /emotions - decorate every face in the request image
func (h *EmotionHandler) Render(c *fiber.Ctx) error {
	// 1. Both headers are mandatory
	contentType := strings.TrimSpace(c.Get(fiber.HeaderContentType))
	if contentType == "" {
		return domain.ErrBadRequest.WithError(errors.New("content-type header is required"))
	}

	declared := int64(c.Request().Header.ContentLength())
	if declared < 0 {
		return domain.ErrBadRequest.WithError(errors.New("content-length header is required"))
	}

	// 2. Reject oversized bodies before decoding them
	_, isBase64 := transport.SplitContentType(contentType)
	if declared > h.bodyLimit(isBase64) {
		return domain.ErrImageTooLarge.WithError(fmt.Errorf("declared %d bytes", declared))
	}

	// 3. Undo the transport encoding
	payload, err := transport.ReadPayload(bytes.NewReader(c.Body()), contentType, declared)
	if err != nil {
		return mapError(err)
	}
	if int64(len(payload.Image)) > h.maxImageSize {
		return domain.ErrImageTooLarge.WithError(fmt.Errorf("image is %d bytes", len(payload.Image)))
	}

	// 4. Detect, decide and composite
	locale := meme.ParseLocale(c.Get(fiber.HeaderAcceptLanguage), c.Query("locale"), h.defaultLocale)

	result, err := h.renderer.Render(c.UserContext(), service.RenderRequest{
		Image:     payload.Image,
		MimeType:  payload.MimeType,
		Locale:    locale,
		RequestID: middleware.RequestID(c),
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return mapError(err)
	}

	// 5. Respond with the same transport encoding
	body, responseType := transport.EncodeResponse(result.Image, payload.Base64)

	c.Set(fiber.HeaderContentType, responseType)
	c.Set(fiber.HeaderContentLanguage, locale.String())
	c.Set(HeaderEmotions, strings.Join(result.Emotions, ","))

	return c.Status(fiber.StatusOK).Send(body)
}

// bodyLimit is the largest accepted request body for the transport encoding
func (h *EmotionHandler) bodyLimit(isBase64 bool) int64 {
	if isBase64 {
		return int64(base64.StdEncoding.EncodedLen(int(h.maxImageSize))) + 2
	}
	return h.maxImageSize
}

// mapError converts pipeline errors into API errors
func mapError(err error) error {
	var appErr *domain.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, transport.ErrLengthMismatch):
		return domain.ErrContentLengthMismatch.WithError(err)
	case errors.Is(err, transport.ErrInvalidEncoding):
		return domain.ErrInvalidEncoding.WithError(err)
	case errors.Is(err, render.ErrDecodeImage):
		return domain.ErrInvalidImage.WithError(err)
	case errors.Is(err, provider.ErrMalformedDetection):
		return domain.ErrDetectionMalformed.WithError(err)
	case errors.Is(err, service.ErrDetection):
		return domain.ErrDetectionFailed.WithError(err)
	default:
		return domain.ErrInternal.WithError(err)
	}
}
