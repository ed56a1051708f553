package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/websocket/v2"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
	"github.com/saturnino-fabrica-de-software/memeface/internal/meme"
	"github.com/saturnino-fabrica-de-software/memeface/internal/service"
	"github.com/saturnino-fabrica-de-software/memeface/internal/ws"
)

// StreamControl is a text frame changing the session settings
type StreamControl struct {
	Locale string `json:"locale"`
}

// RenderedEvent precedes every binary reply frame
type RenderedEvent struct {
	MimeType string   `json:"mime_type"`
	Emotions []string `json:"emotions"`
	Locale   string   `json:"locale"`
}

// StreamError is the payload of a render.failed event
type StreamError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stream handles one frame of a /ws/emotions connection. Binary frames are
// images and get an image.rendered event followed by the decorated image.
// Text frames are StreamControl messages.
func (h *EmotionHandler) Stream(ctx context.Context, s *ws.Session, msgType int, data []byte) []ws.Message {
	switch msgType {
	case websocket.TextMessage:
		var ctrl StreamControl
		if err := json.Unmarshal(data, &ctrl); err != nil {
			return failed(domain.ErrBadRequest.WithError(err))
		}
		s.Locale = meme.ParseLocale("", ctrl.Locale, s.Locale)
		return []ws.Message{ws.TextEvent(ws.EventLocaleSet, StreamControl{Locale: s.Locale.String()})}

	case websocket.BinaryMessage:
		if int64(len(data)) > h.maxImageSize {
			return failed(domain.ErrImageTooLarge.WithError(fmt.Errorf("image is %d bytes", len(data))))
		}

		result, err := h.renderer.Render(ctx, service.RenderRequest{
			Image:     data,
			Locale:    s.Locale,
			RequestID: s.ID,
			IPAddress: s.IPAddress,
			UserAgent: s.UserAgent,
		})
		if err != nil {
			return failed(mapError(err))
		}

		return []ws.Message{
			ws.TextEvent(ws.EventImageRendered, RenderedEvent{
				MimeType: result.Image.MimeType,
				Emotions: result.Emotions,
				Locale:   s.Locale.String(),
			}),
			ws.Binary(result.Image.Bytes),
		}

	default:
		return nil
	}
}

func failed(err error) []ws.Message {
	appErr := domain.ErrInternal
	errors.As(err, &appErr)
	return []ws.Message{ws.TextEvent(ws.EventRenderFailed, StreamError{Code: appErr.Code, Message: appErr.Message})}
}
