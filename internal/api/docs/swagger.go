package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// RenderedImageResponse documents the binary body returned by POST /emotions.
// The body is the decorated image itself, base64 encoded when the request
// content-type carried the ;base64 suffix.
type RenderedImageResponse struct {
	ContentType string `json:"content_type" example:"image/jpeg;base64"`
	Body        string `json:"body" example:"/9j/4AAQSkZJRgABAQ..."`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"INVALID_IMAGE"`
	Message string `json:"message" example:"Invalid image format or corrupted file"`
}

// EmptyResponse represents a response without a body
type EmptyResponse struct{}

// HealthResponse mirrors handler.HealthResponse
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Version  string `json:"version,omitempty" example:"0.1.0"`
	Detector string `json:"detector,omitempty" example:"emotionapi"`
}

var imageMIMEs = []mime.MIME{
	mime.MIME("image/jpeg"),
	mime.MIME("image/png"),
	mime.MIME("image/gif"),
	mime.MIME("image/webp"),
	mime.MIME("image/bmp"),
	mime.MIME("image/tiff"),
	mime.MIME("image/jpeg;base64"),
	mime.MIME("image/png;base64"),
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "memeface API",
		Version:     "v1.0.0",
		Description: "Detects faces and their emotions in an image and draws a localized meme decoration over each face",
		Host:        "localhost:3000",
		Path:        "/",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /emotions - Decorate faces
		endpoint.New(
			endpoint.POST,
			"/emotions",
			endpoint.WithTags("Emotions"),
			endpoint.WithSummary("Decorate every detected face with a meme"),
			endpoint.WithDescription("The request body is the raw image. Content-Type names the image mime type, optionally suffixed with ;base64 when the body is base64 text. Content-Length is required. The response uses the same transport encoding as the request. Captions follow Accept-Language unless the locale query parameter overrides it."),
			endpoint.WithConsume(imageMIMEs),
			endpoint.WithProduce(imageMIMEs),
			endpoint.WithParams(
				parameter.StrParam("locale", parameter.Query, parameter.WithDescription("BCP 47 locale for captions, overrides Accept-Language (e.g. sv, es-MX)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RenderedImageResponse{}, "200", "Decorated image"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Missing Content-Type or Content-Length"),
				response.New(ErrorResponse{Code: "CONTENT_LENGTH_MISMATCH", Message: "Request body does not match the declared content-length"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INVALID_ENCODING", Message: "Request body is not valid base64"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "IMAGE_TOO_LARGE", Message: "Image exceeds the maximum allowed size"}, "413", "Payload Too Large"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
				response.New(ErrorResponse{Code: "DETECTION_FAILED", Message: "Emotion detection service failed"}, "502", "Bad Gateway"),
				response.New(ErrorResponse{Code: "DETECTION_MALFORMED", Message: "Emotion detection service returned a malformed face"}, "502", "Bad Gateway"),
			}),
		),

		// GET /ws/emotions - Streaming variant
		endpoint.New(
			endpoint.GET,
			"/ws/emotions",
			endpoint.WithTags("Emotions"),
			endpoint.WithSummary("Decorate images over a websocket"),
			endpoint.WithDescription("After the upgrade every binary frame is an image. The server answers with an image.rendered text event followed by the decorated image as a binary frame, or a render.failed event. A text frame {\"locale\":\"sv\"} changes the caption locale for the rest of the session."),
			endpoint.WithParams(
				parameter.StrParam("locale", parameter.Query, parameter.WithDescription("Initial caption locale, overrides Accept-Language")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "101", "Switching Protocols"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "HTTP_ERROR", Message: "Upgrade Required"}, "426", "Upgrade Required"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests"),
			}),
		),

		// GET /health - Liveness
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness probe"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is alive"),
			}),
		),

		// GET /ready - Readiness
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness probe"),
			endpoint.WithDescription("Reports the configured detection backend"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{Status: "ready"}, "200", "Service is ready"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
