// Package transport reads image payloads off the wire and writes them back
// with the same encoding. A content type ending in ";base64" means the body
// is the base64 text of the image rather than the raw bytes.
package transport

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
)

// Base64Suffix marks a base64 transport encoded body.
const Base64Suffix = ";base64"

const octetStream = "application/octet-stream"

var (
	ErrLengthMismatch  = errors.New("body length does not match content-length")
	ErrInvalidEncoding = errors.New("body is not valid base64")
)

// Payload is a request image with the transport encoding removed.
type Payload struct {
	Image    []byte
	MimeType string
	Base64   bool
}

// SplitContentType separates the ";base64" marker from the MIME type. The
// marker is matched case-insensitively and surrounding whitespace ignored.
func SplitContentType(contentType string) (mimeType string, isBase64 bool) {
	ct := strings.TrimSpace(contentType)
	if len(ct) >= len(Base64Suffix) && strings.EqualFold(ct[len(ct)-len(Base64Suffix):], Base64Suffix) {
		return strings.TrimSpace(ct[:len(ct)-len(Base64Suffix)]), true
	}
	return ct, false
}

// ReadPayload reads exactly declared bytes from r and undoes the transport
// encoding named by contentType. A body shorter or longer than declared is
// ErrLengthMismatch. When the MIME type is empty or octet-stream it is
// sniffed from the image bytes.
func ReadPayload(r io.Reader, contentType string, declared int64) (*Payload, error) {
	if declared < 0 {
		return nil, fmt.Errorf("%w: declared %d", ErrLengthMismatch, declared)
	}

	body := make([]byte, declared)
	if n, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: declared %d, got %d", ErrLengthMismatch, declared, n)
		}
		return nil, fmt.Errorf("read body: %w", err)
	}

	var extra [1]byte
	if n, _ := r.Read(extra[:]); n > 0 {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrLengthMismatch, declared)
	}

	mimeType, isBase64 := SplitContentType(contentType)

	image := body
	if isBase64 {
		decoded, err := decodeBase64(body)
		if err != nil {
			return nil, err
		}
		image = decoded
	}

	if mimeType == "" || strings.EqualFold(mimeType, octetStream) {
		mimeType = mimetype.Detect(image).String()
	}

	return &Payload{Image: image, MimeType: mimeType, Base64: isBase64}, nil
}

func decodeBase64(body []byte) ([]byte, error) {
	text := bytes.TrimSpace(body)

	decoded := make([]byte, max(base64.StdEncoding.DecodedLen(len(text)), base64.RawStdEncoding.DecodedLen(len(text))))
	n, err := base64.StdEncoding.Decode(decoded, text)
	if err == nil {
		return decoded[:n], nil
	}

	// unpadded input
	n, rawErr := base64.RawStdEncoding.Decode(decoded, text)
	if rawErr == nil {
		return decoded[:n], nil
	}

	return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
}

// ContentType returns the response content type for mimeType, with the
// base64 marker when the request used it.
func ContentType(mimeType string, isBase64 bool) string {
	if isBase64 {
		return mimeType + Base64Suffix
	}
	return mimeType
}

// EncodeResponse applies the request's transport encoding to img.
func EncodeResponse(img *domain.RenderedImage, isBase64 bool) (body []byte, contentType string) {
	if !isBase64 {
		return img.Bytes, img.MimeType
	}

	body = make([]byte, base64.StdEncoding.EncodedLen(len(img.Bytes)))
	base64.StdEncoding.Encode(body, img.Bytes)
	return body, ContentType(img.MimeType, true)
}
