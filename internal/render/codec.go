package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
)

var (
	ErrDecodeImage       = errors.New("decode image")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrMissingOverlay    = errors.New("decision without overlay")
)

// mimeTypes maps image.Decode format names to MIME types.
var mimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",
}

// writable maps the MIME types we can encode to imaging formats.
var writable = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
	"image/bmp":  imaging.BMP,
	"image/tiff": imaging.TIFF,
}

// Writable reports whether images of mimeType can be encoded.
func Writable(mimeType string) bool {
	_, ok := writable[normalizeMIME(mimeType)]
	return ok
}

// Source is a decoded input image. MimeType is derived from the bytes, not
// from what the client declared.
type Source struct {
	Image    image.Image
	MimeType string
}

// Decode decodes data with every registered format.
func Decode(data []byte) (*Source, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}

	mimeType, ok := mimeTypes[format]
	if !ok {
		mimeType = "image/" + format
	}

	return &Source{Image: img, MimeType: mimeType}, nil
}

type encoder struct {
	defaultMIME string
	jpegQuality int
}

// outputMIME keeps the inbound type when it can be written.
func (e encoder) outputMIME(inbound string) string {
	if Writable(inbound) {
		return normalizeMIME(inbound)
	}
	return e.defaultMIME
}

func (e encoder) encode(img image.Image, mimeType string) (*domain.RenderedImage, error) {
	format, ok := writable[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(e.jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", mimeType, err)
	}

	return &domain.RenderedImage{Bytes: buf.Bytes(), MimeType: mimeType}, nil
}

func normalizeMIME(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch mimeType {
	case "image/jpg", "image/pjpeg":
		return "image/jpeg"
	case "image/x-ms-bmp", "image/x-bmp":
		return "image/bmp"
	}
	return mimeType
}
