package render

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
)

// Options configures a Compositor.
type Options struct {
	// DefaultMIMEType is used when the inbound format cannot be written.
	DefaultMIMEType string
	JPEGQuality     int
	Fonts           *FontSet
}

// DefaultOptions writes PNG when it cannot keep the inbound format.
func DefaultOptions() Options {
	return Options{
		DefaultMIMEType: "image/png",
		JPEGQuality:     90,
	}
}

// Compositor draws decisions onto decoded images. It holds no per-request
// state and is safe for concurrent use.
type Compositor struct {
	encoder encoder
	fonts   *FontSet
}

// NewCompositor validates opts and loads the default font when none is set.
func NewCompositor(opts Options) (*Compositor, error) {
	defaultMIME := normalizeMIME(opts.DefaultMIMEType)
	if !Writable(defaultMIME) {
		return nil, fmt.Errorf("%w: default %q", ErrUnsupportedFormat, opts.DefaultMIMEType)
	}

	quality := opts.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = DefaultOptions().JPEGQuality
	}

	fonts := opts.Fonts
	if fonts == nil {
		var err error
		if fonts, err = NewFontSet(); err != nil {
			return nil, err
		}
	}

	return &Compositor{
		encoder: encoder{defaultMIME: defaultMIME, jpegQuality: quality},
		fonts:   fonts,
	}, nil
}

// Decode decodes an input image once so it can be reused for compositing.
func (c *Compositor) Decode(data []byte) (*Source, error) {
	return Decode(data)
}

// OutputMIME returns the type Composite will encode src as.
func (c *Compositor) OutputMIME(src *Source) string {
	return c.encoder.outputMIME(src.MimeType)
}

// Composite draws every layer in order on one canvas, so later layers cover
// earlier ones where they overlap. Each overlay is scaled to fit inside its
// face rectangle keeping its aspect ratio and drawn at the rectangle's top
// left corner; the caption goes below the rectangle. Only the part of an
// overlay that lands on the image is scaled, so rectangles far larger than
// the image cost no more than the image itself. With no layers the source
// is encoded as is.
func (c *Compositor) Composite(src *Source, layers []domain.Layer) (*domain.RenderedImage, error) {
	mimeType := c.OutputMIME(src)

	if len(layers) == 0 {
		return c.encoder.encode(src.Image, mimeType)
	}

	for i, l := range layers {
		if l.Decision.Overlay == nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, l.Decision.Emotion, ErrMissingOverlay)
		}
	}

	dc := gg.NewContextForImage(src.Image)
	bounds := image.Rect(0, 0, dc.Width(), dc.Height())
	for _, l := range layers {
		rect := l.Face.Rect()
		if !rect.Valid() {
			continue
		}

		if overlay, at, ok := placeOverlay(l.Decision.Overlay, rect, bounds); ok {
			dc.DrawImage(overlay, at.X, at.Y)
		}
		drawCaption(dc, c.fonts.Font(l.Decision.Locale), l.Decision.Caption, rect)
	}

	return c.encoder.encode(dc.Image(), mimeType)
}

// placeOverlay scales img to the largest size that fits in rect without
// changing its aspect ratio, anchored at the rect's top left corner, and
// returns the part of the result inside bounds with the point to draw it at.
// Coordinates are computed in float64 so huge rectangles cannot overflow.
func placeOverlay(img image.Image, rect domain.Rect, bounds image.Rectangle) (image.Image, image.Point, bool) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, image.Point{}, false
	}

	rw, rh := float64(rect.Width), float64(rect.Height)
	scale := math.Min(rw/float64(b.Dx()), rh/float64(b.Dy()))
	dw := math.Min(rw, math.Max(1, math.Round(float64(b.Dx())*scale)))
	dh := math.Min(rh, math.Max(1, math.Round(float64(b.Dy())*scale)))

	x0, y0 := float64(rect.X), float64(rect.Y)
	vx0 := math.Max(x0, float64(bounds.Min.X))
	vy0 := math.Max(y0, float64(bounds.Min.Y))
	vx1 := math.Min(x0+dw, float64(bounds.Max.X))
	vy1 := math.Min(y0+dh, float64(bounds.Max.Y))
	if vx1 <= vx0 || vy1 <= vy0 {
		return nil, image.Point{}, false
	}
	visible := image.Rect(int(vx0), int(vy0), int(vx1), int(vy1))

	// map the visible window back onto the overlay
	sx, sy := dw/float64(b.Dx()), dh/float64(b.Dy())
	crop := image.Rect(
		b.Min.X+int(math.Floor((vx0-x0)/sx)),
		b.Min.Y+int(math.Floor((vy0-y0)/sy)),
		b.Min.X+int(math.Ceil((vx1-x0)/sx)),
		b.Min.Y+int(math.Ceil((vy1-y0)/sy)),
	).Intersect(b)
	if crop.Empty() {
		return nil, image.Point{}, false
	}

	if crop == b && visible.Dx() == b.Dx() && visible.Dy() == b.Dy() {
		return img, visible.Min, true
	}

	part := img
	if crop != b {
		part = imaging.Crop(img, crop)
	}
	return imaging.Resize(part, visible.Dx(), visible.Dy(), imaging.Lanczos), visible.Min, true
}
