package domain

import (
	"image"
	"maps"

	"golang.org/x/text/language"
)

// Rect is a face bounding box in source image pixels, top-left origin.
// Values are taken as reported by the detector and are not checked
// against the image bounds.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rectangle converts r to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Valid reports whether r has a positive area.
func (r Rect) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// EmotionScores maps an emotion label, case-sensitive as received,
// to its confidence. Values outside [0, 1] are passed through.
type EmotionScores map[string]float64

// Face is one detected face. It is immutable: the scores are copied on
// construction and every accessor returns a copy.
type Face struct {
	scores EmotionScores
	rect   Rect
}

// NewFace creates a Face owning a private copy of scores.
func NewFace(scores EmotionScores, rect Rect) Face {
	cp := make(EmotionScores, len(scores))
	maps.Copy(cp, scores)
	return Face{scores: cp, rect: rect}
}

// Rect returns the face bounding box.
func (f Face) Rect() Rect {
	return f.rect
}

// Scores returns a copy of the emotion scores.
func (f Face) Scores() EmotionScores {
	return maps.Clone(f.scores)
}

// Score returns the confidence for label and whether it was reported.
func (f Face) Score(label string) (float64, bool) {
	v, ok := f.scores[label]
	return v, ok
}

// Len returns the number of scored emotions.
func (f Face) Len() int {
	return len(f.scores)
}

// Decision is what gets drawn on one face. It is derived per request and
// never cached.
type Decision struct {
	Emotion string
	Overlay image.Image
	Caption string
	Locale  language.Tag
}

// Layer pairs a face with its decision. Layers are composited in order.
type Layer struct {
	Face     Face
	Decision Decision
}

// RenderedImage is the encoded compositor output.
type RenderedImage struct {
	Bytes    []byte
	MimeType string
}
