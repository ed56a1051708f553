package emotionapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
)

const (
	fieldRectangle = "faceRectangle"
	fieldScores    = "scores"
)

var (
	errMissing      = errors.New("missing")
	errNotObject    = errors.New("not an object")
	errNotNumber    = errors.New("not a number")
	errNonPositive  = errors.New("width and height must be positive")
	rectangleFields = [...]string{"left", "top", "width", "height"}
)

// ParseFaces converts an emotion API body into faces, preserving order.
//
// A top-level value that is not an array (an error object, a string, a
// number) means no faces. Array entries that are not objects are skipped.
// An object entry missing faceRectangle or scores, or carrying non-numeric
// values, fails the whole call with a *FaceError.
// Anything but whitespace after the root value is ErrMalformedResponse.
func ParseFaces(body []byte) ([]domain.Face, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after the root value", ErrMalformedResponse)
	}

	entries, ok := root.([]any)
	if !ok {
		return []domain.Face{}, nil
	}

	faces := make([]domain.Face, 0, len(entries))
	for i, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		face, err := parseFace(i, obj)
		if err != nil {
			return nil, err
		}
		faces = append(faces, face)
	}

	return faces, nil
}

func parseFace(index int, obj map[string]any) (domain.Face, error) {
	rectObj, err := object(obj, fieldRectangle)
	if err != nil {
		return domain.Face{}, &FaceError{Index: index, Field: fieldRectangle, Err: err}
	}

	var coords [len(rectangleFields)]int
	for i, name := range rectangleFields {
		v, err := number(rectObj[name])
		if err != nil {
			return domain.Face{}, &FaceError{Index: index, Field: fieldRectangle + "." + name, Err: err}
		}
		coords[i] = int(v)
	}

	rect := domain.Rect{X: coords[0], Y: coords[1], Width: coords[2], Height: coords[3]}
	if !rect.Valid() {
		return domain.Face{}, &FaceError{Index: index, Field: fieldRectangle, Err: errNonPositive}
	}

	scoresObj, err := object(obj, fieldScores)
	if err != nil {
		return domain.Face{}, &FaceError{Index: index, Field: fieldScores, Err: err}
	}

	scores := make(domain.EmotionScores, len(scoresObj))
	for label, raw := range scoresObj {
		v, err := number(raw)
		if err != nil {
			return domain.Face{}, &FaceError{Index: index, Field: fieldScores + "." + label, Err: err}
		}
		scores[label] = v
	}

	return domain.NewFace(scores, rect), nil
}

func object(obj map[string]any, key string) (map[string]any, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, errMissing
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return m, nil
}

func number(raw any) (float64, error) {
	if raw == nil {
		return 0, errMissing
	}
	n, ok := raw.(json.Number)
	if !ok {
		return 0, errNotNumber
	}
	v, err := n.Float64()
	if err != nil || math.IsInf(v, 0) {
		return 0, errNotNumber
	}
	return v, nil
}
