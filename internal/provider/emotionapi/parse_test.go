package emotionapi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
)

func TestParseFaces_WellFormed(t *testing.T) {
	body := `[
		{"faceRectangle": {"left": 10, "top": 20, "width": 30, "height": 40},
		 "scores": {"happiness": 0.9, "anger": 0.05, "neutral": 0.05}},
		{"faceRectangle": {"left": 100, "top": 5, "width": 50, "height": 60},
		 "scores": {"sadness": 0.7, "fear": 0.3}},
		{"faceRectangle": {"left": 0, "top": 0, "width": 1, "height": 1},
		 "scores": {}}
	]`

	faces, err := ParseFaces([]byte(body))
	require.NoError(t, err)
	require.Len(t, faces, 3)

	assert.Equal(t, domain.Rect{X: 10, Y: 20, Width: 30, Height: 40}, faces[0].Rect())
	assert.Equal(t, domain.EmotionScores{"happiness": 0.9, "anger": 0.05, "neutral": 0.05}, faces[0].Scores())

	assert.Equal(t, domain.Rect{X: 100, Y: 5, Width: 50, Height: 60}, faces[1].Rect())
	score, ok := faces[1].Score("sadness")
	assert.True(t, ok)
	assert.Equal(t, 0.7, score)

	assert.Equal(t, 0, faces[2].Len())
}

func TestParseFaces_NotAnArray(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"error": {"code": "Unspecified", "message": "Access denied"}}`,
		`"x"`,
		`42`,
		`true`,
		`null`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			faces, err := ParseFaces([]byte(body))
			require.NoError(t, err)
			assert.NotNil(t, faces)
			assert.Empty(t, faces)
		})
	}
}

func TestParseFaces_SkipsNonObjects(t *testing.T) {
	body := `[
		1, "face", null, [1, 2],
		{"faceRectangle": {"left": 1, "top": 2, "width": 3, "height": 4}, "scores": {"surprise": 1}},
		false
	]`

	faces, err := ParseFaces([]byte(body))
	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.Equal(t, domain.Rect{X: 1, Y: 2, Width: 3, Height: 4}, faces[0].Rect())
}

func TestParseFaces_EmptyArray(t *testing.T) {
	faces, err := ParseFaces([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, faces)
}

func TestParseFaces_InvalidJSON(t *testing.T) {
	for _, body := range []string{``, `[{`, `not json`} {
		_, err := ParseFaces([]byte(body))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	}
}

func TestParseFaces_TrailingData(t *testing.T) {
	for _, body := range []string{`[] garbage`, `[]]`, `[] []`, `{"error":"x"} 1`} {
		_, err := ParseFaces([]byte(body))
		assert.ErrorIs(t, err, ErrMalformedResponse, body)
	}

	faces, err := ParseFaces([]byte("[]\n  \t"))
	require.NoError(t, err)
	assert.Empty(t, faces)
}

func TestParseFaces_MalformedFace(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantIndex int
		wantField string
	}{
		{
			name:      "missing scores",
			body:      `[{"faceRectangle": {"left": 1, "top": 2, "width": 3, "height": 4}}]`,
			wantIndex: 0,
			wantField: "scores",
		},
		{
			name:      "missing faceRectangle",
			body:      `[{"scores": {"anger": 1}}]`,
			wantIndex: 0,
			wantField: "faceRectangle",
		},
		{
			name:      "rectangle not an object",
			body:      `[{"faceRectangle": [1, 2, 3, 4], "scores": {"anger": 1}}]`,
			wantIndex: 0,
			wantField: "faceRectangle",
		},
		{
			name:      "missing rectangle field",
			body:      `[{"faceRectangle": {"left": 1, "top": 2, "width": 3}, "scores": {"anger": 1}}]`,
			wantIndex: 0,
			wantField: "faceRectangle.height",
		},
		{
			name:      "string rectangle field",
			body:      `[{"faceRectangle": {"left": "1", "top": 2, "width": 3, "height": 4}, "scores": {"anger": 1}}]`,
			wantIndex: 0,
			wantField: "faceRectangle.left",
		},
		{
			name:      "non numeric score",
			body:      `[{"faceRectangle": {"left": 1, "top": 2, "width": 3, "height": 4}, "scores": {"anger": "high"}}]`,
			wantIndex: 0,
			wantField: "scores.anger",
		},
		{
			name:      "zero width",
			body:      `[{"faceRectangle": {"left": 1, "top": 2, "width": 0, "height": 4}, "scores": {"anger": 1}}]`,
			wantIndex: 0,
			wantField: "faceRectangle",
		},
		{
			name: "malformed object next to well formed one",
			body: `[
				{"faceRectangle": {"left": 1, "top": 2, "width": 3, "height": 4}, "scores": {"anger": 1}},
				{"faceRectangle": {"left": 1, "top": 2, "width": 3, "height": 4}}
			]`,
			wantIndex: 1,
			wantField: "scores",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faces, err := ParseFaces([]byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, faces)
			assert.ErrorIs(t, err, ErrMalformedFace)

			var faceErr *FaceError
			require.True(t, errors.As(err, &faceErr))
			assert.Equal(t, tt.wantIndex, faceErr.Index)
			assert.Equal(t, tt.wantField, faceErr.Field)
		})
	}
}

func TestParseFaces_TruncatesFractionalRectangle(t *testing.T) {
	body := `[{"faceRectangle": {"left": 10.9, "top": 2.2, "width": 30.5, "height": 40.99}, "scores": {"anger": 1}}]`

	faces, err := ParseFaces([]byte(body))
	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.Equal(t, domain.Rect{X: 10, Y: 2, Width: 30, Height: 40}, faces[0].Rect())
}

func TestParseFaces_PassesThroughOutOfRangeScores(t *testing.T) {
	body := `[{"faceRectangle": {"left": 0, "top": 0, "width": 5, "height": 5}, "scores": {"anger": 1.5, "Fear": -0.25}}]`

	faces, err := ParseFaces([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, domain.EmotionScores{"anger": 1.5, "Fear": -0.25}, faces[0].Scores())
}

func TestFaceError_Error(t *testing.T) {
	err := &FaceError{Index: 2, Field: "scores", Err: errMissing}
	assert.Equal(t, "face 2: scores: missing", err.Error())
	assert.ErrorIs(t, err, ErrMalformedFace)
	assert.ErrorIs(t, err, errMissing)
}
