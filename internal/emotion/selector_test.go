package emotion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
)

func TestSelector_Select(t *testing.T) {
	tests := []struct {
		name     string
		priority []string
		scores   domain.EmotionScores
		want     string
	}{
		{
			name:     "highest score wins",
			priority: DefaultPriority,
			scores:   domain.EmotionScores{"anger": 0.1, "happiness": 0.2, "sadness": 0.7},
			want:     "sadness",
		},
		{
			name:     "tie broken by priority",
			priority: []string{"joy", "anger"},
			scores:   domain.EmotionScores{"joy": 0.5, "anger": 0.5},
			want:     "joy",
		},
		{
			name:     "tie broken by priority regardless of label order",
			priority: []string{"surprise", "anger"},
			scores:   domain.EmotionScores{"anger": 0.5, "surprise": 0.5},
			want:     "surprise",
		},
		{
			name:     "unranked ties fall back to lexicographic order",
			priority: DefaultPriority,
			scores:   domain.EmotionScores{"zest": 0.4, "awe": 0.4, "calm": 0.4},
			want:     "awe",
		},
		{
			name:     "ranked label beats unranked label on tie",
			priority: []string{"neutral"},
			scores:   domain.EmotionScores{"awe": 0.3, "neutral": 0.3},
			want:     "neutral",
		},
		{
			name:     "empty scores yield sentinel",
			priority: DefaultPriority,
			scores:   domain.EmotionScores{},
			want:     Unknown,
		},
		{
			name:     "nil scores yield sentinel",
			priority: DefaultPriority,
			scores:   nil,
			want:     Unknown,
		},
		{
			name:     "NaN ignored",
			priority: DefaultPriority,
			scores:   domain.EmotionScores{"happiness": math.NaN(), "fear": 0.01},
			want:     "fear",
		},
		{
			name:     "only NaN yields sentinel",
			priority: DefaultPriority,
			scores:   domain.EmotionScores{"happiness": math.NaN()},
			want:     Unknown,
		},
		{
			name:     "out of range values passed through",
			priority: DefaultPriority,
			scores:   domain.EmotionScores{"anger": 1.7, "happiness": -0.2},
			want:     "anger",
		},
		{
			name:     "case sensitive labels",
			priority: []string{"happiness"},
			scores:   domain.EmotionScores{"Happiness": 0.5, "happiness": 0.5},
			want:     "happiness",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector(tt.priority)
			assert.Equal(t, tt.want, s.Select(tt.scores))
		})
	}
}

func TestSelector_Deterministic(t *testing.T) {
	s := NewSelector(DefaultPriority)

	// map iteration order is randomized, so repeated calls exercise
	// different visiting orders over the same tied scores.
	scores := domain.EmotionScores{
		"fear":      0.25,
		"anger":     0.25,
		"contempt":  0.25,
		"surprise":  0.25,
		"neutral":   0.1,
		"whatever":  0.25,
		"happiness": 0.05,
	}

	for i := 0; i < 200; i++ {
		assert.Equal(t, "surprise", s.Select(scores))
	}

	// Same content built in a different insertion order.
	other := domain.EmotionScores{}
	for _, k := range []string{"whatever", "happiness", "surprise", "neutral", "contempt", "anger", "fear"} {
		other[k] = scores[k]
	}
	assert.Equal(t, s.Select(scores), s.Select(other))
}

func TestNewSelector_DuplicatePriority(t *testing.T) {
	s := NewSelector([]string{"anger", "joy", "anger"})

	assert.Equal(t, []string{"anger", "joy"}, s.Priority())
	assert.Equal(t, "anger", s.Select(domain.EmotionScores{"joy": 0.5, "anger": 0.5}))
}
