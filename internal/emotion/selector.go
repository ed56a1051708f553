package emotion

import (
	"math"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
)

// Unknown is returned when a face carries no usable scores.
const Unknown = "unknown"

// DefaultPriority breaks exact ties between known emotions.
var DefaultPriority = []string{
	"happiness",
	"surprise",
	"anger",
	"sadness",
	"fear",
	"disgust",
	"contempt",
	"neutral",
}

// Selector picks the dominant emotion of a face. It is immutable and safe
// for concurrent use.
type Selector struct {
	rank  map[string]int
	order []string
}

// NewSelector creates a Selector with the given tie-break priority.
// Duplicate labels keep their first position.
func NewSelector(priority []string) *Selector {
	s := &Selector{rank: make(map[string]int, len(priority))}
	for _, label := range priority {
		if _, ok := s.rank[label]; !ok {
			s.rank[label] = len(s.order)
			s.order = append(s.order, label)
		}
	}
	return s
}

// Select returns the label with the highest score. Exact ties go to the
// label ranked first in the priority list, then to the lexicographically
// smallest label. NaN scores are ignored; no usable score yields Unknown.
func (s *Selector) Select(scores domain.EmotionScores) string {
	best := ""
	bestScore := math.Inf(-1)
	found := false

	for label, score := range scores {
		if math.IsNaN(score) {
			continue
		}
		switch {
		case !found, score > bestScore:
			best, bestScore, found = label, score, true
		case score == bestScore && s.before(label, best):
			best = label
		}
	}

	if !found {
		return Unknown
	}
	return best
}

// before reports whether a wins a tie against b.
func (s *Selector) before(a, b string) bool {
	ra, aRanked := s.rank[a]
	rb, bRanked := s.rank[b]

	switch {
	case aRanked && bRanked:
		return ra < rb
	case aRanked != bRanked:
		return aRanked
	default:
		return a < b
	}
}

// Priority returns the configured tie-break order.
func (s *Selector) Priority() []string {
	return append([]string(nil), s.order...)
}
