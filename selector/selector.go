// Package selector picks the stream a track is played from.
//
// Candidates are ranked audio first, then video, then anything the API client could
// not classify. Within a kind, the quality later in that kind's table wins and a
// quality missing from the table loses to every known one. Unknown streams are all
// equal. Ties keep their input order.
package selector

import (
	"errors"

	"github.com/bilisonic/bilisonic/source"
	"golang.org/x/exp/slices"
)

// ErrEmptyCandidateSet is returned when Select is given nothing to choose from.
var ErrEmptyCandidateSet = errors.New("empty candidate set")

// sortKey is compared lexicographically, lower is better.
type sortKey struct {
	priority int
	quality  int
}

func keyOf(s *source.Stream) sortKey {
	switch s.Kind {
	case source.KindAudio, source.KindVideo:
		return sortKey{priority: int(s.Kind), quality: -source.Rank(s.Kind, s.Quality)}
	default:
		return sortKey{priority: int(source.KindUnknown)}
	}
}

func compare(a, b *source.Stream) int {
	ka, kb := keyOf(a), keyOf(b)
	if ka.priority != kb.priority {
		return ka.priority - kb.priority
	}
	return ka.quality - kb.quality
}

// Sort returns a copy of candidates ordered best first.
func Sort(candidates []*source.Stream) []*source.Stream {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, compare)
	return sorted
}

// Select returns the best candidate.
func Select(candidates []*source.Stream) (*source.Stream, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidateSet
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if compare(c, best) < 0 {
			best = c
		}
	}
	return best, nil
}
