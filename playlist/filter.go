package playlist

import (
	"sort"

	"github.com/bilisonic/bilisonic/source"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Filter returns the tracks whose title fuzzily matches query, best matches first.
// An empty query returns tracks unchanged.
func Filter(tracks []*source.Track, query string) []*source.Track {
	if query == "" {
		return tracks
	}

	titles := lo.Map(tracks, func(t *source.Track, _ int) string {
		return t.String()
	})

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Stable(ranks)

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) *source.Track {
		return tracks[r.OriginalIndex]
	})
}
