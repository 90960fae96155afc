package catalog

import (
	"sort"
)

// Rank orders a catalog by view count and assigns CurrentRank 1..N.
//
// Ordering: views descending, then published date descending (newer
// first, which also decides between videos that both sit at zero
// views). When views and publish time are both equal the input order
// is preserved; sort.SliceStable makes that residual tie-break
// deterministic across runs as long as the source returns the catalog
// in a consistent order, which the YouTube playlist drain does.
//
// Duplicate IDs are a data-integrity error in the source; Rank does
// not deduplicate.
func Rank(videos []Video) []Video {
	ranked := make([]Video, len(videos))
	copy(ranked, videos)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Views != ranked[j].Views {
			return ranked[i].Views > ranked[j].Views
		}
		return ranked[i].PublishedAt.After(ranked[j].PublishedAt)
	})

	for i := range ranked {
		ranked[i].CurrentRank = i + 1
	}

	return ranked
}
