package feed

import "sort"

// Rank orders items newest first by FetchedAt; a zero FetchedAt sorts
// last. Ties fall back to the raw Published string so the order stays
// stable across runs.
func Rank(items []Item) []Item {
	ranked := make([]Item, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].FetchedAt, ranked[j].FetchedAt
		if !a.Equal(b) {
			return a.After(b)
		}
		return ranked[i].Published > ranked[j].Published
	})

	return ranked
}
