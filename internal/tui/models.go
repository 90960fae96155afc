package tui

type View int

const (
	ViewRanking View = iota
	ViewDetail
	ViewSearch
	ViewResetConfirm
)

// Filter narrows the ranking list by upload kind. Ranks are computed
// over the full catalog; filtering only hides rows.
type Filter int

const (
	FilterAll Filter = iota
	FilterVideos
	FilterShorts
)

func (f Filter) String() string {
	switch f {
	case FilterVideos:
		return "videos"
	case FilterShorts:
		return "shorts"
	default:
		return "all"
	}
}

func (f Filter) Next() Filter {
	return Filter((int(f) + 1) % 3)
}

// SortField cycles the display order of the ranking list. The stored
// ranks always reflect the views ordering.
type SortField int

const (
	SortRank SortField = iota
	SortLikes
	SortNewest
	SortDuration
)

func (s SortField) String() string {
	switch s {
	case SortLikes:
		return "likes"
	case SortNewest:
		return "newest"
	case SortDuration:
		return "duration"
	default:
		return "rank"
	}
}

func (s SortField) Next() SortField {
	return SortField((int(s) + 1) % 4)
}
