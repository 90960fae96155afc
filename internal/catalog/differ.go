package catalog

// PriorVideo is the slice of a persisted snapshot the differ needs for
// one video: where it ranked last cycle and how many views it had.
type PriorVideo struct {
	Rank  int
	Views int64
}

// PriorChannel carries the channel counters captured by the previous
// snapshot. Fields missing from an older blob unmarshal as zero, which
// is exactly the defaulting the diff wants.
type PriorChannel struct {
	Subscribers int64
	TotalViews  int64
	TotalLikes  int64
}

// ChannelDiff is the channel-level movement since the previous
// snapshot. A nil *ChannelDiff means first observation: there is no
// baseline, which callers must render as such rather than as zeros.
type ChannelDiff struct {
	Subscribers int64
	Views       int64
	Likes       int64
}

// ApplyMovement fills RankChange and ViewsDelta on a ranked catalog by
// looking each video up in the prior snapshot by ID. Lookup is never
// positional; videos get added, removed and reshuffled between cycles.
// A video absent from the prior snapshot keeps both values at zero,
// since a new upload has no previous position to move from.
//
// prior may be nil (first observation); every video then reads as
// unmoved.
func ApplyMovement(ranked []Video, prior map[string]PriorVideo) []Video {
	if len(prior) == 0 {
		return ranked
	}
	for i := range ranked {
		prev, ok := prior[ranked[i].ID]
		if !ok {
			continue
		}
		ranked[i].RankChange = prev.Rank - ranked[i].CurrentRank
		ranked[i].ViewsDelta = ranked[i].Views - prev.Views
	}
	return ranked
}

// DiffChannel compares current channel counters against the previous
// snapshot. Returns nil when there is no previous snapshot.
//
// totalLikes must be the freshly computed TotalLikes of the current
// catalog; the channels API reports no likes aggregate, so the value
// is always derived, never trusted from upstream.
func DiffChannel(ch Channel, totalLikes int64, prior *PriorChannel) *ChannelDiff {
	if prior == nil {
		return nil
	}
	return &ChannelDiff{
		Subscribers: ch.Subscribers - prior.Subscribers,
		Views:       ch.TotalViews - prior.TotalViews,
		Likes:       totalLikes - prior.TotalLikes,
	}
}

// TotalLikes sums likes across the current catalog.
func TotalLikes(videos []Video) int64 {
	var sum int64
	for _, v := range videos {
		sum += v.Likes
	}
	return sum
}

// EngagementPct is total likes as a percentage of total channel views.
func EngagementPct(totalLikes, totalViews int64) float64 {
	if totalViews == 0 {
		return 0
	}
	return float64(totalLikes) / float64(totalViews) * 100
}
