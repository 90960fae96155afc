package storage

import (
	"time"

	"github.com/pders01/vidrank/internal/catalog"
)

// Snapshot is the persisted baseline for the next cycle's diff: the
// channel counters at capture time plus a minimal per-video projection.
// The JSON layout is flat and stable; it is replaced wholesale on every
// successful refresh, never merged.
type Snapshot struct {
	Timestamp       time.Time       `json:"timestamp"`
	LastTotalViews  int64           `json:"lastTotalViews"`
	LastTotalLikes  int64           `json:"lastTotalLikes"`
	LastSubscribers int64           `json:"lastSubscribers"`
	Videos          []SnapshotVideo `json:"videos"`
}

// SnapshotVideo is the projection of one ranked video that the differ
// needs next cycle.
type SnapshotVideo struct {
	ID          string `json:"id"`
	CurrentRank int    `json:"currentRank"`
	Views       int64  `json:"views"`
	Likes       int64  `json:"likes"`
}

// NewSnapshot builds the snapshot for a completed refresh cycle.
// TotalLikes is the derived sum over the ranked catalog, not an
// upstream aggregate.
func NewSnapshot(capturedAt time.Time, ch catalog.Channel, ranked []catalog.Video) *Snapshot {
	snap := &Snapshot{
		Timestamp:       capturedAt,
		LastTotalViews:  ch.TotalViews,
		LastTotalLikes:  catalog.TotalLikes(ranked),
		LastSubscribers: ch.Subscribers,
		Videos:          make([]SnapshotVideo, 0, len(ranked)),
	}
	for _, v := range ranked {
		snap.Videos = append(snap.Videos, SnapshotVideo{
			ID:          v.ID,
			CurrentRank: v.CurrentRank,
			Views:       v.Views,
			Likes:       v.Likes,
		})
	}
	return snap
}

// PriorVideos indexes the snapshot by video ID for the differ.
func (s *Snapshot) PriorVideos() map[string]catalog.PriorVideo {
	if s == nil {
		return nil
	}
	prior := make(map[string]catalog.PriorVideo, len(s.Videos))
	for _, v := range s.Videos {
		prior[v.ID] = catalog.PriorVideo{Rank: v.CurrentRank, Views: v.Views}
	}
	return prior
}

// PriorChannel exposes the captured channel counters for the differ.
// Returns nil on a nil snapshot so first observation flows through.
func (s *Snapshot) PriorChannel() *catalog.PriorChannel {
	if s == nil {
		return nil
	}
	return &catalog.PriorChannel{
		Subscribers: s.LastSubscribers,
		TotalViews:  s.LastTotalViews,
		TotalLikes:  s.LastTotalLikes,
	}
}

// RefreshStats tracks how often a channel was refreshed on a given day.
type RefreshStats struct {
	Count       int       `json:"count"`
	Day         string    `json:"day"`
	LastRefresh time.Time `json:"last_refresh"`
}
