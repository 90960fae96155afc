package tracker

import (
	"time"

	"github.com/pders01/vidrank/internal/catalog"
	"github.com/pders01/vidrank/internal/storage"
)

// Report is the outcome of one successful refresh cycle, handed to the
// renderers. ChannelDiff is nil on the first observation; renderers
// show a "first snapshot" state instead of zero deltas.
type Report struct {
	Channel       catalog.Channel      `json:"channel"`
	Videos        []catalog.Video      `json:"videos"`
	ChannelDiff   *catalog.ChannelDiff `json:"channel_diff,omitempty"`
	TotalLikes    int64                `json:"total_likes"`
	AvgViews      int64                `json:"avg_views"`
	EngagementPct float64              `json:"engagement_pct"`
	FetchedAt     time.Time            `json:"fetched_at"`

	// Zero when this run was the first observation.
	PrevTimestamp time.Time `json:"prev_timestamp,omitempty"`

	RefreshStats storage.RefreshStats `json:"refresh_stats"`

	// Set when the snapshot save failed; the report is still valid
	// for rendering, only the next cycle's baseline is affected.
	SaveErr error `json:"-"`
}

// FirstObservation reports whether this cycle had no prior baseline.
func (r *Report) FirstObservation() bool {
	return r.ChannelDiff == nil
}

// TopVideo returns the highest-ranked video, or false for an empty
// catalog.
func (r *Report) TopVideo() (catalog.Video, bool) {
	if len(r.Videos) == 0 {
		return catalog.Video{}, false
	}
	return r.Videos[0], true
}
