package catalog

import (
	"time"
)

// shortMaxSeconds is the upload length below which a video counts as a Short.
const shortMaxSeconds = 60

// Video is one upload in a channel's catalog. Views and Likes default to
// zero when the upstream source omits them; the source packages fill
// that in at ingestion so consumers never see missing numerics.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Thumbnail   string    `json:"thumbnail"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	Duration    int       `json:"duration"`
	PublishedAt time.Time `json:"published_at"`
	IsShort     bool      `json:"is_short"`

	// Set by Rank; 1-based, contiguous across the ranked catalog.
	CurrentRank int `json:"current_rank"`

	// Set by ApplyMovement against the prior snapshot. Both are zero
	// for a video with no prior record.
	RankChange int   `json:"rank_change"`
	ViewsDelta int64 `json:"views_delta"`
}

// NewVideo derives IsShort from the duration. Sources should build
// videos through this so the derivation lives in one place.
func NewVideo(id, title, thumbnail string, views, likes int64, durationSeconds int, publishedAt time.Time) Video {
	return Video{
		ID:          id,
		Title:       title,
		Thumbnail:   thumbnail,
		Views:       views,
		Likes:       likes,
		Duration:    durationSeconds,
		PublishedAt: publishedAt,
		IsShort:     durationSeconds < shortMaxSeconds,
	}
}

// Channel holds the channel-level aggregate counters reported by the
// catalog source.
type Channel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Handle      string `json:"handle"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Subscribers int64  `json:"subscribers"`
	TotalViews  int64  `json:"total_views"`
	TotalVideos int64  `json:"total_videos"`
}

// AvgViews is total channel views spread over the upload count.
func (c Channel) AvgViews() int64 {
	if c.TotalVideos == 0 {
		return 0
	}
	return c.TotalViews / c.TotalVideos
}
