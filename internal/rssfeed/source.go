// Package rssfeed fetches a channel's catalog from its public Atom
// feed, for running without an API key. The feed only carries the 15
// most recent uploads and omits durations, like counts and channel
// statistics, so rankings from this source cover recent uploads only
// and every entry renders as a regular video. View counts come from
// the media:community statistics extension.
package rssfeed

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pders01/vidrank/internal/catalog"
)

const feedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// Source drains a channel's Atom feed into a catalog.
type Source struct {
	channelID string
	feedURL   string
	client    *http.Client
	parser    *gofeed.Parser
	userAgent string
}

// Option configures a Source.
type Option func(*Source)

// WithFeedURL points the source at a different feed, used by tests.
func WithFeedURL(u string) Option {
	return func(s *Source) { s.feedURL = u }
}

func NewSource(channelID string, timeout time.Duration, opts ...Option) *Source {
	s := &Source{
		channelID: channelID,
		feedURL:   fmt.Sprintf(feedURL, channelID),
		client:    &http.Client{Timeout: timeout},
		parser:    gofeed.NewParser(),
		userAgent: "vidrank/1.0 (github.com/pders01/vidrank)",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch parses the channel feed. Any HTTP or parse failure fails the
// whole fetch; a half-read feed never produces a partial catalog.
func (s *Source) Fetch(ctx context.Context) (catalog.Channel, []catalog.Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return catalog.Channel{}, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return catalog.Channel{}, nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return catalog.Channel{}, nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return catalog.Channel{}, nil, fmt.Errorf("parsing feed: %w", err)
	}

	ch := catalog.Channel{
		ID:   s.channelID,
		Name: feed.Title,
	}
	if feed.Link != "" {
		ch.Handle = feed.Link
	}

	videos := make([]catalog.Video, 0, len(feed.Items))
	for _, item := range feed.Items {
		videos = append(videos, itemToVideo(item))
	}

	// The feed has no channel-level view counter; approximate the
	// total with the sum over the visible uploads so summary output
	// stays self-consistent in keyless mode.
	for _, v := range videos {
		ch.TotalViews += v.Views
	}
	ch.TotalVideos = int64(len(videos))

	return ch, videos, nil
}

func itemToVideo(item *gofeed.Item) catalog.Video {
	var published time.Time
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	}

	v := catalog.Video{
		ID:          videoID(item),
		Title:       item.Title,
		Views:       feedViews(item),
		PublishedAt: published,
		// No duration in the feed, so nothing counts as a short
		// and likes stay at zero in keyless mode.
		IsShort: false,
	}
	if item.Image != nil {
		v.Thumbnail = item.Image.URL
	}
	return v
}

// videoID prefers the yt:videoId extension over the entry GUID, which
// is prefixed ("yt:video:...") and would never match API-sourced IDs.
func videoID(item *gofeed.Item) string {
	if yt, ok := item.Extensions["yt"]; ok {
		if ids, ok := yt["videoId"]; ok && len(ids) > 0 {
			return ids[0].Value
		}
	}
	return item.GUID
}

// feedViews digs the view counter out of media:group > media:community
// > media:statistics. A feed without the extension defaults to 0.
func feedViews(item *gofeed.Item) int64 {
	media, ok := item.Extensions["media"]
	if !ok {
		return 0
	}
	for _, group := range media["group"] {
		for _, community := range group.Children["community"] {
			for _, stats := range community.Children["statistics"] {
				if views, ok := stats.Attrs["views"]; ok {
					n, err := strconv.ParseInt(views, 10, 64)
					if err != nil {
						return 0
					}
					return n
				}
			}
		}
	}
	return 0
}
