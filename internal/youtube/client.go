package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pders01/vidrank/internal/catalog"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// The videos endpoint accepts at most 50 IDs per call.
	statsBatchSize = 50

	// playlistItems page size; the drain loops until nextPageToken
	// runs out regardless.
	pageSize = 50
)

// Client fetches a channel's full catalog from the YouTube Data API.
// Every call takes a context and any failure, including a partial
// playlist drain, is returned to the caller, which treats it as
// whole-cycle fatal. No partially fetched catalog ever leaves this
// package.
type Client struct {
	apiKey    string
	channelID string
	baseURL   string
	client    *http.Client
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root, used by tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(base, "/") }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithUserAgent overrides the request User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func NewClient(apiKey, channelID string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		apiKey:    apiKey,
		channelID: channelID,
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: timeout},
		userAgent: "vidrank/1.0 (github.com/pders01/vidrank)",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch drains the channel's complete catalog: channel record, uploads
// playlist, every video ID, then per-video stats in batches of 50.
func (c *Client) Fetch(ctx context.Context) (catalog.Channel, []catalog.Video, error) {
	ch, uploads, err := c.channel(ctx)
	if err != nil {
		return catalog.Channel{}, nil, fmt.Errorf("fetching channel: %w", err)
	}

	ids, err := c.allVideoIDs(ctx, uploads)
	if err != nil {
		return catalog.Channel{}, nil, fmt.Errorf("draining playlist: %w", err)
	}

	videos, err := c.videoStats(ctx, ids)
	if err != nil {
		return catalog.Channel{}, nil, fmt.Errorf("fetching video stats: %w", err)
	}

	return ch, videos, nil
}

func (c *Client) channel(ctx context.Context) (catalog.Channel, string, error) {
	var resp channelListResponse
	err := c.get(ctx, "/channels", url.Values{
		"part": {"snippet,statistics,contentDetails"},
		"id":   {c.channelID},
	}, &resp)
	if err != nil {
		return catalog.Channel{}, "", err
	}
	if len(resp.Items) == 0 {
		return catalog.Channel{}, "", fmt.Errorf("channel %s not found", c.channelID)
	}

	item := resp.Items[0]
	handle := ""
	if item.Snippet.CustomURL != "" {
		handle = "@" + strings.TrimPrefix(item.Snippet.CustomURL, "@")
	}

	ch := catalog.Channel{
		ID:          item.ID,
		Name:        item.Snippet.Title,
		Handle:      handle,
		Description: item.Snippet.Description,
		Icon:        item.Snippet.Thumbnails.Default.URL,
		Subscribers: parseCount(item.Statistics.SubscriberCount),
		TotalViews:  parseCount(item.Statistics.ViewCount),
		TotalVideos: parseCount(item.Statistics.VideoCount),
	}
	return ch, item.ContentDetails.RelatedPlaylists.Uploads, nil
}

func (c *Client) allVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		params := url.Values{
			"part":       {"contentDetails"},
			"playlistId": {playlistID},
			"maxResults": {strconv.Itoa(pageSize)},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp playlistItemsResponse
		if err := c.get(ctx, "/playlistItems", params, &resp); err != nil {
			return nil, fmt.Errorf("page %q: %w", pageToken, err)
		}

		for _, item := range resp.Items {
			ids = append(ids, item.ContentDetails.VideoID)
		}

		if resp.NextPageToken == "" {
			return ids, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (c *Client) videoStats(ctx context.Context, ids []string) ([]catalog.Video, error) {
	videos := make([]catalog.Video, 0, len(ids))

	for start := 0; start < len(ids); start += statsBatchSize {
		end := start + statsBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		var resp videoListResponse
		err := c.get(ctx, "/videos", url.Values{
			"part": {"snippet,contentDetails,statistics"},
			"id":   {strings.Join(ids[start:end], ",")},
		}, &resp)
		if err != nil {
			return nil, fmt.Errorf("batch starting at %d: %w", start, err)
		}

		for _, item := range resp.Items {
			publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			videos = append(videos, catalog.NewVideo(
				item.ID,
				item.Snippet.Title,
				item.Snippet.Thumbnails.Medium.URL,
				parseCount(item.Statistics.ViewCount),
				parseCount(item.Statistics.LikeCount),
				parseISODuration(item.ContentDetails.Duration),
				publishedAt,
			))
		}
	}

	return videos, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP error: %d on %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// parseCount handles the API's string-typed counters. A missing or
// malformed counter defaults to 0 here, at the ingestion boundary, so
// one hidden like count never rejects the whole catalog.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
