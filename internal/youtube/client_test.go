package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		iso  string
		want int
	}{
		{"PT45S", 45},
		{"PT1M", 60},
		{"PT3M12S", 192},
		{"PT1H2M3S", 3723},
		{"PT2H", 7200},
		{"P0D", 0},
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseISODuration(tt.iso), "parseISODuration(%q)", tt.iso)
	}
}

func TestParseCount(t *testing.T) {
	assert.EqualValues(t, 12345, parseCount("12345"))
	assert.Zero(t, parseCount(""), "missing counter defaults to 0")
	assert.Zero(t, parseCount("not-a-number"))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/channels", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, `{
			"items": [{
				"id": "UCtest",
				"snippet": {
					"title": "Test Channel",
					"customUrl": "@testchannel",
					"description": "A channel for testing",
					"thumbnails": {"default": {"url": "https://example.com/icon.jpg"}}
				},
				"statistics": {
					"subscriberCount": "1200",
					"viewCount": "90000",
					"videoCount": "3"
				},
				"contentDetails": {"relatedPlaylists": {"uploads": "UUtest"}}
			}]
		}`)
	})

	mux.HandleFunc("/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "UUtest", r.URL.Query().Get("playlistId"))
		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{
				"nextPageToken": "page2",
				"items": [
					{"contentDetails": {"videoId": "vid1"}},
					{"contentDetails": {"videoId": "vid2"}}
				]
			}`)
			return
		}
		fmt.Fprint(w, `{"items": [{"contentDetails": {"videoId": "vid3"}}]}`)
	})

	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"items": [
				{
					"id": "vid1",
					"snippet": {
						"title": "Regular upload",
						"publishedAt": "2026-01-15T10:00:00Z",
						"thumbnails": {"medium": {"url": "https://example.com/1.jpg"}}
					},
					"contentDetails": {"duration": "PT10M30S"},
					"statistics": {"viewCount": "5000", "likeCount": "250"}
				},
				{
					"id": "vid2",
					"snippet": {
						"title": "A short",
						"publishedAt": "2026-02-01T10:00:00Z",
						"thumbnails": {"medium": {"url": "https://example.com/2.jpg"}}
					},
					"contentDetails": {"duration": "PT45S"},
					"statistics": {"viewCount": "300"}
				},
				{
					"id": "vid3",
					"snippet": {
						"title": "Hidden stats",
						"publishedAt": "2026-03-01T10:00:00Z",
						"thumbnails": {"medium": {"url": "https://example.com/3.jpg"}}
					},
					"contentDetails": {"duration": "PT2M"},
					"statistics": {}
				}
			]
		}`)
	})

	return httptest.NewServer(mux)
}

func TestClient_Fetch(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c := NewClient("test-key", "UCtest", 5*time.Second, WithBaseURL(srv.URL))

	ch, videos, err := c.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "UCtest", ch.ID)
	assert.Equal(t, "Test Channel", ch.Name)
	assert.Equal(t, "@testchannel", ch.Handle)
	assert.EqualValues(t, 1200, ch.Subscribers)
	assert.EqualValues(t, 90000, ch.TotalViews)
	assert.EqualValues(t, 3, ch.TotalVideos)

	require.Len(t, videos, 3, "both playlist pages must be drained")

	assert.Equal(t, "vid1", videos[0].ID)
	assert.EqualValues(t, 5000, videos[0].Views)
	assert.EqualValues(t, 250, videos[0].Likes)
	assert.Equal(t, 630, videos[0].Duration)
	assert.False(t, videos[0].IsShort)

	assert.True(t, videos[1].IsShort, "45s upload is a short")
	assert.Zero(t, videos[1].Likes, "missing likeCount defaults to 0")

	assert.Zero(t, videos[2].Views, "empty statistics default to 0")
	assert.Zero(t, videos[2].Likes)
}

func TestClient_Fetch_PartialDrainFails(t *testing.T) {
	var pagesServed int

	mux := http.NewServeMux()
	mux.HandleFunc("/channels", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [{"id": "UCtest", "contentDetails": {"relatedPlaylists": {"uploads": "UUtest"}}}]}`)
	})
	mux.HandleFunc("/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{"nextPageToken": "page2", "items": [{"contentDetails": {"videoId": "vid1"}}]}`)
			return
		}
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient("test-key", "UCtest", 5*time.Second, WithBaseURL(srv.URL))

	_, _, err := c.Fetch(context.Background())
	require.Error(t, err, "a failed page mid-drain must fail the whole fetch")
	assert.Contains(t, err.Error(), "draining playlist")
	assert.Equal(t, 2, pagesServed)
}

func TestClient_Fetch_ChannelNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/channels", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient("test-key", "UCmissing", 5*time.Second, WithBaseURL(srv.URL))

	_, _, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestClient_Fetch_ContextCancellation(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c := NewClient("test-key", "UCtest", 5*time.Second, WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := c.Fetch(ctx)
	require.Error(t, err)
}
