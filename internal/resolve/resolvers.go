package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pders01/vidrank/internal/validation"
)

// IDResolver recognizes references that already are canonical channel
// IDs and passes them through without network traffic.
type IDResolver struct {
	validator *validation.ChannelValidator
}

func NewIDResolver() *IDResolver {
	return &IDResolver{validator: validation.NewChannelValidator()}
}

func (r *IDResolver) Name() string { return "channel-id" }

func (r *IDResolver) CanHandle(ref string) bool {
	return r.validator.ValidateID(strings.TrimSpace(ref)) == nil
}

func (r *IDResolver) Resolve(_ context.Context, ref string, _ *http.Client) (*ChannelInfo, error) {
	ref = strings.TrimSpace(ref)
	if err := r.validator.ValidateID(ref); err != nil {
		return nil, err
	}
	return &ChannelInfo{Ref: ref, ChannelID: ref, Metadata: map[string]string{}}, nil
}

func (r *IDResolver) Priority() int { return 100 }

const defaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"

// HandleResolver resolves @handles through the Data API's forHandle
// lookup. It needs an API key, so the rss source path cannot use it.
type HandleResolver struct {
	apiKey    string
	baseURL   string
	validator *validation.ChannelValidator
}

func NewHandleResolver(apiKey string) *HandleResolver {
	return &HandleResolver{
		apiKey:    apiKey,
		baseURL:   defaultAPIBaseURL,
		validator: validation.NewChannelValidator(),
	}
}

// WithBaseURL redirects API traffic, used by tests.
func (r *HandleResolver) WithBaseURL(baseURL string) *HandleResolver {
	r.baseURL = strings.TrimRight(baseURL, "/")
	return r
}

func (r *HandleResolver) Name() string { return "api-handle" }

func (r *HandleResolver) CanHandle(ref string) bool {
	return r.validator.ValidateHandle(strings.TrimSpace(ref)) == nil
}

func (r *HandleResolver) Priority() int { return 50 }

func (r *HandleResolver) Resolve(ctx context.Context, ref string, client *http.Client) (*ChannelInfo, error) {
	ref = strings.TrimSpace(ref)
	if err := r.validator.ValidateHandle(ref); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("part", "id,snippet")
	params.Set("forHandle", ref)
	params.Set("key", r.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/channels?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolving handle %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("resolving handle %s: status %d", ref, resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding handle lookup: %w", err)
	}
	if len(payload.Items) == 0 {
		return nil, fmt.Errorf("no channel found for handle %s", ref)
	}

	return &ChannelInfo{
		Ref:       ref,
		ChannelID: payload.Items[0].ID,
		Title:     payload.Items[0].Snippet.Title,
		Metadata:  map[string]string{"resolved_via": "forHandle"},
	}, nil
}
