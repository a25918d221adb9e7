// Package youtube resolves search queries to video IDs by reading the
// YouTube results page.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"yuki/internal/httpclient"
)

// DefaultBaseURL is the public YouTube site.
const DefaultBaseURL = "https://www.youtube.com"

// ErrNoResults is returned when the results page lists no videos.
var ErrNoResults = errors.New("no video found")

var videoID = regexp.MustCompile(`(?:watch\?v=|"videoId":")([\w-]{11})`)

// Resolver finds videos through the results page.
type Resolver struct {
	http    *httpclient.Client
	baseURL string
}

// New creates a resolver against baseURL, DefaultBaseURL when empty.
func New(baseURL string, opts ...httpclient.Option) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts = append([]httpclient.Option{
		httpclient.WithHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) yuki"),
		httpclient.WithHeader("Accept-Language", "th,en;q=0.8"),
	}, opts...)
	return &Resolver{http: httpclient.New(opts...), baseURL: baseURL}
}

// FirstVideo returns the ID of the first video listed for query.
func (r *Resolver) FirstVideo(ctx context.Context, query string) (string, error) {
	page, err := r.http.Get(ctx, r.baseURL+"/results?search_query="+url.QueryEscape(query))
	if err != nil {
		return "", fmt.Errorf("search youtube: %w", err)
	}
	return ParseFirstVideo(page)
}

// ParseFirstVideo extracts the first video ID from a results page.
func ParseFirstVideo(page []byte) (string, error) {
	m := videoID.FindSubmatch(page)
	if m == nil {
		return "", ErrNoResults
	}
	return string(m[1]), nil
}
