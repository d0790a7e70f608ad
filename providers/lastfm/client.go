// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/lyrica/core"
	"github.com/poiesic/lyrica/providers"
)

const (
	// DefaultAPIURL is the audioscrobbler web service endpoint.
	DefaultAPIURL = "https://ws.audioscrobbler.com/2.0/"

	// DefaultSiteURL is the public site, used for the tag scrape fallback.
	DefaultSiteURL = "https://www.last.fm"

	defaultTimeout     = 5 * time.Second
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond

	searchLimit = 10
)

var (
	// ErrAPIKeyRequired is returned when no API key is configured.
	ErrAPIKeyRequired = errors.New("lastfm api key required")

	tagLinkPattern = regexp.MustCompile(`<a[^>]+href="/tag/[^>]*>([^<]+)</a>`)
	parenSuffix    = regexp.MustCompile(`\s*\(.*\)$`)
)

// Client talks to the Last.fm web service. It implements both
// providers.TagProvider and providers.PopularityProvider.
type Client struct {
	apiKey     string
	apiURL     string
	siteURL    string
	httpClient *http.Client
	baseDelay  time.Duration
	logger     *slog.Logger
}

var (
	_ providers.TagProvider        = (*Client)(nil)
	_ providers.PopularityProvider = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithAPIURL overrides the web service endpoint, mostly for tests.
func WithAPIURL(u string) Option {
	return func(c *Client) { c.apiURL = u }
}

// WithSiteURL overrides the public site used by the scrape fallback.
func WithSiteURL(u string) Option {
	return func(c *Client) { c.siteURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used by the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Last.fm client.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &Client{
		apiKey:     apiKey,
		apiURL:     DefaultAPIURL,
		siteURL:    DefaultSiteURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseDelay:  defaultBaseDelay,
		logger:     slog.Default().With("component", "lastfm-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchTags returns the allow-listed genre tags for a track. Tags are
// fetched from track.getTopTags; when the API yields nothing usable the
// public tag page is scraped as a fallback. Tag lookup is best-effort and
// an empty result is not an error.
func (c *Client) FetchTags(ctx context.Context, track, artist string) ([]string, error) {
	tags, err := c.fetchTopTags(ctx, track, artist)
	if err == nil && len(tags) > 0 {
		return tags, nil
	}
	if err != nil {
		c.logger.Debug("top tags request failed, falling back to scrape",
			"track", track, "artist", artist, "error", err)
	}

	scraped, err := c.scrapeTags(ctx, track, artist)
	if err != nil {
		c.logger.Debug("tag scrape failed", "track", track, "artist", artist, "error", err)
		return []string{}, nil
	}
	return scraped, nil
}

// MostPopularArtist picks the artist of the most popular version of a
// track. Candidates come from track.search; each is scored by listeners
// plus playcount from track.getInfo. Falls back to the input artist when
// nothing scores higher.
func (c *Client) MostPopularArtist(ctx context.Context, track, artist string) (string, error) {
	candidates, err := c.searchVersions(ctx, track, artist)
	if err != nil {
		return "", err
	}

	bestScore := -1
	bestArtist := artist
	for _, cand := range candidates {
		playcount := c.fetchPlaycount(ctx, track, cand.artist)
		score := cand.listeners + playcount
		if score > bestScore {
			bestScore = score
			bestArtist = cand.artist
		}
	}
	return bestArtist, nil
}

type versionCandidate struct {
	artist    string
	listeners int
}

func (c *Client) searchVersions(ctx context.Context, track, artist string) ([]versionCandidate, error) {
	params := url.Values{
		"method":      {"track.search"},
		"track":       {track},
		"artist":      {artist},
		"limit":       {strconv.Itoa(searchLimit)},
		"autocorrect": {"1"},
	}

	var payload struct {
		Results struct {
			TrackMatches struct {
				Track []struct {
					Artist    string `json:"artist"`
					Listeners string `json:"listeners"`
				} `json:"track"`
			} `json:"trackmatches"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, params, &payload); err != nil {
		return nil, err
	}

	candidates := make([]versionCandidate, 0, len(payload.Results.TrackMatches.Track))
	for _, item := range payload.Results.TrackMatches.Track {
		listeners, _ := strconv.Atoi(item.Listeners)
		candidates = append(candidates, versionCandidate{artist: item.Artist, listeners: listeners})
	}
	return candidates, nil
}

// fetchPlaycount is best-effort; an unreachable getInfo scores zero.
func (c *Client) fetchPlaycount(ctx context.Context, track, artist string) int {
	params := url.Values{
		"method":      {"track.getInfo"},
		"track":       {track},
		"artist":      {artist},
		"autocorrect": {"1"},
	}

	var payload struct {
		Track struct {
			Playcount string `json:"playcount"`
		} `json:"track"`
	}
	if err := c.getJSON(ctx, params, &payload); err != nil {
		c.logger.Debug("getInfo failed", "track", track, "artist", artist, "error", err)
		return 0
	}
	playcount, _ := strconv.Atoi(payload.Track.Playcount)
	return playcount
}

func (c *Client) fetchTopTags(ctx context.Context, track, artist string) ([]string, error) {
	params := url.Values{
		"method":      {"track.getTopTags"},
		"track":       {track},
		"artist":      {artist},
		"autocorrect": {"1"},
	}

	var payload struct {
		TopTags struct {
			Tag json.RawMessage `json:"tag"`
		} `json:"toptags"`
	}
	if err := c.getJSON(ctx, params, &payload); err != nil {
		return nil, err
	}

	type tag struct {
		Name string `json:"name"`
	}
	// The API returns an object instead of a single-element array
	var tags []tag
	if err := json.Unmarshal(payload.TopTags.Tag, &tags); err != nil {
		var single tag
		if err := json.Unmarshal(payload.TopTags.Tag, &single); err != nil {
			return nil, nil
		}
		tags = []tag{single}
	}

	filtered := make([]string, 0, len(tags))
	for _, t := range tags {
		name := strings.ToLower(t.Name)
		if _, ok := allowedGenres[name]; ok {
			filtered = append(filtered, name)
		}
	}
	return filtered, nil
}

// scrapeTags pulls tag links off the public track page. Parenthesised
// suffixes are stripped from names so the URL resolves.
func (c *Client) scrapeTags(ctx context.Context, track, artist string) ([]string, error) {
	safeArtist := parenSuffix.ReplaceAllString(artist, "")
	safeTrack := parenSuffix.ReplaceAllString(track, "")
	pageURL := fmt.Sprintf("%s/music/%s/_/%s",
		c.siteURL, url.PathEscape(safeArtist), url.PathEscape(safeTrack))

	var body []byte
	err := providers.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: status %d", core.ErrUpstreamUnavailable, resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}, defaultMaxAttempts, c.baseDelay)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var tags []string
	for _, match := range tagLinkPattern.FindAllStringSubmatch(string(body), -1) {
		name := strings.ToLower(strings.TrimSpace(match[1]))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if _, ok := allowedGenres[name]; ok {
			tags = append(tags, name)
		}
	}
	return tags, nil
}

// getJSON performs one API call with retries and decodes the response.
func (c *Client) getJSON(ctx context.Context, params url.Values, out any) error {
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")
	reqURL := c.apiURL + "?" + params.Encode()

	return providers.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: status %d", core.ErrUpstreamUnavailable, resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}, defaultMaxAttempts, c.baseDelay)
}
