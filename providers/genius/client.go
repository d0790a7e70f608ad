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


package genius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/lyrica/core"
	"github.com/poiesic/lyrica/providers"
)

// DefaultAPIURL is the Genius REST API endpoint.
const DefaultAPIURL = "https://api.genius.com"

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second
)

// ErrTokenRequired is returned when no API token is configured.
var ErrTokenRequired = errors.New("genius api token required")

var (
	lyricsContainerPattern = regexp.MustCompile(`(?s)<div[^>]+data-lyrics-container="true"[^>]*>(.*?)</div>`)
	lineBreakPattern       = regexp.MustCompile(`<br\s*/?>`)
	htmlTagPattern         = regexp.MustCompile(`<[^>]+>`)
	sectionHeaderPattern   = regexp.MustCompile(`\[[^\]]*\]`)
	blankLinesPattern      = regexp.MustCompile(`\n{3,}`)
)

// Client fetches lyrics through the Genius search API plus a page scrape,
// since the API itself does not serve lyrics text.
type Client struct {
	token      string
	apiURL     string
	httpClient *http.Client
	baseDelay  time.Duration
	logger     *slog.Logger
}

var _ providers.LyricsProvider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithAPIURL overrides the API endpoint, mostly for tests.
func WithAPIURL(u string) Option {
	return func(c *Client) { c.apiURL = u }
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

// NewClient creates a Genius client.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	c := &Client{
		token:      token,
		apiURL:     DefaultAPIURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseDelay:  defaultBaseDelay,
		logger:     slog.Default().With("component", "genius-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchLyrics searches for the song and scrapes its lyrics page. Returns
// empty lyrics without error when the search has no hits; short or empty
// lyrics are rejected downstream by validation.
func (c *Client) FetchLyrics(ctx context.Context, track, artist string) (string, string, error) {
	hit, err := c.search(ctx, track, artist)
	if err != nil {
		return "", artist, err
	}
	if hit == nil {
		c.logger.Debug("no search hits", "track", track, "artist", artist)
		return "", artist, nil
	}

	actualArtist := artist
	if hit.PrimaryArtist.Name != "" {
		actualArtist = hit.PrimaryArtist.Name
	}

	page, err := c.fetchPage(ctx, hit.URL)
	if err != nil {
		return "", actualArtist, err
	}
	return extractLyrics(page), actualArtist, nil
}

type searchHit struct {
	URL           string `json:"url"`
	PrimaryArtist struct {
		Name string `json:"name"`
	} `json:"primary_artist"`
}

func (c *Client) search(ctx context.Context, track, artist string) (*searchHit, error) {
	query := url.QueryEscape(track + " " + artist)
	reqURL := c.apiURL + "/search?q=" + query

	var payload struct {
		Response struct {
			Hits []struct {
				Result searchHit `json:"result"`
			} `json:"hits"`
		} `json:"response"`
	}

	err := providers.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: search status %d", core.ErrUpstreamUnavailable, resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&payload)
	}, defaultMaxAttempts, c.baseDelay)
	if err != nil {
		return nil, err
	}

	if len(payload.Response.Hits) == 0 {
		return nil, nil
	}
	return &payload.Response.Hits[0].Result, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) (string, error) {
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
			return fmt.Errorf("%w: page status %d", core.ErrUpstreamUnavailable, resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}, defaultMaxAttempts, c.baseDelay)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// extractLyrics pulls the lyrics text out of the page markup: the lyrics
// containers are concatenated, markup is stripped, section headers like
// [Chorus] are removed, and entities are unescaped.
func extractLyrics(page string) string {
	matches := lyricsContainerPattern.FindAllStringSubmatch(page, -1)
	if len(matches) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString(m[1])
		sb.WriteString("\n")
	}

	text := lineBreakPattern.ReplaceAllString(sb.String(), "\n")
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = sectionHeaderPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = blankLinesPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
