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


package idf

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/poiesic/lyrica/core"
)

// DefaultRefreshInterval is how often the periodic refresher rebuilds the
// corpus statistics when no interval is configured.
const DefaultRefreshInterval = time.Hour

// TrackSource is the slice of the track repository the cache needs:
// a document count and a full scan.
type TrackSource interface {
	CountTracks(ctx context.Context) (int, error)
	ScanTracks(ctx context.Context, fn func(*core.TrackRecord) error) error
}

// Snapshot holds one immutable view of corpus rarity weights. A tag's
// weight is ln((N+1)/(df+1)) where N is the corpus size and df the number
// of tracks carrying the tag. Tags the corpus has never seen weigh zero.
type Snapshot struct {
	Themes      map[string]float64
	Genres      map[string]float64
	Docs        int
	RefreshedAt time.Time
}

// Theme returns the rarity weight for a theme tag, zero if unknown.
func (s *Snapshot) Theme(tag string) float64 {
	return s.Themes[tag]
}

// Genre returns the rarity weight for a genre tag, zero if unknown.
func (s *Snapshot) Genre(tag string) float64 {
	return s.Genres[tag]
}

// Cache maintains corpus-wide IDF statistics for themes and genres.
// Readers always see a complete snapshot; Refresh builds a new snapshot
// off to the side and swaps it in atomically, so scoring never blocks on
// a rebuild.
type Cache struct {
	source   TrackSource
	snap     atomic.Pointer[Snapshot]
	interval time.Duration
	logger   *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithInterval overrides the periodic refresh interval.
func WithInterval(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLogger sets the logger used by the cache.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache creates an IDF cache over the given track source. The cache
// starts empty; call Refresh or StartPeriodic to populate it.
func NewCache(source TrackSource, opts ...Option) *Cache {
	c := &Cache{
		source:   source,
		interval: DefaultRefreshInterval,
		logger:   slog.Default().With("component", "idf-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.snap.Store(&Snapshot{
		Themes: map[string]float64{},
		Genres: map[string]float64{},
	})
	return c
}

// Snapshot returns the current statistics view. Never nil.
func (c *Cache) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Refresh rebuilds the statistics from a full scan of the track store and
// swaps the result in. An empty store yields an empty snapshot.
func (c *Cache) Refresh(ctx context.Context) error {
	started := time.Now()

	total, err := c.source.CountTracks(ctx)
	if err != nil {
		return fmt.Errorf("counting tracks: %w", err)
	}

	next := &Snapshot{
		Themes:      make(map[string]float64),
		Genres:      make(map[string]float64),
		Docs:        total,
		RefreshedAt: started,
	}

	if total > 0 {
		themeDF := make(map[string]int)
		genreDF := make(map[string]int)

		err = c.source.ScanTracks(ctx, func(rec *core.TrackRecord) error {
			for _, t := range distinct(rec.Themes) {
				themeDF[t]++
			}
			for _, g := range distinct(rec.Genres) {
				genreDF[g]++
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("scanning tracks: %w", err)
		}

		for tag, df := range themeDF {
			next.Themes[tag] = math.Log(float64(total+1) / float64(df+1))
		}
		for tag, df := range genreDF {
			next.Genres[tag] = math.Log(float64(total+1) / float64(df+1))
		}
	}

	c.snap.Store(next)
	c.logger.Debug("idf statistics refreshed",
		"docs", total,
		"themes", len(next.Themes),
		"genres", len(next.Genres),
		"elapsed", time.Since(started))
	return nil
}

// StartPeriodic refreshes the cache immediately and then on every interval
// tick until the context is cancelled. Runs in its own goroutine.
func (c *Cache) StartPeriodic(ctx context.Context) {
	go func() {
		if err := c.Refresh(ctx); err != nil {
			c.logger.Warn("initial idf refresh failed", "error", err)
		}

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Refresh(ctx); err != nil {
					c.logger.Warn("periodic idf refresh failed", "error", err)
				}
			}
		}
	}()
}

// distinct deduplicates a tag list, preserving nothing about order since
// only membership matters for document frequency.
func distinct(tags []string) []string {
	if len(tags) < 2 {
		return tags
	}
	seen := make(map[string]struct{}, len(tags))
	out := tags[:0:0]
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
