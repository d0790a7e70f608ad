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


package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/lyrica/core"
	"github.com/poiesic/lyrica/fingerprint"
	"github.com/poiesic/lyrica/idf"
	"github.com/poiesic/lyrica/index"
	"github.com/poiesic/lyrica/providers"
	"github.com/poiesic/lyrica/storage"
)

// Pipeline orchestrates track ingestion: lyrics acquisition, fingerprint
// computation, catalogue writes, index updates, and the IDF refresh that
// follows every mutation. Fingerprint computation runs on a bounded worker
// pool so concurrent ingestions cannot swamp the model services.
type Pipeline struct {
	tracks     storage.TrackRepository
	lyrics     providers.LyricsProvider
	tags       providers.TagProvider
	popularity providers.PopularityProvider
	builder    *fingerprint.Builder
	ann        *index.Index
	idf        *idf.Cache
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the fingerprint worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithTagProvider sets the genre tag provider. Without one, records are
// catalogued with no genres and the genre hard filter never matches them.
func WithTagProvider(tags providers.TagProvider) Option {
	return func(p *Pipeline) error {
		p.tags = tags
		return nil
	}
}

// WithPopularityProvider sets the provider used to disambiguate which
// recording of a track to fetch. Without one, the requested artist is
// taken at face value.
func WithPopularityProvider(popularity providers.PopularityProvider) Option {
	return func(p *Pipeline) error {
		p.popularity = popularity
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	tracks storage.TrackRepository,
	lyrics providers.LyricsProvider,
	builder *fingerprint.Builder,
	ann *index.Index,
	idfCache *idf.Cache,
	opts ...Option,
) (*Pipeline, error) {
	if tracks == nil {
		return nil, ErrTrackRepositoryRequired
	}
	if lyrics == nil {
		return nil, ErrLyricsProviderRequired
	}
	if builder == nil {
		return nil, ErrBuilderRequired
	}
	if ann == nil {
		return nil, ErrIndexRequired
	}
	if idfCache == nil {
		return nil, ErrIDFCacheRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		tracks:  tracks,
		lyrics:  lyrics,
		builder: builder,
		ann:     ann,
		idf:     idfCache,
		pool:    pool,
		logger:  slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Ingest catalogues a track by its (track, artist) key, fetching lyrics
// from the provider when the track is not already catalogued. A catalogued
// track with a complete fingerprint is returned as-is; the provider is
// never asked twice for the same key.
func (p *Pipeline) Ingest(ctx context.Context, track, artist string) (*Result, error) {
	if err := core.ValidateTrackKey(track, artist); err != nil {
		return nil, err
	}

	existing, err := p.lookup(ctx, track, artist)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Fingerprint().Complete() {
		p.logger.Debug("track already catalogued", "track", track, "artist", artist)
		return &Result{Outcome: OutcomeUnchanged, Record: existing}, nil
	}

	lyrics := ""
	displayArtist := artist
	if existing != nil && existing.Lyrics != "" {
		// Partial record from an earlier failure; reuse the stored text.
		lyrics = existing.Lyrics
		displayArtist = existing.Artist
	} else {
		searchArtist := artist
		if p.popularity != nil {
			best, perr := p.popularity.MostPopularArtist(ctx, track, artist)
			if perr != nil {
				p.logger.Warn("popularity lookup failed, using requested artist",
					"track", track, "artist", artist, "error", perr)
			} else {
				searchArtist = best
			}
		}

		lyrics, displayArtist, err = p.lyrics.FetchLyrics(ctx, track, searchArtist)
		if err != nil {
			return nil, err
		}
	}

	if err := core.ValidateLyrics(lyrics); err != nil {
		return nil, err
	}
	return p.ingest(ctx, track, artist, displayArtist, lyrics, existing)
}

// IngestLyrics catalogues a track from caller-supplied lyrics, bypassing
// the lyrics provider. Used for bulk seeding and for refreshing a track
// whose text changed upstream.
func (p *Pipeline) IngestLyrics(ctx context.Context, track, artist, lyrics string) (*Result, error) {
	if err := core.ValidateTrackKey(track, artist); err != nil {
		return nil, err
	}
	if err := core.ValidateLyrics(lyrics); err != nil {
		return nil, err
	}

	existing, err := p.lookup(ctx, track, artist)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.LyricsHash == core.HashLyrics(lyrics) && existing.Fingerprint().Complete() {
		return &Result{Outcome: OutcomeUnchanged, Record: existing}, nil
	}
	return p.ingest(ctx, track, artist, artist, lyrics, existing)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// ingest fingerprints the lyrics and writes the record through to storage,
// the ANN index, and finally the IDF cache, in that order.
func (p *Pipeline) ingest(ctx context.Context, track, requestArtist, displayArtist, lyrics string, existing *core.TrackRecord) (*Result, error) {
	fp, err := p.buildFingerprint(ctx, lyrics)
	if err != nil {
		return nil, err
	}

	genres, err := p.resolveGenres(ctx, track, displayArtist, existing)
	if err != nil {
		return nil, err
	}

	themes := fp.Themes
	if themes == nil {
		themes = []string{}
	}

	// The record keeps the ID of the requested key even when the provider
	// reports a different canonical artist, so repeat lookups still hit.
	rec := &core.TrackRecord{
		Id:          core.IDForTrack(track, requestArtist),
		Track:       track,
		Artist:      displayArtist,
		Lyrics:      lyrics,
		LyricsHash:  fp.Hash,
		SemanticVec: fp.Semantic,
		RephraseVec: fp.Rephrase,
		EmotionVec:  fp.Emotion,
		Emotion:     fp.Polarity,
		Themes:      themes,
		Genres:      genres,
	}

	var stored *core.TrackRecord
	outcome := OutcomeCreated
	if existing == nil {
		stored, err = p.tracks.PutTrack(ctx, rec)
	} else {
		outcome = OutcomeUpdated
		stored, err = p.tracks.UpdateTrack(ctx, rec)
	}
	if err != nil {
		return nil, err
	}

	if err := p.ann.Upsert(stored); err != nil {
		return nil, err
	}
	if err := p.idf.Refresh(ctx); err != nil {
		p.logger.Warn("idf refresh failed after ingest", "error", err)
	}

	p.logger.Info("track ingested",
		"track", track,
		"artist", displayArtist,
		"outcome", outcome.String(),
		"themes", len(themes),
		"genres", len(genres))
	return &Result{Outcome: outcome, Record: stored}, nil
}

// buildFingerprint runs the builder on the worker pool and waits for it,
// bounding how many fingerprints are computed at once.
func (p *Pipeline) buildFingerprint(ctx context.Context, lyrics string) (*core.Fingerprint, error) {
	type outcome struct {
		fp  *core.Fingerprint
		err error
	}
	done := make(chan outcome, 1)

	if err := p.pool.Submit(func() {
		fp, err := p.builder.Build(ctx, lyrics)
		done <- outcome{fp: fp, err: err}
	}); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.fp, out.err
	}
}

// resolveGenres keeps existing genres and otherwise asks the tag provider.
// Tag lookup is best-effort; a missing provider yields an empty set.
func (p *Pipeline) resolveGenres(ctx context.Context, track, artist string, existing *core.TrackRecord) ([]string, error) {
	if existing != nil && len(existing.Genres) > 0 {
		return existing.Genres, nil
	}
	if p.tags == nil {
		return []string{}, nil
	}

	genres, err := p.tags.FetchTags(ctx, track, artist)
	if err != nil {
		p.logger.Warn("tag lookup failed", "track", track, "artist", artist, "error", err)
		return []string{}, nil
	}
	if genres == nil {
		genres = []string{}
	}
	return genres, nil
}

// lookup maps the not-found sentinel to a nil record.
func (p *Pipeline) lookup(ctx context.Context, track, artist string) (*core.TrackRecord, error) {
	rec, err := p.tracks.GetTrackByKey(ctx, track, artist)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
