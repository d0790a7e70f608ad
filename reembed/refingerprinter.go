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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/lyrica/core"
	"github.com/poiesic/lyrica/fingerprint"
	"github.com/poiesic/lyrica/index"
	"github.com/poiesic/lyrica/providers"
	"github.com/poiesic/lyrica/storage"
)

// Config holds configuration for the refingerprinting operation.
type Config struct {
	// BatchSize is the number of tracks to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of tracks)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Refingerprinter rebuilds the fingerprints of all tracks in a catalogue.
// When an index is provided, each rebuilt record is also reindexed.
type Refingerprinter struct {
	repo     storage.TrackRepository
	builder  *fingerprint.Builder
	ann      *index.Index
	config   *Config
	progress io.Writer
	iterator *TrackIterator
}

// NewRefingerprinter creates a new refingerprinter.
// ann may be nil when only the stored vectors need rebuilding.
// progress: where to write progress output (typically os.Stderr)
func NewRefingerprinter(repo storage.TrackRepository, builder *fingerprint.Builder, ann *index.Index, config *Config, progress io.Writer) *Refingerprinter {
	if config == nil {
		config = DefaultConfig()
	}

	return &Refingerprinter{
		repo:     repo,
		builder:  builder,
		ann:      ann,
		config:   config,
		progress: progress,
		iterator: NewTrackIterator(repo, config.BatchSize),
	}
}

// Run rebuilds every track's fingerprint from its stored lyrics.
// Tracks whose lyrics no longer pass validation are skipped, not failed.
func (r *Refingerprinter) Run(ctx context.Context) error {
	total, err := r.repo.CountTracks(ctx)
	if err != nil {
		return fmt.Errorf("failed to count tracks: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No tracks found in catalogue (0 tracks)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting refingerprinting of %d tracks (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	skipped := 0

	err = r.iterator.ForEach(ctx, func(records []*core.TrackRecord) error {
		for _, record := range records {
			ok, err := r.rebuild(ctx, record)
			if err != nil {
				return fmt.Errorf("failed to rebuild %q by %q: %w", record.Track, record.Artist, err)
			}
			if !ok {
				skipped++
			}
		}

		processed += len(records)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Refingerprinting complete. Processed %d tracks (%d skipped) in %v (%.1f tracks/sec)\n",
		total, skipped, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}

// rebuild recomputes one record's fingerprint. Reports false when the
// stored lyrics no longer pass validation.
func (r *Refingerprinter) rebuild(ctx context.Context, record *core.TrackRecord) (bool, error) {
	if err := core.ValidateLyrics(record.Lyrics); err != nil {
		return false, nil
	}

	var fp *core.Fingerprint
	err := providers.RetryWithBackoff(ctx, func() error {
		var buildErr error
		fp, buildErr = r.builder.Build(ctx, record.Lyrics)
		return buildErr
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return false, fmt.Errorf("failed to build fingerprint after %d attempts: %w", r.config.MaxRetries, err)
	}

	record.LyricsHash = fp.Hash
	record.SemanticVec = fp.Semantic
	record.RephraseVec = fp.Rephrase
	record.EmotionVec = fp.Emotion
	record.Emotion = fp.Polarity
	record.Themes = fp.Themes

	updated, err := r.repo.UpdateTrack(ctx, record)
	if err != nil {
		return false, fmt.Errorf("failed to update record: %w", err)
	}

	if r.ann != nil {
		if err := r.ann.Upsert(updated); err != nil {
			return false, fmt.Errorf("failed to reindex record: %w", err)
		}
	}
	return true, nil
}
