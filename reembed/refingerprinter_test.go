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
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lyrica/ai/mock"
	"github.com/poiesic/lyrica/core"
	"github.com/poiesic/lyrica/fingerprint"
	"github.com/poiesic/lyrica/index"
	"github.com/poiesic/lyrica/storage"
	"github.com/poiesic/lyrica/storage/badger"
)

type refingerprintFixture struct {
	tracks  storage.TrackRepository
	builder *fingerprint.Builder
	ann     *index.Index
}

func newRefingerprintFixture(t *testing.T) *refingerprintFixture {
	t.Helper()

	tracks, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	builder, err := fingerprint.NewBuilder(mock.NewMockProvider())
	require.NoError(t, err)

	return &refingerprintFixture{
		tracks:  tracks,
		builder: builder,
		ann:     index.New(),
	}
}

func fastConfig() *Config {
	return &Config{
		BatchSize:      2,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
}

func TestRefingerprinter_EmptyCatalogue(t *testing.T) {
	f := newRefingerprintFixture(t)

	var buf bytes.Buffer
	r := NewRefingerprinter(f.tracks, f.builder, nil, fastConfig(), &buf)

	err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No tracks found in catalogue")
}

func TestRefingerprinter_RebuildsVectors(t *testing.T) {
	f := newRefingerprintFixture(t)
	ctx := context.Background()

	seedTracks(t, f.tracks, 3)

	var buf bytes.Buffer
	r := NewRefingerprinter(f.tracks, f.builder, f.ann, fastConfig(), &buf)

	require.NoError(t, r.Run(ctx))

	assert.Contains(t, buf.String(), "Refingerprinting complete")
	assert.Equal(t, 3, f.ann.Len(), "every rebuilt track should be indexed")

	count := 0
	err := f.tracks.ScanTracks(ctx, func(rec *core.TrackRecord) error {
		count++
		assert.NotEmpty(t, rec.SemanticVec, "semantic vector should be rebuilt")
		assert.NotEmpty(t, rec.RephraseVec, "rephrase vector should be rebuilt")
		assert.NotEmpty(t, rec.EmotionVec, "emotion vector should be rebuilt")
		assert.True(t, f.ann.Contains(rec.Id))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRefingerprinter_NilIndex(t *testing.T) {
	f := newRefingerprintFixture(t)

	seedTracks(t, f.tracks, 2)

	var buf bytes.Buffer
	r := NewRefingerprinter(f.tracks, f.builder, nil, fastConfig(), &buf)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, buf.String(), "Refingerprinting complete")
}

func TestRefingerprinter_SkipsShortLyrics(t *testing.T) {
	f := newRefingerprintFixture(t)
	ctx := context.Background()

	seedTracks(t, f.tracks, 2)
	_, err := f.tracks.PutTrack(ctx, &core.TrackRecord{
		Track:  "Fragment",
		Artist: "Tester",
		Lyrics: "too short",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	r := NewRefingerprinter(f.tracks, f.builder, f.ann, fastConfig(), &buf)

	require.NoError(t, r.Run(ctx))

	assert.Contains(t, buf.String(), "(1 skipped)")
	assert.Equal(t, 2, f.ann.Len(), "skipped track should not be indexed")
	assert.False(t, f.ann.Contains(core.IDForTrack("Fragment", "Tester")))
}

func TestRefingerprinter_BuilderFailure(t *testing.T) {
	tracks, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	seedTracks(t, tracks, 1)

	semantic := mock.NewMockEmbedder()
	semantic.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedder down")
	}
	semantic.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedder down")
	}
	provider := mock.NewMockProviderWithServices(semantic, mock.NewMockEmbedder(), mock.NewMockClassifier())

	builder, err := fingerprint.NewBuilder(provider)
	require.NoError(t, err)

	var buf bytes.Buffer
	r := NewRefingerprinter(tracks, builder, nil, fastConfig(), &buf)

	err = r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to rebuild")
}

func TestRefingerprinter_DefaultConfig(t *testing.T) {
	f := newRefingerprintFixture(t)

	r := NewRefingerprinter(f.tracks, f.builder, nil, nil, &bytes.Buffer{})
	assert.Equal(t, DefaultConfig().BatchSize, r.config.BatchSize)
	assert.Equal(t, DefaultConfig().MaxRetries, r.config.MaxRetries)
}

func TestRefingerprinter_PreservesKeys(t *testing.T) {
	f := newRefingerprintFixture(t)
	ctx := context.Background()

	lyrics := strings.TrimSpace(strings.Repeat("word ", 40))
	stored, err := f.tracks.PutTrack(ctx, &core.TrackRecord{
		Track:      "Creep",
		Artist:     "Radiohead",
		Lyrics:     lyrics,
		LyricsHash: core.HashLyrics(lyrics),
		Genres:     []string{"rock"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	r := NewRefingerprinter(f.tracks, f.builder, f.ann, fastConfig(), &buf)
	require.NoError(t, r.Run(ctx))

	got, err := f.tracks.GetTrackByKey(ctx, "Creep", "Radiohead")
	require.NoError(t, err)
	assert.Equal(t, stored.Id, got.Id)
	assert.Equal(t, "Radiohead", got.Artist)
	assert.Equal(t, []string{"rock"}, got.Genres, "genres should survive a rebuild")
	assert.Equal(t, lyrics, got.Lyrics, "lyrics should survive a rebuild")
}
