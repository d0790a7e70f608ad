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
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lyrica/core"
	"github.com/poiesic/lyrica/storage"
	"github.com/poiesic/lyrica/storage/badger"
)

func seedTracks(t *testing.T, repo storage.TrackRepository, n int) {
	t.Helper()

	lyrics := strings.TrimSpace(strings.Repeat("la ", 50))
	for i := 0; i < n; i++ {
		_, err := repo.PutTrack(context.Background(), &core.TrackRecord{
			Track:      fmt.Sprintf("Track %d", i),
			Artist:     "Tester",
			Lyrics:     lyrics,
			LyricsHash: core.HashLyrics(lyrics),
		})
		require.NoError(t, err)
	}
}

func TestTrackIterator_Batching(t *testing.T) {
	tracks, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	seedTracks(t, tracks, 5)

	it := NewTrackIterator(tracks, 2)

	var batchSizes []int
	total := 0
	err = it.ForEach(context.Background(), func(records []*core.TrackRecord) error {
		batchSizes = append(batchSizes, len(records))
		total += len(records)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 5, total, "should visit every track")
	assert.Equal(t, []int{2, 2, 1}, batchSizes, "final partial batch should flush")
}

func TestTrackIterator_Empty(t *testing.T) {
	tracks, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	it := NewTrackIterator(tracks, 10)

	calls := 0
	err = it.ForEach(context.Background(), func(records []*core.TrackRecord) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls, "empty catalogue should not invoke callback")
}

func TestTrackIterator_CallbackError(t *testing.T) {
	tracks, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	seedTracks(t, tracks, 4)

	it := NewTrackIterator(tracks, 2)

	wantErr := errors.New("boom")
	calls := 0
	err = it.ForEach(context.Background(), func(records []*core.TrackRecord) error {
		calls++
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls, "should stop on first callback error")
}

func TestTrackIterator_ContextCancellation(t *testing.T) {
	tracks, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	seedTracks(t, tracks, 6)

	it := NewTrackIterator(tracks, 2)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err = it.ForEach(ctx, func(records []*core.TrackRecord) error {
		calls++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation should stop iteration after the batch")
}

func TestTrackIterator_DefaultBatchSize(t *testing.T) {
	tracks, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	it := NewTrackIterator(tracks, 0)
	assert.Equal(t, DefaultBatchSize, it.batchSize)

	it = NewTrackIterator(tracks, -5)
	assert.Equal(t, DefaultBatchSize, it.batchSize)
}
