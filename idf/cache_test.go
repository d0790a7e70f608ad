package idf

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lyrica/core"
)

type fakeSource struct {
	mu      sync.Mutex
	records []*core.TrackRecord
}

func (f *fakeSource) add(recs ...*core.TrackRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, recs...)
}

func (f *fakeSource) CountTracks(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records), nil
}

func (f *fakeSource) ScanTracks(ctx context.Context, fn func(*core.TrackRecord) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

func TestCache_EmptyStore(t *testing.T) {
	cache := NewCache(&fakeSource{})
	require.NoError(t, cache.Refresh(context.Background()))

	snap := cache.Snapshot()
	require.NotNil(t, snap)
	assert.Zero(t, snap.Docs)
	assert.Zero(t, snap.Theme("love"))
	assert.Zero(t, snap.Genre("rock"))
}

func TestCache_Refresh(t *testing.T) {
	source := &fakeSource{records: []*core.TrackRecord{
		{Themes: []string{"love", "hope"}, Genres: []string{"pop"}},
		{Themes: []string{"love"}, Genres: []string{"pop", "rock"}},
		{Themes: []string{"love", "war"}, Genres: []string{"metal"}},
	}}

	cache := NewCache(source)
	require.NoError(t, cache.Refresh(context.Background()))
	snap := cache.Snapshot()

	assert.Equal(t, 3, snap.Docs)

	// Tag in every document carries no weight: ln(4/4) = 0
	assert.InDelta(t, 0.0, snap.Theme("love"), 1e-9)

	// Tag in one of three documents: ln(4/2)
	assert.InDelta(t, math.Log(2), snap.Theme("war"), 1e-9)
	assert.InDelta(t, math.Log(2), snap.Theme("hope"), 1e-9)

	// Genres follow the same formula
	assert.InDelta(t, math.Log(4.0/3.0), snap.Genre("pop"), 1e-9)
	assert.InDelta(t, math.Log(2), snap.Genre("rock"), 1e-9)

	// Unknown tags weigh zero
	assert.Zero(t, snap.Theme("absent"))
	assert.Zero(t, snap.Genre("absent"))
}

func TestCache_DuplicateTagsCountOnce(t *testing.T) {
	source := &fakeSource{records: []*core.TrackRecord{
		{Themes: []string{"love", "love", "love"}},
		{Themes: []string{"hope"}},
	}}

	cache := NewCache(source)
	require.NoError(t, cache.Refresh(context.Background()))

	// df for "love" is 1 regardless of repetition within a record
	assert.InDelta(t, math.Log(3.0/2.0), cache.Snapshot().Theme("love"), 1e-9)
}

func TestCache_SnapshotSwap(t *testing.T) {
	source := &fakeSource{records: []*core.TrackRecord{
		{Themes: []string{"love"}},
	}}
	cache := NewCache(source)
	require.NoError(t, cache.Refresh(context.Background()))
	first := cache.Snapshot()

	source.add(&core.TrackRecord{Themes: []string{"war"}})
	require.NoError(t, cache.Refresh(context.Background()))
	second := cache.Snapshot()

	// Old snapshot remains intact for readers that captured it
	assert.Equal(t, 1, first.Docs)
	assert.Equal(t, 2, second.Docs)
	assert.NotSame(t, first, second)
}

func TestCache_StartPeriodic(t *testing.T) {
	source := &fakeSource{records: []*core.TrackRecord{
		{Themes: []string{"love"}},
	}}
	cache := NewCache(source, WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cache.StartPeriodic(ctx)

	// Initial refresh happens promptly
	assert.Eventually(t, func() bool {
		return cache.Snapshot().Docs == 1
	}, time.Second, 5*time.Millisecond)

	source.add(&core.TrackRecord{Themes: []string{"war"}})
	assert.Eventually(t, func() bool {
		return cache.Snapshot().Docs == 2
	}, time.Second, 5*time.Millisecond)
}
