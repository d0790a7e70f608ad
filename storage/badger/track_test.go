package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lyrica/core"
	"github.com/poiesic/lyrica/storage"
)

func newTestRepos(t *testing.T) (storage.TrackRepository, storage.AuditRepository) {
	t.Helper()
	trackRepo, auditRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		trackRepo.Close()
		auditRepo.Close()
		backend.Close()
	})
	return trackRepo, auditRepo
}

func sampleTrack(track, artist string) *core.TrackRecord {
	return &core.TrackRecord{
		Track:       track,
		Artist:      artist,
		Lyrics:      "some lyrics long enough to be stored for " + track,
		LyricsHash:  core.HashLyrics(track),
		SemanticVec: []float32{0.1, 0.2},
		RephraseVec: []float32{0.3, 0.4},
		EmotionVec:  []float32{0.5, 0.6},
		Themes:      []string{"love"},
		Genres:      []string{"rock"},
	}
}

func TestTrackRepository_PutAndGet(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	stored, err := repo.PutTrack(ctx, sampleTrack("Creep", "Radiohead"))
	require.NoError(t, err)
	assert.Equal(t, core.IDForTrack("Creep", "Radiohead"), stored.Id)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)

	got, err := repo.GetTrack(ctx, stored.Id)
	require.NoError(t, err)
	assert.Equal(t, "Creep", got.Track)
	assert.Equal(t, []string{"rock"}, got.Genres)
}

func TestTrackRepository_GetByKey_Insensitive(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := repo.PutTrack(ctx, sampleTrack("Creep", "Radiohead"))
	require.NoError(t, err)

	got, err := repo.GetTrackByKey(ctx, "  CREEP ", "radiohead")
	require.NoError(t, err)
	assert.Equal(t, "Creep", got.Track)
}

func TestTrackRepository_GetMissing(t *testing.T) {
	repo, _ := newTestRepos(t)

	_, err := repo.GetTrack(context.Background(), 12345)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.GetTrackByKey(context.Background(), "no", "body")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTrackRepository_Update(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	stored, err := repo.PutTrack(ctx, sampleTrack("Creep", "Radiohead"))
	require.NoError(t, err)
	created := stored.CreatedAt

	stored.Lyrics = "updated lyrics text with different content entirely"
	stored.Themes = []string{"heartbreak"}
	updated, err := repo.UpdateTrack(ctx, stored)
	require.NoError(t, err)

	assert.Equal(t, created, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created) || updated.UpdatedAt.Equal(created))

	got, err := repo.GetTrack(ctx, stored.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"heartbreak"}, got.Themes)
}

func TestTrackRepository_UpdateMissing(t *testing.T) {
	repo, _ := newTestRepos(t)

	_, err := repo.UpdateTrack(context.Background(), sampleTrack("Ghost", "Nobody"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTrackRepository_GetTracks_SkipsMissing(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	a, err := repo.PutTrack(ctx, sampleTrack("One", "Metallica"))
	require.NoError(t, err)
	b, err := repo.PutTrack(ctx, sampleTrack("Two", "Metallica"))
	require.NoError(t, err)

	records, err := repo.GetTracks(ctx, a.Id, 999, b.Id)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestTrackRepository_CountAndScan(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	for _, name := range []string{"One", "Two", "Three"} {
		_, err := repo.PutTrack(ctx, sampleTrack(name, "Metallica"))
		require.NoError(t, err)
	}

	count, err := repo.CountTracks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	seen := 0
	err = repo.ScanTracks(ctx, func(rec *core.TrackRecord) error {
		seen++
		assert.NotEmpty(t, rec.Track)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, seen)
}

func TestTrackRepository_Delete(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	stored, err := repo.PutTrack(ctx, sampleTrack("Creep", "Radiohead"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteTracks(ctx, stored.Id))

	_, err = repo.GetTrack(ctx, stored.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteTracks(ctx, stored.Id), storage.ErrNotFound)
}

func TestTrackRepository_PutOverwritesSameKey(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := repo.PutTrack(ctx, sampleTrack("Creep", "Radiohead"))
	require.NoError(t, err)
	_, err = repo.PutTrack(ctx, sampleTrack("creep", "RADIOHEAD"))
	require.NoError(t, err)

	count, err := repo.CountTracks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
