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


package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lyrica/ai/mock"
	"github.com/poiesic/lyrica/core"
	"github.com/poiesic/lyrica/envelope"
	"github.com/poiesic/lyrica/fingerprint"
	"github.com/poiesic/lyrica/idf"
	"github.com/poiesic/lyrica/index"
	"github.com/poiesic/lyrica/ingestion"
	"github.com/poiesic/lyrica/search"
	"github.com/poiesic/lyrica/storage"
	"github.com/poiesic/lyrica/storage/badger"
)

type fakeLyricsProvider struct {
	lyrics string
}

func (f *fakeLyricsProvider) FetchLyrics(ctx context.Context, track, artist string) (string, string, error) {
	return f.lyrics, artist, nil
}

type fixture struct {
	server   *Server
	codec    *envelope.Codec
	tracks   storage.TrackRepository
	audit    storage.AuditRepository
	ann      *index.Index
	idfCache *idf.Cache
}

func newFixture(t *testing.T, lyrics string) *fixture {
	t.Helper()

	trackRepo, auditRepo, _, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { trackRepo.Close() })

	builder, err := fingerprint.NewBuilder(mock.NewMockProvider())
	require.NoError(t, err)

	ann := index.New()
	idfCache := idf.NewCache(trackRepo)

	pipeline, err := ingestion.NewPipeline(trackRepo, &fakeLyricsProvider{lyrics: lyrics}, builder, ann, idfCache)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	searcher, err := search.NewSearcher(trackRepo, ann, idfCache)
	require.NoError(t, err)

	codec, err := envelope.NewCodec(bytes.Repeat([]byte{7}, envelope.KeySize))
	require.NoError(t, err)

	srv, err := NewServer(pipeline, searcher, codec, WithAuditRepository(auditRepo))
	require.NoError(t, err)

	return &fixture{
		server:   srv,
		codec:    codec,
		tracks:   trackRepo,
		audit:    auditRepo,
		ann:      ann,
		idfCache: idfCache,
	}
}

// post seals the inner query and performs the wrapped request.
func (f *fixture) post(t *testing.T, path string, inner any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(inner)
	require.NoError(t, err)
	token, err := f.codec.Seal(payload)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]string{"data": token})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "lyrica-test/1.0")

	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	return w
}

// openResponse unwraps the sealed response body into out.
func (f *fixture) openResponse(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()

	var shell struct {
		Data string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shell))
	payload, err := f.codec.Open(shell.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, out))
}

func (f *fixture) addIndexedTrack(t *testing.T, track string, direction []float32, genres, themes []string) *core.TrackRecord {
	t.Helper()

	rec := &core.TrackRecord{
		Track:       track,
		Artist:      "Tester",
		Lyrics:      strings.TrimSpace(strings.Repeat("la ", 200)),
		LyricsHash:  core.HashLyrics(track),
		SemanticVec: direction,
		RephraseVec: direction,
		EmotionVec:  direction,
		Genres:      genres,
		Themes:      themes,
	}
	stored, err := f.tracks.PutTrack(context.Background(), rec)
	require.NoError(t, err)
	require.NoError(t, f.ann.Upsert(stored))
	return stored
}

func TestNewServer_Validation(t *testing.T) {
	f := newFixture(t, "")

	_, err := NewServer(nil, f.server.searcher, f.codec)
	assert.ErrorIs(t, err, ErrPipelineRequired)

	_, err = NewServer(f.server.pipeline, nil, f.codec)
	assert.ErrorIs(t, err, ErrSearcherRequired)

	_, err = NewServer(f.server.pipeline, f.server.searcher, nil)
	assert.ErrorIs(t, err, ErrCodecRequired)
}

func TestGetLyrics(t *testing.T) {
	lyrics := strings.TrimSpace(strings.Repeat("word ", 50))
	f := newFixture(t, lyrics)

	w := f.post(t, "/get_lyrics", map[string]string{"track_name": "Creep", "artist": "Radiohead"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Track   string   `json:"track"`
		Artist  string   `json:"artist"`
		Lyrics  string   `json:"lyrics"`
		Genre   []string `json:"genre"`
		Emotion float32  `json:"emotion"`
	}
	f.openResponse(t, w, &resp)

	assert.Equal(t, "Creep", resp.Track)
	assert.Equal(t, "Radiohead", resp.Artist)
	assert.Equal(t, lyrics, resp.Lyrics)
	assert.NotNil(t, resp.Genre)

	entries, err := f.audit.GetRecentAudit(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "get_lyrics", entries[0].Operation)
	assert.Equal(t, "ok", entries[0].Status)
	assert.Equal(t, "lyrica-test/1.0", entries[0].DeviceInfo)
	assert.NotEmpty(t, entries[0].Address)
}

func TestGetLyrics_MissingParams(t *testing.T) {
	f := newFixture(t, strings.Repeat("word ", 50))

	w := f.post(t, "/get_lyrics", map[string]string{"track_name": "", "artist": "Radiohead"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bad request")
}

func TestGetLyrics_ShortLyricsIsNotFound(t *testing.T) {
	f := newFixture(t, "too short")

	w := f.post(t, "/get_lyrics", map[string]string{"track_name": "Creep", "artist": "Radiohead"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")

	entries, err := f.audit.GetRecentAudit(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0].Status)
}

func TestGetLyrics_TamperedToken(t *testing.T) {
	f := newFixture(t, strings.Repeat("word ", 50))

	payload, err := json.Marshal(map[string]string{"track_name": "Creep", "artist": "Radiohead"})
	require.NoError(t, err)
	token, err := f.codec.Seal(payload)
	require.NoError(t, err)
	tampered := "A" + token[1:]

	body, err := json.Marshal(map[string]string{"data": tampered})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/get_lyrics", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "cipher")
}

func TestGetLyrics_MissingBody(t *testing.T) {
	f := newFixture(t, strings.Repeat("word ", 50))

	req := httptest.NewRequest(http.MethodPost, "/get_lyrics", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFindSimilar(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	f.addIndexedTrack(t, "Source", []float32{1, 0, 0}, []string{"rock"}, []string{"love"})
	f.addIndexedTrack(t, "Twin", []float32{1, 0, 0}, []string{"rock"}, []string{"love"})
	f.addIndexedTrack(t, "WarSong", []float32{1, 0, 0}, []string{"metal"}, []string{"war"})
	require.NoError(t, f.idfCache.Refresh(ctx))

	w := f.post(t, "/find_similar", map[string]string{"track_name": "Source", "artist": "Tester"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SimilarTracks []*core.ScoredTrack `json:"similar_tracks"`
	}
	f.openResponse(t, w, &resp)

	require.Len(t, resp.SimilarTracks, 1)
	assert.Equal(t, "Twin", resp.SimilarTracks[0].Track)
	assert.LessOrEqual(t, resp.SimilarTracks[0].Similarity, 99.99)
}

func TestFindSimilar_UnknownTrack(t *testing.T) {
	f := newFixture(t, "")

	w := f.post(t, "/find_similar", map[string]string{"track_name": "Nothing", "artist": "Nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFindSimilar_NotFingerprinted(t *testing.T) {
	f := newFixture(t, "")

	_, err := f.tracks.PutTrack(context.Background(), &core.TrackRecord{
		Track:  "Bare",
		Artist: "Tester",
		Lyrics: strings.Repeat("la ", 50),
	})
	require.NoError(t, err)

	w := f.post(t, "/find_similar", map[string]string{"track_name": "Bare", "artist": "Tester"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFindSimilar_NoCandidatesIsEmptyList(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	f.addIndexedTrack(t, "Source", []float32{1, 0, 0}, []string{"rock"}, []string{"love"})
	f.addIndexedTrack(t, "WarSong", []float32{1, 0, 0}, []string{"metal"}, []string{"war"})
	require.NoError(t, f.idfCache.Refresh(ctx))

	w := f.post(t, "/find_similar", map[string]string{"track_name": "Source", "artist": "Tester"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SimilarTracks []*core.ScoredTrack `json:"similar_tracks"`
	}
	f.openResponse(t, w, &resp)
	assert.Empty(t, resp.SimilarTracks)
	assert.NotNil(t, resp.SimilarTracks)
}
