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
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/poiesic/lyrica/core"
	"github.com/poiesic/lyrica/envelope"
	"github.com/poiesic/lyrica/search"
	"github.com/poiesic/lyrica/storage"
)

// wireMessage is both the request and response shell: the envelope token
// of the inner JSON.
type wireMessage struct {
	Data string `json:"data"`
}

// trackQuery is the inner request body of both operations.
type trackQuery struct {
	Track  string `json:"track_name"`
	Artist string `json:"artist"`
}

// lyricsResponse is the inner response of get_lyrics.
type lyricsResponse struct {
	Track   string   `json:"track"`
	Artist  string   `json:"artist"`
	Lyrics  string   `json:"lyrics"`
	Genre   []string `json:"genre"`
	Emotion float32  `json:"emotion"`
}

// similarResponse is the inner response of find_similar.
type similarResponse struct {
	SimilarTracks []*core.ScoredTrack `json:"similar_tracks"`
}

func (s *Server) handleGetLyrics(c *gin.Context) {
	query, ok := s.openRequest(c, "get_lyrics")
	if !ok {
		return
	}

	res, err := s.pipeline.Ingest(c.Request.Context(), query.Track, query.Artist)
	if err != nil {
		s.fail(c, "get_lyrics", err)
		return
	}

	rec := res.Record
	s.respond(c, "get_lyrics", &lyricsResponse{
		Track:   rec.Track,
		Artist:  rec.Artist,
		Lyrics:  rec.Lyrics,
		Genre:   rec.Genres,
		Emotion: rec.Emotion,
	})
}

func (s *Server) handleFindSimilar(c *gin.Context) {
	query, ok := s.openRequest(c, "find_similar")
	if !ok {
		return
	}

	results, err := s.searcher.FindSimilar(c.Request.Context(), query.Track, query.Artist)
	if err != nil {
		s.fail(c, "find_similar", err)
		return
	}
	if results == nil {
		results = []*core.ScoredTrack{}
	}

	s.respond(c, "find_similar", &similarResponse{SimilarTracks: results})
}

// openRequest unwraps and decodes the inner query. On failure it writes
// the error response itself and reports false.
func (s *Server) openRequest(c *gin.Context, op string) (*trackQuery, bool) {
	var msg wireMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		s.fail(c, op, core.ErrValidation)
		return nil, false
	}

	payload, err := s.codec.Open(msg.Data)
	if err != nil {
		s.fail(c, op, err)
		return nil, false
	}

	var query trackQuery
	if err := json.Unmarshal(payload, &query); err != nil {
		s.fail(c, op, core.ErrValidation)
		return nil, false
	}
	return &query, true
}

// respond seals the inner payload and writes the wire shell.
func (s *Server) respond(c *gin.Context, op string, payload any) {
	inner, err := json.Marshal(payload)
	if err != nil {
		s.fail(c, op, err)
		return
	}
	token, err := s.codec.Seal(inner)
	if err != nil {
		s.fail(c, op, err)
		return
	}

	s.writeAudit(c, op, "ok")
	c.JSON(http.StatusOK, wireMessage{Data: token})
}

// fail maps an error onto a status code and a generic message. Internal
// causes are logged, never sent to the client.
func (s *Server) fail(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, core.ErrLyricsTooShort),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, core.ErrNotFound),
		errors.Is(err, search.ErrNotFingerprinted):
		status = http.StatusNotFound
		message = "not found"
	case errors.Is(err, core.ErrValidation),
		errors.Is(err, envelope.ErrMalformedToken),
		errors.Is(err, envelope.ErrAuthentication):
		status = http.StatusBadRequest
		message = "bad request"
	default:
		s.logger.Error("request failed", "operation", op, "error", err)
	}

	s.writeAudit(c, op, "error")
	c.JSON(status, gin.H{"error": message})
}

// writeAudit appends one audit row; failures are logged, not surfaced.
func (s *Server) writeAudit(c *gin.Context, op, status string) {
	if s.audit == nil {
		return
	}

	entry := &core.AuditEntry{
		Timestamp:  time.Now().UTC(),
		Address:    c.ClientIP(),
		Operation:  op,
		Status:     status,
		DeviceInfo: c.Request.UserAgent(),
	}
	if _, err := s.audit.AppendAudit(c.Request.Context(), entry); err != nil {
		s.logger.Error("audit write failed", "operation", op, "error", err)
	}
}
