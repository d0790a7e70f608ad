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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poiesic/lyrica/envelope"
	"github.com/poiesic/lyrica/ingestion"
	"github.com/poiesic/lyrica/search"
	"github.com/poiesic/lyrica/storage"
)

// Server wires the ingestion pipeline and the searcher behind the two
// HTTP operations, sealing every response in the envelope.
type Server struct {
	pipeline *ingestion.Pipeline
	searcher *search.Searcher
	codec    *envelope.Codec
	audit    storage.AuditRepository
	engine   *gin.Engine
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAuditRepository enables audit logging of every request. Without it,
// requests are not audited.
func WithAuditRepository(audit storage.AuditRepository) Option {
	return func(s *Server) { s.audit = audit }
}

// WithLogger sets the logger used by the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates the HTTP server.
func NewServer(
	pipeline *ingestion.Pipeline,
	searcher *search.Searcher,
	codec *envelope.Codec,
	opts ...Option,
) (*Server, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if codec == nil {
		return nil, ErrCodecRequired
	}

	s := &Server{
		pipeline: pipeline,
		searcher: searcher,
		codec:    codec,
		logger:   slog.Default().With("component", "server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.POST("/get_lyrics", s.handleGetLyrics)
	engine.POST("/find_similar", s.handleFindSimilar)
	s.engine = engine

	return s, nil
}

// Handler returns the HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.engine.Run(addr)
}
