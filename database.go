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


// Package lyrica assembles the lyrics-similarity service: storage, AI
// services, the fingerprint builder, the ANN index, the IDF cache, and
// the factories for the ingestion pipeline and the searcher.
package lyrica

import (
	"context"
	"log/slog"

	"github.com/poiesic/lyrica/ai"
	"github.com/poiesic/lyrica/ai/openai"
	"github.com/poiesic/lyrica/fingerprint"
	"github.com/poiesic/lyrica/idf"
	"github.com/poiesic/lyrica/index"
	"github.com/poiesic/lyrica/ingestion"
	"github.com/poiesic/lyrica/providers"
	"github.com/poiesic/lyrica/search"
	"github.com/poiesic/lyrica/storage"
	"github.com/poiesic/lyrica/storage/badger"
)

// Database owns the long-lived components and hands out the request-scoped
// ones. Construct once at startup, Close on shutdown.
type Database struct {
	backend   *badger.Backend
	trackRepo storage.TrackRepository
	auditRepo storage.AuditRepository
	provider  ai.AIProvider
	builder   *fingerprint.Builder
	ann       *index.Index
	idfCache  *idf.Cache
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	weights  *index.Weights
}

// WithAIConfig sets the AI service configuration used to construct the
// production provider.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithAIProvider injects a pre-built AI provider, bypassing the
// production constructor. Intended for tests.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) { o.provider = provider }
}

// WithFusionWeights overrides the sub-vector fusion weights of the index.
func WithFusionWeights(w index.Weights) DatabaseOption {
	return func(o *databaseOptions) { o.weights = &w }
}

// NewDatabase opens the catalogue at filePath and wires the components.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	trackRepo, err := badger.NewTrackRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	auditRepo, err := badger.NewAuditRepository(backend)
	if err != nil {
		trackRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			auditRepo.Close()
			trackRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	builder, err := fingerprint.NewBuilder(provider)
	if err != nil {
		provider.Close()
		auditRepo.Close()
		trackRepo.Close()
		backend.Close()
		return nil, err
	}

	var indexOpts []index.Option
	if options.weights != nil {
		indexOpts = append(indexOpts, index.WithWeights(*options.weights))
	}

	return &Database{
		backend:   backend,
		trackRepo: trackRepo,
		auditRepo: auditRepo,
		provider:  provider,
		builder:   builder,
		ann:       index.New(indexOpts...),
		idfCache:  idf.NewCache(trackRepo),
		logger:    slog.Default(),
	}, nil
}

// Start rebuilds the ANN index from the catalogue and launches the
// periodic IDF refresh. The refresh loop stops when ctx is cancelled.
func (db *Database) Start(ctx context.Context) error {
	if err := db.ann.Build(ctx, db.trackRepo); err != nil {
		return err
	}
	db.idfCache.StartPeriodic(ctx)
	return nil
}

// Close releases the AI provider and the storage backend.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.auditRepo.Close(); err != nil {
		db.logger.Error("error closing audit repository", "err", err)
		return err
	}
	if err := db.trackRepo.Close(); err != nil {
		db.logger.Error("error closing track repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) TrackRepository() storage.TrackRepository {
	return db.trackRepo
}

func (db *Database) AuditRepository() storage.AuditRepository {
	return db.auditRepo
}

func (db *Database) Index() *index.Index {
	return db.ann
}

func (db *Database) IDFCache() *idf.Cache {
	return db.idfCache
}

func (db *Database) FingerprintBuilder() *fingerprint.Builder {
	return db.builder
}

func (db *Database) NewIngestionPipeline(lyrics providers.LyricsProvider, opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.trackRepo, lyrics, db.builder, db.ann, db.idfCache, opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.trackRepo, db.ann, db.idfCache, opts...)
}
