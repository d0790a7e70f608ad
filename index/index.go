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


package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wizenheimer/comet"

	"github.com/poiesic/lyrica/core"
)

// HNSW graph parameters tuned for recall over build speed.
const (
	DefaultM              = 64
	DefaultEfConstruction = 128
	DefaultEfSearch       = 64
)

// ErrIncompleteRecord is returned when a record lacks one of the three
// fingerprint vectors and cannot be indexed.
var ErrIncompleteRecord = errors.New("record missing fingerprint vectors")

// TrackSource is the repository slice needed to rebuild the index.
type TrackSource interface {
	ScanTracks(ctx context.Context, fn func(*core.TrackRecord) error) error
}

// Index is the approximate-nearest-neighbour index over fused fingerprint
// vectors. It wraps an HNSW graph and maintains the mapping between graph
// node ids and track record ids. The graph is created lazily on the first
// insert because the fused dimensionality is only known once a complete
// record arrives.
type Index struct {
	mu       sync.RWMutex
	hnsw     *comet.HNSWIndex
	dim      int
	weights  Weights
	m        int
	efConstr int
	efSearch int
	byNode   map[uint32]core.ID
	byRecord map[core.ID]uint32
	logger   *slog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithWeights overrides the fusion weights.
func WithWeights(w Weights) Option {
	return func(ix *Index) { ix.weights = w }
}

// WithHNSWParams overrides the graph parameters.
func WithHNSWParams(m, efConstruction, efSearch int) Option {
	return func(ix *Index) {
		ix.m = m
		ix.efConstr = efConstruction
		ix.efSearch = efSearch
	}
}

// WithLogger sets the logger used by the index.
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// New creates an empty index.
func New(opts ...Option) *Index {
	ix := &Index{
		weights:  DefaultWeights,
		m:        DefaultM,
		efConstr: DefaultEfConstruction,
		efSearch: DefaultEfSearch,
		byNode:   make(map[uint32]core.ID),
		byRecord: make(map[core.ID]uint32),
		logger:   slog.Default().With("component", "ann-index"),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Build populates the index from a full scan of the track store. Records
// with incomplete fingerprints are skipped, not treated as errors.
func (ix *Index) Build(ctx context.Context, source TrackSource) error {
	indexed, skipped := 0, 0
	err := source.ScanTracks(ctx, func(rec *core.TrackRecord) error {
		if err := ix.Upsert(rec); err != nil {
			if errors.Is(err, ErrIncompleteRecord) {
				skipped++
				return nil
			}
			return err
		}
		indexed++
		return nil
	})
	if err != nil {
		return fmt.Errorf("building ann index: %w", err)
	}

	ix.logger.Info("ann index built", "indexed", indexed, "skipped", skipped)
	return nil
}

// Upsert inserts a record's fused vector, replacing any previous vector
// for the same record id.
func (ix *Index) Upsert(rec *core.TrackRecord) error {
	if len(rec.SemanticVec) == 0 || len(rec.RephraseVec) == 0 || len(rec.EmotionVec) == 0 {
		return fmt.Errorf("%w: track %d", ErrIncompleteRecord, rec.Id)
	}

	fused := Fuse(ix.weights, rec.SemanticVec, rec.RephraseVec, rec.EmotionVec)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.hnsw == nil {
		hnsw, err := comet.NewHNSWIndex(len(fused), comet.Cosine, ix.m, ix.efConstr, ix.efSearch)
		if err != nil {
			return fmt.Errorf("creating hnsw index: %w", err)
		}
		ix.hnsw = hnsw
		ix.dim = len(fused)
	}
	if len(fused) != ix.dim {
		return fmt.Errorf("fused vector dim %d does not match index dim %d", len(fused), ix.dim)
	}

	if nodeID, ok := ix.byRecord[rec.Id]; ok {
		if err := ix.hnsw.Remove(*comet.NewVectorNodeWithID(nodeID, nil)); err != nil {
			return fmt.Errorf("removing stale vector for track %d: %w", rec.Id, err)
		}
		ix.hnsw.Flush()
		delete(ix.byNode, nodeID)
		delete(ix.byRecord, rec.Id)
	}

	node := comet.NewVectorNode(fused)
	if err := ix.hnsw.Add(*node); err != nil {
		return fmt.Errorf("adding vector for track %d: %w", rec.Id, err)
	}

	nodeID := node.ID()
	ix.byNode[nodeID] = rec.Id
	ix.byRecord[rec.Id] = nodeID
	return nil
}

// Search returns up to k record ids ordered by fused-vector similarity to
// the query fingerprint. An empty index yields an empty result.
func (ix *Index) Search(semantic, rephrase, emotion []float32, k int) ([]core.ID, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.hnsw == nil || len(ix.byRecord) == 0 || k <= 0 {
		return nil, nil
	}
	if k > len(ix.byRecord) {
		k = len(ix.byRecord)
	}

	query := Fuse(ix.weights, semantic, rephrase, emotion)
	if len(query) != ix.dim {
		return nil, fmt.Errorf("query dim %d does not match index dim %d", len(query), ix.dim)
	}

	results, err := ix.hnsw.NewSearch().
		WithQuery(query).
		WithK(k).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("ann search: %w", err)
	}

	ids := make([]core.ID, 0, len(results))
	for _, res := range results {
		if recID, ok := ix.byNode[res.GetId()]; ok {
			ids = append(ids, recID)
		}
	}
	return ids, nil
}

// Len reports the number of indexed tracks.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.byRecord)
}

// Contains reports whether a track is currently indexed.
func (ix *Index) Contains(id core.ID) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.byRecord[id]
	return ok
}
