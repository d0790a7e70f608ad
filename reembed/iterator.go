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

	"github.com/poiesic/lyrica/core"
	"github.com/poiesic/lyrica/storage"
)

const (
	// DefaultBatchSize is the default number of tracks to process in each batch
	DefaultBatchSize = 100
)

// TrackIterator iterates over all catalogued tracks in batches.
type TrackIterator struct {
	repo      storage.TrackRepository
	batchSize int
}

// NewTrackIterator creates a new track iterator.
// batchSize: number of tracks per batch (must be > 0)
func NewTrackIterator(repo storage.TrackRepository, batchSize int) *TrackIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &TrackIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all tracks, calling fn for each batch.
// Iteration stops on the first error from fn or when all tracks are
// processed. Context cancellation is checked between batches.
func (it *TrackIterator) ForEach(ctx context.Context, fn func([]*core.TrackRecord) error) error {
	batch := make([]*core.TrackRecord, 0, it.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		batch = batch[:0]

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	err := it.repo.ScanTracks(ctx, func(record *core.TrackRecord) error {
		batch = append(batch, record)
		if len(batch) == it.batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}

	return flush()
}
