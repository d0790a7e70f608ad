package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/lyrica/core"
	"github.com/poiesic/lyrica/storage"
)

// TrackRepository implements storage.TrackRepository for BadgerDB.
type TrackRepository struct {
	backend *Backend
}

var _ storage.TrackRepository = (*TrackRepository)(nil)

// NewTrackRepository creates a new TrackRepository.
// Returns the storage.TrackRepository interface to enforce abstraction.
func NewTrackRepository(backend *Backend) (storage.TrackRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &TrackRepository{backend: backend}, nil
}

// Close is a no-op; the repository holds no resources beyond the backend.
func (r *TrackRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *TrackRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutTrack stores a new track record, deriving the ID from the
// (track, artist) key when unset.
func (r *TrackRepository) PutTrack(ctx context.Context, record *core.TrackRecord) (*core.TrackRecord, error) {
	if record.Id == 0 {
		record.Id = core.IDForTrack(record.Track, record.Artist)
	}
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		value, err := storage.MarshalTrackRecord(record)
		if err != nil {
			return err
		}
		if err := tx.Set(makeTrackKey(record.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateTrack updates an existing track record.
func (r *TrackRepository) UpdateTrack(ctx context.Context, record *core.TrackRecord) (*core.TrackRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTrackKey(record.Id)

		old, err := r.readTrack(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		record.CreatedAt = old.CreatedAt
		record.UpdatedAt = time.Now().UTC()

		value, err := storage.MarshalTrackRecord(record)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteTracks removes track records by their IDs.
func (r *TrackRepository) DeleteTracks(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeTrackKey(id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetTrack retrieves a single track record by ID.
func (r *TrackRepository) GetTrack(ctx context.Context, id core.ID) (*core.TrackRecord, error) {
	var record *core.TrackRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = r.readTrack(tx, makeTrackKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, storage.ErrNotFound
	}
	return record, nil
}

// GetTracks retrieves multiple track records, skipping missing IDs.
func (r *TrackRepository) GetTracks(ctx context.Context, ids ...core.ID) ([]*core.TrackRecord, error) {
	records := make([]*core.TrackRecord, 0, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := r.readTrack(tx, makeTrackKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				records = append(records, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetTrackByKey retrieves a track by its normalized (track, artist) pair.
// The ID is content-derived from the key, so this is a direct point lookup.
func (r *TrackRepository) GetTrackByKey(ctx context.Context, track, artist string) (*core.TrackRecord, error) {
	return r.GetTrack(ctx, core.IDForTrack(track, artist))
}

// CountTracks returns the number of catalogued tracks.
func (r *TrackRepository) CountTracks(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(trackRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ScanTracks visits every track record in key order.
func (r *TrackRepository) ScanTracks(ctx context.Context, fn func(record *core.TrackRecord) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(trackRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record *core.TrackRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalTrackRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// readTrack reads and unmarshals a track record within a transaction.
// Returns nil without error when the key is absent.
func (r *TrackRepository) readTrack(tx *badger.Txn, key []byte) (*core.TrackRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.TrackRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalTrackRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
