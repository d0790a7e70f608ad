package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/lyrica/core"
	"github.com/poiesic/lyrica/storage"
)

// AuditRepository implements storage.AuditRepository for BadgerDB.
// Entries are keyed by a monotonic sequence so key order is append order.
type AuditRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.AuditRepository = (*AuditRepository)(nil)

// NewAuditRepository creates a new AuditRepository.
// Returns the storage.AuditRepository interface to enforce abstraction.
func NewAuditRepository(backend *Backend) (storage.AuditRepository, error) {
	idSeq, err := backend.GetSequence(auditIDSeq)
	if err != nil {
		return nil, err
	}
	return &AuditRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *AuditRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *AuditRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AppendAudit appends one audit entry.
func (r *AuditRepository) AppendAudit(ctx context.Context, entry *core.AuditEntry) (*core.AuditEntry, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// Sequences can return 0 on first call, skip it so entry IDs stay nonzero
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		entry.Id = core.ID(nextID)
		if entry.Timestamp.IsZero() {
			entry.Timestamp = time.Now().UTC()
		}

		value, err := storage.MarshalAuditEntry(entry)
		if err != nil {
			return err
		}
		if err := tx.Set(makeAuditKey(nextID), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetRecentAudit retrieves up to limit entries, newest first.
func (r *AuditRepository) GetRecentAudit(ctx context.Context, limit int) ([]*core.AuditEntry, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var entries []*core.AuditEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(auditRecordPrefix + ":")
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Reverse iteration needs a seek past the last possible key
		seek := append([]byte(auditRecordPrefix+":"), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
		for iter.Seek(seek); iter.Valid() && len(entries) < limit; iter.Next() {
			var entry *core.AuditEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalAuditEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
