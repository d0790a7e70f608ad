package storage

import (
	"context"

	"github.com/poiesic/lyrica/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// TrackRepository provides operations for managing catalogued tracks.
type TrackRepository interface {
	Repository

	// PutTrack stores a new track record.
	// For records with ID=0, derives the ID from the (track, artist) key.
	// Sets CreatedAt and UpdatedAt timestamps.
	// Returns the record with ID and timestamps populated.
	PutTrack(ctx context.Context, record *core.TrackRecord) (*core.TrackRecord, error)

	// UpdateTrack updates an existing track record.
	// Preserves CreatedAt and refreshes UpdatedAt.
	// Returns ErrNotFound if the record doesn't exist.
	UpdateTrack(ctx context.Context, record *core.TrackRecord) (*core.TrackRecord, error)

	// DeleteTracks removes track records by their IDs.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteTracks(ctx context.Context, ids ...core.ID) error

	// GetTrack retrieves a single track record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetTrack(ctx context.Context, id core.ID) (*core.TrackRecord, error)

	// GetTracks retrieves multiple track records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetTracks(ctx context.Context, ids ...core.ID) ([]*core.TrackRecord, error)

	// GetTrackByKey retrieves a track by its (track, artist) pair.
	// Lookup is insensitive to casing and surrounding whitespace.
	// Returns ErrNotFound if no such track is catalogued.
	GetTrackByKey(ctx context.Context, track, artist string) (*core.TrackRecord, error)

	// CountTracks returns the number of catalogued tracks.
	CountTracks(ctx context.Context) (int, error)

	// ScanTracks visits every track record. The scan stops and returns the
	// first error fn yields.
	ScanTracks(ctx context.Context, fn func(record *core.TrackRecord) error) error
}

// AuditRepository provides operations for the append-only request audit log.
type AuditRepository interface {
	Repository

	// AppendAudit appends one audit entry.
	// Generates the entry ID from sequence and sets the timestamp if unset.
	AppendAudit(ctx context.Context, entry *core.AuditEntry) (*core.AuditEntry, error)

	// GetRecentAudit retrieves the N most recent audit entries, newest first.
	GetRecentAudit(ctx context.Context, limit int) ([]*core.AuditEntry, error)
}
