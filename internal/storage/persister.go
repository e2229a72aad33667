package storage

import (
	"context"
	"errors"

	"ledger/internal/core"
)

var (
	// ErrNoData reports that nothing has ever been saved at the location.
	ErrNoData = errors.New("no saved data")
	// ErrParse reports persisted content that cannot be decoded into records.
	ErrParse = errors.New("malformed ledger data")
	// ErrWrite reports a failed save. The collection remains only in memory.
	ErrWrite = errors.New("write ledger data")

	ErrDuplicateID = errors.New("duplicate record id")
	ErrIDMismatch  = errors.New("record id does not match lookup id")
)

// Persister reads and writes the whole collection at once.
// There is no incremental persistence.
type Persister interface {
	// Read returns the saved records in order, or ErrNoData when the
	// backing file was never written.
	Read(ctx context.Context) ([]core.Record, error)
	// Write replaces the saved collection. A failed write must leave the
	// previous content intact.
	Write(ctx context.Context, records []core.Record) error
	// Location names the backing file for messages and logs.
	Location() string
	Close() error
}
