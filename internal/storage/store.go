package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ledger/internal/core"
)

// Store owns the working copy of the ledger. Mutations only touch memory;
// callers persist explicitly with Save.
type Store struct {
	mu        sync.Mutex
	persister Persister
	records   []core.Record
}

func NewStore(p Persister) *Store {
	return &Store{persister: p}
}

// Location names the backing file.
func (s *Store) Location() string {
	return s.persister.Location()
}

// Load replaces the working copy with the saved collection. When nothing
// was ever saved the working copy is left as it is.
// Records saved without an id get a fresh one.
func (s *Store) Load(ctx context.Context) error {
	loaded, err := s.persister.Read(ctx)
	if errors.Is(err, ErrNoData) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	seen := make(map[string]struct{}, len(loaded))
	for i := range loaded {
		if loaded[i].ID == "" {
			loaded[i].ID = core.NewID()
		}
		if _, dup := seen[loaded[i].ID]; dup {
			return fmt.Errorf("%w: %s: record %d: %w", ErrParse, s.persister.Location(), i, ErrDuplicateID)
		}
		seen[loaded[i].ID] = struct{}{}
		if err := loaded[i].Validate(); err != nil {
			return fmt.Errorf("%w: %s: record %d: %w", ErrParse, s.persister.Location(), i, err)
		}
	}

	s.mu.Lock()
	s.records = loaded
	s.mu.Unlock()
	return nil
}

// Save writes the whole working copy to the backing file.
func (s *Store) Save(ctx context.Context) error {
	snapshot := s.List()
	if err := s.persister.Write(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Add appends r to the working copy.
func (s *Store) Add(r core.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(r.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
	}
	s.records = append(s.records, r)
	return nil
}

// List returns a copy of the working copy in insertion order.
func (s *Store) List() []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.records...)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (core.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.records[i], true
	}
	return core.Record{}, false
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Update replaces the record with the given id, keeping its position.
// It reports false, and changes nothing, when no record has that id.
func (s *Store) Update(id string, r core.Record) (bool, error) {
	if r.ID != id {
		return false, fmt.Errorf("%w: %q != %q", ErrIDMismatch, r.ID, id)
	}
	if err := r.Validate(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.records[i] = r
	return true, nil
}

// Delete removes the record with the given id and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.records = append(s.records[:i:i], s.records[i+1:]...)
	return true
}

// Replace swaps the whole working copy, e.g. to restore a snapshot.
func (s *Store) Replace(records []core.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]core.Record(nil), records...)
}

// Close releases the persister.
func (s *Store) Close() error {
	return s.persister.Close()
}

func (s *Store) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}
