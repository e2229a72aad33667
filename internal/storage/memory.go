package storage

import (
	"context"
	"sync"

	"ledger/internal/core"
)

// Memory is a Persister that keeps the saved collection in process memory.
// Nothing survives a restart. Set FailWrites to simulate a full disk.
type Memory struct {
	mu         sync.Mutex
	saved      []core.Record
	hasData    bool
	writes     int
	FailWrites error
}

// NewMemory returns a Memory persister. With seed records it behaves as if
// they had already been saved.
func NewMemory(seed ...core.Record) *Memory {
	m := &Memory{}
	if len(seed) > 0 {
		m.saved = append([]core.Record(nil), seed...)
		m.hasData = true
	}
	return m
}

func (m *Memory) Location() string { return "memory" }

func (m *Memory) Close() error { return nil }

// Read implements Persister
func (m *Memory) Read(_ context.Context) ([]core.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasData {
		return nil, ErrNoData
	}
	return append([]core.Record(nil), m.saved...), nil
}

// Write implements Persister
func (m *Memory) Write(_ context.Context, records []core.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.saved = append([]core.Record(nil), records...)
	m.hasData = true
	return nil
}

// Saved returns a copy of the last successfully written collection.
func (m *Memory) Saved() []core.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Record(nil), m.saved...)
}

// Writes counts Write calls, failed ones included.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
