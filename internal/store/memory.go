package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/fentz26/elhem/internal/models"
)

// MemoryStore keeps encoded collections in process memory. Callers never
// share record maps with the store: every Load decodes a fresh copy.
type MemoryStore struct {
	mu   sync.Mutex
	data map[Collection][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[Collection][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, c Collection) ([]models.Record, error) {
	s.mu.Lock()
	data, ok := s.data[c]
	s.mu.Unlock()
	if !ok {
		return []models.Record{}, nil
	}
	records, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c, err)
	}
	return records, nil
}

func (s *MemoryStore) Save(_ context.Context, c Collection, records []models.Record) error {
	data, err := Encode(records)
	if err != nil {
		return fmt.Errorf("save %s: %w", c, err)
	}
	s.mu.Lock()
	s.data[c] = data
	s.mu.Unlock()
	return nil
}

// SetRaw stores content verbatim, bypassing encoding.
func (s *MemoryStore) SetRaw(c Collection, data []byte) {
	s.mu.Lock()
	s.data[c] = append([]byte(nil), data...)
	s.mu.Unlock()
}

// Raw returns the stored content of c.
func (s *MemoryStore) Raw(c Collection) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[c]
	return append([]byte(nil), data...), ok
}

func (s *MemoryStore) Driver() Driver { return DriverMemory }

func (s *MemoryStore) Close() error { return nil }
