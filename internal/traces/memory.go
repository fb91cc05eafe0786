package traces

import (
	"context"
	"fmt"
	"sync"
)

type memoryEntry struct {
	samples []float64
	rate    float64
}

// MemoryStore implements Store in memory for testing and development.
type MemoryStore struct {
	mu     sync.RWMutex
	traces map[string]memoryEntry

	// Gets counts fetches per locator, exposed so tests can assert the
	// loader's once-per-request, no-implicit-cache behavior.
	Gets map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		traces: make(map[string]memoryEntry),
		Gets:   make(map[string]int),
	}
}

// Get fetches the trace for locator.
func (s *MemoryStore) Get(ctx context.Context, locator string) ([]float64, float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Gets[locator]++
	entry, ok := s.traces[locator]
	if !ok {
		return nil, 0, false, nil
	}
	return append([]float64(nil), entry.samples...), entry.rate, true, nil
}

// Put stores a trace under locator.
func (s *MemoryStore) Put(ctx context.Context, locator string, sampleRate float64, samples []float64) error {
	if locator == "" {
		return fmt.Errorf("trace locator is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.traces[locator] = memoryEntry{
		samples: append([]float64(nil), samples...),
		rate:    sampleRate,
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
