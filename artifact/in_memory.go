package artifact

import (
	"slices"
	"sort"
	"sync"
)

// InMemoryStore is an in-process Store. Data is copied on save and on
// retrieval.
//
// Layout: networkID -> runID -> raw bytes
type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string][]byte
}

// NewInMemoryStore returns an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: make(map[string]map[string][]byte)}
}

// Save implements Store.
func (s *InMemoryStore) Save(networkID, runID string, data []byte) error {
	if err := validKey(networkID, runID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[networkID]; !ok {
		s.docs[networkID] = make(map[string][]byte)
	}

	s.docs[networkID][runID] = slices.Clone(data)

	return nil
}

// Get implements Store.
func (s *InMemoryStore) Get(networkID, runID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[networkID][runID]
	if !ok {
		return nil, notFound(networkID, runID)
	}

	return slices.Clone(data), nil
}

// List implements Store.
func (s *InMemoryStore) List(networkID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs[networkID]))
	for id := range s.docs[networkID] {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids, nil
}

// Delete implements Store.
func (s *InMemoryStore) Delete(networkID, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.docs[networkID]
	if !ok {
		return notFound(networkID, runID)
	}

	if _, ok := m[runID]; !ok {
		return notFound(networkID, runID)
	}

	delete(m, runID)

	return nil
}
