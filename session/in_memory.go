package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/agentnet/core"
)

var _ core.SessionStore = (*InMemoryStore)(nil)

// InMemoryStore keeps run sessions in a process local map. Returned sessions
// are clones so callers cannot mutate stored state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Create creates or resets the session with the given id.
func (s *InMemoryStore) Create(sessionID string) (*core.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", core.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := core.NewSession(sessionID)
	s.sessions[sessionID] = sess

	return sess.Clone(), nil
}

// Get returns a snapshot of the session.
func (s *InMemoryStore) Get(sessionID string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: session %q", core.ErrNotFound, sessionID)
	}

	return sess.Clone(), nil
}

// AppendEvent adds ev to an existing session.
func (s *InMemoryStore) AppendEvent(sessionID string, ev core.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: session %q", core.ErrNotFound, sessionID)
	}

	sess.AddEvent(ev)

	return nil
}

// Delete removes the session. Deleting an unknown id is a no-op.
func (s *InMemoryStore) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)

	return nil
}

// IDs lists stored session ids in lexical order.
func (s *InMemoryStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}
