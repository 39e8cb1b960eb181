package core

import (
	"maps"
	"sync"
	"time"
)

// Session records the event history and the key/value state of a single
// network run. It is safe for concurrent access.
//
// Contract:
//   - AddEvent applies the event's StateDelta before appending it
//   - Events returns a copy
//   - Clone performs deep copies of maps/slices for safe divergence
type Session struct {
	ID       string            `json:"id"`
	State    map[string]any    `json:"state"`
	Events   []Event           `json:"events"`
	Created  time.Time         `json:"created"`
	Updated  time.Time         `json:"updated"`
	Metadata map[string]string `json:"metadata"`
	mu       sync.RWMutex
}

// NewSession creates a new session with the given ID.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, State: map[string]any{}, Events: []Event{}, Created: now, Updated: now, Metadata: map[string]string{}}
}

// GetState returns the value and existence flag for a state key.
func (s *Session) GetState(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.State[key]
	return v, ok
}

// SetState sets a key/value pair in session state.
func (s *Session) SetState(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State[key] = value
	s.Updated = time.Now()
}

// MergeState merges the provided key/value pairs into State.
func (s *Session) MergeState(delta map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.State, delta)
	s.Updated = time.Now()
}

// AddEvent applies the event's state delta and appends it to the history.
func (s *Session) AddEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.State, ev.StateDelta)
	s.Events = append(s.Events, ev)
	s.Updated = time.Now()
}

// GetEvents returns a copy of the full event slice.
func (s *Session) GetEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.Events))
	copy(events, s.Events)
	return events
}

// EventsOfType returns the events with the given type in append order.
func (s *Session) EventsOfType(eventType string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Event
	for _, ev := range s.Events {
		if ev.Type == eventType {
			res = append(res, ev)
		}
	}
	return res
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{ID: s.ID, State: make(map[string]any, len(s.State)), Events: make([]Event, len(s.Events)), Created: s.Created, Updated: s.Updated, Metadata: make(map[string]string, len(s.Metadata))}
	maps.Copy(clone.State, s.State)
	copy(clone.Events, s.Events)
	maps.Copy(clone.Metadata, s.Metadata)
	return clone
}

// SessionStore persists run sessions.
type SessionStore interface {
	// Create creates (or resets) the session with the given id.
	Create(id string) (*Session, error)
	// Get returns the session or an error wrapping ErrNotFound.
	Get(id string) (*Session, error)
	AppendEvent(sessionID string, event Event) error
	Delete(id string) error
}
