package testutil

import (
	"github.com/hupe1980/agentnet/core"
)

// SessionBuilder helps construct sessions with fluent chaining for tests.
//
//	sess := NewSessionBuilder("run-1").State("k", "v").Events(ev1, ev2).Build()
type SessionBuilder struct {
	id     string
	state  map[string]any
	events []core.Event
}

// NewSessionBuilder creates a builder for a session with the given id.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id, state: map[string]any{}}
}

// State sets a state key (chainable).
func (b *SessionBuilder) State(key string, val any) *SessionBuilder {
	b.state[key] = val
	return b
}

// Events appends events to the history (chainable). Their state deltas are
// applied in order.
func (b *SessionBuilder) Events(evs ...core.Event) *SessionBuilder {
	b.events = append(b.events, evs...)
	return b
}

// Build returns the session.
func (b *SessionBuilder) Build() *core.Session {
	s := core.NewSession(b.id)
	s.MergeState(b.state)

	for _, ev := range b.events {
		s.AddEvent(ev)
	}

	return s
}
