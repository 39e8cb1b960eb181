// Package session provides core.SessionStore implementations. Run history
// (the event log of every network execution) is kept here so the HTTP layer
// can expose it after a run finished.
package session
