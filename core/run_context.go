package core

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentnet/logging"
)

// RunOptions configures a RunContext.
type RunOptions struct {
	// NetworkID identifies the network being executed (informational).
	NetworkID string
	// SessionStore receives every emitted event. Optional.
	SessionStore SessionStore
	// MaxModelCalls bounds model calls across the whole run; 0 = unlimited.
	MaxModelCalls int
	Logger        logging.Logger
}

// RunContext carries the per-run execution scope handed to tasks, agents and
// tools. It aggregates:
//   - The ambient cancellation Context
//   - Identifiers (RunID, NetworkID)
//   - The run Session and an optional backing SessionStore
//   - A ModelLimiter shared by all tasks of the run
//
// Emitted events are appended to the local Session and mirrored into the
// SessionStore when one is configured.
type RunContext struct {
	Context      context.Context
	RunID        string
	NetworkID    string
	Session      *Session
	SessionStore SessionStore
	Limiter      *ModelLimiter

	*loggerAdapter
}

// NewRunContext constructs a RunContext. When a SessionStore is configured the
// session is created there first so events can be appended to it.
func NewRunContext(ctx context.Context, runID string, optFns ...func(o *RunOptions)) (*RunContext, error) {
	opts := RunOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if runID == "" {
		runID = NewID()
	}

	sess := NewSession(runID)
	if opts.SessionStore != nil {
		if _, err := opts.SessionStore.Create(runID); err != nil {
			return nil, fmt.Errorf("create session %s: %w", runID, err)
		}
	}

	sess.Metadata["network_id"] = opts.NetworkID

	return &RunContext{
		Context:       ctx,
		RunID:         runID,
		NetworkID:     opts.NetworkID,
		Session:       sess,
		SessionStore:  opts.SessionStore,
		Limiter:       NewModelLimiter(opts.MaxModelCalls),
		loggerAdapter: newLoggerAdapter(opts.Logger),
	}, nil
}

// WithContext returns a shallow copy bound to ctx. Session, store and limiter
// are shared with the parent.
func (rc *RunContext) WithContext(ctx context.Context) *RunContext {
	c := *rc
	c.Context = ctx

	return &c
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// Emit appends ev to the run session and the backing store.
func (rc *RunContext) Emit(ev Event) error {
	if ev.RunID == "" {
		ev.RunID = rc.RunID
	}

	rc.Session.AddEvent(ev)

	if rc.SessionStore == nil {
		return nil
	}

	return rc.SessionStore.AppendEvent(rc.RunID, ev)
}

// GetState returns a value from the run session state.
func (rc *RunContext) GetState(k string) (any, bool) { return rc.Session.GetState(k) }

// SetState writes a value into the run session state.
func (rc *RunContext) SetState(k string, v any) { rc.Session.SetState(k, v) }
