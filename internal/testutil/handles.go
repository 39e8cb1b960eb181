package testutil

import (
	"fmt"
	"sync"

	"github.com/hupe1980/agentnet/core"
)

// StubAgent answers every assignment with a canned or formatted reply and
// records what it was asked.
type StubAgent struct {
	ID      string
	RoleStr string
	// Reply overrides the default "<agent> completed <task>" answer.
	Reply func(a core.Assignment) (string, error)

	mu       sync.Mutex
	received []core.Assignment
}

// Name implements core.Agent.
func (a *StubAgent) Name() string { return a.ID }

// Role implements core.Agent.
func (a *StubAgent) Role() string {
	if a.RoleStr == "" {
		return "stub"
	}
	return a.RoleStr
}

// Perform implements core.Agent.
func (a *StubAgent) Perform(_ *core.RunContext, as core.Assignment) (string, error) {
	a.mu.Lock()
	a.received = append(a.received, as)
	a.mu.Unlock()

	if a.Reply != nil {
		return a.Reply(as)
	}

	return fmt.Sprintf("%s completed %s", a.ID, as.TaskName), nil
}

// Received returns the assignments performed so far.
func (a *StubAgent) Received() []core.Assignment {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]core.Assignment(nil), a.received...)
}

// StubTask delegates to its agent and reports the raw answer.
type StubTask struct {
	ID     string
	Params map[string]any
	Handle core.Agent
}

// Name implements core.Task.
func (t *StubTask) Name() string { return t.ID }

// Agent implements core.Task.
func (t *StubTask) Agent() core.Agent { return t.Handle }

// Execute implements core.Task.
func (t *StubTask) Execute(runCtx *core.RunContext, prior []core.TaskOutput) (core.TaskOutput, error) {
	raw, err := t.Handle.Perform(runCtx, core.Assignment{TaskName: t.ID, Context: prior})
	if err != nil {
		return core.TaskOutput{}, err
	}

	return core.TaskOutput{TaskName: t.ID, AgentName: t.Handle.Name(), Raw: raw}, nil
}
