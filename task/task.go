// Package task implements the executable task handle bound to task nodes.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/report"
)

// Options configures a Task.
type Options struct {
	Description    string
	ExpectedOutput string
	// OutputJSON marks tasks whose answer must be a JSON object. A
	// non-object answer fails the task.
	OutputJSON bool
}

// Task hands its description to an agent and captures the answer.
type Task struct {
	name  string
	agent core.Agent
	opts  Options
}

var _ core.Task = (*Task)(nil)

// New creates a task named name executed by agent.
func New(name string, agent core.Agent, optFns ...func(o *Options)) *Task {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Task{name: name, agent: agent, opts: opts}
}

// Name implements core.Task.
func (t *Task) Name() string { return t.name }

// Agent implements core.Task.
func (t *Task) Agent() core.Agent { return t.agent }

// Description returns the rendered description.
func (t *Task) Description() string { return t.opts.Description }

// ExpectedOutput returns the rendered expected output.
func (t *Task) ExpectedOutput() string { return t.opts.ExpectedOutput }

// Execute implements core.Task. The outputs of earlier tasks are passed to
// the agent as context.
func (t *Task) Execute(runCtx *core.RunContext, prior []core.TaskOutput) (core.TaskOutput, error) {
	if t.agent == nil {
		return core.TaskOutput{}, fmt.Errorf("%w: task %s has no agent", core.ErrPreconditionFailed, t.name)
	}

	start := time.Now()

	raw, err := t.agent.Perform(runCtx, core.Assignment{
		TaskName:       t.name,
		Description:    t.opts.Description,
		ExpectedOutput: t.opts.ExpectedOutput,
		Context:        prior,
	})
	if err != nil {
		return core.TaskOutput{}, err
	}

	out := core.TaskOutput{
		TaskName:  t.name,
		AgentName: t.agent.Name(),
		Raw:       strings.TrimSpace(raw),
		Duration:  time.Since(start),
	}

	if fields, ok := report.ParseObject(out.Raw); ok {
		out.Structured = fields
	} else if t.opts.OutputJSON {
		return out, fmt.Errorf("task %s: expected a JSON object answer", t.name)
	}

	return out, nil
}
