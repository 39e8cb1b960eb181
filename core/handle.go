package core

import "time"

// Agent is the executable handle bound to an agent node by its domain
// constructor. It performs assignments on behalf of tasks.
type Agent interface {
	// Name returns the unique agent name (the node id).
	Name() string
	// Role returns the persona role used in prompts and reports.
	Role() string
	// Perform carries out a single assignment and returns the raw answer.
	Perform(runCtx *RunContext, a Assignment) (string, error)
}

// Assignment is the unit of work a task hands to its agent.
type Assignment struct {
	TaskName       string
	Description    string
	ExpectedOutput string
	// Context holds the outputs of previously executed tasks in execution order.
	Context []TaskOutput
}

// Task is the executable handle bound to a task node.
type Task interface {
	// Name returns the unique task name (the node id).
	Name() string
	// Agent returns the handle that executes this task.
	Agent() Agent
	// Execute runs the task given the outputs of earlier tasks.
	Execute(runCtx *RunContext, prior []TaskOutput) (TaskOutput, error)
}

// TaskOutput is the result of executing one task.
type TaskOutput struct {
	TaskName  string `json:"task_name"`
	AgentName string `json:"agent_name"`
	Raw       string `json:"raw"`
	// Structured is set when the task produced a JSON object.
	Structured map[string]any `json:"structured,omitempty"`
	Duration   time.Duration  `json:"duration"`
}

// Value returns the structured form when present and the raw text otherwise.
func (o TaskOutput) Value() any {
	if o.Structured != nil {
		return o.Structured
	}

	return o.Raw
}
