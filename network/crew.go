package network

import (
	"fmt"

	"github.com/hupe1980/agentnet/core"
)

// Step is one entry of a crew's execution plan.
type Step struct {
	TaskID   string
	TaskType string
	AgentID  string
	Task     core.Task
}

// Crew is an instantiated network linearized for sequential execution.
type Crew struct {
	Name        string
	Description string
	Agents      []core.Agent
	Steps       []Step
}

// Tasks returns the task handles in execution order.
func (c *Crew) Tasks() []core.Task {
	out := make([]core.Task, 0, len(c.Steps))
	for _, s := range c.Steps {
		out = append(out, s.Task)
	}
	return out
}

// Step returns the plan entry of a task id.
func (c *Crew) Step(taskID string) (Step, bool) {
	for _, s := range c.Steps {
		if s.TaskID == taskID {
			return s, true
		}
	}
	return Step{}, false
}

// BuildCrew instantiates whatever is still unbound and returns the
// execution plan. An empty name becomes "Dynamic Crew"; an empty description
// is derived from the node counts.
func (n *Network) BuildCrew(name, description string) (*Crew, error) {
	if err := n.Instantiate(); err != nil {
		return nil, err
	}

	ids, err := n.Order()
	if err != nil {
		return nil, err
	}

	agents := n.InstantiatedAgents()

	if name == "" {
		name = "Dynamic Crew"
	}

	if description == "" {
		description = fmt.Sprintf("A crew of %d agents working on %d tasks.", len(agents), len(ids))
	}

	steps := make([]Step, 0, len(ids))
	for _, id := range ids {
		node := n.tasks[id]
		steps = append(steps, Step{
			TaskID:   node.ID,
			TaskType: node.Type,
			AgentID:  node.AgentID,
			Task:     node.instance,
		})
	}

	return &Crew{
		Name:        name,
		Description: description,
		Agents:      agents,
		Steps:       steps,
	}, nil
}
