package network

import (
	"maps"
	"slices"

	"github.com/hupe1980/agentnet/core"
)

// AgentNode is a registered agent. Its instance is bound once by
// InstantiateAgents and never replaced.
type AgentNode struct {
	ID     string
	Type   string
	Domain string
	Params map[string]any

	instance core.Agent
}

// Instance returns the bound executable handle, or nil before instantiation.
func (n *AgentNode) Instance() core.Agent { return n.instance }

// Instantiated reports whether a handle has been bound.
func (n *AgentNode) Instantiated() bool { return n.instance != nil }

// TaskNode is a registered task. AgentID and Dependencies are ids resolved
// through the owning Network.
type TaskNode struct {
	ID      string
	Type    string
	Domain  string
	AgentID string
	Params  map[string]any

	dependencies []string
	instance     core.Task
}

// Dependencies returns the ids of prerequisite tasks in the order they were
// added.
func (n *TaskNode) Dependencies() []string { return slices.Clone(n.dependencies) }

// DependsOn reports whether id is a direct prerequisite.
func (n *TaskNode) DependsOn(id string) bool { return slices.Contains(n.dependencies, id) }

// Instance returns the bound executable handle, or nil before instantiation.
func (n *TaskNode) Instance() core.Task { return n.instance }

// Instantiated reports whether a handle has been bound.
func (n *TaskNode) Instantiated() bool { return n.instance != nil }

func cloneParams(p map[string]any) map[string]any {
	if p == nil {
		return map[string]any{}
	}
	return maps.Clone(p)
}
