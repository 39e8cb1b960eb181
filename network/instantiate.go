package network

import (
	"fmt"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/factory"
)

// InstantiateAgents binds an executable handle to every agent node that does
// not have one yet. Nodes are processed in registration order; the first
// failure stops the pass and already bound nodes keep their handles.
func (n *Network) InstantiateAgents() error {
	if n.registry == nil {
		return fmt.Errorf("%w: network has no factory registry", core.ErrPreconditionFailed)
	}

	for _, id := range n.agentOrder {
		node := n.agents[id]
		if node.instance != nil {
			continue
		}

		handle, err := n.registry.NewAgent(factory.AgentSpec{
			ID:     node.ID,
			Type:   node.Type,
			Domain: node.Domain,
			Params: cloneParams(node.Params),
		})
		if err != nil {
			return fmt.Errorf("instantiate agent %q: %w", id, err)
		}

		if handle == nil {
			return fmt.Errorf("instantiate agent %q: constructor returned no handle", id)
		}

		node.instance = handle

		n.logger.Debug("network.agent.instantiated", "network_id", n.ID, "agent_id", id)
	}

	return nil
}

// InstantiateTasks binds an executable handle to every task node that does
// not have one yet. A task whose agent is not instantiated fails with
// core.ErrPreconditionFailed.
func (n *Network) InstantiateTasks() error {
	if n.registry == nil {
		return fmt.Errorf("%w: network has no factory registry", core.ErrPreconditionFailed)
	}

	for _, id := range n.taskOrder {
		node := n.tasks[id]
		if node.instance != nil {
			continue
		}

		agent := n.agents[node.AgentID]
		if agent.instance == nil {
			return fmt.Errorf("%w: agent %q of task %q is not instantiated", core.ErrPreconditionFailed, agent.ID, id)
		}

		handle, err := n.registry.NewTask(factory.TaskSpec{
			ID:      node.ID,
			Type:    node.Type,
			Domain:  node.Domain,
			Params:  cloneParams(node.Params),
			AgentID: agent.ID,
			Agent:   agent.instance,
		})
		if err != nil {
			return fmt.Errorf("instantiate task %q: %w", id, err)
		}

		if handle == nil {
			return fmt.Errorf("instantiate task %q: constructor returned no handle", id)
		}

		node.instance = handle

		n.logger.Debug("network.task.instantiated", "network_id", n.ID, "task_id", id)
	}

	return nil
}

// Instantiate binds agents first, then tasks.
func (n *Network) Instantiate() error {
	if err := n.InstantiateAgents(); err != nil {
		return err
	}

	return n.InstantiateTasks()
}

// InstantiatedAgents returns the bound agent handles in registration order.
func (n *Network) InstantiatedAgents() []core.Agent {
	out := make([]core.Agent, 0, len(n.agentOrder))
	for _, id := range n.agentOrder {
		if h := n.agents[id].instance; h != nil {
			out = append(out, h)
		}
	}
	return out
}
