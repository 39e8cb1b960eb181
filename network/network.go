package network

import (
	"fmt"
	"slices"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/factory"
	"github.com/hupe1980/agentnet/logging"
)

// DefaultDomain is applied to nodes registered without a domain.
const DefaultDomain = "corporate"

// Options configures a Network.
type Options struct {
	// Registry resolves (domain, type) pairs during instantiation. It is
	// shared and not owned by the network.
	Registry *factory.Registry
	// DefaultDomain replaces empty node domains. Defaults to DefaultDomain.
	DefaultDomain string
	Logger        logging.Logger
}

// Network is the owning graph of agent and task nodes for one workflow.
type Network struct {
	ID string

	agents     map[string]*AgentNode
	agentOrder []string
	tasks      map[string]*TaskNode
	taskOrder  []string

	registry      *factory.Registry
	defaultDomain string
	logger        logging.Logger
}

// New creates an empty network.
func New(optFns ...func(o *Options)) *Network {
	opts := Options{
		DefaultDomain: DefaultDomain,
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.DefaultDomain == "" {
		opts.DefaultDomain = DefaultDomain
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Network{
		agents:        map[string]*AgentNode{},
		tasks:         map[string]*TaskNode{},
		registry:      opts.Registry,
		defaultDomain: opts.DefaultDomain,
		logger:        opts.Logger,
	}
}

// Registry returns the factory registry used for instantiation.
func (n *Network) Registry() *factory.Registry { return n.registry }

// AddAgentNode registers an agent node. It fails with core.ErrAlreadyExists
// when id is taken.
func (n *Network) AddAgentNode(id, agentType, domain string, params map[string]any) (*AgentNode, error) {
	if id == "" || agentType == "" {
		return nil, fmt.Errorf("%w: agent node needs id and type", core.ErrInvalidArgument)
	}

	if _, ok := n.agents[id]; ok {
		return nil, fmt.Errorf("%w: agent %q", core.ErrAlreadyExists, id)
	}

	if domain == "" {
		domain = n.defaultDomain
	}

	node := &AgentNode{ID: id, Type: agentType, Domain: domain, Params: cloneParams(params)}
	n.agents[id] = node
	n.agentOrder = append(n.agentOrder, id)

	n.logger.Debug("network.agent.added", "network_id", n.ID, "agent_id", id, "type", agentType, "domain", domain)

	return node, nil
}

// AddTaskNode registers a task node executed by agentID. It fails with
// core.ErrNotFound when the agent is unknown and with core.ErrAlreadyExists
// when id is taken; in both cases the task set is unchanged.
func (n *Network) AddTaskNode(id, taskType, agentID, domain string, params map[string]any) (*TaskNode, error) {
	if id == "" || taskType == "" {
		return nil, fmt.Errorf("%w: task node needs id and type", core.ErrInvalidArgument)
	}

	if _, ok := n.agents[agentID]; !ok {
		return nil, fmt.Errorf("%w: agent %q for task %q", core.ErrNotFound, agentID, id)
	}

	if _, ok := n.tasks[id]; ok {
		return nil, fmt.Errorf("%w: task %q", core.ErrAlreadyExists, id)
	}

	if domain == "" {
		domain = n.defaultDomain
	}

	node := &TaskNode{ID: id, Type: taskType, Domain: domain, AgentID: agentID, Params: cloneParams(params)}
	n.tasks[id] = node
	n.taskOrder = append(n.taskOrder, id)

	n.logger.Debug("network.task.added", "network_id", n.ID, "task_id", id, "type", taskType, "agent_id", agentID)

	return node, nil
}

// AddTaskDependency records that taskID must run after dependsOnID. Both ids
// must be registered tasks. Adding an existing edge again is a no-op.
func (n *Network) AddTaskDependency(taskID, dependsOnID string) error {
	task, ok := n.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: task %q", core.ErrNotFound, taskID)
	}

	if _, ok := n.tasks[dependsOnID]; !ok {
		return fmt.Errorf("%w: task %q", core.ErrNotFound, dependsOnID)
	}

	if task.DependsOn(dependsOnID) {
		return nil
	}

	task.dependencies = append(task.dependencies, dependsOnID)

	return nil
}

// Agent returns the agent node with the given id.
func (n *Network) Agent(id string) (*AgentNode, bool) {
	a, ok := n.agents[id]
	return a, ok
}

// Task returns the task node with the given id.
func (n *Network) Task(id string) (*TaskNode, bool) {
	t, ok := n.tasks[id]
	return t, ok
}

// Agents returns the agent nodes in registration order.
func (n *Network) Agents() []*AgentNode {
	out := make([]*AgentNode, 0, len(n.agentOrder))
	for _, id := range n.agentOrder {
		out = append(out, n.agents[id])
	}
	return out
}

// Tasks returns the task nodes in registration order.
func (n *Network) Tasks() []*TaskNode {
	out := make([]*TaskNode, 0, len(n.taskOrder))
	for _, id := range n.taskOrder {
		out = append(out, n.tasks[id])
	}
	return out
}

// AgentIDs returns agent ids in registration order.
func (n *Network) AgentIDs() []string { return slices.Clone(n.agentOrder) }

// TaskIDs returns task ids in registration order.
func (n *Network) TaskIDs() []string { return slices.Clone(n.taskOrder) }

// Edge is a dependency: From must run before To.
type Edge struct {
	From string
	To   string
}

// Edges lists every dependency, grouped by dependent task in registration
// order and then by insertion order.
func (n *Network) Edges() []Edge {
	var out []Edge
	for _, id := range n.taskOrder {
		for _, dep := range n.tasks[id].dependencies {
			out = append(out, Edge{From: dep, To: id})
		}
	}
	return out
}
