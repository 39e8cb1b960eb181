package network

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/agentnet/core"
)

// Description is the JSON transport form of a network. Connections point
// from the task that runs first to the task that depends on it.
type Description struct {
	Agents      []AgentDescription `json:"agents" validate:"dive"`
	Tasks       []TaskDescription  `json:"tasks" validate:"dive"`
	Connections []Connection       `json:"connections" validate:"dive"`
}

// AgentDescription describes one agent node.
type AgentDescription struct {
	ID     string         `json:"id" validate:"required"`
	Type   string         `json:"type" validate:"required"`
	Domain string         `json:"domain,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// TaskDescription describes one task node.
type TaskDescription struct {
	ID      string         `json:"id" validate:"required"`
	Type    string         `json:"type" validate:"required"`
	Domain  string         `json:"domain,omitempty"`
	AgentID string         `json:"agent_id" validate:"required"`
	Params  map[string]any `json:"params,omitempty"`
}

// Connection is a dependency edge.
type Connection struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// ParseDescription decodes a JSON description.
func ParseDescription(data []byte) (*Description, error) {
	var d Description
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: decode network description: %v", core.ErrInvalidArgument, err)
	}

	return &d, nil
}

// FromDescription builds a network from d. Agents are registered first,
// then tasks, then connections, so every reference resolves against nodes
// that already exist.
func FromDescription(d *Description, optFns ...func(o *Options)) (*Network, error) {
	n := New(optFns...)
	if err := n.Apply(d); err != nil {
		return nil, err
	}

	return n, nil
}

// Apply adds the nodes and edges of d to n.
func (n *Network) Apply(d *Description) error {
	if d == nil {
		return nil
	}

	for _, a := range d.Agents {
		if _, err := n.AddAgentNode(a.ID, a.Type, a.Domain, a.Params); err != nil {
			return err
		}
	}

	for _, t := range d.Tasks {
		if _, err := n.AddTaskNode(t.ID, t.Type, t.AgentID, t.Domain, t.Params); err != nil {
			return err
		}
	}

	for _, c := range d.Connections {
		if err := n.AddTaskDependency(c.To, c.From); err != nil {
			return fmt.Errorf("connection %s -> %s: %w", c.From, c.To, err)
		}
	}

	return nil
}

// Describe returns the description of n. Nodes keep registration order and
// connections are grouped by dependent task.
func (n *Network) Describe() *Description {
	d := &Description{
		Agents:      make([]AgentDescription, 0, len(n.agentOrder)),
		Tasks:       make([]TaskDescription, 0, len(n.taskOrder)),
		Connections: []Connection{},
	}

	for _, a := range n.Agents() {
		d.Agents = append(d.Agents, AgentDescription{
			ID:     a.ID,
			Type:   a.Type,
			Domain: a.Domain,
			Params: cloneParams(a.Params),
		})
	}

	for _, t := range n.Tasks() {
		d.Tasks = append(d.Tasks, TaskDescription{
			ID:      t.ID,
			Type:    t.Type,
			Domain:  t.Domain,
			AgentID: t.AgentID,
			Params:  cloneParams(t.Params),
		})
	}

	for _, e := range n.Edges() {
		d.Connections = append(d.Connections, Connection{From: e.From, To: e.To})
	}

	return d
}

// MarshalJSON encodes the network as its description.
func (n *Network) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Describe())
}

// Save writes the description of n to path as indented JSON.
func (n *Network) Save(path string) error {
	data, err := json.MarshalIndent(n.Describe(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode network: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// ReadDescription reads a JSON description file.
func ReadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return ParseDescription(data)
}

// Load reads a description file and builds a network from it.
func Load(path string, optFns ...func(o *Options)) (*Network, error) {
	d, err := ReadDescription(path)
	if err != nil {
		return nil, err
	}

	return FromDescription(d, optFns...)
}
