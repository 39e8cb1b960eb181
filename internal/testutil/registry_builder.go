package testutil

import (
	"sync"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/factory"
)

// RegistryBuilder assembles a factory registry whose constructors return
// stub handles.
//
//	reg, calls := NewRegistryBuilder().
//	    Agents("corporate", "meeting_summarizer").
//	    Tasks("corporate", "meeting_summarization").
//	    Build()
type RegistryBuilder struct {
	agents map[string][]string
	tasks  map[string][]string
	reply  func(a core.Assignment) (string, error)
}

// NewRegistryBuilder creates an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{agents: map[string][]string{}, tasks: map[string][]string{}}
}

// Agents registers stub agent types for domain (chainable).
func (b *RegistryBuilder) Agents(domain string, types ...string) *RegistryBuilder {
	b.agents[domain] = append(b.agents[domain], types...)
	return b
}

// Tasks registers stub task types for domain (chainable).
func (b *RegistryBuilder) Tasks(domain string, types ...string) *RegistryBuilder {
	b.tasks[domain] = append(b.tasks[domain], types...)
	return b
}

// Reply sets the answer function of every stub agent (chainable).
func (b *RegistryBuilder) Reply(fn func(a core.Assignment) (string, error)) *RegistryBuilder {
	b.reply = fn
	return b
}

// Calls counts constructor invocations per node id.
type Calls struct {
	mu     sync.Mutex
	counts map[string]int
	agents map[string]*StubAgent
}

// Count returns how often the node id was constructed.
func (c *Calls) Count(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counts[id]
}

// Agent returns the last stub agent built for id.
func (c *Calls) Agent(id string) *StubAgent {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.agents[id]
}

func (c *Calls) record(id string, a *StubAgent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[id]++
	if a != nil {
		c.agents[id] = a
	}
}

// Build returns the registry and the constructor call log. Registration
// errors panic since fixtures are static.
func (b *RegistryBuilder) Build() (*factory.Registry, *Calls) {
	reg := factory.NewRegistry()
	calls := &Calls{counts: map[string]int{}, agents: map[string]*StubAgent{}}

	for domain, types := range b.agents {
		for _, typ := range types {
			err := reg.RegisterAgent(domain, typ, func(spec factory.AgentSpec) (core.Agent, error) {
				a := &StubAgent{ID: spec.ID, RoleStr: spec.Type, Reply: b.reply}
				calls.record(spec.ID, a)
				return a, nil
			})
			if err != nil {
				panic(err)
			}
		}
	}

	for domain, types := range b.tasks {
		for _, typ := range types {
			err := reg.RegisterTask(domain, typ, func(spec factory.TaskSpec) (core.Task, error) {
				calls.record(spec.ID, nil)
				return &StubTask{ID: spec.ID, Params: spec.Params, Handle: spec.Agent}, nil
			})
			if err != nil {
				panic(err)
			}
		}
	}

	return reg, calls
}
