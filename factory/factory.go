// Package factory maps (domain, type) pairs to constructors that turn network
// nodes into executable handles. Domains register their constructors once at
// startup; lookups are exact-match and fail with core.ErrNotFound.
package factory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/agentnet/core"
)

// AgentSpec describes the agent node being instantiated.
type AgentSpec struct {
	ID     string
	Type   string
	Domain string
	Params map[string]any
}

// TaskSpec describes the task node being instantiated together with the
// already instantiated handle of its agent.
type TaskSpec struct {
	ID      string
	Type    string
	Domain  string
	Params  map[string]any
	AgentID string
	Agent   core.Agent
}

// AgentConstructor builds an agent handle.
type AgentConstructor func(spec AgentSpec) (core.Agent, error)

// TaskConstructor builds a task handle.
type TaskConstructor func(spec TaskSpec) (core.Task, error)

type key struct{ domain, typ string }

// Registry is the (domain, type) -> constructor table. It is safe for
// concurrent use; registration normally happens once before lookups start.
type Registry struct {
	mu     sync.RWMutex
	agents map[key]AgentConstructor
	tasks  map[key]TaskConstructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		agents: map[key]AgentConstructor{},
		tasks:  map[key]TaskConstructor{},
	}
}

// RegisterAgent adds an agent constructor. Registering the same pair twice
// fails with core.ErrAlreadyExists.
func (r *Registry) RegisterAgent(domain, agentType string, ctor AgentConstructor) error {
	if domain == "" || agentType == "" || ctor == nil {
		return fmt.Errorf("%w: agent constructor needs domain, type and function", core.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{domain, agentType}
	if _, ok := r.agents[k]; ok {
		return fmt.Errorf("%w: agent constructor %s/%s", core.ErrAlreadyExists, domain, agentType)
	}

	r.agents[k] = ctor

	return nil
}

// RegisterTask adds a task constructor.
func (r *Registry) RegisterTask(domain, taskType string, ctor TaskConstructor) error {
	if domain == "" || taskType == "" || ctor == nil {
		return fmt.Errorf("%w: task constructor needs domain, type and function", core.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{domain, taskType}
	if _, ok := r.tasks[k]; ok {
		return fmt.Errorf("%w: task constructor %s/%s", core.ErrAlreadyExists, domain, taskType)
	}

	r.tasks[k] = ctor

	return nil
}

// Agent looks up the constructor for (domain, agentType).
func (r *Registry) Agent(domain, agentType string) (AgentConstructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.hasDomainLocked(domain) {
		return nil, fmt.Errorf("%w: domain %q", core.ErrNotFound, domain)
	}

	ctor, ok := r.agents[key{domain, agentType}]
	if !ok {
		return nil, fmt.Errorf("%w: agent type %q in domain %q", core.ErrNotFound, agentType, domain)
	}

	return ctor, nil
}

// Task looks up the constructor for (domain, taskType).
func (r *Registry) Task(domain, taskType string) (TaskConstructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.hasDomainLocked(domain) {
		return nil, fmt.Errorf("%w: domain %q", core.ErrNotFound, domain)
	}

	ctor, ok := r.tasks[key{domain, taskType}]
	if !ok {
		return nil, fmt.Errorf("%w: task type %q in domain %q", core.ErrNotFound, taskType, domain)
	}

	return ctor, nil
}

// NewAgent resolves and invokes the agent constructor.
func (r *Registry) NewAgent(spec AgentSpec) (core.Agent, error) {
	ctor, err := r.Agent(spec.Domain, spec.Type)
	if err != nil {
		return nil, err
	}

	return ctor(spec)
}

// NewTask resolves and invokes the task constructor.
func (r *Registry) NewTask(spec TaskSpec) (core.Task, error) {
	ctor, err := r.Task(spec.Domain, spec.Type)
	if err != nil {
		return nil, err
	}

	return ctor(spec)
}

// Domains returns every domain with at least one constructor, sorted.
func (r *Registry) Domains() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]struct{}{}
	for k := range r.agents {
		seen[k.domain] = struct{}{}
	}
	for k := range r.tasks {
		seen[k.domain] = struct{}{}
	}

	return sortedKeys(seen)
}

// AgentTypes returns the agent types registered for domain, sorted.
func (r *Registry) AgentTypes(domain string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]struct{}{}
	for k := range r.agents {
		if k.domain == domain {
			seen[k.typ] = struct{}{}
		}
	}

	return sortedKeys(seen)
}

// TaskTypes returns the task types registered for domain, sorted.
func (r *Registry) TaskTypes(domain string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]struct{}{}
	for k := range r.tasks {
		if k.domain == domain {
			seen[k.typ] = struct{}{}
		}
	}

	return sortedKeys(seen)
}

func (r *Registry) hasDomainLocked(domain string) bool {
	for k := range r.agents {
		if k.domain == domain {
			return true
		}
	}
	for k := range r.tasks {
		if k.domain == domain {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
