package network

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentnet/core"
)

// CycleError reports a dependency cycle found while ordering tasks. Path
// starts and ends with the same task id.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", core.ErrCycleDetected, strings.Join(e.Path, " -> "))
}

// Unwrap allows errors.Is(err, core.ErrCycleDetected).
func (e *CycleError) Unwrap() error { return core.ErrCycleDetected }

// Order linearizes the task ids so every dependency precedes its dependents.
//
// Traversal is depth first. Seeds are the tasks no other task depends on,
// taken in registration order; each seed's dependencies are visited in the
// order they were added before the seed itself is emitted. Tasks not reached
// from a seed are visited afterwards in registration order. A dependency
// that is still on the traversal stack yields a *CycleError.
func (n *Network) Order() ([]string, error) {
	dependedOn := make(map[string]bool, len(n.tasks))
	for _, t := range n.tasks {
		for _, dep := range t.dependencies {
			dependedOn[dep] = true
		}
	}

	s := &sequencer{
		net:     n,
		done:    make(map[string]bool, len(n.tasks)),
		onStack: make(map[string]bool),
		order:   make([]string, 0, len(n.tasks)),
	}

	for _, id := range n.taskOrder {
		if dependedOn[id] {
			continue
		}
		if err := s.visit(id); err != nil {
			return nil, err
		}
	}

	for _, id := range n.taskOrder {
		if err := s.visit(id); err != nil {
			return nil, err
		}
	}

	return s.order, nil
}

// Validate checks that the dependency graph is acyclic.
func (n *Network) Validate() error {
	_, err := n.Order()
	return err
}

// OrderedTasks returns the task handles in execution order. Every task must
// be instantiated, otherwise core.ErrPreconditionFailed is returned.
func (n *Network) OrderedTasks() ([]core.Task, error) {
	ids, err := n.Order()
	if err != nil {
		return nil, err
	}

	out := make([]core.Task, 0, len(ids))
	for _, id := range ids {
		node := n.tasks[id]
		if node.instance == nil {
			return nil, fmt.Errorf("%w: task %q is not instantiated", core.ErrPreconditionFailed, id)
		}
		out = append(out, node.instance)
	}

	return out, nil
}

type sequencer struct {
	net     *Network
	done    map[string]bool
	onStack map[string]bool
	stack   []string
	order   []string
}

func (s *sequencer) visit(id string) error {
	if s.done[id] {
		return nil
	}

	if s.onStack[id] {
		return &CycleError{Path: s.cyclePath(id)}
	}

	s.onStack[id] = true
	s.stack = append(s.stack, id)

	for _, dep := range s.net.tasks[id].dependencies {
		if err := s.visit(dep); err != nil {
			return err
		}
	}

	s.stack = s.stack[:len(s.stack)-1]
	delete(s.onStack, id)
	s.done[id] = true
	s.order = append(s.order, id)

	return nil
}

// cyclePath returns the stack suffix starting at id, closed with id again.
func (s *sequencer) cyclePath(id string) []string {
	start := 0
	for i, v := range s.stack {
		if v == id {
			start = i
			break
		}
	}

	path := append([]string{}, s.stack[start:]...)

	return append(path, id)
}
