// Package core provides the foundational types shared by every agentnet
// package. It defines:
//
//   - The error taxonomy (ErrNotFound, ErrPreconditionFailed, ErrCycleDetected)
//   - Executable handles (Agent, Task) produced by domain constructors
//   - Events and Sessions recording what happened during a run
//   - RunContext / ToolContext (scoped execution and tool sandboxing)
//
// Concrete agents, the network graph and the execution engine live in their
// own packages and depend on core, never the other way around.
package core
