// Package agent implements the executable agent handle bound to agent nodes.
//
// An Agent is a persona (role, goal, backstory) driving a model.Model. For
// each assignment it renders a task prompt, calls the model and runs any
// requested tools until the model produces a final answer or the iteration
// budget is spent. Every model call and tool call is recorded as an event on
// the run context.
package agent
