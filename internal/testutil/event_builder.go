package testutil

import (
	"maps"

	"github.com/hupe1980/agentnet/core"
)

// EventBuilder provides a fluent helper for constructing events in tests.
//
//	ev := NewEventBuilder().Run("run-1").Type(core.EventTaskCompleted).Text("done").Build()
type EventBuilder struct {
	runID     string
	eventType string
	author    string
	text      string
	call      *core.FunctionCall
	delta     map[string]any
	errMsg    string
}

// NewEventBuilder creates a builder with author "agent" and type task.completed.
func NewEventBuilder() *EventBuilder {
	return &EventBuilder{author: "agent", eventType: core.EventTaskCompleted}
}

// Run sets the run id (chainable).
func (b *EventBuilder) Run(id string) *EventBuilder { b.runID = id; return b }

// Type sets the event type (chainable).
func (b *EventBuilder) Type(t string) *EventBuilder { b.eventType = t; return b }

// Author sets the author (chainable).
func (b *EventBuilder) Author(a string) *EventBuilder { b.author = a; return b }

// Text sets an assistant text message (chainable).
func (b *EventBuilder) Text(t string) *EventBuilder { b.text = t; return b }

// FunctionCall attaches a tool call with raw JSON arguments (chainable).
func (b *EventBuilder) FunctionCall(id, name, args string) *EventBuilder {
	b.call = &core.FunctionCall{ID: id, Name: name, Arguments: args}
	return b
}

// State adds a state delta entry (chainable).
func (b *EventBuilder) State(k string, v any) *EventBuilder {
	if b.delta == nil {
		b.delta = map[string]any{}
	}
	b.delta[k] = v
	return b
}

// Error sets the error message (chainable).
func (b *EventBuilder) Error(msg string) *EventBuilder { b.errMsg = msg; return b }

// Build returns the event.
func (b *EventBuilder) Build() core.Event {
	var ev core.Event

	switch {
	case b.call != nil:
		ev = core.NewFunctionCallEvent(b.runID, b.author, *b.call)
		ev.Type = b.eventType
	case b.text != "":
		ev = core.NewMessageEvent(b.runID, b.eventType, b.author, b.text)
	default:
		ev = core.NewEvent(b.runID, b.eventType, b.author)
	}

	if b.delta != nil {
		ev.StateDelta = maps.Clone(b.delta)
	}

	ev.ErrorMessage = b.errMsg

	return ev
}
