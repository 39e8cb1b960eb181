package core

import (
	"time"

	"github.com/google/uuid"
)

// Event types recorded in a run session.
const (
	EventRunStarted    = "run.started"
	EventTaskStarted   = "task.started"
	EventTaskCompleted = "task.completed"
	EventTaskFailed    = "task.failed"
	EventModelCall     = "model.call"
	EventToolCall      = "tool.call"
	EventToolResponse  = "tool.response"
	EventRunCompleted  = "run.completed"
)

// Event is an immutable record of something that happened during a run. It
// captures correlation ids, optional content and a state delta that the
// session applies when the event is appended.
type Event struct {
	ID           string         `json:"id"`
	RunID        string         `json:"run_id"`
	Type         string         `json:"type"`
	Author       string         `json:"author"`
	Timestamp    time.Time      `json:"timestamp"`
	Content      *Content       `json:"content,omitempty"`
	StateDelta   map[string]any `json:"state_delta,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// NewEvent creates a bare event of the given type authored by author.
func NewEvent(runID, eventType, author string) Event {
	return Event{
		ID:        NewID(),
		RunID:     runID,
		Type:      eventType,
		Author:    author,
		Timestamp: time.Now().UTC(),
	}
}

// NewMessageEvent creates an assistant message event with a single text part.
func NewMessageEvent(runID, eventType, author, message string) Event {
	e := NewEvent(runID, eventType, author)
	c := NewTextContent("assistant", message)
	e.Content = &c

	return e
}

// NewFunctionCallEvent records an agent requesting execution of a tool.
func NewFunctionCallEvent(runID, author string, call FunctionCall) Event {
	e := NewEvent(runID, EventToolCall, author)
	e.Content = &Content{Role: "assistant", Parts: []Part{FunctionCallPart{FunctionCall: call}}}

	return e
}

// NewFunctionResponseEvent records the result (or error) of a tool invocation.
func NewFunctionResponseEvent(runID, author, id, name string, result any, err error) Event {
	e := NewEvent(runID, EventToolResponse, author)
	fr := FunctionResponse{ID: id, Name: name, Response: result}
	if err != nil {
		fr.Error = err.Error()
		e.ErrorMessage = err.Error()
	}
	e.Content = &Content{Role: "tool", Parts: []Part{FunctionResponsePart{FunctionResponse: fr}}}

	return e
}

// NewErrorEvent records a failure.
func NewErrorEvent(runID, eventType, author string, err error) Event {
	e := NewEvent(runID, eventType, author)
	if err != nil {
		e.ErrorMessage = err.Error()
	}

	return e
}

// NewID generates a new unique identifier.
func NewID() string { return uuid.NewString() }

// IsError reports whether the event carries an error message.
func (e Event) IsError() bool { return e.ErrorMessage != "" }
