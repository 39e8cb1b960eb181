package core

import (
	"context"

	"github.com/hupe1980/agentnet/logging"
)

// ToolContext is the narrow surface handed to tool implementations. Tools
// see their run, the calling agent and the session state, nothing else.
type ToolContext struct {
	runCtx         *RunContext
	functionCallID string
	agentName      string

	*loggerAdapter
}

// NewToolContext constructs a tool context bound to a parent RunContext.
func NewToolContext(runCtx *RunContext, agentName, functionCallID string) *ToolContext {
	return &ToolContext{
		runCtx:         runCtx,
		functionCallID: functionCallID,
		agentName:      agentName,
		loggerAdapter:  newLoggerAdapter(runCtx.Logger()),
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.runCtx.Context }

// RunID returns the run ID associated with the tool invocation.
func (tc *ToolContext) RunID() string { return tc.runCtx.RunID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.loggerAdapter.Logger() }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// AgentName returns the name of the agent that requested the call.
func (tc *ToolContext) AgentName() string { return tc.agentName }

// GetState retrieves run state.
func (tc *ToolContext) GetState(k string) (any, bool) { return tc.runCtx.GetState(k) }

// SetState writes run state.
func (tc *ToolContext) SetState(k string, v any) { tc.runCtx.SetState(k, v) }
