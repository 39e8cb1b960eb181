package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/tool"
)

// ToolExecutor runs a batch of tool calls and returns one function response
// per call in the order of the calls. Implementations must respect
// cancellation and never panic.
type ToolExecutor interface {
	Execute(runCtx *core.RunContext, agentName string, tools map[string]tool.Tool, calls []core.FunctionCall) []core.FunctionResponse
}

// ExecutorConfig configures the default executor.
type ExecutorConfig struct {
	// MaxParallel bounds concurrent tool calls; values below 2 run them
	// one after another.
	MaxParallel int
	// Timeout bounds a single tool call; 0 disables it.
	Timeout time.Duration
}

type toolExecutor struct {
	cfg ExecutorConfig
}

// NewToolExecutor constructs the default executor.
func NewToolExecutor(cfg ExecutorConfig) ToolExecutor {
	return &toolExecutor{cfg: cfg}
}

func (e *toolExecutor) Execute(runCtx *core.RunContext, agentName string, tools map[string]tool.Tool, calls []core.FunctionCall) []core.FunctionResponse {
	out := make([]core.FunctionResponse, len(calls))

	if e.cfg.MaxParallel < 2 || len(calls) < 2 {
		for i, fc := range calls {
			out[i] = e.executeOne(runCtx, agentName, tools, fc)
		}
		return out
	}

	sem := make(chan struct{}, e.cfg.MaxParallel)

	var wg sync.WaitGroup

	for i, fc := range calls {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			out[i] = e.executeOne(runCtx, agentName, tools, fc)
		}()
	}

	wg.Wait()

	return out
}

func (e *toolExecutor) executeOne(runCtx *core.RunContext, agentName string, tools map[string]tool.Tool, fc core.FunctionCall) core.FunctionResponse {
	resp := core.FunctionResponse{ID: fc.ID, Name: fc.Name}

	if err := runCtx.Err(); err != nil {
		resp.Error = err.Error()
		return resp
	}

	callCtx := runCtx
	if e.cfg.Timeout > 0 {
		ctx, cancel := context.WithTimeout(runCtx.Context, e.cfg.Timeout)
		defer cancel()
		callCtx = runCtx.WithContext(ctx)
	}

	toolCtx := core.NewToolContext(callCtx, agentName, fc.ID)
	start := time.Now()

	var (
		result any
		err    error
	)

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = &panicError{val: r, stack: debug.Stack()}
				runCtx.LogError("agent.tool.panic", "agent", agentName, "tool", fc.Name, "recover", r)
			}
		}()
		result, err = callTool(tools, toolCtx, fc.Name, fc.Arguments)
	}()

	runCtx.LogInfo(
		"agent.tool.executed",
		"agent", agentName,
		"tool", fc.Name,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err != nil,
	)

	if err != nil {
		resp.Error = err.Error()
		return resp
	}

	resp.Response = result

	return resp
}

type panicError struct {
	val   any
	stack []byte
}

func (p *panicError) Error() string { return fmt.Sprintf("panic recovered: %v", p.val) }

func callTool(tools map[string]tool.Tool, toolCtx *core.ToolContext, name, args string) (any, error) {
	impl, ok := tools[name]
	if !ok {
		return nil, tool.NewToolError(name, "tool is not available to this agent", tool.CodeValidation)
	}

	argMap := map[string]any{}
	if args != "" {
		if err := json.Unmarshal([]byte(args), &argMap); err != nil {
			return nil, tool.NewToolError(name, fmt.Sprintf("invalid arguments: %v", err), tool.CodeValidation)
		}
	}

	return impl.Call(toolCtx, argMap)
}
