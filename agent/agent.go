package agent

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/model"
	"github.com/hupe1980/agentnet/tool"
)

// DefaultMaxIterations bounds the model/tool round trips per assignment.
const DefaultMaxIterations = 5

// Options configures an Agent.
type Options struct {
	Persona Persona
	// Instruction overrides the prompt rendered from Persona.
	Instruction Instruction
	Tools       []tool.Tool
	// MaxIterations bounds model calls per assignment.
	MaxIterations int
	Executor      ToolExecutor
}

// Agent is a persona-driven model agent. It is safe to use from one run at
// a time per assignment; state lives on the RunContext.
type Agent struct {
	name        string
	persona     Persona
	instruction Instruction
	llm         model.Model
	tools       map[string]tool.Tool
	maxIters    int
	executor    ToolExecutor
}

var _ core.Agent = (*Agent)(nil)

// New creates an agent named name backed by llm.
func New(name string, llm model.Model, optFns ...func(o *Options)) *Agent {
	opts := Options{
		MaxIterations: DefaultMaxIterations,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Persona.Role == "" {
		opts.Persona.Role = name
	}

	if opts.Instruction.IsZero() {
		opts.Instruction = opts.Persona.Instruction()
	}

	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	if opts.Executor == nil {
		opts.Executor = NewToolExecutor(ExecutorConfig{Timeout: 30 * time.Second})
	}

	tools := make(map[string]tool.Tool, len(opts.Tools))
	for _, t := range opts.Tools {
		tools[t.Name()] = t
	}

	return &Agent{
		name:        name,
		persona:     opts.Persona,
		instruction: opts.Instruction,
		llm:         llm,
		tools:       tools,
		maxIters:    opts.MaxIterations,
		executor:    opts.Executor,
	}
}

// Name implements core.Agent.
func (a *Agent) Name() string { return a.name }

// Role implements core.Agent.
func (a *Agent) Role() string { return a.persona.Role }

// Persona returns the persona the agent was built with.
func (a *Agent) Persona() Persona { return a.persona }

// ToolNames returns the names of the agent's tools, sorted.
func (a *Agent) ToolNames() []string {
	names := make([]string, 0, len(a.tools))
	for n := range a.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Perform implements core.Agent. It loops model calls and tool executions
// until the model answers without requesting tools.
func (a *Agent) Perform(runCtx *core.RunContext, as core.Assignment) (string, error) {
	if a.llm == nil {
		return "", fmt.Errorf("%w: agent %s has no model", core.ErrPreconditionFailed, a.name)
	}

	system, err := a.instruction.Resolve(runCtx)
	if err != nil {
		return "", fmt.Errorf("resolve instruction: %w", err)
	}

	req := model.Request{
		Instructions: system,
		Contents:     []core.Content{core.NewTextContent("user", TaskPrompt(as))},
		Tools:        a.toolDefinitions(),
	}

	for iter := 1; iter <= a.maxIters; iter++ {
		if err := runCtx.Limiter.Increment(); err != nil {
			return "", err
		}

		start := time.Now()
		resp, err := model.Collect(runCtx.Context, a.llm, req)

		tokens := 0
		if resp != nil && resp.Usage != nil {
			tokens = resp.Usage.TotalTokens
		}

		runCtx.LogDebug(
			"agent.model.call",
			"agent", a.name,
			"task", as.TaskName,
			"iteration", iter,
			"tokens", tokens,
			"duration_ms", time.Since(start).Milliseconds(),
		)

		if err != nil {
			_ = runCtx.Emit(core.NewErrorEvent(runCtx.RunID, core.EventModelCall, a.name, err))
			return "", fmt.Errorf("model call: %w", err)
		}

		ev := core.NewEvent(runCtx.RunID, core.EventModelCall, a.name)
		ev.Content = &resp.Content
		_ = runCtx.Emit(ev)

		calls := resp.Content.FunctionCalls()
		if len(calls) == 0 {
			return resp.Content.Text(), nil
		}

		req.Contents = append(req.Contents, resp.Content)
		req.Contents = append(req.Contents, a.runTools(runCtx, calls))
	}

	return "", fmt.Errorf("%w: agent %s used %d iterations without a final answer", core.ErrLimitExceeded, a.name, a.maxIters)
}

func (a *Agent) runTools(runCtx *core.RunContext, calls []core.FunctionCall) core.Content {
	for _, fc := range calls {
		_ = runCtx.Emit(core.NewFunctionCallEvent(runCtx.RunID, a.name, fc))
	}

	responses := a.executor.Execute(runCtx, a.name, a.tools, calls)

	parts := make([]core.Part, 0, len(responses))
	for _, fr := range responses {
		var callErr error
		if fr.Error != "" {
			callErr = errors.New(fr.Error)
		}

		_ = runCtx.Emit(core.NewFunctionResponseEvent(runCtx.RunID, a.name, fr.ID, fr.Name, fr.Response, callErr))

		parts = append(parts, core.FunctionResponsePart{FunctionResponse: fr})
	}

	return core.Content{Role: "tool", Parts: parts}
}

func (a *Agent) toolDefinitions() []model.ToolDefinition {
	if len(a.tools) == 0 {
		return nil
	}

	defs := make([]model.ToolDefinition, 0, len(a.tools))
	for _, name := range a.ToolNames() {
		t := a.tools[name]
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}

	return defs
}
