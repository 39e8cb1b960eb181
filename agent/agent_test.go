package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/model"
	"github.com/hupe1980/agentnet/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunContext(t *testing.T, maxCalls int) *core.RunContext {
	t.Helper()

	rc, err := core.NewRunContext(context.Background(), "run-1", func(o *core.RunOptions) {
		o.MaxModelCalls = maxCalls
	})
	require.NoError(t, err)

	return rc
}

func TestPersonaInstruction(t *testing.T) {
	p := Persona{Role: "Meeting Summarizer", Goal: "Summarize meetings", Backstory: "You take great notes."}

	text, err := p.Instruction().Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "You are Meeting Summarizer. You take great notes.\nYour personal goal is: Summarize meetings", text)
}

func TestInstruction_Provider(t *testing.T) {
	inst := NewInstructionFromFunc(func(rc *core.RunContext) (string, error) {
		return "run " + rc.RunID, nil
	})
	assert.False(t, inst.IsStatic())

	text, err := inst.Resolve(newRunContext(t, 0))
	require.NoError(t, err)
	assert.Equal(t, "run run-1", text)

	failing := NewInstructionFromProvider(Func(func(*core.RunContext) (string, error) {
		return "", errors.New("boom")
	}))
	_, err = failing.Resolve(nil)
	assert.EqualError(t, err, "boom")

	assert.True(t, Instruction{}.IsZero())
}

func TestTaskPrompt(t *testing.T) {
	prompt := TaskPrompt(core.Assignment{
		TaskName:       "manage_email",
		Description:    "Draft an email.",
		ExpectedOutput: "A polished email.",
		Context: []core.TaskOutput{
			{TaskName: "summarize_meeting", AgentName: "summarizer", Raw: "Q3 revenue grew.\n"},
		},
	})

	assert.True(t, strings.HasPrefix(prompt, "Current Task: Draft an email.\n"))
	assert.Contains(t, prompt, "expected criteria for your final answer: A polished email.")
	assert.Contains(t, prompt, "--- summarize_meeting (summarizer) ---\nQ3 revenue grew.\n")
}

func TestAgent_PerformPlainAnswer(t *testing.T) {
	llm := model.NewMockModel("mock").EnqueueText("Summary: all good.")
	a := New("summarizer", llm, func(o *Options) {
		o.Persona = Persona{Role: "Meeting Summarizer", Goal: "Summarize"}
	})

	rc := newRunContext(t, 0)
	out, err := a.Perform(rc, core.Assignment{TaskName: "t1", Description: "Summarize the meeting."})
	require.NoError(t, err)
	assert.Equal(t, "Summary: all good.", out)
	assert.Equal(t, "Meeting Summarizer", a.Role())

	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Instructions, "You are Meeting Summarizer.")
	assert.Empty(t, reqs[0].Tools)
	assert.Len(t, rc.Session.EventsOfType(core.EventModelCall), 1)
}

func TestAgent_PerformWithToolLoop(t *testing.T) {
	llm := model.NewMockModel("mock").
		EnqueueToolCall("call-1", "run_notes", `{"operation": "set", "key": "q3", "value": "revenue up"}`).
		EnqueueText("Noted.")

	a := New("summarizer", llm, func(o *Options) {
		o.Tools = []tool.Tool{tool.NewNotesTool()}
	})
	assert.Equal(t, []string{"run_notes"}, a.ToolNames())

	rc := newRunContext(t, 0)
	out, err := a.Perform(rc, core.Assignment{TaskName: "t1", Description: "Take notes."})
	require.NoError(t, err)
	assert.Equal(t, "Noted.", out)

	v, ok := rc.GetState("note:q3")
	require.True(t, ok)
	assert.Equal(t, "revenue up", v)

	reqs := llm.Requests()
	require.Len(t, reqs, 2)
	require.Len(t, reqs[0].Tools, 1)
	assert.Equal(t, "run_notes", reqs[0].Tools[0].Function.Name)

	// assistant tool call and tool response are appended to the conversation
	second := reqs[1].Contents
	require.Len(t, second, 3)
	assert.Equal(t, "assistant", second[1].Role)
	assert.Equal(t, "tool", second[2].Role)

	fr, ok := second[2].Parts[0].(core.FunctionResponsePart)
	require.True(t, ok)
	assert.Equal(t, "call-1", fr.FunctionResponse.ID)
	assert.Empty(t, fr.FunctionResponse.Error)

	assert.Len(t, rc.Session.EventsOfType(core.EventToolCall), 1)
	assert.Len(t, rc.Session.EventsOfType(core.EventToolResponse), 1)
}

func TestAgent_UnknownToolIsReportedToModel(t *testing.T) {
	llm := model.NewMockModel("mock").
		EnqueueToolCall("call-1", "web_search", `{"query": "x"}`).
		EnqueueText("Answer without search.")

	a := New("writer", llm)
	rc := newRunContext(t, 0)

	out, err := a.Perform(rc, core.Assignment{TaskName: "t1", Description: "Write."})
	require.NoError(t, err)
	assert.Equal(t, "Answer without search.", out)

	responses := rc.Session.EventsOfType(core.EventToolResponse)
	require.Len(t, responses, 1)
	assert.Contains(t, responses[0].ErrorMessage, "VALIDATION_ERROR")
}

func TestAgent_IterationBudget(t *testing.T) {
	llm := model.NewMockModel("mock").WithResponder(func(model.Request) (core.Content, error) {
		return core.Content{Role: "assistant", Parts: []core.Part{
			core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "c", Name: "run_notes", Arguments: `{"operation": "list"}`}},
		}}, nil
	})

	a := New("looper", llm, func(o *Options) {
		o.Tools = []tool.Tool{tool.NewNotesTool()}
		o.MaxIterations = 3
	})

	_, err := a.Perform(newRunContext(t, 0), core.Assignment{TaskName: "t1"})
	require.ErrorIs(t, err, core.ErrLimitExceeded)
	assert.Len(t, llm.Requests(), 3)
}

func TestAgent_ModelCallLimit(t *testing.T) {
	llm := model.NewMockModel("mock").EnqueueText("first")
	a := New("writer", llm)
	rc := newRunContext(t, 1)

	_, err := a.Perform(rc, core.Assignment{TaskName: "t1"})
	require.NoError(t, err)

	_, err = a.Perform(rc, core.Assignment{TaskName: "t2"})
	assert.ErrorIs(t, err, core.ErrLimitExceeded)
}

func TestAgent_ModelError(t *testing.T) {
	llm := model.NewMockModel("mock").WithResponder(func(model.Request) (core.Content, error) {
		return core.Content{}, errors.New("quota exhausted")
	})

	rc := newRunContext(t, 0)
	_, err := New("writer", llm).Perform(rc, core.Assignment{TaskName: "t1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")

	events := rc.Session.EventsOfType(core.EventModelCall)
	require.Len(t, events, 1)
	assert.True(t, events[0].IsError())
}

func TestAgent_NoModel(t *testing.T) {
	_, err := New("writer", nil).Perform(newRunContext(t, 0), core.Assignment{})
	assert.ErrorIs(t, err, core.ErrPreconditionFailed)
}

func TestToolExecutor_ParallelPreservesOrder(t *testing.T) {
	echo := tool.NewFunctionTool("echo", "echo", map[string]any{"type": "object"}, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return args["v"], nil
	})
	panicky := tool.NewFunctionTool("panic", "panics", map[string]any{"type": "object"}, func(*core.ToolContext, map[string]any) (any, error) {
		panic("kaboom")
	})

	exec := NewToolExecutor(ExecutorConfig{MaxParallel: 4})
	tools := map[string]tool.Tool{"echo": echo, "panic": panicky}

	calls := []core.FunctionCall{
		{ID: "1", Name: "echo", Arguments: `{"v": "a"}`},
		{ID: "2", Name: "panic"},
		{ID: "3", Name: "echo", Arguments: `{"v": "c"}`},
		{ID: "4", Name: "echo", Arguments: `not json`},
	}

	out := exec.Execute(newRunContext(t, 0), "agent", tools, calls)
	require.Len(t, out, 4)
	assert.Equal(t, "a", out[0].Response)
	assert.Contains(t, out[1].Error, "kaboom")
	assert.Equal(t, "c", out[2].Response)
	assert.Contains(t, out[3].Error, "invalid arguments")
}
