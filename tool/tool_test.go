package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/agentnet/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToolContext(t *testing.T) *core.ToolContext {
	t.Helper()
	rc, err := core.NewRunContext(context.Background(), "run-test")
	require.NoError(t, err)
	return core.NewToolContext(rc, "analyst", "fc-1")
}

func TestFunctionTool_Success(t *testing.T) {
	sum := NewFunctionTool("sum", "Add numbers", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return args["a"].(float64) + args["b"].(float64), nil
	})

	res, err := sum.Call(newToolContext(t), map[string]any{"a": 1.0, "b": 2.0})
	require.NoError(t, err)
	assert.Equal(t, 3.0, res)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	ft := NewFunctionTool("needs_x", "", map[string]any{
		"type":     "object",
		"required": []string{"x"},
	}, func(*core.ToolContext, map[string]any) (any, error) { return nil, nil })

	_, err := ft.Call(newToolContext(t), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	ft := NewFunctionTool("fails", "", map[string]any{"type": "object"}, func(*core.ToolContext, map[string]any) (any, error) {
		return nil, errors.New("boom")
	})

	_, err := ft.Call(newToolContext(t), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Equal(t, "tool error [EXECUTION_ERROR] in fails: boom", toolErr.Error())
}

type echoArgs struct {
	Text  string `json:"text" jsonschema:"description=Text to echo"`
	Times int    `json:"times,omitempty"`
}

func TestTypedTool(t *testing.T) {
	echo := NewTypedTool("echo", "Echo text", func(_ *core.ToolContext, in echoArgs) (any, error) {
		return map[string]any{"text": in.Text, "times": in.Times}, nil
	})

	props := echo.Parameters()["properties"].(map[string]any)
	assert.Contains(t, props, "text")

	res, err := echo.Call(newToolContext(t), map[string]any{"text": "hi", "times": 2.0})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"text": "hi", "times": 2}, res)

	_, err = echo.Call(newToolContext(t), map[string]any{})
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(NewNotesTool())
	r.Register(NewFunctionTool("b_tool", "", map[string]any{}, nil))

	assert.Equal(t, []string{"b_tool", "run_notes"}, r.Names())

	_, err := r.Get("missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	tools, err := r.Select("run_notes")
	require.NoError(t, err)
	assert.Len(t, tools, 1)

	_, err = r.Select("run_notes", "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestNotesTool(t *testing.T) {
	tc := newToolContext(t)
	notes := NewNotesTool()

	_, err := notes.Call(tc, map[string]any{"operation": "set", "key": "pricing", "value": "A undercuts B"})
	require.NoError(t, err)
	_, err = notes.Call(tc, map[string]any{"operation": "set", "key": "pricing", "value": "updated"})
	require.NoError(t, err)

	res, err := notes.Call(tc, map[string]any{"operation": "get", "key": "pricing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"key": "pricing", "exists": true, "value": "updated"}, res)

	res, err = notes.Call(tc, map[string]any{"operation": "list"})
	require.NoError(t, err)
	assert.Equal(t, []string{"pricing"}, res)

	_, err = notes.Call(tc, map[string]any{"operation": "drop"})
	assert.Error(t, err)
}
