package anthropic

import (
	"testing"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages_ToolResultsInUserMessage(t *testing.T) {
	contents := []core.Content{
		core.NewTextContent("system", "ignored here"),
		core.NewTextContent("user", "research acme"),
		{Role: "assistant", Parts: []core.Part{core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "c1", Name: "web_search", Arguments: `{"query":"acme"}`}}}},
		{Role: "tool", Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{ID: "c1", Name: "web_search", Response: "result"}}}},
	}

	msgs := buildMessages(contents)
	require.Len(t, msgs, 3)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Equal(t, "user", string(msgs[2].Role))
	require.Len(t, msgs[2].Content, 1)
	assert.NotNil(t, msgs[2].Content[0].OfToolResult)
}

func TestBuildSystem(t *testing.T) {
	blocks := buildSystem(model.Request{
		Instructions: "You are an analyst.",
		Contents:     []core.Content{core.NewTextContent("system", "Be brief.")},
	})

	require.Len(t, blocks, 2)
	assert.Equal(t, "You are an analyst.", blocks[0].Text)
	assert.Equal(t, "Be brief.", blocks[1].Text)
}

func TestResponseText(t *testing.T) {
	text, isErr := responseText(core.FunctionResponse{Error: "failed"})
	assert.True(t, isErr)
	assert.Equal(t, "failed", text)

	text, isErr = responseText(core.FunctionResponse{Response: map[string]any{"a": 1}})
	assert.False(t, isErr)
	assert.JSONEq(t, `{"a":1}`, text)
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "test" })
	assert.Equal(t, "anthropic", m.Info().Provider)
}
