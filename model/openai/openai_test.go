package openai

import (
	"testing"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages(t *testing.T) {
	req := model.Request{
		Instructions: "You are a summarizer.",
		Contents: []core.Content{
			core.NewTextContent("user", "summarize"),
			{Role: "assistant", Parts: []core.Part{core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "c1", Name: "scrape_website", Arguments: `{"url":"https://example.com"}`}}}},
			{Role: "tool", Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{ID: "c1", Name: "scrape_website", Response: "page"}}}},
		},
	}

	msgs := buildMessages(req)
	require.Len(t, msgs, 4)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	require.NotNil(t, msgs[2].OfAssistant)
	assert.Len(t, msgs[2].OfAssistant.ToolCalls, 1)
	require.NotNil(t, msgs[3].OfTool)
	assert.Equal(t, "c1", msgs[3].OfTool.ToolCallID)
}

func TestBuildParams_Tools(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.APIKey = "test"
		o.Model = "gpt-4o"
	})

	params := m.buildParams(model.Request{
		Contents: []core.Content{core.NewTextContent("user", "x")},
		Tools: []model.ToolDefinition{{
			Type:     "function",
			Function: model.FunctionDefinition{Name: "web_search", Parameters: map[string]any{"type": "object"}},
		}},
	})

	require.Len(t, params.Tools, 1)
	assert.Equal(t, "web_search", params.Tools[0].Function.Name)
	assert.Equal(t, "gpt-4o", m.Info().Name)
}

func TestResponseText(t *testing.T) {
	assert.Equal(t, "error: nope", responseText(core.FunctionResponse{Error: "nope"}))
	assert.Equal(t, "plain", responseText(core.FunctionResponse{Response: "plain"}))
	assert.JSONEq(t, `{"k":"v"}`, responseText(core.FunctionResponse{Response: map[string]string{"k": "v"}}))
}
