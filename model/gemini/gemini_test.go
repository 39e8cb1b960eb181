package gemini

import (
	"testing"

	"github.com/hupe1980/agentnet/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestToSchema(t *testing.T) {
	s := toSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string", "description": "search query"},
			"tags":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"query"},
	})

	require.NotNil(t, s)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, genai.TypeString, s.Properties["query"].Type)
	assert.Equal(t, "search query", s.Properties["query"].Description)
	assert.Equal(t, genai.TypeArray, s.Properties["tags"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["tags"].Items.Type)
	assert.Equal(t, []string{"query"}, s.Required)
}

func TestBuildContents_Roles(t *testing.T) {
	contents := buildContents([]core.Content{
		core.NewTextContent("user", "hi"),
		{Role: "assistant", Parts: []core.Part{core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "1", Name: "web_search", Arguments: `{"query":"x"}`}}}},
		{Role: "tool", Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{ID: "1", Name: "web_search", Response: "found"}}}},
	})

	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "x", contents[1].Parts[0].FunctionCall.Args["query"])
	assert.Equal(t, "user", contents[2].Role)
	assert.Equal(t, map[string]any{"output": "found"}, contents[2].Parts[0].FunctionResponse.Response)
}

func TestToResponse(t *testing.T) {
	resp, err := toResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
			{Text: "thinking"},
			{FunctionCall: &genai.FunctionCall{Name: "scrape_website", Args: map[string]any{"url": "https://example.com"}}},
		}}}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 3, CandidatesTokenCount: 4, TotalTokenCount: 7},
	})
	require.NoError(t, err)

	assert.Equal(t, "tool_calls", resp.FinishReason)
	assert.Equal(t, "thinking", resp.Content.Text())
	calls := resp.Content.FunctionCalls()
	require.Len(t, calls, 1)
	assert.NotEmpty(t, calls[0].ID)
	assert.JSONEq(t, `{"url":"https://example.com"}`, calls[0].Arguments)
	assert.Equal(t, 7, resp.Usage.TotalTokens)

	_, err = toResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)
}
