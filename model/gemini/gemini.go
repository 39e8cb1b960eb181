// Package gemini provides a model.Model backed by the Google Gemini API via
// the google.golang.org/genai SDK.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/model"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Options configure the Gemini model adapter.
type Options struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	APIKey          string
}

// Model wraps the Gemini GenerateContent API behind the generic model.Model interface.
type Model struct {
	client *genai.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:           DefaultModel,
		Temperature:     0.7,
		MaxOutputTokens: 4096,
	}
}

// NewModel creates a Gemini model talking to the Gemini Developer API.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	return &Model{client: client, opts: opts}, nil
}

// NewModelFromClient creates a Gemini model from an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts}
}

// Generate implements model.Model with a single GenerateContent call.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		result, err := m.client.Models.GenerateContent(ctx, m.opts.Model, buildContents(req.Contents), m.buildConfig(req))
		if err != nil {
			errCh <- fmt.Errorf("gemini api error: %w", err)
			return
		}

		resp, err := toResponse(result)
		if err != nil {
			errCh <- err
			return
		}

		out <- resp
	}()

	return out, errCh
}

func (m *Model) buildConfig(req model.Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(m.opts.Temperature),
		MaxOutputTokens: m.opts.MaxOutputTokens,
	}

	if req.Instructions != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.Instructions}}}
	}

	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, len(req.Tools))
		for i, t := range req.Tools {
			decls[i] = &genai.FunctionDeclaration{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  toSchema(t.Function.Parameters),
			}
		}
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	return cfg
}

// buildContents maps roles onto Gemini's user/model pair. Tool responses are
// returned to the model as user-role function responses.
func buildContents(contents []core.Content) []*genai.Content {
	var out []*genai.Content

	for _, c := range contents {
		var parts []*genai.Part

		for _, p := range c.Parts {
			switch part := p.(type) {
			case core.TextPart:
				if part.Text != "" {
					parts = append(parts, &genai.Part{Text: part.Text})
				}
			case core.FunctionCallPart:
				args := map[string]any{}
				_ = json.Unmarshal([]byte(part.FunctionCall.Arguments), &args)
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{Name: part.FunctionCall.Name, Args: args}})
			case core.FunctionResponsePart:
				parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					Name:     part.FunctionResponse.Name,
					Response: responseMap(part.FunctionResponse),
				}})
			}
		}

		if len(parts) == 0 {
			continue
		}

		role := "user"
		if c.Role == "assistant" {
			role = "model"
		}

		out = append(out, &genai.Content{Role: role, Parts: parts})
	}

	return out
}

func responseMap(fr core.FunctionResponse) map[string]any {
	if fr.Error != "" {
		return map[string]any{"error": fr.Error}
	}

	if m, ok := fr.Response.(map[string]any); ok {
		return m
	}

	return map[string]any{"output": fr.Response}
}

func toResponse(result *genai.GenerateContentResponse) (model.Response, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return model.Response{}, fmt.Errorf("gemini: no candidates returned")
	}

	cand := result.Candidates[0]

	var parts []core.Part

	finish := "stop"

	for _, p := range cand.Content.Parts {
		switch {
		case p.FunctionCall != nil:
			args, err := json.Marshal(p.FunctionCall.Args)
			if err != nil {
				return model.Response{}, fmt.Errorf("gemini: encode function args: %w", err)
			}
			id := p.FunctionCall.ID
			if id == "" {
				id = core.NewID()
			}
			parts = append(parts, core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: id, Name: p.FunctionCall.Name, Arguments: string(args)}})
			finish = "tool_calls"
		case p.Text != "":
			parts = append(parts, core.TextPart{Text: p.Text})
		}
	}

	resp := model.Response{
		Content:      core.Content{Role: "assistant", Parts: parts},
		FinishReason: finish,
	}

	if u := result.UsageMetadata; u != nil {
		resp.Usage = &model.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}

	return resp, nil
}

// toSchema converts a JSON schema map into a genai.Schema.
func toSchema(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}

	s := &genai.Schema{}

	switch t, _ := m["type"].(string); t {
	case "object":
		s.Type = genai.TypeObject
	case "array":
		s.Type = genai.TypeArray
	case "integer":
		s.Type = genai.TypeInteger
	case "number":
		s.Type = genai.TypeNumber
	case "boolean":
		s.Type = genai.TypeBoolean
	default:
		s.Type = genai.TypeString
	}

	if d, ok := m["description"].(string); ok {
		s.Description = d
	}

	if props, ok := m["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if pm, ok := raw.(map[string]any); ok {
				s.Properties[name] = toSchema(pm)
			}
		}
	}

	if items, ok := m["items"].(map[string]any); ok {
		s.Items = toSchema(items)
	}

	switch req := m["required"].(type) {
	case []string:
		s.Required = req
	case []any:
		for _, r := range req {
			if str, ok := r.(string); ok {
				s.Required = append(s.Required, str)
			}
		}
	}

	return s
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "gemini",
		SupportsTools: true,
	}
}
