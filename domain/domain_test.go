package domain_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/hupe1980/agentnet/agent"
	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/definition"
	"github.com/hupe1980/agentnet/domain"
	"github.com/hupe1980/agentnet/domain/corporate"
	"github.com/hupe1980/agentnet/domain/marketing"
	"github.com/hupe1980/agentnet/factory"
	"github.com/hupe1980/agentnet/model"
	"github.com/hupe1980/agentnet/tool"
	"github.com/hupe1980/agentnet/tool/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(llm model.Model) *domain.Env {
	tools := tool.NewRegistry(tool.NewNotesTool())
	for _, t := range web.Tools() {
		tools.Register(t)
	}

	return &domain.Env{
		Loader: definition.NewLoader(),
		Model:  llm,
		Tools:  tools,
	}
}

func builtins(t *testing.T, env *domain.Env) *factory.Registry {
	t.Helper()

	reg := factory.NewRegistry()
	require.NoError(t, corporate.Register(reg, env))
	require.NoError(t, marketing.Register(reg, env))

	return reg
}

func TestRegister_Builtins(t *testing.T) {
	reg := builtins(t, newEnv(model.NewMockModel("mock")))

	assert.Equal(t, []string{"corporate", "marketing"}, reg.Domains())
	assert.ElementsMatch(t, corporate.Domain.AgentTypes, reg.AgentTypes("corporate"))
	assert.ElementsMatch(t, corporate.Domain.TaskTypes, reg.TaskTypes("corporate"))
	assert.ElementsMatch(t, marketing.Domain.AgentTypes, reg.AgentTypes("marketing"))
	assert.ElementsMatch(t, marketing.Domain.TaskTypes, reg.TaskTypes("marketing"))
}

func TestRegister_Twice(t *testing.T) {
	env := newEnv(model.NewMockModel("mock"))
	reg := builtins(t, env)

	err := corporate.Register(reg, env)
	assert.ErrorIs(t, err, core.ErrAlreadyExists)
}

func TestRegister_MissingDefinition(t *testing.T) {
	d := domain.Domain{Name: "corporate", AgentTypes: []string{"unknown_agent"}}

	err := d.Register(factory.NewRegistry(), newEnv(nil))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRegister_NoLoader(t *testing.T) {
	err := corporate.Register(factory.NewRegistry(), &domain.Env{})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestAgentConstructor(t *testing.T) {
	reg := builtins(t, newEnv(model.NewMockModel("mock")))

	h, err := reg.NewAgent(factory.AgentSpec{
		ID:     "summarizer",
		Type:   "meeting_summarizer",
		Domain: "corporate",
		Params: map[string]any{"company": "Acme"},
	})
	require.NoError(t, err)

	a, ok := h.(*agent.Agent)
	require.True(t, ok)
	assert.Equal(t, "summarizer", a.Name())
	assert.Equal(t, "Meeting Summarizer", a.Role())
	assert.Contains(t, a.Persona().Goal, "Acme")
	assert.Equal(t, []string{"run_notes"}, a.ToolNames())
}

func TestAgentConstructor_WebTools(t *testing.T) {
	reg := builtins(t, newEnv(model.NewMockModel("mock")))

	h, err := reg.NewAgent(factory.AgentSpec{ID: "seo", Type: "seo_specialist", Domain: "marketing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"scrape_website", "web_search"}, h.(*agent.Agent).ToolNames())
}

func TestAgentConstructor_UnknownTool(t *testing.T) {
	env := newEnv(model.NewMockModel("mock"))
	env.Tools = tool.NewRegistry()
	reg := builtins(t, env)

	_, err := reg.NewAgent(factory.AgentSpec{ID: "seo", Type: "seo_specialist", Domain: "marketing"})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAgentConstructor_NoToolRegistry(t *testing.T) {
	env := newEnv(model.NewMockModel("mock"))
	env.Tools = nil
	reg := builtins(t, env)

	_, err := reg.NewAgent(factory.AgentSpec{ID: "seo", Type: "seo_specialist", Domain: "marketing"})
	assert.ErrorIs(t, err, core.ErrPreconditionFailed)
}

func TestTaskConstructor_Execute(t *testing.T) {
	llm := model.NewMockModel("mock").EnqueueText("Decisions: ship it.")
	reg := builtins(t, newEnv(llm))

	a, err := reg.NewAgent(factory.AgentSpec{
		ID:     "summarizer",
		Type:   "meeting_summarizer",
		Domain: "corporate",
		Params: map[string]any{"company": "Acme"},
	})
	require.NoError(t, err)

	tk, err := reg.NewTask(factory.TaskSpec{
		ID:      "summary",
		Type:    "meeting_summarization",
		Domain:  "corporate",
		AgentID: "summarizer",
		Agent:   a,
		Params:  map[string]any{"company": "Acme", "meeting_text": "We agreed to ship."},
	})
	require.NoError(t, err)

	rc, err := core.NewRunContext(context.Background(), "run-1")
	require.NoError(t, err)

	out, err := tk.Execute(rc, nil)
	require.NoError(t, err)
	assert.Equal(t, "summary", out.TaskName)
	assert.Equal(t, "summarizer", out.AgentName)
	assert.Equal(t, "Decisions: ship it.", out.Raw)

	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Instructions, "You are Meeting Summarizer.")
	prompt := reqs[0].Contents[0].Text()
	assert.Contains(t, prompt, "Summarize the latest meeting at Acme.")
	assert.Contains(t, prompt, "We agreed to ship.")
	assert.NotContains(t, prompt, "pdf_path")
}

func TestTaskConstructor_OutputJSON(t *testing.T) {
	llm := model.NewMockModel("mock").EnqueueText(`{"products": ["Widget"]}`)
	reg := builtins(t, newEnv(llm))

	a, err := reg.NewAgent(factory.AgentSpec{ID: "recommender", Type: "product_recommender", Domain: "marketing"})
	require.NoError(t, err)

	tk, err := reg.NewTask(factory.TaskSpec{
		ID:      "recommend",
		Type:    "product_recommendation",
		Domain:  "marketing",
		AgentID: "recommender",
		Agent:   a,
	})
	require.NoError(t, err)

	rc, err := core.NewRunContext(context.Background(), "run-1")
	require.NoError(t, err)

	out, err := tk.Execute(rc, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"Widget"}, out.Structured["products"])
}

func TestCatalogue(t *testing.T) {
	env := newEnv(nil)
	reg := builtins(t, env)

	infos, err := domain.Catalogue(reg, env.Loader)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	corp := infos[0]
	assert.Equal(t, "corporate", corp.Name)
	require.Len(t, corp.Agents, len(corporate.Domain.AgentTypes))
	require.Len(t, corp.Tasks, len(corporate.Domain.TaskTypes))

	var summarizer domain.TypeInfo
	for _, ti := range corp.Agents {
		if ti.Type == "meeting_summarizer" {
			summarizer = ti
		}
	}
	assert.Equal(t, []string{"company"}, summarizer.Params)
	assert.Equal(t, []string{"run_notes"}, summarizer.Tools)
	assert.NotEmpty(t, summarizer.Summary)

	mkt := infos[1]
	for _, ti := range mkt.Tasks {
		assert.Equal(t, ti.Type == "product_recommendation", ti.OutputJSON, ti.Type)
	}
}

func TestDescribe(t *testing.T) {
	env := newEnv(nil)
	reg := builtins(t, env)

	ti, err := domain.Describe(reg, env.Loader, definition.KindTask, "corporate", "meeting_summarization")
	require.NoError(t, err)
	assert.Equal(t, []string{"meeting_text", "pdf_path"}, ti.Params)

	_, err = domain.Describe(reg, env.Loader, definition.KindAgent, "legal", "lawyer")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCatalogue_TypeWithoutDefinition(t *testing.T) {
	reg := factory.NewRegistry()
	require.NoError(t, reg.RegisterAgent("custom", "helper", func(spec factory.AgentSpec) (core.Agent, error) {
		return nil, nil
	}))

	loader := definition.NewLoader(func(o *definition.LoaderOptions) { o.FS = fstest.MapFS{} })

	infos, err := domain.Catalogue(reg, loader)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, domain.TypeInfo{Type: "helper", Params: []string{}}, infos[0].Agents[0])
}
