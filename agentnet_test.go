package agentnet

import (
	"context"
	"testing"

	"github.com/hupe1980/agentnet/config"
	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/domain"
	"github.com/hupe1980/agentnet/model"
	"github.com/hupe1980/agentnet/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const corporateNetwork = `{
  "agents": [
    {"id": "agent1", "type": "meeting_summarizer", "domain": "corporate", "params": {"company": "Acme"}},
    {"id": "agent2", "type": "smart_email_manager", "domain": "corporate"}
  ],
  "tasks": [
    {"id": "task1", "type": "meeting_summarization", "domain": "corporate", "agent_id": "agent1",
     "params": {"meeting_text": "Discussion about Q3 results", "company": "Acme"}},
    {"id": "task2", "type": "smart_email_management", "domain": "corporate", "agent_id": "agent2",
     "params": {"email_content": "Draft email about Q3 results"}}
  ],
  "connections": [{"from": "task1", "to": "task2"}]
}`

func TestNew_RequiresModel(t *testing.T) {
	_, err := New()
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestNew_Builtins(t *testing.T) {
	an, err := New(func(o *Options) { o.Model = model.NewMockModel("mock") })
	require.NoError(t, err)

	assert.Equal(t, []string{"corporate", "marketing"}, an.Registry().Domains())
	assert.Contains(t, an.AgentTypes()["marketing"], "seo_specialist")
}

func TestNew_SkipBuiltins(t *testing.T) {
	an, err := New(func(o *Options) {
		o.Model = model.NewMockModel("mock")
		o.SkipBuiltins = true
	})
	require.NoError(t, err)
	assert.Empty(t, an.Registry().Domains())

	err = an.RegisterDomain(domain.Domain{Name: "corporate", TaskTypes: []string{"meeting_summarization"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"meeting_summarization"}, an.Registry().TaskTypes("corporate"))
}

func TestNew_UnknownDomainDefinition(t *testing.T) {
	_, err := New(func(o *Options) {
		o.Model = model.NewMockModel("mock")
		o.Domains = []domain.Domain{{Name: "legal", AgentTypes: []string{"lawyer"}}}
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestExecuteJSON(t *testing.T) {
	llm := model.NewMockModel("mock").
		EnqueueText("Summary: Q3 revenue grew.").
		EnqueueText(`{"email": "Dear team, Q3 revenue grew."}`)

	an, err := New(func(o *Options) { o.Model = llm })
	require.NoError(t, err)

	res, err := an.ExecuteJSON(context.Background(), []byte(corporateNetwork))
	require.NoError(t, err)

	assert.Equal(t, service.RunCompleted, res.Status)
	assert.Equal(t, []string{"task1", "task2"}, res.Order)
	assert.Equal(t, map[string]any{
		"task_task1_output": "Summary: Q3 revenue grew.",
		"email":             "Dear team, Q3 revenue grew.",
	}, res.Report.FinalSummary)

	reqs := llm.Requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[0].Contents[0].Text(), "Acme")
	// the second task sees the first task's output as context
	assert.Contains(t, reqs[1].Contents[0].Text(), "Summary: Q3 revenue grew.")

	sess, err := an.Engine().SessionStore().Get(res.RunID)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Events)
}

func TestExecuteJSON_Invalid(t *testing.T) {
	an, err := New(func(o *Options) { o.Model = model.NewMockModel("mock") })
	require.NoError(t, err)

	_, err = an.ExecuteJSON(context.Background(), []byte(`{"agents": `))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestNewModel(t *testing.T) {
	m, err := NewModel(context.Background(), config.ModelConfig{Provider: "mock"})
	require.NoError(t, err)
	assert.Equal(t, "mock", m.Info().Provider)

	m, err = NewModel(context.Background(), config.ModelConfig{Provider: "openai", APIKey: "sk-test", Name: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "openai", m.Info().Provider)

	m, err = NewModel(context.Background(), config.ModelConfig{Provider: "anthropic", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", m.Info().Provider)

	_, err = NewModel(context.Background(), config.ModelConfig{Provider: "cohere"})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		Model:   config.ModelConfig{Provider: "mock"},
		Engine:  config.EngineConfig{MaxConcurrentRuns: 2, MaxModelCalls: 10},
		Logging: config.LoggingConfig{Level: "info", Format: "text"},
		Storage: config.StorageConfig{ReportsDir: t.TempDir()},
	}

	an, err := FromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)

	res, err := an.ExecuteJSON(context.Background(), []byte(corporateNetwork))
	require.NoError(t, err)
	assert.Equal(t, service.RunCompleted, res.Status)

	runs, err := an.Runs(service.AdhocNetworkID)
	require.NoError(t, err)
	assert.Equal(t, []string{res.RunID}, runs)

	cfg.Model.Provider = "cohere"
	_, err = FromConfig(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}
