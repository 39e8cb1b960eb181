package factory

import (
	"testing"

	"github.com/hupe1980/agentnet/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAgent struct{ name string }

func (a stubAgent) Name() string { return a.name }
func (a stubAgent) Role() string { return "stub" }
func (a stubAgent) Perform(*core.RunContext, core.Assignment) (string, error) {
	return "ok", nil
}

type stubTask struct {
	name  string
	agent core.Agent
}

func (t stubTask) Name() string       { return t.name }
func (t stubTask) Agent() core.Agent { return t.agent }
func (t stubTask) Execute(*core.RunContext, []core.TaskOutput) (core.TaskOutput, error) {
	return core.TaskOutput{TaskName: t.name}, nil
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterAgent("corporate", "analyst", func(s AgentSpec) (core.Agent, error) {
		return stubAgent{name: s.ID}, nil
	}))
	require.NoError(t, r.RegisterTask("corporate", "report", func(s TaskSpec) (core.Task, error) {
		return stubTask{name: s.ID, agent: s.Agent}, nil
	}))

	a, err := r.NewAgent(AgentSpec{ID: "a1", Type: "analyst", Domain: "corporate"})
	require.NoError(t, err)
	assert.Equal(t, "a1", a.Name())

	task, err := r.NewTask(TaskSpec{ID: "t1", Type: "report", Domain: "corporate", Agent: a})
	require.NoError(t, err)
	assert.Equal(t, "a1", task.Agent().Name())

	assert.Equal(t, []string{"corporate"}, r.Domains())
	assert.Equal(t, []string{"analyst"}, r.AgentTypes("corporate"))
	assert.Equal(t, []string{"report"}, r.TaskTypes("corporate"))
	assert.Empty(t, r.AgentTypes("marketing"))
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()
	ctor := func(AgentSpec) (core.Agent, error) { return stubAgent{}, nil }

	require.NoError(t, r.RegisterAgent("corporate", "analyst", ctor))
	assert.ErrorIs(t, r.RegisterAgent("corporate", "analyst", ctor), core.ErrAlreadyExists)
	assert.ErrorIs(t, r.RegisterAgent("", "analyst", ctor), core.ErrInvalidArgument)
	assert.ErrorIs(t, r.RegisterTask("corporate", "report", nil), core.ErrInvalidArgument)

	_, err := r.Agent("legal", "analyst")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Contains(t, err.Error(), "domain")

	_, err = r.Agent("corporate", "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = r.NewTask(TaskSpec{Domain: "corporate", Type: "missing"})
	assert.ErrorIs(t, err, core.ErrNotFound)
}
