package definition

import (
	"maps"
	"slices"

	"github.com/hupe1980/agentnet/internal/util"
)

// Kind selects the agent or task half of the resource store.
type Kind string

const (
	// KindAgent addresses agent definitions.
	KindAgent Kind = "agents"
	// KindTask addresses task definitions.
	KindTask Kind = "tasks"
)

// Meta is the optional YAML front matter of a definition resource.
type Meta struct {
	Summary  string         `yaml:"summary" json:"summary,omitempty"`
	Params   []string       `yaml:"params" json:"params"`
	Defaults map[string]any `yaml:"defaults" json:"defaults,omitempty"`
	Tools    []string       `yaml:"tools" json:"tools,omitempty"`
	// OutputJSON asks the task to parse its answer as a JSON object.
	OutputJSON bool `yaml:"output_json" json:"output_json,omitempty"`
}

// AgentDefinition is a rendered agent persona.
type AgentDefinition struct {
	Role      string
	Goal      string
	Backstory string
	Meta      Meta
}

// TaskDefinition is a rendered task assignment.
type TaskDefinition struct {
	Description    string
	ExpectedOutput string
	Meta           Meta
}

// document is a parsed but unrendered resource.
type document struct {
	meta     Meta
	sections map[string]string
}

func (d *document) render(section string, params map[string]any) string {
	return util.RenderTemplate(d.sections[section], params)
}

// mergeParams overlays params onto the resource defaults.
func (d *document) mergeParams(params map[string]any) map[string]any {
	merged := make(map[string]any, len(d.meta.Defaults)+len(params))
	maps.Copy(merged, d.meta.Defaults)
	maps.Copy(merged, params)

	return merged
}

func cloneMeta(m Meta) Meta {
	m.Params = slices.Clone(m.Params)
	m.Tools = slices.Clone(m.Tools)
	m.Defaults = maps.Clone(m.Defaults)

	return m
}
