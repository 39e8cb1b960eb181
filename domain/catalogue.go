package domain

import (
	"errors"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/definition"
	"github.com/hupe1980/agentnet/factory"
)

// TypeInfo describes one agent or task type.
type TypeInfo struct {
	Type       string         `json:"type"`
	Summary    string         `json:"summary,omitempty"`
	Params     []string       `json:"params"`
	Defaults   map[string]any `json:"defaults,omitempty"`
	Tools      []string       `json:"tools,omitempty"`
	OutputJSON bool           `json:"output_json,omitempty"`
}

// Info describes a registered domain.
type Info struct {
	Name   string     `json:"name"`
	Agents []TypeInfo `json:"agents"`
	Tasks  []TypeInfo `json:"tasks"`
}

// Catalogue lists every registered domain with its types. Front matter of
// the matching definition is attached when one exists.
func Catalogue(reg *factory.Registry, loader *definition.Loader) ([]Info, error) {
	domains := reg.Domains()
	out := make([]Info, 0, len(domains))

	for _, d := range domains {
		info := Info{Name: d, Agents: []TypeInfo{}, Tasks: []TypeInfo{}}

		for _, typ := range reg.AgentTypes(d) {
			ti, err := describe(loader, definition.KindAgent, d, typ)
			if err != nil {
				return nil, err
			}
			info.Agents = append(info.Agents, ti)
		}

		for _, typ := range reg.TaskTypes(d) {
			ti, err := describe(loader, definition.KindTask, d, typ)
			if err != nil {
				return nil, err
			}
			info.Tasks = append(info.Tasks, ti)
		}

		out = append(out, info)
	}

	return out, nil
}

// Describe returns the type info of a single registered type.
func Describe(reg *factory.Registry, loader *definition.Loader, kind definition.Kind, domain, typ string) (TypeInfo, error) {
	var err error
	if kind == definition.KindAgent {
		_, err = reg.Agent(domain, typ)
	} else {
		_, err = reg.Task(domain, typ)
	}
	if err != nil {
		return TypeInfo{}, err
	}

	return describe(loader, kind, domain, typ)
}

func describe(loader *definition.Loader, kind definition.Kind, domain, typ string) (TypeInfo, error) {
	ti := TypeInfo{Type: typ, Params: []string{}}
	if loader == nil {
		return ti, nil
	}

	meta, err := loader.Meta(kind, domain, typ)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ti, nil
		}
		return TypeInfo{}, err
	}

	ti.Summary = meta.Summary
	if meta.Params != nil {
		ti.Params = meta.Params
	}
	ti.Defaults = meta.Defaults
	ti.Tools = meta.Tools
	ti.OutputJSON = meta.OutputJSON

	return ti, nil
}
