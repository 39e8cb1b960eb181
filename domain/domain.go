// Package domain turns definition resources into executable handles.
//
// A domain (corporate, marketing, ...) is a named set of agent and task
// types. Registering a domain binds each type to a constructor that loads
// the matching definition, renders it with the node params and builds an
// agent.Agent or task.Task from it.
package domain

import (
	"fmt"
	"time"

	"github.com/hupe1980/agentnet/agent"
	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/definition"
	"github.com/hupe1980/agentnet/factory"
	"github.com/hupe1980/agentnet/logging"
	"github.com/hupe1980/agentnet/model"
	"github.com/hupe1980/agentnet/task"
	"github.com/hupe1980/agentnet/tool"
)

// Env carries the collaborators shared by every constructor.
type Env struct {
	Loader *definition.Loader
	Model  model.Model
	// Tools resolves the tool names listed in agent definitions.
	Tools *tool.Registry
	// MaxIterations bounds model calls per assignment; 0 uses the agent
	// default.
	MaxIterations int
	// ToolParallelism bounds concurrent tool calls of one model turn.
	ToolParallelism int
	// ToolTimeout bounds a single tool call.
	ToolTimeout time.Duration
	Logger      logging.Logger
}

func (e *Env) logger() logging.Logger {
	if e.Logger == nil {
		return logging.NoOpLogger{}
	}
	return e.Logger
}

// Domain lists the types a domain provides.
type Domain struct {
	Name       string
	AgentTypes []string
	TaskTypes  []string
}

// Register binds every type of d to a definition-backed constructor. Each
// type must have a definition resource; a missing one fails with
// core.ErrNotFound.
func (d Domain) Register(reg *factory.Registry, env *Env) error {
	if env == nil || env.Loader == nil {
		return fmt.Errorf("%w: domain %s needs a definition loader", core.ErrInvalidArgument, d.Name)
	}

	for _, typ := range d.AgentTypes {
		if !env.Loader.Exists(definition.KindAgent, d.Name, typ) {
			return fmt.Errorf("%w: agent definition %s/%s", core.ErrNotFound, d.Name, typ)
		}
		if err := reg.RegisterAgent(d.Name, typ, AgentConstructor(env)); err != nil {
			return err
		}
	}

	for _, typ := range d.TaskTypes {
		if !env.Loader.Exists(definition.KindTask, d.Name, typ) {
			return fmt.Errorf("%w: task definition %s/%s", core.ErrNotFound, d.Name, typ)
		}
		if err := reg.RegisterTask(d.Name, typ, TaskConstructor(env)); err != nil {
			return err
		}
	}

	env.logger().Debug("domain.registered", "domain", d.Name, "agents", len(d.AgentTypes), "tasks", len(d.TaskTypes))

	return nil
}

// AgentConstructor builds agents from agent definitions.
func AgentConstructor(env *Env) factory.AgentConstructor {
	return func(spec factory.AgentSpec) (core.Agent, error) {
		def, err := env.Loader.LoadAgent(spec.Domain, spec.Type, spec.Params)
		if err != nil {
			return nil, err
		}

		var tools []tool.Tool
		if len(def.Meta.Tools) > 0 {
			if env.Tools == nil {
				return nil, fmt.Errorf("%w: agent %s needs tools %v but no tool registry is configured", core.ErrPreconditionFailed, spec.ID, def.Meta.Tools)
			}

			tools, err = env.Tools.Select(def.Meta.Tools...)
			if err != nil {
				return nil, fmt.Errorf("agent %s: %w", spec.ID, err)
			}
		}

		return agent.New(spec.ID, env.Model, func(o *agent.Options) {
			o.Persona = agent.Persona{Role: def.Role, Goal: def.Goal, Backstory: def.Backstory}
			o.Tools = tools
			o.MaxIterations = env.MaxIterations
			o.Executor = agent.NewToolExecutor(agent.ExecutorConfig{
				MaxParallel: env.ToolParallelism,
				Timeout:     env.ToolTimeout,
			})
		}), nil
	}
}

// TaskConstructor builds tasks from task definitions.
func TaskConstructor(env *Env) factory.TaskConstructor {
	return func(spec factory.TaskSpec) (core.Task, error) {
		def, err := env.Loader.LoadTask(spec.Domain, spec.Type, spec.Params)
		if err != nil {
			return nil, err
		}

		return task.New(spec.ID, spec.Agent, func(o *task.Options) {
			o.Description = def.Description
			o.ExpectedOutput = def.ExpectedOutput
			o.OutputJSON = def.Meta.OutputJSON
		}), nil
	}
}
