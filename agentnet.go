// Package agentnet assembles networks of LLM agents and tasks from
// declarative descriptions and runs them in dependency order.
//
// Most applications:
//  1. Create an AgentNet via New with a model.Model (or FromConfig)
//  2. Describe a network in code or as JSON (agents, tasks, connections)
//  3. Run it and read the combined report
//
// The built-in corporate and marketing domains are registered by default;
// custom domains are added through Options.Domains or the factory registry.
package agentnet

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agentnet/artifact"
	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/definition"
	"github.com/hupe1980/agentnet/domain"
	"github.com/hupe1980/agentnet/domain/corporate"
	"github.com/hupe1980/agentnet/domain/marketing"
	"github.com/hupe1980/agentnet/engine"
	"github.com/hupe1980/agentnet/factory"
	"github.com/hupe1980/agentnet/logging"
	"github.com/hupe1980/agentnet/model"
	"github.com/hupe1980/agentnet/network"
	"github.com/hupe1980/agentnet/service"
	"github.com/hupe1980/agentnet/session"
	"github.com/hupe1980/agentnet/tool"
	"github.com/hupe1980/agentnet/tool/web"
)

// Options configures an AgentNet.
type Options struct {
	// Model drives every definition-backed agent. Required.
	Model model.Model

	// Loader reads agent and task definitions. Defaults to the embedded
	// definitions.
	Loader *definition.Loader

	// Tools resolves the tools named by agent definitions. Defaults to
	// DefaultTools().
	Tools *tool.Registry

	// Domains are registered in addition to the built-in ones.
	Domains []domain.Domain
	// SkipBuiltins leaves out the corporate and marketing domains.
	SkipBuiltins bool

	// EngineConfig bounds concurrent runs, model calls and task time.
	EngineConfig engine.Config
	// MaxIterations bounds model calls per task. 0 uses the agent default.
	MaxIterations int
	// ToolParallelism bounds concurrent tool calls of one model turn.
	ToolParallelism int
	// ToolTimeout bounds a single tool call.
	ToolTimeout time.Duration

	// Stores (default to in-memory implementations if not provided)
	SessionStore core.SessionStore
	Reports      artifact.Store

	Callbacks *engine.CallbackManager

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentNet bundles the registry, engine and network service.
type AgentNet struct {
	*service.Service

	loader *definition.Loader
	env    *domain.Env
}

// New creates an AgentNet. Unset stores are in-memory.
func New(optFns ...func(o *Options)) (*AgentNet, error) {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		SessionStore: session.NewInMemoryStore(),
		Reports:      artifact.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Model == nil {
		return nil, fmt.Errorf("%w: a model is required", core.ErrInvalidArgument)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.Loader == nil {
		opts.Loader = definition.NewLoader(func(o *definition.LoaderOptions) { o.Logger = opts.Logger })
	}

	if opts.Tools == nil {
		opts.Tools = DefaultTools()
	}

	env := &domain.Env{
		Loader:          opts.Loader,
		Model:           opts.Model,
		Tools:           opts.Tools,
		MaxIterations:   opts.MaxIterations,
		ToolParallelism: opts.ToolParallelism,
		ToolTimeout:     opts.ToolTimeout,
		Logger:          opts.Logger,
	}

	reg := factory.NewRegistry()

	domains := opts.Domains
	if !opts.SkipBuiltins {
		domains = append([]domain.Domain{corporate.Domain, marketing.Domain}, domains...)
	}

	for _, d := range domains {
		if err := d.Register(reg, env); err != nil {
			return nil, fmt.Errorf("register domain %s: %w", d.Name, err)
		}
	}

	eng := engine.New(func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.SessionStore = opts.SessionStore
		o.Callbacks = opts.Callbacks
		o.Logger = opts.Logger
	})

	svc := service.New(reg, func(o *service.Options) {
		o.Engine = eng
		o.Reports = opts.Reports
		o.Loader = opts.Loader
		o.Logger = opts.Logger
	})

	return &AgentNet{Service: svc, loader: opts.Loader, env: env}, nil
}

// Loader returns the definition loader.
func (a *AgentNet) Loader() *definition.Loader { return a.loader }

// Env returns the constructor environment, for registering further
// domains against the same model and tools.
func (a *AgentNet) Env() *domain.Env { return a.env }

// RegisterDomain adds a domain after construction.
func (a *AgentNet) RegisterDomain(d domain.Domain) error {
	return d.Register(a.Registry(), a.env)
}

// ExecuteJSON builds and runs a throwaway network from its JSON description.
func (a *AgentNet) ExecuteJSON(ctx context.Context, data []byte) (*service.RunResult, error) {
	d, err := network.ParseDescription(data)
	if err != nil {
		return nil, err
	}

	return a.Execute(ctx, d)
}

// DefaultTools returns a registry with run_notes, web_search and
// scrape_website.
func DefaultTools(optFns ...func(o *web.Options)) *tool.Registry {
	reg := tool.NewRegistry(tool.NewNotesTool())
	for _, t := range web.Tools(optFns...) {
		reg.Register(t)
	}
	return reg
}
