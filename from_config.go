package agentnet

import (
	"context"
	"fmt"
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/agentnet/artifact"
	"github.com/hupe1980/agentnet/config"
	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/definition"
	"github.com/hupe1980/agentnet/engine"
	"github.com/hupe1980/agentnet/logging"
	"github.com/hupe1980/agentnet/model"
	"github.com/hupe1980/agentnet/model/anthropic"
	"github.com/hupe1980/agentnet/model/gemini"
	"github.com/hupe1980/agentnet/model/openai"
	"github.com/hupe1980/agentnet/tool/web"
)

// NewModel builds the model selected by cfg.
func NewModel(ctx context.Context, cfg config.ModelConfig) (model.Model, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewModel(ctx, func(o *gemini.Options) {
			o.APIKey = cfg.APIKey
			o.Temperature = float32(cfg.Temperature)
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			if cfg.MaxTokens > 0 {
				o.MaxOutputTokens = int32(cfg.MaxTokens)
			}
		})
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = cfg.APIKey
			o.Temperature = cfg.Temperature
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			if cfg.MaxTokens > 0 {
				o.MaxCompletionTokens = int64(cfg.MaxTokens)
			}
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.APIKey
			o.Temperature = cfg.Temperature
			if cfg.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Name)
			}
			if cfg.MaxTokens > 0 {
				o.MaxTokens = int64(cfg.MaxTokens)
			}
		}), nil
	case "mock":
		name := cfg.Name
		if name == "" {
			name = "mock"
		}
		return model.NewMockModel(name), nil
	default:
		return nil, fmt.Errorf("%w: unknown model provider %q", core.ErrInvalidArgument, cfg.Provider)
	}
}

// FromConfig creates an AgentNet from loaded settings. optFns run after the
// settings are applied and may override them.
func FromConfig(ctx context.Context, cfg *config.Config, logger logging.Logger, optFns ...func(o *Options)) (*AgentNet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
	}

	llm, err := NewModel(ctx, cfg.Model)
	if err != nil {
		return nil, err
	}

	loaderOpts := func(o *definition.LoaderOptions) {
		o.DisableCache = cfg.Definitions.DisableCache
		o.Logger = logger
	}

	var loader *definition.Loader
	if cfg.Definitions.Dir != "" {
		loader = definition.NewLoader(loaderOpts, func(o *definition.LoaderOptions) {
			o.FS = os.DirFS(cfg.Definitions.Dir)
		})
	} else {
		loader = definition.NewLoader(loaderOpts)
	}

	var reports artifact.Store
	if cfg.Storage.ReportsDir != "" {
		reports = artifact.NewFileStore(cfg.Storage.ReportsDir)
	}

	tools := DefaultTools(func(o *web.Options) {
		if cfg.Tools.UserAgent != "" {
			o.UserAgent = cfg.Tools.UserAgent
		}
		if cfg.Tools.MaxResults > 0 {
			o.MaxResults = cfg.Tools.MaxResults
		}
		if cfg.Tools.MaxChars > 0 {
			o.MaxChars = cfg.Tools.MaxChars
		}
		if cfg.Tools.Timeout > 0 {
			o.Timeout = cfg.Tools.Timeout
		}
	})

	return New(append([]func(o *Options){func(o *Options) {
		o.Model = llm
		o.Loader = loader
		o.Tools = tools
		o.EngineConfig = engine.Config{
			MaxConcurrentRuns: cfg.Engine.MaxConcurrentRuns,
			MaxModelCalls:     cfg.Engine.MaxModelCalls,
			TaskTimeout:       cfg.Engine.TaskTimeout,
		}
		o.MaxIterations = cfg.Engine.MaxIterations
		o.ToolParallelism = cfg.Tools.Parallelism
		o.ToolTimeout = cfg.Tools.Timeout
		if reports != nil {
			o.Reports = reports
		}
		if logger != nil {
			o.Logger = logger
		}
	}}, optFns...)...)
}
