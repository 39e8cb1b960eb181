package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentnet"
	"github.com/hupe1980/agentnet/config"
	"github.com/hupe1980/agentnet/logging"
)

type rootOptions struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "agentnet",
		Short: "Build and run networks of LLM agents",
		Long: `agentnet assembles agents and tasks from a JSON network description,
orders the tasks by their dependencies and runs them one after another,
passing every result on to the tasks that follow.

Agents and tasks are typed per domain (corporate, marketing); their role,
goal, backstory and task text come from markdown definitions.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Dotenv file to read when present")

	cmd.AddCommand(
		newServeCmd(opts),
		newRunCmd(opts),
		newValidateCmd(opts),
		newTypesCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	return config.Load(o.configPath, func(lo *config.LoadOptions) { lo.EnvFile = o.envFile })
}

// offline builds an AgentNet on the mock model for commands that never
// call an LLM.
func (o *rootOptions) offline(ctx context.Context) (*agentnet.AgentNet, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}

	cfg.Model = config.ModelConfig{Provider: "mock"}

	return agentnet.FromConfig(ctx, cfg, logging.NoOpLogger{})
}

func printStatus(w io.Writer, symbol, message string, attr color.Attribute) {
	fmt.Fprintf(w, "%s %s\n", color.New(attr).Sprint(symbol), message)
}
