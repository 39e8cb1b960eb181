package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentnet"
	"github.com/hupe1980/agentnet/config"
	"github.com/hupe1980/agentnet/logging"
	"github.com/hupe1980/agentnet/service"
)

type runOptions struct {
	name        string
	description string
	output      string
	mock        bool
	verbose     bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <network.json>",
		Short: "Run a network description and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}

			if opts.mock {
				cfg.Model = config.ModelConfig{Provider: "mock"}
			}

			var logger logging.Logger = logging.NoOpLogger{}
			if opts.verbose {
				if logger, err = cfg.Logger(); err != nil {
					return err
				}
			}

			an, err := agentnet.FromConfig(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			const id = "cli"
			if err := an.LoadNetwork(id, args[0], nil); err != nil {
				return err
			}

			res, err := an.RunNetwork(cmd.Context(), id, opts.name, opts.description)
			if err != nil {
				return err
			}

			return writeResult(cmd, res, opts.output)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Crew name")
	cmd.Flags().StringVar(&opts.description, "description", "", "Crew description")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the run result to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.mock, "mock", false, "Use the mock model instead of the configured provider")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	return cmd
}

func writeResult(cmd *cobra.Command, res *service.RunResult, path string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()

	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		printStatus(errOut, "✓", "Result written to "+path, color.FgGreen)
	}

	if res.Status == service.RunFailed {
		printStatus(errOut, "✗", fmt.Sprintf("Run %s failed at task %s: %s", res.RunID, res.FailedTask, res.Error), color.FgRed)
		return fmt.Errorf("run failed")
	}

	printStatus(errOut, "✓", fmt.Sprintf("Run %s completed %d tasks in %dms", res.RunID, len(res.Order), res.DurationMS), color.FgGreen)

	return nil
}
