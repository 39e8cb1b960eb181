package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentnet/network"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <network.json>",
		Short: "Check a network description without running it",
		Long: `validate parses the description, checks that every agent and task
type is registered, instantiates the network and prints the execution order.
No model is called.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			an, err := root.offline(cmd.Context())
			if err != nil {
				return err
			}

			d, err := network.ReadDescription(args[0])
			if err != nil {
				printStatus(out, "✗", err.Error(), color.FgRed)
				return err
			}

			printStatus(out, "✓", fmt.Sprintf("Parsed %d agents, %d tasks, %d connections", len(d.Agents), len(d.Tasks), len(d.Connections)), color.FgGreen)

			n := an.NewNetwork("")
			if err := n.Apply(d); err != nil {
				printStatus(out, "✗", err.Error(), color.FgRed)
				return err
			}

			order, err := n.Order()
			if err != nil {
				printStatus(out, "✗", err.Error(), color.FgRed)
				return err
			}

			printStatus(out, "✓", "No dependency cycles", color.FgGreen)

			if err := n.Instantiate(); err != nil {
				printStatus(out, "✗", err.Error(), color.FgRed)
				return err
			}

			printStatus(out, "✓", "All agent and task types resolved", color.FgGreen)
			fmt.Fprintf(out, "\nExecution order: %s\n", strings.Join(order, " -> "))

			return nil
		},
	}
}
