package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentnet/domain"
)

func newTypesCmd(root *rootOptions) *cobra.Command {
	var (
		domainName string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the agent and task types per domain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			an, err := root.offline(cmd.Context())
			if err != nil {
				return err
			}

			infos, err := an.Catalogue()
			if err != nil {
				return err
			}

			if domainName != "" {
				filtered := infos[:0]
				for _, info := range infos {
					if info.Name == domainName {
						filtered = append(filtered, info)
					}
				}
				infos = filtered
			}

			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			bold := color.New(color.Bold)
			for _, info := range infos {
				bold.Fprintf(out, "%s\n", info.Name)
				printTypes(out, "agents", info.Agents)
				printTypes(out, "tasks", info.Tasks)
				fmt.Fprintln(out)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&domainName, "domain", "d", "", "Only list this domain")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func printTypes(w io.Writer, label string, types []domain.TypeInfo) {
	fmt.Fprintf(w, "  %s:\n", label)

	cyan := color.New(color.FgCyan)
	for _, ti := range types {
		line := fmt.Sprintf("    %s", cyan.Sprint(ti.Type))
		if len(ti.Params) > 0 {
			line += fmt.Sprintf(" (%s)", strings.Join(ti.Params, ", "))
		}
		if ti.Summary != "" {
			line += " - " + ti.Summary
		}
		fmt.Fprintln(w, line)
	}
}
