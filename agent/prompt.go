package agent

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentnet/core"
)

// TaskPrompt renders the user message for an assignment: the description,
// the expected output and the outputs of earlier tasks.
func TaskPrompt(a core.Assignment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Current Task: %s\n", strings.TrimSpace(a.Description))

	if s := strings.TrimSpace(a.ExpectedOutput); s != "" {
		fmt.Fprintf(&b, "\nThis is the expected criteria for your final answer: %s\n", s)
		b.WriteString("You MUST return the actual complete content as the final answer, not a summary.\n")
	}

	if len(a.Context) > 0 {
		b.WriteString("\nThis is the context you're working with:\n")
		for _, out := range a.Context {
			fmt.Fprintf(&b, "\n--- %s (%s) ---\n%s\n", out.TaskName, out.AgentName, strings.TrimSpace(out.Raw))
		}
	}

	b.WriteString("\nBegin! This is VERY important to you, use the tools available and give your best Final Answer.")

	return b.String()
}
