// Package corporate registers the corporate domain: meeting summaries,
// email handling, competitor monitoring and customer feedback analysis.
package corporate

import (
	"github.com/hupe1980/agentnet/domain"
	"github.com/hupe1980/agentnet/factory"
)

// Name is the domain name used in network descriptions.
const Name = "corporate"

// Domain lists the corporate agent and task types.
var Domain = domain.Domain{
	Name: Name,
	AgentTypes: []string{
		"meeting_summarizer",
		"smart_email_manager",
		"competitor_watchdog",
		"customer_feedback_analyzer",
	},
	TaskTypes: []string{
		"meeting_summarization",
		"smart_email_management",
		"competitor_watchdog",
		"customer_feedback_analysis",
	},
}

// Register binds the corporate types in reg.
func Register(reg *factory.Registry, env *domain.Env) error {
	return Domain.Register(reg, env)
}
