// Package marketing registers the marketing domain: SEO, competitor
// monitoring, product recommendations, social media and email campaigns.
package marketing

import (
	"github.com/hupe1980/agentnet/domain"
	"github.com/hupe1980/agentnet/factory"
)

// Name is the domain name used in network descriptions.
const Name = "marketing"

// Domain lists the marketing agent and task types.
var Domain = domain.Domain{
	Name: Name,
	AgentTypes: []string{
		"seo_specialist",
		"competitor_watchdog",
		"product_recommender",
		"social_media_strategist",
		"email_campaign_manager",
	},
	TaskTypes: []string{
		"seo_optimization",
		"competitor_watchdog",
		"product_recommendation",
		"social_media_post_creation",
		"email_campaign",
	},
}

// Register binds the marketing types in reg.
func Register(reg *factory.Registry, env *domain.Env) error {
	return Domain.Register(reg, env)
}
