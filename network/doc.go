// Package network models a workflow as a graph of agent and task nodes.
//
// A Network owns its nodes exclusively. Tasks reference their agent and their
// prerequisite tasks by id, so every edge is an indirection into the owning
// Network and no node outlives it.
//
// Typical lifecycle:
//
//	net := network.New(func(o *network.Options) { o.Registry = reg })
//	_ = net.AddAgentNode("writer", "seo_specialist", "marketing", nil)
//	_ = net.AddTaskNode("draft", "seo_optimization", "writer", "marketing", params)
//	_ = net.AddTaskNode("post", "social_media_post_creation", "writer", "marketing", nil)
//	_ = net.AddTaskDependency("post", "draft")
//
//	crew, err := net.BuildCrew("Launch", "")
//
// Mutating calls validate referential integrity immediately and leave the
// network unchanged on failure. A Network is not safe for concurrent use; the
// service layer serialises access per network.
package network
