// Package definition loads agent and task definitions from markdown template
// resources keyed by (kind, domain, type).
//
// A resource lives at <kind>/<domain>/<type>.md where kind is "agents" or
// "tasks". It may open with a YAML front matter block describing the
// accepted params, their defaults and the tools an agent needs, followed by
// level-two headings naming the sections:
//
//	---
//	summary: Summarizes meeting transcripts
//	params: [meeting_text]
//	defaults: {company: Default Company}
//	---
//	## Description
//	Summarize the meeting for {company}.
//	{#if meeting_text}Transcript: {meeting_text}{/if}
//
//	## Expected Output
//	A bullet list of decisions.
//
// Agents use the Role, Goal and Backstory sections; tasks use Description and
// Expected Output. Missing sections render as empty strings. Every section is
// rendered with internal/util.RenderTemplate against the defaults merged with
// the caller's params.
package definition
