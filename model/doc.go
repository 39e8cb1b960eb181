// Package model defines the provider-neutral LLM interface used by agents.
//
// Adapters live in sub packages (gemini, openai, anthropic) and translate the
// normalized Request / Response structures into the vendor SDK formats.
// MockModel offers deterministic scripted behaviour for tests and examples.
package model
