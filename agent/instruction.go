package agent

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentnet/core"
)

// Provider supplies dynamic instruction text at runtime.
type Provider interface {
	Instruction(*core.RunContext) (string, error)
}

// Func adapts a function to Provider.
type Func func(*core.RunContext) (string, error)

// Instruction implements Provider.
func (f Func) Instruction(rc *core.RunContext) (string, error) { return f(rc) }

// Instruction is either a static system prompt or a provider computing one
// per run.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a static string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(*core.RunContext) (string, error)) Instruction {
	return Instruction{provider: Func(f)}
}

// IsZero reports whether neither text nor provider is set.
func (i Instruction) IsZero() bool { return i.text == "" && i.provider == nil }

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the instruction text, invoking the provider if needed.
func (i Instruction) Resolve(rc *core.RunContext) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(rc)
	}
	return i.text, nil
}

// Persona is the role an agent plays.
type Persona struct {
	Role      string
	Goal      string
	Backstory string
}

// Instruction renders the persona as a system prompt.
func (p Persona) Instruction() Instruction {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s.", strings.TrimSpace(p.Role))

	if s := strings.TrimSpace(p.Backstory); s != "" {
		b.WriteString(" ")
		b.WriteString(s)
	}

	if s := strings.TrimSpace(p.Goal); s != "" {
		b.WriteString("\nYour personal goal is: ")
		b.WriteString(s)
	}

	return NewInstructionFromText(b.String())
}
