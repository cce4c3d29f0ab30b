// Package capability provides access to the agentic review engine.
//
// The engine itself - how it reads files, searches code, and reasons about
// what it finds - is opaque. This package models it as a narrow contract:
// a Request goes in, an ordered stream of Events comes out. Implementations
// include ClaudeCapability, which drives the claude CLI as a subprocess.
package capability

import (
	"context"
	"encoding/json"
	"fmt"
)

// Capability represents a backend that can execute an agentic review.
type Capability interface {
	// Name returns the capability's identifier (e.g., "claude").
	Name() string

	// IsAvailable checks if the capability's backend is installed and
	// accessible. Returns an error if the capability cannot be used.
	IsAvailable() error

	// StartReview opens exactly one review session for the given request.
	// The caller MUST call Close() on the session to ensure proper
	// resource cleanup. After Close(), ExitCode() and Stderr() return
	// valid values.
	StartReview(ctx context.Context, req *Request) (*Session, error)
}

// AgentDef declares a named sub-capability the engine may delegate to,
// with its own instruction and a narrower toolset.
type AgentDef struct {
	Description string   `json:"description"`
	Prompt      string   `json:"prompt"`
	Tools       []string `json:"tools,omitempty"`
	Model       string   `json:"model,omitempty"`
}

// Request holds everything fixed for one review session.
type Request struct {
	// Prompt is the natural-language task instruction.
	Prompt string
	// Model selects the engine model; empty uses the backend default.
	Model string
	// AllowedTools is the toolset the engine may invoke.
	AllowedTools []string
	// PermissionMode controls the engine's permission policy.
	PermissionMode string
	// MaxTurns is a hard cap on reasoning turns, guaranteeing the
	// session terminates even if the engine never produces a result.
	MaxTurns int
	// OutputSchema constrains the shape of the structured payload the
	// engine is asked to return. The payload is still re-validated on
	// receipt; the constraint is a request, not a guarantee.
	OutputSchema json.RawMessage
	// Agents is the sub-capability registry, name to definition.
	Agents map[string]AgentDef
	// WorkDir is the directory the session runs in.
	WorkDir string
}

// SupportedCapabilities lists all valid capability names.
var SupportedCapabilities = []string{"claude"}

// DefaultCapability is the capability used when none is specified.
const DefaultCapability = "claude"

// New creates a Capability by name.
func New(name string) (Capability, error) {
	switch name {
	case "claude":
		return NewClaudeCapability(), nil
	default:
		return nil, fmt.Errorf("unknown capability %q, supported: claude", name)
	}
}
