package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Compile-time interface check
var _ Capability = (*ClaudeCapability)(nil)

// ClaudeCapability implements the Capability interface for the Claude CLI
// backend. It runs one session per StartReview with
// 'claude -p --verbose --output-format stream-json' and surfaces the NDJSON
// event stream through a Session.
type ClaudeCapability struct{}

// NewClaudeCapability creates a new ClaudeCapability instance.
func NewClaudeCapability() *ClaudeCapability {
	return &ClaudeCapability{}
}

// Name returns the capability's identifier.
func (c *ClaudeCapability) Name() string {
	return "claude"
}

// IsAvailable checks if the claude CLI is installed and accessible.
func (c *ClaudeCapability) IsAvailable() error {
	_, err := exec.LookPath("claude")
	if err != nil {
		return fmt.Errorf("claude CLI not found in PATH: %w", err)
	}
	return nil
}

// StartReview opens one review session using the claude CLI.
// The session streams events until the engine emits a terminal result or
// exhausts the request's turn budget.
func (c *ClaudeCapability) StartReview(ctx context.Context, req *Request) (*Session, error) {
	if err := c.IsAvailable(); err != nil {
		return nil, err
	}

	args, err := buildClaudeArgs(req)
	if err != nil {
		return nil, err
	}

	result, err := executeCommand(ctx, executeOptions{
		Command: "claude",
		Args:    args,
		WorkDir: req.WorkDir,
	})
	if err != nil {
		return nil, err
	}

	return NewSession(result), nil
}

// buildClaudeArgs translates a Request into claude CLI arguments.
// --verbose is required for stream-json output in print mode.
func buildClaudeArgs(req *Request) ([]string, error) {
	args := []string{
		"-p", req.Prompt,
		"--verbose",
		"--output-format", "stream-json",
	}

	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}

	if len(req.AllowedTools) > 0 {
		args = append(args, "--allowedTools", strings.Join(req.AllowedTools, ","))
	}

	if req.PermissionMode != "" {
		args = append(args, "--permission-mode", req.PermissionMode)
	}

	if req.MaxTurns > 0 {
		args = append(args, "--max-turns", strconv.Itoa(req.MaxTurns))
	}

	if len(req.OutputSchema) > 0 {
		args = append(args, "--json-schema", string(req.OutputSchema))
	}

	if len(req.Agents) > 0 {
		agents, err := json.Marshal(req.Agents)
		if err != nil {
			return nil, fmt.Errorf("failed to encode sub-capability registry: %w", err)
		}
		args = append(args, "--agents", string(agents))
	}

	return args, nil
}
