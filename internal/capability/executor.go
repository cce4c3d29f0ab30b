package capability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"syscall"
)

// executeOptions configures command execution for capability CLI invocations.
type executeOptions struct {
	// Command is the CLI executable name (e.g., "claude").
	Command string
	// Args are the command-line arguments.
	Args []string
	// Stdin provides input to the command.
	Stdin io.Reader
	// WorkDir sets the working directory for the command.
	WorkDir string
}

// executeCommand runs a CLI command with proper process group setup and
// resource management.
//
// It handles:
//   - Setting process group for proper signal handling (Setpgid)
//   - Capturing stderr for error diagnostics
//   - Creating stdout pipe for streaming output
//   - Starting the command and returning a managed ExecutionResult
func executeCommand(ctx context.Context, opts executeOptions) (*ExecutionResult, error) {
	// #nosec G204 - Command is always a known capability CLI passed from
	// trusted code, not user input.
	cmd := exec.CommandContext(ctx, opts.Command, opts.Args...)

	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}

	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}

	// Set process group for proper signal handling
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Capture stderr for error diagnostics
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", opts.Command, err)
	}

	reader := &cmdReader{
		Reader: stdout,
		cmd:    cmd,
		ctx:    ctx,
		stderr: stderr,
	}

	return reader.ToExecutionResult(), nil
}
