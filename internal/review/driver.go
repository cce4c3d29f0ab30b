// Package review provides the review session engine: it opens one agentic
// review session per invocation, interprets the event stream, and renders
// the validated result.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/mdekker/coderev/internal/capability"
	"github.com/mdekker/coderev/internal/domain"
	"github.com/mdekker/coderev/internal/terminal"
)

// streamItem carries one Next() outcome from the stream pump to the drain
// loop.
type streamItem struct {
	ev  capability.Event
	err error
}

// Options holds the driver configuration.
type Options struct {
	Model    string
	MaxTurns int
	Verbose  bool
}

// Driver runs one review session against a capability and interprets its
// event stream.
type Driver struct {
	engine capability.Capability
	logger *terminal.Logger
	opts   Options
}

// NewDriver creates a driver for the given capability.
func NewDriver(engine capability.Capability, logger *terminal.Logger, opts Options) *Driver {
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	return &Driver{
		engine: engine,
		logger: logger,
		opts:   opts,
	}
}

// Run opens exactly one review session for dir and drains its event stream.
// Returns the validated result, or nil if the session ended without
// producing one - that is a normal outcome, not an error.
// Returns an error only when the session cannot be opened, the stream
// fails mid-flight, or ctx is canceled before the stream ends. There is no
// automatic retry.
func (d *Driver) Run(ctx context.Context, dir string) (*domain.ReviewResult, error) {
	session, err := d.engine.StartReview(ctx, d.buildRequest(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open review session: %w", err)
	}
	defer func() { _ = session.Close() }()

	spinner := terminal.NewPhaseSpinner("Analyzing code")
	spinnerCtx, spinnerCancel := context.WithCancel(context.Background())
	spinnerDone := make(chan struct{})
	go func() {
		spinner.Run(spinnerCtx)
		close(spinnerDone)
	}()
	defer func() {
		spinnerCancel()
		<-spinnerDone
	}()

	interp := newInterpreter(d.logger, d.opts.Verbose)
	start := time.Now()

	// Next() blocks on the engine's pipe, so the stream is pumped from a
	// goroutine and the drain selects against ctx. On cancellation Run
	// returns immediately and the deferred Close kills the engine's
	// process group, which unblocks the pump.
	items := make(chan streamItem)
	go func() {
		for {
			ev, err := session.Next()
			select {
			case items <- streamItem{ev: ev, err: err}:
			case <-ctx.Done():
				return
			}
			if ev == nil || err != nil {
				return
			}
		}
	}()

drain:
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("review session canceled: %w", ctx.Err())
		case item := <-items:
			if item.err != nil {
				return nil, fmt.Errorf("review stream failed: %w", item.err)
			}
			if item.ev == nil {
				// Stream exhausted. If no terminal event arrived (turn
				// budget hit, process died quietly), interp.result stays
				// nil and we report nothing.
				break drain
			}
			interp.handle(item.ev)
		}
	}

	if d.opts.Verbose {
		d.logger.Logf(terminal.StyleDim, "Session finished in %s", terminal.FormatDuration(time.Since(start)))
	}

	return interp.result, nil
}

// buildRequest assembles the fixed per-session inputs: the task
// instruction, the declared toolset, the sub-capability registry, the turn
// cap, and the output-shape constraint.
func (d *Driver) buildRequest(dir string) *capability.Request {
	return &capability.Request{
		Prompt:         DefaultReviewPrompt,
		Model:          d.opts.Model,
		AllowedTools:   []string{ToolRead, ToolGlob, ToolGrep, ToolDelegate},
		PermissionMode: "bypassPermissions",
		MaxTurns:       d.opts.MaxTurns,
		OutputSchema:   domain.ResultSchemaJSON(),
		Agents: map[string]capability.AgentDef{
			SecurityAgentName: {
				Description: securityAgentDescription,
				Prompt:      securityAgentPrompt,
				Tools:       []string{ToolRead, ToolGlob, ToolGrep},
			},
		},
		WorkDir: dir,
	}
}
