// Package main provides the CLI entry point for coderev.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mdekker/coderev/internal/capability"
	"github.com/mdekker/coderev/internal/config"
	"github.com/mdekker/coderev/internal/domain"
	"github.com/mdekker/coderev/internal/review"
	"github.com/mdekker/coderev/internal/terminal"
)

var (
	capabilityName string
	model          string
	maxTurns       int
	timeout        time.Duration
	verbose        bool
	noConfig       bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "coderev [directory]",
		Short: "Agent-driven code review for a directory",
		Long: `Run an agent-driven code review of a directory and print a report
grouped by severity.

Exit codes:
  0 - Review completed (or engine reported a failure)
  1 - Error
  130 - Interrupted`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runReview,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildVersionString(),
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Configuration flags (defaults are resolved via config.Resolve with precedence: flag > env > config > default)
	rootCmd.Flags().StringVarP(&model, "model", "m", "",
		"Model for the review engine (default: engine default, env: CODEREV_MODEL)")
	rootCmd.Flags().IntVar(&maxTurns, "max-turns", 0,
		fmt.Sprintf("Max reasoning turns per session (default: %d, env: CODEREV_MAX_TURNS)", review.DefaultMaxTurns))
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 0,
		"Timeout for the review session (default: 10m, env: CODEREV_TIMEOUT)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Print engine commentary as it arrives")
	rootCmd.Flags().StringVar(&capabilityName, "capability", "",
		"Review engine backend: claude (env: CODEREV_CAPABILITY)")
	rootCmd.Flags().BoolVar(&noConfig, "no-config", false,
		"Skip loading .coderev.yaml config file")

	setGroupedUsage(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		// Check if this is an exit code wrapper (not a real error)
		if exitErr, ok := err.(exitCodeError); ok {
			return exitErr.code.Int()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitError.Int()
	}

	return 0
}

func runReview(cmd *cobra.Command, args []string) error {
	// Disable colors if stdout is not a TTY
	if !terminal.IsStdoutTTY() {
		terminal.DisableColors()
	}

	logger := terminal.NewLogger()

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	var interrupted atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr)
		logger.Log("Interrupted, shutting down...", terminal.StyleWarning)
		interrupted.Store(true)
		cancel()
	}()

	var target string
	if len(args) > 0 {
		target = args[0]
	}
	dir, err := review.ResolveDir(target)
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitError)
	}

	// Load config file from the review directory (unless --no-config)
	var cfg *config.Config
	if !noConfig {
		result, err := config.LoadFromDirWithWarnings(dir)
		if err != nil {
			logger.Logf(terminal.StyleError, "Config error: %v", err)
			return exitCode(domain.ExitError)
		}
		cfg = result.Config
		for _, warning := range result.Warnings {
			logger.Logf(terminal.StyleWarning, "Warning: %s", warning)
		}
	}

	// Build flag state from cobra's Changed() method
	flagState := config.FlagState{
		CapabilitySet: cmd.Flags().Changed("capability"),
		ModelSet:      cmd.Flags().Changed("model"),
		MaxTurnsSet:   cmd.Flags().Changed("max-turns"),
		TimeoutSet:    cmd.Flags().Changed("timeout"),
	}
	envState := config.LoadEnvState()
	flagValues := config.ResolvedConfig{
		Capability: capabilityName,
		Model:      model,
		MaxTurns:   maxTurns,
		Timeout:    timeout,
	}

	// Resolve final configuration (precedence: flags > env vars > config file > defaults)
	resolved := config.Resolve(cfg, envState, flagState, flagValues)

	engine, err := capability.New(resolved.Capability)
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitError)
	}
	if err := engine.IsAvailable(); err != nil {
		logger.Logf(terminal.StyleError, "%s CLI not found: %v", engine.Name(), err)
		return exitCode(domain.ExitError)
	}

	logger.Logf(terminal.StyleInfo, "Reviewing %s%s%s",
		terminal.Color(terminal.Bold), dir, terminal.Color(terminal.Reset))

	runCtx := ctx
	if resolved.Timeout > 0 {
		var timeoutCancel context.CancelFunc
		runCtx, timeoutCancel = context.WithTimeout(ctx, resolved.Timeout)
		defer timeoutCancel()
	}

	driver := review.NewDriver(engine, logger, review.Options{
		Model:    resolved.Model,
		MaxTurns: resolved.MaxTurns,
		Verbose:  verbose,
	})

	result, err := driver.Run(runCtx, dir)
	if err != nil {
		if interrupted.Load() {
			return exitCode(domain.ExitInterrupted)
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			logger.Logf(terminal.StyleError, "Review timed out after %s", resolved.Timeout)
			return exitCode(domain.ExitError)
		}
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitError)
	}
	if interrupted.Load() {
		return exitCode(domain.ExitInterrupted)
	}

	// No result is a reported outcome, not an error: the failure line was
	// already logged while draining the stream.
	if result == nil {
		return exitCode(domain.ExitOK)
	}

	fmt.Println(review.RenderReport(result))
	return exitCode(domain.ExitOK)
}
