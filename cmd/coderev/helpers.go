package main

import (
	"fmt"
	"runtime/debug"

	"github.com/mdekker/coderev/internal/domain"
)

// exitCodeError is a wrapper type for returning exit codes via error interface.
type exitCodeError struct {
	code domain.ExitCode
}

func (e exitCodeError) Error() string {
	switch e.code {
	case domain.ExitError:
		return "review failed with error"
	case domain.ExitInterrupted:
		return "review was interrupted"
	default:
		return fmt.Sprintf("exit code %d", e.code)
	}
}

func exitCode(code domain.ExitCode) error {
	if code == domain.ExitOK {
		return nil
	}
	return exitCodeError{code: code}
}

// buildVersionString derives the version from embedded build info, so
// go-install builds report something useful without ldflags.
func buildVersionString() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "dev"
	}
	return info.Main.Version
}
