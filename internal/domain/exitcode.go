package domain

// ExitCode represents the exit status of the reviewer process.
type ExitCode int

const (
	// ExitOK indicates the review completed, whether or not a report was
	// produced. A session that ends without a usable result is still a
	// normal outcome.
	ExitOK ExitCode = 0
	// ExitError indicates directory validation failed or the session
	// could not be opened or streamed.
	ExitError ExitCode = 1
	// ExitInterrupted indicates the review was interrupted by a signal.
	ExitInterrupted ExitCode = 130
)

// Int returns the exit code as an int for use with os.Exit.
func (e ExitCode) Int() int {
	return int(e)
}
