package cli

import (
	"io"

	"github.com/ariel-frischer/contractkit/internal/cli/shared"
)

// Exit codes for the contractkit CLI (re-exported from shared)
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = shared.ExitSuccess

	// ExitValidationFailed indicates a contract, catalog or generation failure
	ExitValidationFailed = shared.ExitValidationFailed

	// ExitInvalidArguments indicates invalid command arguments or configuration
	ExitInvalidArguments = shared.ExitInvalidArguments

	// ExitMissingDependencies indicates a missing schema, glossary, catalog or directory
	ExitMissingDependencies = shared.ExitMissingDependency
)

// ExitCode returns the exit code for err (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}

// PrintError reports err on w unless the command already did.
func PrintError(w io.Writer, err error) {
	shared.PrintError(w, err)
}
