// Package shared provides constants and helpers used across CLI subpackages.
// This package has no dependencies on other CLI packages to avoid circular imports.
package shared

import (
	"fmt"

	clierrors "github.com/ariel-frischer/contractkit/internal/errors"
)

// Command group IDs for organizing help output
const (
	GroupContracts     = "contracts"
	GroupGeneration    = "generation"
	GroupConfiguration = "configuration"
)

// Exit codes for CLI commands
const (
	ExitSuccess           = 0
	ExitValidationFailed  = 1
	ExitInvalidArguments  = 3
	ExitMissingDependency = 4
)

// exitError carries an exit code for a failure that was already reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// ExitCode returns the exit code for err. Argument and configuration
// errors exit 3, missing inputs exit 4, everything else exits 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if clierrors.As(err, &e) {
		return e.code
	}
	switch clierrors.CategoryOf(err) {
	case clierrors.Argument, clierrors.Configuration:
		return ExitInvalidArguments
	case clierrors.Prerequisite:
		return ExitMissingDependency
	default:
		return ExitValidationFailed
	}
}

// IsReported reports whether err only carries an exit code.
func IsReported(err error) bool {
	var e *exitError
	return clierrors.As(err, &e)
}
