// Package progress reports the progress of batch runs over modules. It
// renders a spinner with a module counter on terminals and plain result
// lines everywhere else.
package progress

import apperrors "github.com/ariel-frischer/contractkit/internal/errors"

// ModuleStatus is the outcome of one module in a batch.
type ModuleStatus int

const (
	// ModulePending indicates the module has not finished yet
	ModulePending ModuleStatus = iota
	// ModuleSucceeded indicates the module passed or generated
	ModuleSucceeded
	// ModuleFailed indicates the module failed
	ModuleFailed
)

// String returns the string representation of ModuleStatus
func (s ModuleStatus) String() string {
	switch s {
	case ModulePending:
		return "pending"
	case ModuleSucceeded:
		return "succeeded"
	case ModuleFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ModuleInfo describes a finished module for display
type ModuleInfo struct {
	// Name is the module abbreviation or contract file name
	Name string
	// Status is the outcome
	Status ModuleStatus
	// Detail is appended to the result line (score, changed files, reason)
	Detail string
}

// Validate checks that all ModuleInfo fields meet validation requirements
func (m ModuleInfo) Validate() error {
	if m.Name == "" {
		return apperrors.NewArgumentError("module name cannot be empty")
	}
	if m.Status == ModulePending {
		return apperrors.NewArgumentError("module result must be succeeded or failed")
	}
	return nil
}

// TerminalCapabilities encapsulates detected terminal features
type TerminalCapabilities struct {
	// IsTTY indicates whether stderr is a terminal (vs pipe/redirect)
	IsTTY bool
	// SupportsColor indicates whether terminal supports ANSI color codes
	SupportsColor bool
	// SupportsUnicode indicates whether terminal supports Unicode characters
	SupportsUnicode bool
	// Width is the terminal width in columns (0 if unknown/pipe)
	Width int
}

// ProgressSymbols defines the character set for visual indicators
type ProgressSymbols struct {
	// Checkmark is the success indicator ("✓" or "[OK]")
	Checkmark string
	// Failure is the failure indicator ("✗" or "[FAIL]")
	Failure string
	// SpinnerSet is the index into spinner.CharSets
	SpinnerSet int
}
