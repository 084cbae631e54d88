// Package errors provides the contractkit error taxonomy.
//
// Two layers live here. CLIError carries a category, a message and
// remediation steps for user-facing output. Below it, internal errors are
// built with github.com/cockroachdb/errors so they keep stack traces, hints
// and marks; the sentinels ErrStructural, ErrSemantic, ErrCatalogDrift and
// ErrGenerationSafety classify failures through errors.Is.
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping.
var (
	New      = crdb.New
	Newf     = crdb.Newf
	Wrap     = crdb.Wrap
	Wrapf    = crdb.Wrapf
	WithHint = crdb.WithHint
	Mark     = crdb.Mark
	Is       = crdb.Is
	As       = crdb.As
	GetHints = crdb.GetAllHints
)

// Sentinels for the contract error taxonomy.
var (
	// ErrStructural marks schema non-conformance of a contract.
	ErrStructural = New("structural error")
	// ErrSemantic marks cross-field violations: duplicate codes, dangling references, glossary gaps.
	ErrSemantic = New("semantic error")
	// ErrCatalogDrift marks disagreement between the catalog and loaded contracts.
	ErrCatalogDrift = New("catalog drift")
	// ErrGenerationSafety marks a generator write that would leave the allow-list.
	ErrGenerationSafety = New("generation safety error")
)

// ErrorCategory classifies errors for display and exit-code purposes.
type ErrorCategory int

const (
	Argument ErrorCategory = iota
	Configuration
	Prerequisite
	Runtime
	Structural
	Semantic
	CatalogDrift
	GenerationSafety
)

// String returns the display title of the category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	case Structural:
		return "Structural Error"
	case Semantic:
		return "Semantic Error"
	case CatalogDrift:
		return "Catalog Drift Error"
	case GenerationSafety:
		return "Generation Safety Error"
	default:
		return "Error"
	}
}

// CLIError is a user-facing error with remediation guidance.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Remediation []string
	Usage       string
	cause       error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *CLIError) Unwrap() error {
	return e.cause
}

// NewArgumentError creates an argument error.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Remediation: remediation}
}

// NewArgumentErrorWithUsage creates an argument error that shows a usage line.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Usage: usage, Remediation: remediation}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Configuration, Message: message, Remediation: remediation}
}

// NewPrerequisiteError creates a prerequisite error (missing input documents).
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Prerequisite, Message: message, Remediation: remediation}
}

// NewRuntimeError creates a runtime error.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Runtime, Message: message, Remediation: remediation}
}

// WrapCategory wraps err into a CLIError of the given category. The message of an
// existing CLIError is kept. Returns nil for a nil err.
func WrapCategory(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if cliErr := AsCLIError(err); cliErr != nil {
		msg = cliErr.Message
	}
	return &CLIError{Category: category, Message: msg, Remediation: remediation, cause: err}
}

// WrapWithMessage wraps err with an outer message, "outer: inner".
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	inner := err.Error()
	if cliErr := AsCLIError(err); cliErr != nil {
		inner = cliErr.Message
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %s", message, inner),
		Remediation: remediation,
		cause:       err,
	}
}

// IsCLIError reports whether err is, or wraps, a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError returns the CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if As(err, &cliErr) {
		return cliErr
	}
	return nil
}

// CategoryOf maps a marked internal error to its category.
// Unmarked errors are Runtime.
func CategoryOf(err error) ErrorCategory {
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr.Category
	}
	switch {
	case Is(err, ErrGenerationSafety):
		return GenerationSafety
	case Is(err, ErrStructural):
		return Structural
	case Is(err, ErrSemantic):
		return Semantic
	case Is(err, ErrCatalogDrift):
		return CatalogDrift
	default:
		return Runtime
	}
}
