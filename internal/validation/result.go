package validation

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/contractkit/internal/errors"
)

// Violation codes. Each code belongs to exactly one error class.
const (
	CodeParseError      = "PARSE_ERROR"
	CodeMissingField    = "STRUCT_MISSING_FIELD"
	CodeWrongType       = "STRUCT_WRONG_TYPE"
	CodeEnumMismatch    = "STRUCT_ENUM_MISMATCH"
	CodeConstMismatch   = "STRUCT_CONST_MISMATCH"
	CodePatternMismatch = "STRUCT_PATTERN_MISMATCH"
	CodeMinItems        = "STRUCT_MIN_ITEMS"
	CodeUnexpectedField = "STRUCT_UNEXPECTED_FIELD"

	CodeSchemaHeader       = "SCHEMA_HEADER_INVALID"
	CodeDuplicateErrorCode = "DUPLICATE_ERROR_CODE"
	CodeUndefinedErrorCode = "UNDEFINED_ERROR_CODE"
	CodeGlossaryMissing    = "GLOSSARY_MISSING_TERM"

	CodeVersionNotSemver      = "VERSION_NOT_SEMVER"
	CodeGroupUnknownParameter = "GROUP_UNKNOWN_PARAMETER"
	CodeRelationUnknownModule = "RELATION_UNKNOWN_MODULE"

	CodeCatalogEntryInvalid     = "CATALOG_ENTRY_INVALID"
	CodeCatalogContractNotFound = "CATALOG_CONTRACT_NOT_FOUND"
	CodeCatalogVersionMismatch  = "CATALOG_VERSION_MISMATCH"
	CodeCatalogAbbrMismatch     = "CATALOG_ABBR_MISMATCH"
)

// ValidationError is a single violation with location and context.
type ValidationError struct {
	Code     string `json:"code" yaml:"code"`
	Module   string `json:"module,omitempty" yaml:"module,omitempty"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"` // dotted field path, e.g. "io_contract.inputs[0].name"
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"` // 1-based line in the source file
	Message  string `json:"message" yaml:"message"`
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`
	Actual   string `json:"actual,omitempty" yaml:"actual,omitempty"`
	Hint     string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d: ", e.Line))
	}
	if e.Path != "" {
		sb.WriteString(fmt.Sprintf("%s: ", e.Path))
	}
	sb.WriteString(e.Message)
	return sb.String()
}

// FormatFull returns a detailed multi-line description.
func (e *ValidationError) FormatFull() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  [%s] %s\n", e.Code, e.Message))
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("  Line %d\n", e.Line))
	}
	if e.Path != "" {
		sb.WriteString(fmt.Sprintf("  Path: %s\n", e.Path))
	}
	if e.Expected != "" {
		sb.WriteString(fmt.Sprintf("  Expected: %s\n", e.Expected))
	}
	if e.Actual != "" {
		sb.WriteString(fmt.Sprintf("  Got: %s\n", e.Actual))
	}
	if e.Hint != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", e.Hint))
	}
	return sb.String()
}

// Category classifies the violation in the error taxonomy.
func (e *ValidationError) Category() errors.ErrorCategory {
	switch {
	case e.Code == CodeParseError, strings.HasPrefix(e.Code, "STRUCT_"), e.Code == CodeSchemaHeader:
		return errors.Structural
	case strings.HasPrefix(e.Code, "CATALOG_"):
		return errors.CatalogDrift
	default:
		return errors.Semantic
	}
}

// Err returns the violation as an error marked with its class sentinel.
func (e *ValidationError) Err() error {
	err := errors.Newf("%s: %s", e.Code, e.Error())
	if e.Hint != "" {
		err = errors.WithHint(err, e.Hint)
	}
	switch e.Category() {
	case errors.Structural:
		return errors.Mark(err, errors.ErrStructural)
	case errors.CatalogDrift:
		return errors.Mark(err, errors.ErrCatalogDrift)
	default:
		return errors.Mark(err, errors.ErrSemantic)
	}
}

// ValidationResult is the verdict for one contract. Passed and Score are
// computed independently: Passed means no errors, Score also reflects
// advisory warnings.
type ValidationResult struct {
	Module   string             `json:"module" yaml:"module"`
	Path     string             `json:"path" yaml:"path"`
	Passed   bool               `json:"passed" yaml:"passed"`
	Score    int                `json:"score" yaml:"score"`
	Errors   []*ValidationError `json:"errors" yaml:"errors"`
	Warnings []*ValidationError `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// HasErrors returns true if there are any errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// AddError adds an error to the result.
func (r *ValidationResult) AddError(err *ValidationError) {
	r.Errors = append(r.Errors, err)
	r.Passed = false
}

// AddWarning adds an advisory finding. Warnings never change Passed.
func (r *ValidationResult) AddWarning(w *ValidationError) {
	r.Warnings = append(r.Warnings, w)
}

// Codes returns the error codes in report order.
func (r *ValidationResult) Codes() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Code
	}
	return out
}

// BelowThreshold reports whether the score is under threshold.
func (r *ValidationResult) BelowThreshold(threshold int) bool {
	return r.Score < threshold
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}

func displayPath(p string) string {
	if p == "" {
		return "(root)"
	}
	return p
}
