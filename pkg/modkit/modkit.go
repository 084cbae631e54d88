// Package modkit is the runtime support library for packages generated by
// contractkit.
//
// Generated parameter containers and IO records implement the interfaces
// declared here at compile time, so tooling can work with any generated
// module without reflection. Every generated package registers itself in
// the module registry from an init function.
package modkit

import (
	"fmt"
	"strings"
)

// Trace identifies the contract a generated package was produced from.
type Trace struct {
	ContractID      string
	ModuleAbbr      string
	ContractVersion string
	SchemaVersion   string
	ContractSHA256  string
}

// RangeValidator is implemented by types that check declared numeric and
// enum ranges. An empty result means every range is satisfied.
type RangeValidator interface {
	ValidateRanges() []string
}

// ContractDictLoader is implemented by types that can be populated from a
// partial contract mapping. Unknown keys are ignored and missing keys keep
// their current values.
type ContractDictLoader interface {
	LoadContractDict(raw map[string]any)
}

// FieldMapper maps Go field names to contract paths.
type FieldMapper interface {
	ContractFieldMap() map[string]string
}

// Parameters is the full contract of a generated parameter container.
type Parameters interface {
	RangeValidator
	ContractDictLoader
	FieldMapper
}

// ParameterGroup is a named set of contract parameter names.
type ParameterGroup struct {
	Name       string
	Parameters []string
}

// CodeRange is the violation code used for range failures.
const CodeRange = "RANGE"

// Violation is one failed check against a generated parameter container.
type Violation struct {
	Code    string
	Message string
}

// String returns "CODE: message".
func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Code, v.Message)
}

// ValidationError aggregates violations returned by a generated Validate.
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("%d violation(s): %s", len(e.Violations), strings.Join(parts, "; "))
}

// RangeViolations wraps range messages as violations with CodeRange.
func RangeViolations(msgs []string) []Violation {
	out := make([]Violation, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Violation{Code: CodeRange, Message: m})
	}
	return out
}
