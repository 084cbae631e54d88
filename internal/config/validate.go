package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ariel-frischer/contractkit/internal/errors"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidateJSONSyntax checks that a config file is a JSON object. Syntax
// errors carry the line and column of the offending byte.
func ValidateJSONSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Missing file is not an error - will use defaults
		}
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	return ValidateJSONSyntaxFromBytes(data, filePath)
}

// ValidateJSONSyntaxFromBytes is ValidateJSONSyntax for in-memory content.
func ValidateJSONSyntaxFromBytes(data []byte, filePath string) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return &ValidationError{FilePath: filePath, Message: "file is empty, expected a JSON object"}
	}

	var root map[string]interface{}
	err := json.Unmarshal(data, &root)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, column := lineColumn(data, syntaxErr.Offset)
		return &ValidationError{FilePath: filePath, Line: line, Column: column, Message: syntaxErr.Error()}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "" {
		return &ValidationError{FilePath: filePath, Message: "top level must be a JSON object"}
	}
	return &ValidationError{FilePath: filePath, Message: err.Error()}
}

// lineColumn converts a byte offset into a 1-based line and column. The
// decoder reports the offset just past the offending byte.
func lineColumn(data []byte, offset int64) (line, column int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	if offset > 0 {
		offset--
	}
	prefix := data[:offset]
	line = bytes.Count(prefix, []byte("\n")) + 1
	column = int(offset) - bytes.LastIndexByte(prefix, '\n')
	return line, column
}

// ValidateConfigValues checks the struct rules and reports the first
// failing field by its config key.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	err := structValidator.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Wrap(err, "config validation failed")
	}
	fe := fieldErrs[0]
	return &ValidationError{
		FilePath: filePath,
		Field:    configKey(fe.StructField()),
		Message:  ruleMessage(fe),
	}
}

// configKey maps a struct field back to its koanf key.
func configKey(structField string) string {
	if i := strings.IndexByte(structField, '['); i >= 0 {
		structField = structField[:i]
	}
	for _, k := range KnownKeys {
		if k.Field == structField {
			return k.Path
		}
	}
	return strings.ToLower(structField)
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must not be empty"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}
