package config

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ariel-frischer/contractkit/internal/errors"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeStringList
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeStringList:
		return "list"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Key in the config file
	Field         string          // Configuration struct field
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"contracts_dir": {
		Path: "contracts_dir", Field: "ContractsDir", Type: TypeString,
		Description: "Directory scanned for contract files",
	},
	"contract_globs": {
		Path: "contract_globs", Field: "ContractGlobs", Type: TypeStringList,
		Description: "File name patterns selecting contracts (comma separated in env and 'config set')",
	},
	"schema_path": {
		Path: "schema_path", Field: "SchemaPath", Type: TypeString,
		Description: "Contract JSON schema used by validate and generate --schema",
	},
	"glossary_path": {
		Path: "glossary_path", Field: "GlossaryPath", Type: TypeString,
		Description: "Glossary enabling the abbreviation coverage check",
	},
	"catalog_path": {
		Path: "catalog_path", Field: "CatalogPath", Type: TypeString,
		Description: "Module catalog checked against the contracts",
	},
	"modules_dir": {
		Path: "modules_dir", Field: "ModulesDir", Type: TypeString,
		Description: "Root of the generated module tree",
	},
	"reports_dir": {
		Path: "reports_dir", Field: "ReportsDir", Type: TypeString,
		Description: "Directory receiving validation reports",
	},
	"schema_name": {
		Path: "schema_name", Field: "SchemaName", Type: TypeString,
		Description: "Required _schema.name literal",
	},
	"schema_stage": {
		Path: "schema_stage", Field: "SchemaStage", Type: TypeString,
		Description: "Required _schema.stage literal",
	},
	"score_threshold": {
		Path: "score_threshold", Field: "ScoreThreshold", Type: TypeInt,
		Description: "Scores below this are flagged, and fail under --strict",
	},
	"max_parallel": {
		Path: "max_parallel", Field: "MaxParallel", Type: TypeInt,
		Description: "Modules validated or generated concurrently",
	},
	"advisory_checks": {
		Path: "advisory_checks", Field: "AdvisoryChecks", Type: TypeBool,
		Description: "Run the advisory lint checks",
	},
	"runtime_import": {
		Path: "runtime_import", Field: "RuntimeImport", Type: TypeString,
		Description: "Import path of the runtime package used by generated code",
	},
	"log_json": {
		Path: "log_json", Field: "LogJSON", Type: TypeBool,
		Description: "Write logs as JSON",
	},
	"log_level": {
		Path: "log_level", Field: "LogLevel", Type: TypeEnum,
		AllowedValues: []string{"debug", "info", "warn", "error"},
		Description:   "Minimum log level",
	},
	"watch_debounce_ms": {
		Path: "watch_debounce_ms", Field: "WatchDebounceMS", Type: TypeInt,
		Description: "Quiet period before watch mode re-runs",
	},
}

// KeyNames returns the known keys, sorted.
func KeyNames() []string {
	out := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// ParsedValue represents a configuration value after validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeStringList:
		list := splitList(value)
		if len(list) == 0 {
			return ParsedValue{}, errors.Newf("invalid list: %q (expected comma separated values)", value)
		}
		return ParsedValue{Raw: value, Parsed: list, Type: TypeStringList}, nil
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, errors.Newf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, errors.Newf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseIntValue parses and validates an integer value.
func parseIntValue(value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ParsedValue{}, errors.Newf("invalid integer: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, errors.Newf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}
