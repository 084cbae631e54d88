// Package testutil provides test utilities and fixtures for contractkit tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SchemaFileName is the conventional name of the Stage A contract schema.
const SchemaFileName = "contract_schema_stageA_v4.json"

// contractConfig holds the fields ContractJSON lets tests vary.
type contractConfig struct {
	moduleID    string
	abbr        string
	version     string
	description string
	maturity    string
	schemaName  string
	errorCodes  []string
	constraint  string
}

// ContractOption customises ContractJSON.
type ContractOption func(*contractConfig)

// WithModuleID sets module_id.
func WithModuleID(id string) ContractOption {
	return func(c *contractConfig) { c.moduleID = id }
}

// WithAbbr sets module_abbr.
func WithAbbr(abbr string) ContractOption {
	return func(c *contractConfig) { c.abbr = abbr }
}

// WithVersion sets version.
func WithVersion(v string) ContractOption {
	return func(c *contractConfig) { c.version = v }
}

// WithDescription sets description.
func WithDescription(d string) ContractOption {
	return func(c *contractConfig) { c.description = d }
}

// WithMaturity sets _schema.maturity_stage.
func WithMaturity(m string) ContractOption {
	return func(c *contractConfig) { c.maturity = m }
}

// WithSchemaName sets _schema.name.
func WithSchemaName(n string) ContractOption {
	return func(c *contractConfig) { c.schemaName = n }
}

// WithErrorCodes replaces the declared error codes.
func WithErrorCodes(codes ...string) ContractOption {
	return func(c *contractConfig) { c.errorCodes = codes }
}

// WithConstraintRule replaces the rule of the single constraint.
func WithConstraintRule(rule string) ContractOption {
	return func(c *contractConfig) { c.constraint = rule }
}

// ContractJSON returns a complete, valid contract for the SPS module.
func ContractJSON(opts ...ContractOption) string {
	c := &contractConfig{
		moduleID:    "sps.signal_preprocessing",
		abbr:        "SPS",
		version:     "1.0.0",
		description: "Smooths and band-limits raw signal windows.",
		maturity:    "draft",
		schemaName:  "A-PRACTICAL.contract",
		errorCodes:  []string{"E_BAND", "E_EMPTY"},
		constraint:  "min_freq < max_freq",
	}
	for _, opt := range opts {
		opt(c)
	}

	codes := make([]string, len(c.errorCodes))
	for i, code := range c.errorCodes {
		codes[i] = fmt.Sprintf(`    {"code": %q, "message": "check failed: %s", "severity": "error"}`, code, code)
	}

	return fmt.Sprintf(`{
  "_schema": {"name": %q, "stage": "A.contract_only", "maturity_stage": %q},
  "module_id": %q,
  "module_abbr": %q,
  "module_type": "processor",
  "module_name": "Signal Preprocessing",
  "version": %q,
  "description": %q,
  "io_contract": {
    "inputs": [
      {"name": "samples", "type": "array", "items": "float", "required": true, "description": "Raw samples"},
      {"name": "sample_rate", "type": "float", "default": 250.0, "description": "Sampling rate in Hz"}
    ],
    "outputs": [
      {"name": "filtered", "type": "array", "items": "float"},
      {"name": "quality", "type": "float"}
    ]
  },
  "parameters": [
    {"name": "window_size", "type": "int", "default": 5, "range": {"min": 1, "max": 101}, "unit": "samples"},
    {"name": "alpha", "type": "float", "default": 0.3, "range": [0.0, 1.0], "description": "Smoothing factor"},
    {"name": "min_freq", "type": "float", "default": 0.5, "min": 0, "unit": "Hz"},
    {"name": "max_freq", "type": "float", "default": 40.0, "unit": "Hz"},
    {"name": "mode", "type": "string", "default": "linear", "enum": ["linear", "cubic"]},
    {"name": "normalize", "type": "bool", "default": true},
    {"name": "weights", "type": "array", "items": "float", "default": [0.25, 0.5, 0.25]}
  ],
  "parameter_groups": {"filter": ["window_size", "alpha", "mode"], "band": ["min_freq", "max_freq"]},
  "constraints": [
    {"rule": %q, "error_code": "E_BAND", "description": "band edges must be ordered"}
  ],
  "validation": {
    "rules": [{"condition": "len(samples) > 0", "error_code": "E_EMPTY"}]
  },
  "error_codes": [
%s
  ],
  "algorithm": {"summary": "Moving-average smoothing followed by band limiting."},
  "relations": [{"module_id": "raw.acquisition", "type": "upstream"}],
  "test_cases": [{"input": {"samples": [1, 2, 3]}, "expected": {"quality": 1.0}}],
  "policies": {"owner": "signals"}
}
`, c.schemaName, c.maturity, c.moduleID, c.abbr, c.version, c.description, c.constraint, strings.Join(codes, ",\n"))
}

// ContractFileName returns the conventional file name for a module.
func ContractFileName(abbr string) string {
	return strings.ToLower(abbr) + "_contract_stageA_FINAL.json"
}

// WriteContract writes a contract for abbr into dir and returns its path.
func WriteContract(t *testing.T, dir, abbr string, opts ...ContractOption) string {
	t.Helper()

	opts = append([]ContractOption{WithAbbr(abbr), WithModuleID(strings.ToLower(abbr) + ".module")}, opts...)
	path := filepath.Join(dir, ContractFileName(abbr))
	WriteFile(t, path, ContractJSON(opts...))
	return path
}

// WriteGlossary writes a glossary defining terms and returns its path.
func WriteGlossary(t *testing.T, dir string, terms ...string) string {
	t.Helper()

	parts := make([]string, len(terms))
	for i, term := range terms {
		parts[i] = fmt.Sprintf("%q: \"definition of %s\"", term, term)
	}
	path := filepath.Join(dir, "glossary_v1.json")
	WriteFile(t, path, fmt.Sprintf("{\"terms\": {%s}}\n", strings.Join(parts, ", ")))
	return path
}

// CatalogEntry is a catalog row for WriteCatalog.
type CatalogEntry struct {
	ModuleID, ModuleAbbr, Version string
}

// WriteCatalog writes a catalog and returns its path.
func WriteCatalog(t *testing.T, dir string, entries ...CatalogEntry) string {
	t.Helper()

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf(`{"module_id": %q, "module_abbr": %q, "version": %q}`, e.ModuleID, e.ModuleAbbr, e.Version)
	}
	path := filepath.Join(dir, "katalog_4_0.json")
	WriteFile(t, path, fmt.Sprintf("{\"modules\": [%s]}\n", strings.Join(parts, ", ")))
	return path
}

// WriteSchema writes the Stage A contract schema into dir and returns its path.
func WriteSchema(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, SchemaFileName)
	WriteFile(t, path, StageASchema)
	return path
}

// StageASchema is a structural schema for Stage A contracts.
const StageASchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Stage A module contract",
  "type": "object",
  "required": ["_schema", "module_id", "module_abbr", "module_type", "module_name", "version",
               "description", "io_contract", "parameters", "parameter_groups", "constraints",
               "validation", "error_codes", "algorithm", "relations", "test_cases", "policies"],
  "properties": {
    "_schema": {
      "type": "object",
      "required": ["name", "stage", "maturity_stage"],
      "properties": {
        "name": {"type": "string"},
        "stage": {"type": "string"},
        "maturity_stage": {"type": "string", "enum": ["pilot", "draft", "stable"]}
      }
    },
    "module_id": {"type": "string"},
    "module_abbr": {"type": "string", "pattern": "^[A-Za-z][A-Za-z0-9_]*$"},
    "module_type": {"type": "string"},
    "module_name": {"type": "string"},
    "version": {"type": "string"},
    "description": {"type": "string"},
    "io_contract": {
      "type": "object",
      "required": ["inputs", "outputs"],
      "properties": {
        "inputs": {"type": ["array", "object"]},
        "outputs": {"type": ["array", "object"]}
      }
    },
    "parameters": {"type": "array", "items": {"$ref": "#/definitions/parameter"}},
    "parameter_groups": {"type": ["object", "array"]},
    "constraints": {"type": "array", "items": {"$ref": "#/definitions/constraint"}},
    "validation": {
      "type": "object",
      "required": ["rules"],
      "properties": {
        "rules": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["condition", "error_code"],
            "properties": {"condition": {"type": "string"}, "error_code": {"type": "string"}}
          }
        }
      }
    },
    "error_codes": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/error_code"}},
    "algorithm": {"type": ["object", "string"]},
    "relations": {"type": ["array", "object"]},
    "test_cases": {"type": "array"},
    "policies": {"type": "object"}
  },
  "definitions": {
    "parameter": {
      "type": "object",
      "required": ["name", "type"],
      "properties": {"name": {"type": "string"}, "type": {"type": "string"}}
    },
    "constraint": {
      "type": "object",
      "required": ["rule", "error_code"],
      "properties": {"rule": {"type": "string"}, "error_code": {"type": "string"}}
    },
    "error_code": {
      "type": "object",
      "required": ["code", "message"],
      "properties": {
        "code": {"type": "string"},
        "message": {"type": "string"},
        "severity": {"type": "string", "enum": ["info", "warning", "error", "fatal"]}
      }
    }
  }
}
`

// WriteFile writes content to a file, creating parent directories if needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads file content, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}

	return string(content)
}

// SnapshotTree maps every regular file under root (relative, slash
// separated) to its contents.
func SnapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()

	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to snapshot %s: %v", root, err)
	}
	return out
}
