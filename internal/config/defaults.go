package config

import (
	"github.com/ariel-frischer/contractkit/internal/contract"
	"github.com/ariel-frischer/contractkit/internal/generator"
	"github.com/ariel-frischer/contractkit/internal/validation"
)

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"contracts_dir":     "./contracts",
		"contract_globs":    append([]string(nil), contract.DefaultGlobs...),
		"schema_path":       "",
		"glossary_path":     "",
		"catalog_path":      "",
		"modules_dir":       "./modules",
		"reports_dir":       "./reports",
		"schema_name":       validation.DefaultSchemaName,
		"schema_stage":      validation.DefaultSchemaStage,
		"score_threshold":   validation.DefaultScoreThreshold,
		"max_parallel":      4,
		"advisory_checks":   false,
		"runtime_import":    generator.DefaultRuntimeImport,
		"log_json":          false,
		"log_level":         "warn",
		"watch_debounce_ms": 300,
	}
}

// GetDefaultConfigTemplate returns the file written by "contractkit config
// init". JSON has no comments, so every key carries its default.
func GetDefaultConfigTemplate() string {
	return `{
  "contracts_dir": "./contracts",
  "contract_globs": ["*_contract_stageA*.json"],
  "schema_path": "",
  "glossary_path": "",
  "catalog_path": "",
  "modules_dir": "./modules",
  "reports_dir": "./reports",
  "schema_name": "A-PRACTICAL.contract",
  "schema_stage": "A.contract_only",
  "score_threshold": 90,
  "max_parallel": 4,
  "advisory_checks": false,
  "runtime_import": "github.com/ariel-frischer/contractkit/pkg/modkit",
  "log_json": false,
  "log_level": "warn",
  "watch_debounce_ms": 300
}
`
}
