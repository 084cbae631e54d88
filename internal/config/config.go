// Package config loads contractkit settings from defaults, the user and
// project config files and CONTRACTKIT_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/contractkit/internal/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONTRACTKIT_"

// Configuration represents the contractkit configuration
type Configuration struct {
	ContractsDir    string   `koanf:"contracts_dir" validate:"required"`
	ContractGlobs   []string `koanf:"contract_globs" validate:"min=1,dive,required"`
	SchemaPath      string   `koanf:"schema_path"`
	GlossaryPath    string   `koanf:"glossary_path"`
	CatalogPath     string   `koanf:"catalog_path"`
	ModulesDir      string   `koanf:"modules_dir" validate:"required"`
	ReportsDir      string   `koanf:"reports_dir"`
	SchemaName      string   `koanf:"schema_name" validate:"required"`
	SchemaStage     string   `koanf:"schema_stage" validate:"required"`
	ScoreThreshold  int      `koanf:"score_threshold" validate:"min=0,max=100"`
	MaxParallel     int      `koanf:"max_parallel" validate:"min=1,max=64"`
	AdvisoryChecks  bool     `koanf:"advisory_checks"`
	RuntimeImport   string   `koanf:"runtime_import" validate:"required"`
	LogJSON         bool     `koanf:"log_json"`
	LogLevel        string   `koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`
	WatchDebounceMS int      `koanf:"watch_debounce_ms" validate:"min=10,max=60000"`

	// Sources lists the config files that were loaded, lowest priority first.
	Sources []string `koanf:"-"`
}

// WatchDebounce returns watch_debounce_ms as a duration.
func (c *Configuration) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Load loads configuration from global, local, and environment sources.
// Priority: Environment variables > Local config > User config > Defaults.
// An empty localConfigPath means ProjectConfigPath; an explicitly named file
// must exist.
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, errors.Wrapf(err, "setting default %s", key)
		}
	}

	var sources []string
	if userPath, err := UserConfigPath(); err == nil && fileExists(userPath) {
		if err := loadFile(k, userPath); err != nil {
			return nil, err
		}
		sources = append(sources, userPath)
	}

	localPath := localConfigPath
	if localPath == "" {
		localPath = ProjectConfigPath()
	} else if !fileExists(localPath) {
		return nil, errors.WithHint(
			errors.Newf("config file %s does not exist", localPath),
			"run 'contractkit config init' to create one")
	}
	if fileExists(localPath) {
		if err := loadFile(k, localPath); err != nil {
			return nil, err
		}
		sources = append(sources, localPath)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, errors.Wrap(err, "loading environment overrides")
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.Sources = sources

	if err := ValidateConfigValues(&cfg, lastSource(sources)); err != nil {
		return nil, err
	}

	cfg.ContractsDir = expandHomePath(cfg.ContractsDir)
	cfg.ModulesDir = expandHomePath(cfg.ModulesDir)
	cfg.ReportsDir = expandHomePath(cfg.ReportsDir)
	cfg.SchemaPath = expandHomePath(cfg.SchemaPath)
	cfg.GlossaryPath = expandHomePath(cfg.GlossaryPath)
	cfg.CatalogPath = expandHomePath(cfg.CatalogPath)
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	if err := ValidateJSONSyntax(path); err != nil {
		return err
	}
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return errors.Wrapf(err, "failed to load config %s", path)
	}
	return nil
}

func lastSource(sources []string) string {
	if len(sources) == 0 {
		return "environment"
	}
	return sources[len(sources)-1]
}

// envTransform maps CONTRACTKIT_MAX_PARALLEL to max_parallel. Variables that
// name no known key are dropped; list keys split on commas.
func envTransform(key, value string) (string, interface{}) {
	name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	schema, ok := KnownKeys[name]
	if !ok {
		return "", nil
	}
	if schema.Type == TypeStringList {
		return name, splitList(value)
	}
	return name, value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
