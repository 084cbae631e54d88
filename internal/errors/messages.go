package errors

import "fmt"

// MissingSchemaFile reports that the structural schema document is absent.
func MissingSchemaFile(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("schema document not found: %s", path),
		"Pass the schema with --schema <path>",
		"Or set schema_path in .contractkit/config.json",
	)
}

// MissingGlossaryFile reports that an explicitly requested glossary is absent.
func MissingGlossaryFile(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("glossary document not found: %s", path),
		"Check the --glossary path",
	)
}

// MissingCatalogFile reports that the catalog document is absent.
func MissingCatalogFile(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("catalog document not found: %s", path),
		"Check the --catalog path",
	)
}

// DirectoryNotFound reports a missing contracts or output directory.
func DirectoryNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("directory not found: %s", path),
		"Create the directory or pass a different path",
	)
}

// NoContractsFound reports an empty contract store.
func NoContractsFound(dir string, globs []string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("no contracts matching %v in %s", globs, dir),
		"Contract files are named like sps_contract_stageA_FINAL.json",
	)
}

// UnknownModule reports a --module abbreviation absent from the store.
func UnknownModule(abbr string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("unknown module abbreviation: %s", abbr),
		"Run 'contractkit validate' to list discovered modules",
	)
}

// InvalidFlagCombination reports mutually exclusive or missing flags.
func InvalidFlagCombination(flags, reason string) *CLIError {
	return NewArgumentError(fmt.Sprintf("invalid flag combination %s: %s", flags, reason))
}

// ConfigFileNotFound reports a missing explicit config file.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Remove --config to use defaults",
	)
}

// ConfigParseError reports a config file that could not be loaded.
func ConfigParseError(path string, err error) *CLIError {
	return &CLIError{
		Category:    Configuration,
		Message:     fmt.Sprintf("failed to load config %s: %v", path, err),
		Remediation: []string{"Check the JSON syntax of the config file"},
		cause:       err,
	}
}
