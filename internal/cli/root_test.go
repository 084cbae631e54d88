package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/generator"
	"github.com/ariel-frischer/contractkit/internal/testutil"
	"github.com/ariel-frischer/contractkit/internal/validation"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// workspace isolates config lookup and returns a working directory holding
// a schema and an empty contracts directory.
func workspace(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WriteSchema(t, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "contracts"), 0o755))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewRootCmd_Commands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range NewRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"validate", "catalog", "verify", "generate", "watch", "config", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestValidate(t *testing.T) {
	dir := workspace(t)
	testutil.WriteContract(t, filepath.Join(dir, "contracts"), "SPS")

	out, err := run(t, "validate", "contracts", "--schema", testutil.SchemaFileName, "--out", "out")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 1 of 1 contract(s) passed, average score 100.0")
	assert.Contains(t, out, "report: "+filepath.Join("out", "validation_report.json"))
	assert.FileExists(t, filepath.Join(dir, "out", "validation_summary.md"))
}

func TestValidate_DuplicateErrorCode(t *testing.T) {
	dir := workspace(t)
	testutil.WriteContract(t, filepath.Join(dir, "contracts"), "ABC", testutil.WithErrorCodes("E_BAND", "E_EMPTY", "E_BAND"))

	out, err := run(t, "validate", "contracts", "--schema", testutil.SchemaFileName, "--out", "out")
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))
	assert.Contains(t, out, "ABC "+validation.CodeDuplicateErrorCode+":")
	assert.Contains(t, out, "✗ 0 of 1 contract(s) passed")
}

func TestValidate_ConfigFile(t *testing.T) {
	dir := workspace(t)
	testutil.WriteContract(t, filepath.Join(dir, "contracts"), "SPS")
	testutil.WriteFile(t, filepath.Join(dir, ".contractkit", "config.json"),
		`{"schema_path": "`+testutil.SchemaFileName+`", "reports_dir": "rep"}`)

	_, err := run(t, "validate")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "rep", "validation_report.yaml"))
}

func TestValidate_ArgumentAndInputErrors(t *testing.T) {
	tests := map[string]struct {
		args     []string
		wantCode int
		category clierrors.ErrorCategory
	}{
		"no schema": {
			args:     []string{"validate", "contracts"},
			wantCode: ExitInvalidArguments,
			category: clierrors.Argument,
		},
		"missing schema file": {
			args:     []string{"validate", "contracts", "--schema", "nope.json"},
			wantCode: ExitMissingDependencies,
			category: clierrors.Prerequisite,
		},
		"missing glossary file": {
			args:     []string{"validate", "contracts", "--schema", testutil.SchemaFileName, "--glossary", "nope.json"},
			wantCode: ExitMissingDependencies,
			category: clierrors.Prerequisite,
		},
		"missing contracts dir": {
			args:     []string{"validate", "elsewhere", "--schema", testutil.SchemaFileName},
			wantCode: ExitMissingDependencies,
			category: clierrors.Prerequisite,
		},
		"empty contracts dir": {
			args:     []string{"validate", "contracts", "--schema", testutil.SchemaFileName},
			wantCode: ExitMissingDependencies,
			category: clierrors.Prerequisite,
		},
		"too many args": {
			args:     []string{"validate", "a", "b"},
			wantCode: ExitInvalidArguments,
			category: clierrors.Argument,
		},
		"unknown flag": {
			args:     []string{"validate", "--bogus"},
			wantCode: ExitInvalidArguments,
			category: clierrors.Argument,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			workspace(t)
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			assert.Equal(t, tt.category, clierrors.CategoryOf(err))
		})
	}
}

func TestCatalog(t *testing.T) {
	dir := workspace(t)
	testutil.WriteContract(t, filepath.Join(dir, "contracts"), "SPS")

	clean := testutil.WriteCatalog(t, filepath.Join(dir, "clean"),
		testutil.CatalogEntry{ModuleID: "sps.module", ModuleAbbr: "SPS", Version: "1.0.0"})
	out, err := run(t, "catalog", "contracts", "--catalog", clean)
	require.NoError(t, err)
	assert.Contains(t, out, "catalog clean: 1 entries match 1 contract(s)")

	drifted := testutil.WriteCatalog(t, filepath.Join(dir, "drifted"),
		testutil.CatalogEntry{ModuleID: "sps.module", ModuleAbbr: "SPS", Version: "2.0.0"})
	out, err = run(t, "catalog", "contracts", "--catalog", drifted)
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))
	assert.Contains(t, out, "sps.module "+validation.CodeCatalogVersionMismatch+":")
}

func TestCatalog_MissingCatalog(t *testing.T) {
	workspace(t)

	_, err := run(t, "catalog", "contracts")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))

	_, err = run(t, "catalog", "contracts", "--catalog", "nope.json")
	assert.Equal(t, ExitMissingDependencies, ExitCode(err))
}

func TestGenerate_HelpListsArtifacts(t *testing.T) {
	out, err := run(t, "generate", "--help")
	require.NoError(t, err)
	for _, name := range generator.AutogenFiles() {
		assert.Contains(t, out, name)
	}
}

func TestGenerate_FlagCombinations(t *testing.T) {
	workspace(t)

	_, err := run(t, "generate")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))

	_, err = run(t, "generate", "--all", "--module", "SPS")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestGenerate_ThenVerify(t *testing.T) {
	dir := workspace(t)
	contracts := filepath.Join(dir, "contracts")
	testutil.WriteContract(t, contracts, "SPS")

	out, err := run(t, "generate", "--all", "--out", "modules")
	require.NoError(t, err)
	assert.Contains(t, out, "1 module(s) generated, 1 changed")
	for _, name := range generator.AutogenFiles() {
		assert.FileExists(t, filepath.Join(dir, "modules", "SPS", name))
	}

	out, err = run(t, "verify", "--out", "modules")
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date with 1 contract(s)")

	out, err = run(t, "generate", "--module", "sps", "--out", "modules")
	require.NoError(t, err)
	assert.Contains(t, out, "1 module(s) generated, 0 changed")

	testutil.WriteContract(t, contracts, "SPS", testutil.WithVersion("1.1.0"))
	out, err = run(t, "verify", "--out", "modules")
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))
	assert.Contains(t, out, "SPS "+generator.DriftStale+":")
}

func TestGenerate_Failures(t *testing.T) {
	dir := workspace(t)
	contracts := filepath.Join(dir, "contracts")
	testutil.WriteContract(t, contracts, "SPS")
	testutil.WriteContract(t, contracts, "ABC", testutil.WithErrorCodes("E_BAND", "E_EMPTY", "E_BAND"))

	out, err := run(t, "generate", "--module", "XYZ", "--out", "modules")
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))
	assert.Contains(t, out, "✗ XYZ: no contract declares module XYZ")

	out, err = run(t, "generate", "--all", "--gate", "--schema", testutil.SchemaFileName, "--out", "modules")
	require.Error(t, err)
	assert.Contains(t, out, "✗ ABC: contract failed validation")
	assert.Contains(t, out, "1 of 2 module(s) generated, 1 failed")
	assert.FileExists(t, filepath.Join(dir, "modules", "SPS", "config_autogen.go"))
	assert.NoDirExists(t, filepath.Join(dir, "modules", "ABC"))
}

func TestGenerate_InvalidAbbreviation(t *testing.T) {
	dir := workspace(t)
	testutil.WriteContract(t, filepath.Join(dir, "contracts"), "SPS")

	_, err := run(t, "generate", "--module", "../etc")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestConfig_InitSetShow(t *testing.T) {
	dir := workspace(t)

	out, err := run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+filepath.Join(".contractkit", "config.json"))
	assert.FileExists(t, filepath.Join(dir, ".contractkit", "config.json"))

	out, err = run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	_, err = run(t, "config", "set", "max_parallel", "8")
	require.NoError(t, err)

	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "max_parallel = 8\n")
	assert.Contains(t, out, "contract_globs = *_contract_stageA*.json\n")
	assert.Contains(t, out, "loaded from:\n  "+filepath.Join(".contractkit", "config.json"))

	_, err = run(t, "config", "set", "bogus_key", "1")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))

	_, err = run(t, "config", "set", "max_parallel", "many")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestConfig_Keys(t *testing.T) {
	workspace(t)

	out, err := run(t, "config", "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "log_level enum (debug|info|warn|error)")
	assert.Contains(t, out, "watch_debounce_ms int")
}

func TestConfig_ExplicitMissingFile(t *testing.T) {
	workspace(t)

	_, err := run(t, "validate", "--config", "missing.json")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, err.Error(), "config file not found: missing.json")
}

func TestVersion_Plain(t *testing.T) {
	out, err := run(t, "version", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "contractkit dev\n")
	assert.Contains(t, out, "go: ")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, clierrors.MissingSchemaFile("s.json"))
	assert.Contains(t, buf.String(), "Prerequisite Error: schema document not found: s.json")

	buf.Reset()
	_, err := run(t, "version", "extra")
	PrintError(&buf, err)
	assert.Contains(t, buf.String(), "Argument Error:")
	assert.Contains(t, buf.String(), "Usage: contractkit version [flags]")
}
