package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/contractkit/internal/git"
	"github.com/ariel-frischer/contractkit/internal/validation"
)

func sampleReport() *ValidationReport {
	abc := &validation.ValidationResult{Module: "ABC", Path: "/c/abc_contract_stageA_FINAL.json", Score: 85}
	abc.AddError(&validation.ValidationError{
		Code:    validation.CodeDuplicateErrorCode,
		Path:    "error_codes[2].code",
		Line:    30,
		Message: "duplicate error code 'E_BAND' (first declared at error_codes[0])",
	})
	sps := &validation.ValidationResult{Module: "SPS", Path: "/c/sps_contract_stageA_FINAL.json", Passed: true, Score: 95}
	sps.AddWarning(&validation.ValidationError{Code: validation.CodeVersionNotSemver, Path: "version", Message: "version '1.0' is not semantic"})

	results := []*validation.ValidationResult{abc, sps}
	catalog := []*validation.ValidationError{{
		Code:    validation.CodeCatalogVersionMismatch,
		Module:  "sps.module",
		Path:    "modules[1].version",
		Message: "version mismatch: catalog 2.0.0, contract 1.0",
	}}
	return &ValidationReport{
		RunID:         "6f1c9a52-0c6e-4d0b-9d1f-3f2a1c7b8e90",
		GeneratedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ContractsDir:  "/c",
		Revision:      &git.Revision{Commit: "0123456789abcdef0123456789abcdef01234567", Branch: "main"},
		SchemaVersion: "v4",
		CatalogPath:   "/c/katalog_4_0.json",
		Threshold:     90,
		Summary:       summarize(results, catalog, 90),
		Results:       results,
		Catalog:       catalog,
	}
}

func TestWriteReports(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "reports")
	paths, err := WriteReports(dir, sampleReport())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, ReportJSON),
		filepath.Join(dir, ReportYAML),
		filepath.Join(dir, ReportSummary),
	}, paths)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temporary files are left behind")

	var fromJSON map[string]any
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fromJSON))

	var fromYAML map[string]any
	data, err = os.ReadFile(paths[1])
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))

	for _, doc := range []map[string]any{fromJSON, fromYAML} {
		assert.Equal(t, "6f1c9a52-0c6e-4d0b-9d1f-3f2a1c7b8e90", doc["run_id"])
		assert.Equal(t, "v4", doc["schema_version"])
		summary := doc["summary"].(map[string]any)
		assert.EqualValues(t, 1, summary["failed"])
		assert.EqualValues(t, 1, summary["warnings"])
		assert.EqualValues(t, 1, summary["catalog_violations"])
		assert.Len(t, doc["results"], 2)
	}
}

func TestMarkdownSummary(t *testing.T) {
	t.Parallel()

	got := MarkdownSummary(sampleReport())
	want := strings.Join([]string{
		"# Contract validation summary",
		"",
		"- Run: `6f1c9a52-0c6e-4d0b-9d1f-3f2a1c7b8e90`",
		"- Generated: 2026-03-01T12:00:00Z",
		"- Contracts: `/c` at `0123456` (main)",
		"- Schema version: v4",
		"- Score threshold: 90",
		"",
		"| Module | Result | Score | Errors | Warnings |",
		"|---|---|---|---|---|",
		"| ABC | FAIL | 85 | 1 | 0 |",
		"| SPS | PASS | 95 | 0 | 1 |",
		"",
		"Passed 1 of 2, 1 below threshold, average score 90.0.",
		"",
		"## ABC",
		"",
		"- `DUPLICATE_ERROR_CODE` error_codes[2].code (line 30): duplicate error code 'E_BAND' (first declared at error_codes[0])",
		"",
		"## SPS",
		"",
		"- warning: `VERSION_NOT_SEMVER` version: version '1.0' is not semantic",
		"",
		"## Catalog",
		"",
		"- `CATALOG_VERSION_MISMATCH` modules[1].version: version mismatch: catalog 2.0.0, contract 1.0",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MarkdownSummary() mismatch (-want +got):\n%s", diff)
	}
}

func TestReport_Findings(t *testing.T) {
	t.Parallel()

	got := sampleReport().Findings()
	want := []Finding{
		{Module: "ABC", Code: validation.CodeDuplicateErrorCode, Path: "error_codes[2].code", Line: 30,
			Message: "duplicate error code 'E_BAND' (first declared at error_codes[0])"},
		{Module: "SPS", Code: validation.CodeVersionNotSemver, Path: "version", Warning: true,
			Message: "version '1.0' is not semantic"},
		{Module: "sps.module", Code: validation.CodeCatalogVersionMismatch, Path: "modules[1].version",
			Message: "version mismatch: catalog 2.0.0, contract 1.0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Findings() mismatch (-want +got):\n%s", diff)
	}
}

func TestScoreDetail(t *testing.T) {
	t.Parallel()

	res := &validation.ValidationResult{Module: "ABC", Score: 75}
	res.AddError(&validation.ValidationError{Code: validation.CodeDuplicateErrorCode})
	res.AddError(&validation.ValidationError{Code: validation.CodeDuplicateErrorCode})
	res.AddError(&validation.ValidationError{Code: validation.CodeUndefinedErrorCode})
	assert.Equal(t, "score 75, DUPLICATE_ERROR_CODE, UNDEFINED_ERROR_CODE", scoreDetail(res))
	assert.Equal(t, "score 100", scoreDetail(&validation.ValidationResult{Passed: true, Score: 100}))
}
