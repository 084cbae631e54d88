package batch

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/contractkit/internal/contract"
	"github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/generator"
	"github.com/ariel-frischer/contractkit/internal/git"
	"github.com/ariel-frischer/contractkit/internal/progress"
	"github.com/ariel-frischer/contractkit/internal/testutil"
	"github.com/ariel-frischer/contractkit/internal/validation"
)

// fixture writes a clean SPS contract and an ABC contract with a repeated
// error code, and returns the loaded store.
func fixture(t *testing.T) *contract.Store {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteContract(t, dir, "SPS")
	testutil.WriteContract(t, dir, "ABC", testutil.WithErrorCodes("E_BAND", "E_EMPTY", "E_BAND"))
	store, err := contract.LoadStore(dir, nil)
	require.NoError(t, err)
	return store
}

func loadSchema(t *testing.T) *validation.Schema {
	t.Helper()

	schema, err := validation.LoadSchema(testutil.WriteSchema(t, t.TempDir()))
	require.NoError(t, err)
	return schema
}

func TestRunner_Validate(t *testing.T) {
	t.Parallel()

	store := fixture(t)
	var out bytes.Buffer
	cat := &contract.Catalog{Path: "/contracts/katalog_4_0.json", Entries: []contract.CatalogEntry{
		{ModuleID: "abc.module", ModuleAbbr: "ABC", Version: "1.0.0"},
		{ModuleID: "sps.module", ModuleAbbr: "SPS", Version: "2.0.0"},
	}}
	r := NewRunner(loadSchema(t),
		WithMaxParallel(1),
		WithCatalog(cat),
		WithDisplay(progress.NewDisplay(progress.TerminalCapabilities{}, &out)),
	)
	r.revision = func(string) *git.Revision {
		return &git.Revision{Commit: strings.Repeat("a", 40), Branch: "main"}
	}

	report, err := r.Validate(context.Background(), store)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	abc, sps := report.Results[0], report.Results[1]
	assert.Equal(t, "ABC", abc.Module)
	assert.False(t, abc.Passed)
	assert.Equal(t, []string{validation.CodeDuplicateErrorCode}, abc.Codes())
	assert.Equal(t, 85, abc.Score)
	assert.Equal(t, "SPS", sps.Module)
	assert.True(t, sps.Passed)
	assert.Equal(t, 100, sps.Score)

	assert.Equal(t, Summary{
		Total:             2,
		Passed:            1,
		Failed:            1,
		BelowThreshold:    1,
		CatalogViolations: 1,
		AverageScore:      92.5,
	}, report.Summary)
	require.Len(t, report.Catalog, 1)
	assert.Equal(t, validation.CodeCatalogVersionMismatch, report.Catalog[0].Code)
	assert.Equal(t, "v4", report.SchemaVersion)
	assert.Equal(t, store.Dir(), report.ContractsDir)
	assert.Equal(t, "main", report.Revision.Branch)
	assert.Len(t, report.RunID, 36)
	assert.False(t, report.OK(false))

	assert.Equal(t,
		"[FAIL] [1/2] ABC: score 85, DUPLICATE_ERROR_CODE\n[OK] [2/2] SPS: score 100\n",
		out.String())
}

func TestRunner_ValidateKeepsStoreOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	abbrs := []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF"}
	for _, a := range abbrs {
		testutil.WriteContract(t, dir, a)
	}
	store, err := contract.LoadStore(dir, nil)
	require.NoError(t, err)

	var seen []string
	results := make(chan string, len(abbrs))
	r := NewRunner(nil, WithMaxParallel(4), WithOnResult(func(res *validation.ValidationResult) {
		results <- res.Module
	}))
	report, err := r.Validate(context.Background(), store)
	require.NoError(t, err)
	close(results)
	for m := range results {
		seen = append(seen, m)
	}

	var modules []string
	for _, res := range report.Results {
		modules = append(modules, res.Module)
	}
	assert.Equal(t, abbrs, modules)
	assert.ElementsMatch(t, abbrs, seen)
	assert.True(t, report.OK(true))
	assert.Equal(t, validation.UnversionedSchema, report.SchemaVersion)
}

func TestRunner_ValidateParseFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteContract(t, dir, "SPS")
	testutil.WriteFile(t, dir+"/broken_contract_stageA_FINAL.json", `{"module_id": `)
	store, err := contract.LoadStore(dir, nil)
	require.NoError(t, err)

	report, err := NewRunner(nil).Validate(context.Background(), store)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, "broken_contract_stageA_FINAL.json", report.Results[0].Module)
	assert.Equal(t, []string{validation.CodeParseError}, report.Results[0].Codes())
	assert.Equal(t, 0, report.Results[0].Score)
	assert.Equal(t, 1, report.Summary.Failed)
}

func TestRunner_ValidateCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil).Validate(ctx, fixture(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReport_OKStrict(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		summary    Summary
		wantOK     bool
		wantStrict bool
	}{
		"all passed":        {summary: Summary{Total: 2, Passed: 2}, wantOK: true, wantStrict: true},
		"below threshold":   {summary: Summary{Total: 1, Passed: 1, BelowThreshold: 1}, wantOK: true},
		"failed contract":   {summary: Summary{Total: 1, Failed: 1, BelowThreshold: 1}},
		"catalog violation": {summary: Summary{Total: 1, Passed: 1, CatalogViolations: 1}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := &ValidationReport{Summary: tt.summary}
			assert.Equal(t, tt.wantOK, r.OK(false))
			assert.Equal(t, tt.wantStrict, r.OK(true))
		})
	}
}

func TestRunner_Gate(t *testing.T) {
	t.Parallel()

	store := fixture(t)
	gate := NewRunner(loadSchema(t)).Gate(store)

	abc, ok := store.ByAbbr("ABC")
	require.True(t, ok)
	err := gate(abc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSemantic))
	assert.Contains(t, err.Error(), "score 85")
	assert.Contains(t, err.Error(), validation.CodeDuplicateErrorCode)

	sps, ok := store.ByAbbr("SPS")
	require.True(t, ok)
	assert.NoError(t, gate(sps))
}

func TestRunner_Generate(t *testing.T) {
	t.Parallel()

	store := fixture(t)
	modulesDir := t.TempDir()
	var out bytes.Buffer
	r := NewRunner(loadSchema(t),
		WithMaxParallel(1),
		WithDisplay(progress.NewDisplay(progress.TerminalCapabilities{}, &out)),
	)

	var called []string
	opts := generator.Options{
		ModulesDir: modulesDir,
		Version:    "1.2.3",
		Gate:       r.Gate(store),
		OnModule:   func(m generator.ModuleResult) { called = append(called, m.Abbr) },
	}
	res, err := r.Generate(context.Background(), store, nil, opts)
	require.NoError(t, err)

	assert.False(t, res.OK())
	require.Len(t, res.Failed(), 1)
	assert.Equal(t, "ABC", res.Failed()[0].Abbr)
	assert.Equal(t, []string{"ABC", "SPS"}, called)
	assert.True(t, testutil.FileExists(modulesDir+"/SPS/"+generator.ConfigFile))
	assert.False(t, testutil.FileExists(modulesDir+"/ABC"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "[FAIL] [1/2] ABC: contract failed validation"), lines[0])
	assert.Equal(t, "[OK] [2/2] SPS: 6 file(s) written", lines[1])

	// Regenerating an unchanged contract writes nothing.
	out.Reset()
	_, err = r.Generate(context.Background(), store, []string{"sps"}, generator.Options{ModulesDir: modulesDir, Version: "1.2.3"})
	require.NoError(t, err)
	assert.Equal(t, "[OK] [1/1] SPS: up to date\n", out.String())
}

func TestPlannedModules(t *testing.T) {
	t.Parallel()

	store := fixture(t)
	assert.Equal(t, 2, plannedModules(store, nil))
	assert.Equal(t, 2, plannedModules(store, []string{"sps", "SPS", " xyz "}))
}
