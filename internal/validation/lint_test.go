package validation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/contractkit/internal/contract"
	"github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/testutil"
)

func stageASchema(t *testing.T) *Schema {
	t.Helper()
	return compile(t, testutil.StageASchema)
}

func lintJSON(t *testing.T, l *Linter, src string) *ValidationResult {
	t.Helper()
	root, err := contract.ParseBytes("sps_contract_stageA_FINAL.json", []byte(src))
	require.NoError(t, err)
	return l.ValidateDocument(contract.NewDocument("sps_contract_stageA_FINAL.json", root))
}

func TestLinter_ValidContract(t *testing.T) {
	t.Parallel()

	l := NewLinter(stageASchema(t), WithGlossary(contract.NewGlossary(map[string]string{"SPS": "signal preprocessing"})))
	res := lintJSON(t, l, testutil.ContractJSON())

	assert.True(t, res.Passed)
	assert.Equal(t, 100, res.Score)
	assert.Empty(t, res.Errors)
	assert.Equal(t, "SPS", res.Module)
}

func TestLinter_DuplicateCodeScenario(t *testing.T) {
	t.Parallel()

	l := NewLinter(stageASchema(t))
	res := lintJSON(t, l, testutil.ContractJSON(testutil.WithErrorCodes("E1", "E1")))

	assert.False(t, res.Passed)
	assert.Equal(t, []string{CodeDuplicateErrorCode, CodeUndefinedErrorCode, CodeUndefinedErrorCode}, res.Codes())
	assert.Equal(t, "error_codes[1].code", res.Errors[0].Path)
	assert.Equal(t, "constraints[0].error_code", res.Errors[1].Path, "constraints before rules")
	assert.Equal(t, "validation.rules[0].error_code", res.Errors[2].Path)
	assert.Equal(t, 100-15-10-10, res.Score)
}

func TestLinter_DuplicatesGroupedFirstSeen(t *testing.T) {
	t.Parallel()

	l := NewLinter(nil)
	res := lintJSON(t, l, testutil.ContractJSON(testutil.WithErrorCodes("E_BAND", "E_EMPTY", "B", "B", "E_BAND", "B")))

	var paths []string
	for _, e := range res.Errors {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"error_codes[4].code", "error_codes[3].code", "error_codes[5].code"}, paths)
}

func TestLinter_ErrorOrderAcrossClasses(t *testing.T) {
	t.Parallel()

	src := `{
  "_schema": {"name": "wrong", "stage": "A.contract_only", "maturity_stage": "final"},
  "module_abbr": "XYZ",
  "constraints": [{"rule": "a < b", "error_code": "E9"}],
  "validation": {"rules": []},
  "error_codes": [{"code": "E1", "message": "m"}, {"code": "E1", "message": "m"}]
}`
	l := NewLinter(stageASchema(t), WithGlossary(contract.NewGlossary(map[string]string{"SPS": ""})))
	res := lintJSON(t, l, src)

	codes := res.Codes()
	require.NotEmpty(t, codes)
	// Structural first; maturity_stage is caught by the schema enum so the
	// header pass reports only the name.
	tail := codes[len(codes)-4:]
	assert.Equal(t, []string{CodeSchemaHeader, CodeDuplicateErrorCode, CodeUndefinedErrorCode, CodeGlossaryMissing}, tail)
	for _, c := range codes[:len(codes)-4] {
		assert.Contains(t, []string{CodeMissingField, CodeEnumMismatch}, c)
	}
	assert.Equal(t, 0, res.Score, "score is floored at zero")
	assert.False(t, res.Passed)
}

func TestLinter_HeaderWithoutSchema(t *testing.T) {
	t.Parallel()

	l := NewLinter(nil, WithHeaderLiterals("", "B.stage"))
	res := lintJSON(t, l, testutil.ContractJSON(testutil.WithMaturity("final")))

	assert.Equal(t, []string{CodeSchemaHeader, CodeSchemaHeader}, res.Codes())
	assert.Equal(t, "_schema.stage", res.Errors[0].Path)
	assert.Equal(t, "_schema.maturity_stage", res.Errors[1].Path)
	assert.Equal(t, 50, res.Score)
}

func TestLinter_Glossary(t *testing.T) {
	t.Parallel()

	l := NewLinter(nil, WithGlossary(contract.NewGlossary(map[string]string{"FFT": ""})))
	res := lintJSON(t, l, testutil.ContractJSON())

	require.Equal(t, []string{CodeGlossaryMissing}, res.Codes())
	assert.Equal(t, 90, res.Score)
	assert.True(t, errors.Is(res.Errors[0].Err(), errors.ErrSemantic))
}

func TestLinter_GlossaryMatchesAbbrAsWritten(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		abbr  string
		terms map[string]string
		want  []string
	}{
		"lowercase term present": {abbr: "sps", terms: map[string]string{"sps": ""}},
		"surrounding space":      {abbr: " SPS ", terms: map[string]string{"SPS": ""}},
		"case differs":           {abbr: "Sps", terms: map[string]string{"SPS": ""}, want: []string{CodeGlossaryMissing}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			l := NewLinter(nil, WithGlossary(contract.NewGlossary(tt.terms)))
			res := lintJSON(t, l, testutil.ContractJSON(testutil.WithAbbr(tt.abbr)))
			assert.ElementsMatch(t, tt.want, res.Codes())
		})
	}
}

func TestLinter_ParseError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := filepath.Join(dir, "bad_contract_stageA_FINAL.json")
	testutil.WriteFile(t, path, `{"module_id": `)

	res := NewLinter(nil).ValidateContract(path)
	assert.False(t, res.Passed)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, []string{CodeParseError}, res.Codes())
	assert.Equal(t, "bad_contract_stageA_FINAL.json", res.Module)
	assert.True(t, errors.Is(res.Errors[0].Err(), errors.ErrStructural))
}

func TestLinter_AdvisoryKeepsPassed(t *testing.T) {
	t.Parallel()

	src := testutil.ContractJSON(testutil.WithVersion("1.0"))
	store := contract.NewStore()

	l := NewLinter(stageASchema(t), WithAdvisory(true), WithStore(store))
	res := lintJSON(t, l, src)

	assert.True(t, res.Passed, "advisory findings never fail a contract")
	assert.Empty(t, res.Errors)
	var codes []string
	for _, w := range res.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []string{CodeVersionNotSemver, CodeRelationUnknownModule}, codes)
	assert.Equal(t, 90, res.Score)
	assert.False(t, res.BelowThreshold(DefaultScoreThreshold))

	off := lintJSON(t, NewLinter(stageASchema(t)), src)
	assert.Empty(t, off.Warnings)
	assert.Equal(t, 100, off.Score)
}

func TestLinter_AdvisoryUnknownGroupMember(t *testing.T) {
	t.Parallel()

	src := `{"version": "1.0.0", "parameters": [{"name": "a", "type": "float"}], "parameter_groups": {"g": ["a", "b"]}}`
	res := lintJSON(t, NewLinter(nil, WithAdvisory(true), WithHeaderLiterals("", "")), src)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, CodeGroupUnknownParameter, res.Warnings[0].Code)
	assert.Contains(t, res.Warnings[0].Message, "'b'")
}
