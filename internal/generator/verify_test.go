package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/contractkit/internal/contract"
	"github.com/ariel-frischer/contractkit/internal/testutil"
)

func driftCodes(ds []Drift) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Abbr + " " + d.Code + " " + d.File
	}
	return out
}

func TestVerify(t *testing.T) {
	t.Parallel()

	g, modulesDir := newTestGenerator(t)
	doc := spsDoc(t)
	_, err := g.GenerateForContract(context.Background(), doc)
	require.NoError(t, err)

	t.Run("clean", func(t *testing.T) {
		drifts, err := Verify(contract.NewStore(doc), modulesDir)
		require.NoError(t, err)
		assert.Empty(t, drifts)
	})

	t.Run("contract edited", func(t *testing.T) {
		edited := spsDoc(t, testutil.WithVersion("1.1.0"))
		drifts, err := Verify(contract.NewStore(edited), modulesDir)
		require.NoError(t, err)
		require.Len(t, drifts, len(AutogenFiles()))
		for _, d := range drifts {
			assert.Equal(t, DriftStale, d.Code)
			assert.Contains(t, d.Message, edited.SHA256[:12])
		}
	})

	t.Run("not generated and orphan", func(t *testing.T) {
		other := spsDoc(t, testutil.WithAbbr("ABC"))
		drifts, err := Verify(contract.NewStore(other), modulesDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"ABC " + DriftNotGenerated + " ", "SPS " + DriftOrphan + " "}, driftCodes(drifts))
	})
}

func TestVerify_FileDrift(t *testing.T) {
	t.Parallel()

	g, modulesDir := newTestGenerator(t)
	doc := spsDoc(t)
	set, err := g.GenerateForContract(context.Background(), doc)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(set.Dir, ValidatorsFile)))
	testutil.WriteFile(t, filepath.Join(set.Dir, "extra.go"), "package sps\n")
	testutil.WriteFile(t, filepath.Join(set.Dir, ManualFile), "package sps\n")
	testutil.WriteFile(t, filepath.Join(set.Dir, ReadmeFile), "hand edited\n")

	drifts, err := Verify(contract.NewStore(doc), modulesDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"SPS " + DriftMissing + " " + ValidatorsFile,
		"SPS " + DriftStale + " " + ReadmeFile,
		"SPS " + DriftUnexpected + " extra.go",
	}, driftCodes(drifts))
}

func TestHeaderHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", HeaderHash([]byte("// Code generated\n// contract_sha256: abc\npackage x\n")))
	assert.Equal(t, "abc", HeaderHash([]byte("<!-- Code generated\ncontract_sha256: abc\n-->\n")))
	assert.Equal(t, "", HeaderHash([]byte("package x\n")))
}
