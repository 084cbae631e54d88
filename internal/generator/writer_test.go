package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/testutil"
)

func files(names ...string) []renderedFile {
	out := make([]renderedFile, len(names))
	for i, n := range names {
		out[i] = renderedFile{name: n, data: []byte("new " + n + "\n")}
	}
	return out
}

// failOn returns a rename that fails when promoting the named file.
func failOn(name string) renameFunc {
	return func(oldpath, newpath string) error {
		if filepath.Base(newpath) == name {
			return errors.New("disk full")
		}
		return os.Rename(oldpath, newpath)
	}
}

func TestCommit_Statuses(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "SPS")
	testutil.WriteFile(t, filepath.Join(dir, ConfigFile), "new "+ConfigFile+"\n")
	testutil.WriteFile(t, filepath.Join(dir, CLIFile), "old\n")

	arts, err := commit(dir, files(ConfigFile, CLIFile, ReadmeFile), os.Rename)
	require.NoError(t, err)
	require.Len(t, arts, 3)
	assert.Equal(t, StatusUnchanged, arts[0].Status)
	assert.Equal(t, StatusUpdated, arts[1].Status)
	assert.Equal(t, StatusCreated, arts[2].Status)
	assert.Equal(t, "new "+CLIFile+"\n", testutil.ReadFile(t, filepath.Join(dir, CLIFile)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "leftover temporary %s", e.Name())
	}
}

func TestCommit_RollbackOnPromotionFailure(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "SPS")
	testutil.WriteFile(t, filepath.Join(dir, IOTypesFile), "old io\n")
	testutil.WriteFile(t, filepath.Join(dir, PipelineImplFile), "manual\n")
	before := testutil.SnapshotTree(t, dir)

	_, err := commit(dir, files(ConfigFile, IOTypesFile, ValidatorsFile, PipelineFile), failOn(ValidatorsFile))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	// Config was created and IO types updated before the failure: both are undone.
	assert.Equal(t, before, testutil.SnapshotTree(t, dir))
}

func TestCommit_RefusesForeignNames(t *testing.T) {
	t.Parallel()

	for _, name := range []string{PipelineImplFile, "../escape.go", "other.go", "sub/" + ConfigFile} {
		dir := filepath.Join(t.TempDir(), "SPS")
		_, err := commit(dir, []renderedFile{{name: name, data: []byte("x")}}, os.Rename)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, errors.ErrGenerationSafety), name)
	}
}

func TestCommit_RefusesNonRegularTarget(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "SPS")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ReadmeFile), 0o755))

	_, err := commit(dir, files(ConfigFile, ReadmeFile), os.Rename)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrGenerationSafety))
	assert.NoFileExists(t, filepath.Join(dir, ConfigFile))
}

func TestGenerateForContract_RollbackKeepsPreviousSet(t *testing.T) {
	t.Parallel()

	g, modulesDir := newTestGenerator(t)
	_, err := g.GenerateForContract(context.Background(), spsDoc(t))
	require.NoError(t, err)
	before := testutil.SnapshotTree(t, modulesDir)

	g.rename = failOn(CLIFile)
	_, err = g.GenerateForContract(context.Background(), spsDoc(t, testutil.WithDescription("changed")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module SPS")
	assert.Equal(t, before, testutil.SnapshotTree(t, modulesDir))
}
