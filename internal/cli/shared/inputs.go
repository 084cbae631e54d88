package shared

import (
	"github.com/ariel-frischer/contractkit/internal/contract"
	clierrors "github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/validation"
)

// LoadStore loads the contracts in dir. A missing directory or an empty
// store is a missing-input error.
func LoadStore(dir string, globs []string) (*contract.Store, error) {
	if !DirExists(dir) {
		return nil, clierrors.DirectoryNotFound(dir)
	}
	store, err := contract.LoadStore(dir, globs)
	if err != nil {
		return nil, clierrors.WrapCategory(err, clierrors.Prerequisite)
	}
	if store.Len() == 0 {
		return nil, clierrors.NoContractsFound(dir, globs)
	}
	return store, nil
}

// LoadSchema loads the schema at path. An empty path returns nil.
func LoadSchema(path string) (*validation.Schema, error) {
	if path == "" {
		return nil, nil
	}
	if err := RequireFile(path, clierrors.MissingSchemaFile); err != nil {
		return nil, err
	}
	schema, err := validation.LoadSchema(path)
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Prerequisite, "loading schema")
	}
	return schema, nil
}

// LoadGlossary loads the glossary at path. An empty path returns nil.
func LoadGlossary(path string) (*contract.Glossary, error) {
	if path == "" {
		return nil, nil
	}
	if err := RequireFile(path, clierrors.MissingGlossaryFile); err != nil {
		return nil, err
	}
	g, err := contract.LoadGlossary(path)
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Prerequisite, "loading glossary")
	}
	return g, nil
}

// LoadCatalog loads the catalog at path. An empty path returns nil.
func LoadCatalog(path string) (*contract.Catalog, error) {
	if path == "" {
		return nil, nil
	}
	if err := RequireFile(path, clierrors.MissingCatalogFile); err != nil {
		return nil, err
	}
	c, err := contract.LoadCatalog(path)
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Prerequisite, "loading catalog")
	}
	return c, nil
}
