package contract

import (
	"github.com/ariel-frischer/contractkit/internal/errors"
)

// CatalogEntry is one module listed in the catalog.
type CatalogEntry struct {
	ModuleID   string `json:"module_id" validate:"required"`
	ModuleAbbr string `json:"module_abbr"`
	Version    string `json:"version"`
	Line       int    `json:"-"`
}

// Catalog is the ordered list of catalog entries.
type Catalog struct {
	Path    string
	Entries []CatalogEntry
}

// LoadCatalog reads a {"modules": [...]} document. Entries keep catalog
// order; field problems are left to the catalog check.
func LoadCatalog(path string) (*Catalog, error) {
	root, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	modules := FindNode(root, "modules")
	if Kind(modules) != KindArray {
		return nil, errors.WithHint(
			errors.Newf("catalog %s: missing \"modules\" list", path),
			`a catalog looks like {"modules": [{"module_id": "...", "module_abbr": "...", "version": "..."}]}`)
	}
	c := &Catalog{Path: path}
	for _, n := range Items(modules) {
		c.Entries = append(c.Entries, CatalogEntry{
			ModuleID:   String(FindNode(n, "module_id")),
			ModuleAbbr: String(FindNode(n, "module_abbr")),
			Version:    String(FindNode(n, "version")),
			Line:       Line(n),
		})
	}
	return c, nil
}
