package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ariel-frischer/contractkit/internal/contract"
)

var entryValidator = validator.New(validator.WithRequiredStructEnabled())

// CheckCatalog verifies every catalog entry against the loaded contracts,
// in catalog order. Contracts without a catalog entry are not reported.
// Comparison is exact string equality.
func CheckCatalog(cat *contract.Catalog, store *contract.Store) []*ValidationError {
	var out []*ValidationError
	for i, entry := range cat.Entries {
		path := indexPath("modules", i)

		if err := entryValidator.Struct(entry); err != nil {
			out = append(out, invalidEntry(entry, path, err))
			continue
		}

		doc, ok := store.ByID(entry.ModuleID)
		if !ok {
			out = append(out, &ValidationError{
				Code:    CodeCatalogContractNotFound,
				Module:  entry.ModuleID,
				Path:    path,
				Line:    entry.Line,
				Message: fmt.Sprintf("contract not found for catalog module '%s'", entry.ModuleID),
				Hint:    "Add the contract or remove the catalog entry",
			})
			continue
		}

		c := doc.Contract
		if entry.Version != c.Version {
			out = append(out, &ValidationError{
				Code:     CodeCatalogVersionMismatch,
				Module:   entry.ModuleID,
				Path:     path + ".version",
				Line:     entry.Line,
				Message:  fmt.Sprintf("version mismatch for '%s'", entry.ModuleID),
				Expected: fmt.Sprintf("'%s' (contract)", c.Version),
				Actual:   fmt.Sprintf("'%s' (catalog)", entry.Version),
			})
		}
		if entry.ModuleAbbr != c.ModuleAbbr {
			out = append(out, &ValidationError{
				Code:     CodeCatalogAbbrMismatch,
				Module:   entry.ModuleID,
				Path:     path + ".module_abbr",
				Line:     entry.Line,
				Message:  fmt.Sprintf("abbreviation mismatch for '%s'", entry.ModuleID),
				Expected: fmt.Sprintf("'%s' (contract)", c.ModuleAbbr),
				Actual:   fmt.Sprintf("'%s' (catalog)", entry.ModuleAbbr),
			})
		}
	}
	return out
}

func invalidEntry(entry contract.CatalogEntry, path string, err error) *ValidationError {
	field := "entry"
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		field = verrs[0].Field()
	}
	if field == "ModuleID" {
		field = "module_id"
	}
	return &ValidationError{
		Code:    CodeCatalogEntryInvalid,
		Module:  entry.ModuleAbbr,
		Path:    path,
		Line:    entry.Line,
		Message: fmt.Sprintf("catalog entry is invalid: %s is required", field),
		Hint:    "Every catalog entry needs a module_id",
	}
}
