package validation

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/ariel-frischer/contractkit/internal/contract"
)

// advisoryChecks returns soft findings. They cost score but never fail a
// contract.
func (l *Linter) advisoryChecks(doc *contract.Document) []*ValidationError {
	c := doc.Contract
	var out []*ValidationError

	if c.Version != "" {
		if _, err := semver.StrictNewVersion(c.Version); err != nil {
			out = append(out, &ValidationError{
				Code:    CodeVersionNotSemver,
				Path:    "version",
				Line:    contract.Line(contract.FindNode(doc.Root, "version")),
				Message: fmt.Sprintf("version '%s' is not a semantic version", c.Version),
				Hint:    "Use MAJOR.MINOR.PATCH, e.g. 1.0.0",
			})
		}
	}

	declared := make(map[string]bool, len(c.Parameters))
	for _, p := range c.Parameters {
		declared[p.Name] = true
	}
	for _, g := range c.ParameterGroups {
		for _, name := range g.Parameters {
			if !declared[name] {
				out = append(out, &ValidationError{
					Code:    CodeGroupUnknownParameter,
					Path:    "parameter_groups." + g.Name,
					Line:    g.Line,
					Message: fmt.Sprintf("group '%s' lists undeclared parameter '%s'", g.Name, name),
				})
			}
		}
	}

	if l.store != nil {
		for i, r := range c.Relations {
			if !l.store.HasModule(r.ModuleID) {
				out = append(out, &ValidationError{
					Code:    CodeRelationUnknownModule,
					Path:    indexPath("relations", i),
					Line:    r.Line,
					Message: fmt.Sprintf("related module '%s' has no loaded contract", r.ModuleID),
				})
			}
		}
	}
	return out
}
