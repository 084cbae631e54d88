package contract

import (
	"sort"

	"github.com/ariel-frischer/contractkit/internal/errors"
)

// Glossary maps abbreviation tokens to definitions.
type Glossary struct {
	terms map[string]string
}

// LoadGlossary reads a {"terms": {abbr: definition}} document.
func LoadGlossary(path string) (*Glossary, error) {
	root, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	terms := FindNode(root, "terms")
	if Kind(terms) != KindObject {
		return nil, errors.WithHint(
			errors.Newf("glossary %s: missing \"terms\" object", path),
			`a glossary looks like {"terms": {"SPS": "definition"}}`)
	}
	g := &Glossary{terms: make(map[string]string)}
	for _, kv := range Pairs(terms) {
		g.terms[kv.Key.Value] = String(kv.Value)
	}
	return g, nil
}

// NewGlossary builds a glossary in memory.
func NewGlossary(terms map[string]string) *Glossary {
	g := &Glossary{terms: make(map[string]string, len(terms))}
	for k, v := range terms {
		g.terms[k] = v
	}
	return g
}

// Has reports whether term is defined. Lookup is exact.
func (g *Glossary) Has(term string) bool {
	_, ok := g.terms[term]
	return ok
}

// Terms returns the defined terms, sorted.
func (g *Glossary) Terms() []string {
	out := make([]string, 0, len(g.terms))
	for t := range g.terms {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
