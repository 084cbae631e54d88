package generator

import (
	_ "embed"
	"strings"

	"github.com/ariel-frischer/contractkit/internal/contract"
	"github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/validation"
)

// shapeJSON is the minimum structure the generator needs. Contracts are
// checked against it even when no full schema is configured.
//
//go:embed shape.json
var shapeJSON []byte

var shapeSchema = mustCompileShape()

func mustCompileShape() *validation.Schema {
	root, err := contract.ParseBytes("shape.json", shapeJSON)
	if err != nil {
		panic(err)
	}
	s, err := validation.CompileSchema(root)
	if err != nil {
		panic(err)
	}
	return s
}

// checkShape runs the built-in shape and, when given, the full schema.
func checkShape(doc *contract.Document, full *validation.Schema) error {
	violations := validation.ValidateStructure(doc.Root, shapeSchema)
	if full != nil {
		violations = append(violations, validation.ValidateStructure(doc.Root, full)...)
	}
	if len(violations) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		msgs = append(msgs, v.Error())
	}
	err := errors.Newf("%s does not have a generatable shape: %s", doc.Name(), strings.Join(msgs, "; "))
	return errors.Mark(err, errors.ErrStructural)
}
