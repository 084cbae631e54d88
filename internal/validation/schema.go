package validation

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/contractkit/internal/contract"
	"github.com/ariel-frischer/contractkit/internal/errors"
)

// UnversionedSchema is recorded when a schema carries no version.
const UnversionedSchema = "unversioned"

// Schema is a compiled structural schema. It supports the JSON Schema
// subset used by contract schemas: type, required, properties, items, enum,
// const, pattern, minItems, additionalProperties false and local $ref.
// Other keywords are ignored.
type Schema struct {
	Path    string
	Version string
	root    *rule
}

// rule is one compiled schema node.
type rule struct {
	types      []string
	required   []string
	properties []property
	propIndex  map[string]bool
	items      *rule
	enum       []*yaml.Node
	constVal   *yaml.Node
	pattern    *regexp.Regexp
	minItems   int
	closed     bool
}

type property struct {
	name string
	rule *rule
}

var versionSuffix = regexp.MustCompile(`_(v\d+(?:[._]\d+)*)$`)

// LoadSchema reads and compiles the schema document at path.
func LoadSchema(path string) (*Schema, error) {
	root, err := contract.ParseFile(path)
	if err != nil {
		return nil, err
	}
	s, err := CompileSchema(root)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling schema %s", filepath.Base(path))
	}
	s.Path = path
	s.Version = schemaVersion(root, path)
	return s, nil
}

// CompileSchema compiles a schema tree.
func CompileSchema(root *yaml.Node) (*Schema, error) {
	c := &compiler{doc: contract.Resolve(root), refs: make(map[string]*rule)}
	r, err := c.compile(c.doc, "#")
	if err != nil {
		return nil, err
	}
	return &Schema{Version: schemaVersion(root, ""), root: r}, nil
}

// schemaVersion prefers the version key, then $id, then a _vN file suffix.
func schemaVersion(root *yaml.Node, path string) string {
	if v := contract.String(contract.FindNode(root, "version")); v != "" {
		return v
	}
	if id := contract.String(contract.FindNode(root, "$id")); id != "" {
		return id
	}
	if path != "" {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if m := versionSuffix.FindStringSubmatch(stem); m != nil {
			return m[1]
		}
	}
	return UnversionedSchema
}

type compiler struct {
	doc  *yaml.Node
	refs map[string]*rule
}

func (c *compiler) compile(n *yaml.Node, at string) (*rule, error) {
	n = contract.Resolve(n)
	if contract.Kind(n) == contract.KindBoolean {
		// Boolean schemas place no constraint.
		return &rule{minItems: -1}, nil
	}
	if contract.Kind(n) != contract.KindObject {
		return nil, errors.Newf("%s: schema must be an object", at)
	}
	if ref := contract.String(contract.FindNode(n, "$ref")); ref != "" {
		return c.resolveRef(ref)
	}

	r := &rule{minItems: -1, propIndex: make(map[string]bool)}

	switch t := contract.FindNode(n, "type"); contract.Kind(t) {
	case contract.KindString:
		r.types = []string{t.Value}
	case contract.KindArray:
		for _, item := range contract.Items(t) {
			r.types = append(r.types, contract.String(item))
		}
	}

	for _, item := range contract.Items(contract.FindNode(n, "required")) {
		if s, ok := contract.Scalar(item); ok {
			r.required = append(r.required, s)
		}
	}

	for _, kv := range contract.Pairs(contract.FindNode(n, "properties")) {
		child, err := c.compile(kv.Value, at+"/properties/"+kv.Key.Value)
		if err != nil {
			return nil, err
		}
		r.properties = append(r.properties, property{name: kv.Key.Value, rule: child})
		r.propIndex[kv.Key.Value] = true
	}

	if items := contract.FindNode(n, "items"); items != nil && contract.Kind(items) == contract.KindObject {
		child, err := c.compile(items, at+"/items")
		if err != nil {
			return nil, err
		}
		r.items = child
	}

	if e := contract.FindNode(n, "enum"); e != nil {
		r.enum = contract.Items(e)
		if r.enum == nil {
			return nil, errors.Newf("%s: enum must be an array", at)
		}
	}
	r.constVal = contract.FindNode(n, "const")

	if p := contract.String(contract.FindNode(n, "pattern")); p != "" {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: invalid pattern", at)
		}
		r.pattern = re
	}

	if m := contract.FindNode(n, "minItems"); contract.Kind(m) == contract.KindInteger {
		v, err := strconv.Atoi(m.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: invalid minItems", at)
		}
		r.minItems = v
	}

	if ap := contract.FindNode(n, "additionalProperties"); contract.Kind(ap) == contract.KindBoolean && ap.Value == "false" {
		r.closed = true
	}
	return r, nil
}

// resolveRef compiles a local reference once. The placeholder stored before
// compiling lets recursive definitions refer to themselves.
func (c *compiler) resolveRef(ref string) (*rule, error) {
	if r, ok := c.refs[ref]; ok {
		return r, nil
	}
	if !strings.HasPrefix(ref, "#") {
		return nil, errors.WithHint(errors.Newf("unsupported $ref %q", ref), "only local references (#/definitions/...) are supported")
	}
	target := c.doc
	for _, part := range strings.Split(strings.TrimPrefix(ref, "#"), "/") {
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		target = contract.FindNode(target, part)
		if target == nil {
			return nil, errors.Newf("unresolved $ref %q", ref)
		}
	}

	placeholder := &rule{}
	c.refs[ref] = placeholder
	r, err := c.compile(target, ref)
	if err != nil {
		return nil, err
	}
	*placeholder = *r
	return placeholder, nil
}

// ValidateStructure checks doc against s and returns every violation in
// traversal order. It never stops at the first violation.
func ValidateStructure(doc *yaml.Node, s *Schema) []*ValidationError {
	w := &walker{}
	w.walk(s.root, contract.Resolve(doc), "")
	return w.out
}

type walker struct {
	out []*ValidationError
}

func (w *walker) add(code string, n *yaml.Node, path, msg, expected, actual, hint string) {
	w.out = append(w.out, &ValidationError{
		Code:     code,
		Path:     path,
		Line:     contract.Line(n),
		Message:  msg,
		Expected: expected,
		Actual:   actual,
		Hint:     hint,
	})
}

func (w *walker) walk(r *rule, n *yaml.Node, path string) {
	if r == nil {
		return
	}

	if len(r.types) > 0 && !matchesType(n, r.types) {
		expected := strings.Join(r.types, " or ")
		w.add(CodeWrongType, n, path,
			fmt.Sprintf("wrong type for field '%s'", displayPath(path)),
			expected, contract.Kind(n),
			fmt.Sprintf("Change '%s' to be a %s", displayPath(path), expected))
		return
	}

	if r.constVal != nil && !sameValue(n, r.constVal) {
		w.add(CodeConstMismatch, n, path,
			fmt.Sprintf("invalid value for field '%s'", displayPath(path)),
			string(contract.Canonical(r.constVal)), string(contract.Canonical(n)), "")
	}

	if r.enum != nil && !inEnum(n, r.enum) {
		allowed := make([]string, len(r.enum))
		for i, e := range r.enum {
			allowed[i] = contract.String(e)
			if allowed[i] == "" {
				allowed[i] = string(contract.Canonical(e))
			}
		}
		w.add(CodeEnumMismatch, n, path,
			fmt.Sprintf("invalid value for field '%s'", displayPath(path)),
			"one of: "+strings.Join(allowed, ", "),
			fmt.Sprintf("'%s'", contract.String(n)),
			"Use one of the valid values: "+strings.Join(allowed, ", "))
	}

	if r.pattern != nil && contract.Kind(n) == contract.KindString && !r.pattern.MatchString(n.Value) {
		w.add(CodePatternMismatch, n, path,
			fmt.Sprintf("value of field '%s' does not match pattern", displayPath(path)),
			r.pattern.String(), fmt.Sprintf("'%s'", n.Value), "")
	}

	switch contract.Kind(n) {
	case contract.KindObject:
		w.walkObject(r, n, path)
	case contract.KindArray:
		w.walkArray(r, n, path)
	}
}

func (w *walker) walkObject(r *rule, n *yaml.Node, path string) {
	for _, name := range r.required {
		if contract.FindNode(n, name) == nil {
			w.add(CodeMissingField, n, joinPath(path, name),
				fmt.Sprintf("missing required field: %s", name), "", "",
				fmt.Sprintf("Add the '%s' field", name))
		}
	}
	for _, p := range r.properties {
		if child := contract.FindNode(n, p.name); child != nil {
			w.walk(p.rule, child, joinPath(path, p.name))
		}
	}
	if r.closed {
		for _, kv := range contract.Pairs(n) {
			if !r.propIndex[kv.Key.Value] {
				w.add(CodeUnexpectedField, kv.Key, joinPath(path, kv.Key.Value),
					fmt.Sprintf("unexpected field: %s", kv.Key.Value), "", "",
					fmt.Sprintf("Remove '%s' or declare it in the schema", kv.Key.Value))
			}
		}
	}
}

func (w *walker) walkArray(r *rule, n *yaml.Node, path string) {
	items := contract.Items(n)
	if r.minItems >= 0 && len(items) < r.minItems {
		w.add(CodeMinItems, n, path,
			fmt.Sprintf("field '%s' needs at least %d item(s)", displayPath(path), r.minItems),
			fmt.Sprintf(">= %d items", r.minItems), fmt.Sprintf("%d items", len(items)), "")
	}
	if r.items == nil {
		return
	}
	for i, item := range items {
		w.walk(r.items, item, indexPath(path, i))
	}
}

func matchesType(n *yaml.Node, types []string) bool {
	kind := contract.Kind(n)
	for _, t := range types {
		switch {
		case t == kind:
			return true
		case t == contract.KindNumber && kind == contract.KindInteger:
			return true
		case t == contract.KindInteger && kind == contract.KindNumber && isIntegral(n.Value):
			return true
		}
	}
	return false
}

func isIntegral(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f == math.Trunc(f) && !math.IsInf(f, 0)
}

func sameValue(a, b *yaml.Node) bool {
	return bytes.Equal(contract.Canonical(a), contract.Canonical(b))
}

func inEnum(n *yaml.Node, enum []*yaml.Node) bool {
	for _, e := range enum {
		if sameValue(n, e) {
			return true
		}
	}
	return false
}
