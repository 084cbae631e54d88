// Package contract parses module contracts and the documents they are
// checked against (schema, glossary, catalog).
//
// Every document is held as a yaml.Node tree. JSON input is tokenised into
// the same tree, so key order and line numbers survive for both syntaxes.
// The typed Contract view is built leniently on top of the tree: fields that
// are absent or mistyped come out zero, and structural problems are left to
// the schema validator.
package contract

import (
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Header is the _schema block identifying the contract family.
type Header struct {
	Name          string
	Stage         string
	MaturityStage string
}

// Parameter is one entry of the parameters list.
type Parameter struct {
	Name        string
	Type        string
	Items       string     // element type of array parameters, "" when undeclared
	Default     *yaml.Node // nil when undeclared
	Description string
	Unit        string
	Min         *yaml.Node
	Max         *yaml.Node
	Enum        []*yaml.Node
	Line        int
}

// Field is one declared input or output.
type Field struct {
	Name        string
	Type        string
	Items       string
	Description string
	Required    bool
	Default     *yaml.Node
	Line        int
}

// IOContract holds the declared inputs and outputs.
type IOContract struct {
	Inputs  []Field
	Outputs []Field
}

// Group is a named set of parameter names.
type Group struct {
	Name       string
	Parameters []string
	Line       int
}

// Constraint is a cross-field rule with its error code.
type Constraint struct {
	Rule        string
	ErrorCode   string
	Description string
	Line        int
}

// Rule is one validation.rules entry.
type Rule struct {
	Condition string
	ErrorCode string
	Line      int
}

// ErrorCode is one declared error code.
type ErrorCode struct {
	Code     string
	Message  string
	Severity string
	Line     int
}

// Relation references another module by id.
type Relation struct {
	ModuleID string
	Type     string
	Line     int
}

// Contract is the typed view of a contract document.
type Contract struct {
	Header          Header
	ModuleID        string
	ModuleAbbr      string
	ModuleType      string
	ModuleName      string
	Version         string
	Description     string
	Algorithm       string
	Parameters      []Parameter
	ParameterGroups []Group
	IO              IOContract
	Constraints     []Constraint
	Rules           []Rule
	ErrorCodes      []ErrorCode
	Relations       []Relation
	TestCases       int
}

// Document is a parsed contract file.
type Document struct {
	Path     string
	Root     *yaml.Node // document node
	SHA256   string     // hex digest of the canonical serialisation
	Contract *Contract
}

// Name returns the base file name.
func (d *Document) Name() string {
	return filepath.Base(d.Path)
}

// Abbr returns the normalised module abbreviation.
func (d *Document) Abbr() string {
	return NormalizeAbbr(d.Contract.ModuleAbbr)
}

// LoadDocument parses the contract at path.
func LoadDocument(path string) (*Document, error) {
	root, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return NewDocument(path, root), nil
}

// NewDocument wraps an already parsed tree.
func NewDocument(path string, root *yaml.Node) *Document {
	return &Document{
		Path:     path,
		Root:     root,
		SHA256:   Hash(root),
		Contract: FromNode(root),
	}
}

// NormalizeAbbr trims and upper-cases a module abbreviation.
func NormalizeAbbr(abbr string) string {
	return strings.ToUpper(strings.TrimSpace(abbr))
}

// FromNode builds the typed view of a contract tree.
func FromNode(root *yaml.Node) *Contract {
	root = Resolve(root)
	c := &Contract{}
	if root == nil || root.Kind != yaml.MappingNode {
		return c
	}

	header := FindNode(root, "_schema")
	c.Header = Header{
		Name:          String(FindNode(header, "name")),
		Stage:         String(FindNode(header, "stage")),
		MaturityStage: String(FindNode(header, "maturity_stage")),
	}
	c.ModuleID = String(FindNode(root, "module_id"))
	c.ModuleAbbr = String(FindNode(root, "module_abbr"))
	c.ModuleType = String(FindNode(root, "module_type"))
	c.ModuleName = String(FindNode(root, "module_name"))
	c.Version = String(FindNode(root, "version"))
	c.Description = String(FindNode(root, "description"))
	c.Algorithm = algorithmSummary(FindNode(root, "algorithm"))

	for _, n := range Items(FindNode(root, "parameters")) {
		if p, ok := parameterFrom(n); ok {
			c.Parameters = append(c.Parameters, p)
		}
	}
	c.ParameterGroups = groupsFrom(FindNode(root, "parameter_groups"))

	io := FindNode(root, "io_contract")
	c.IO = IOContract{
		Inputs:  fieldsFrom(FindNode(io, "inputs")),
		Outputs: fieldsFrom(FindNode(io, "outputs")),
	}

	for _, n := range Items(FindNode(root, "constraints")) {
		c.Constraints = append(c.Constraints, Constraint{
			Rule:        String(FindNode(n, "rule")),
			ErrorCode:   String(FindNode(n, "error_code")),
			Description: String(FindNode(n, "description")),
			Line:        Line(n),
		})
	}
	for _, n := range Items(FindPath(root, "validation", "rules")) {
		c.Rules = append(c.Rules, Rule{
			Condition: String(FindNode(n, "condition")),
			ErrorCode: String(FindNode(n, "error_code")),
			Line:      Line(n),
		})
	}
	for _, n := range Items(FindNode(root, "error_codes")) {
		c.ErrorCodes = append(c.ErrorCodes, ErrorCode{
			Code:     String(FindNode(n, "code")),
			Message:  String(FindNode(n, "message")),
			Severity: String(FindNode(n, "severity")),
			Line:     Line(n),
		})
	}
	c.Relations = relationsFrom(FindNode(root, "relations"))
	c.TestCases = len(Items(FindNode(root, "test_cases")))
	return c
}

func parameterFrom(n *yaml.Node) (Parameter, bool) {
	name := String(FindNode(n, "name"))
	if name == "" {
		return Parameter{}, false
	}
	p := Parameter{
		Name:        name,
		Type:        String(FindNode(n, "type")),
		Items:       itemType(FindNode(n, "items")),
		Default:     FindNode(n, "default"),
		Description: String(FindNode(n, "description")),
		Unit:        String(FindNode(n, "unit")),
		Min:         numeric(FindNode(n, "min")),
		Max:         numeric(FindNode(n, "max")),
		Enum:        Items(FindNode(n, "enum")),
		Line:        Line(n),
	}

	// range overrides the top-level bounds.
	switch r := FindNode(n, "range"); Kind(r) {
	case KindObject:
		if v := numeric(FindNode(r, "min")); v != nil {
			p.Min = v
		}
		if v := numeric(FindNode(r, "max")); v != nil {
			p.Max = v
		}
		if e := Items(FindNode(r, "enum")); e != nil {
			p.Enum = e
		}
	case KindArray:
		if items := Items(r); len(items) == 2 {
			if v := numeric(items[0]); v != nil {
				p.Min = v
			}
			if v := numeric(items[1]); v != nil {
				p.Max = v
			}
		}
	}
	if p.Default != nil && Kind(p.Default) == KindNull {
		p.Default = nil
	}
	return p, true
}

func numeric(n *yaml.Node) *yaml.Node {
	if IsNumeric(n) {
		return n
	}
	return nil
}

// itemType accepts "items": "float" and "items": {"type": "float"}.
func itemType(n *yaml.Node) string {
	if Kind(n) == KindObject {
		return String(FindNode(n, "type"))
	}
	return String(n)
}

// fieldsFrom accepts a list of declarations, a name → declaration mapping,
// or a name → type-string mapping.
func fieldsFrom(n *yaml.Node) []Field {
	var out []Field
	switch Kind(n) {
	case KindArray:
		for _, item := range Items(n) {
			name := String(FindNode(item, "name"))
			if name == "" {
				continue
			}
			out = append(out, fieldFrom(name, item))
		}
	case KindObject:
		for _, kv := range Pairs(n) {
			if Kind(kv.Value) == KindObject {
				out = append(out, fieldFrom(kv.Key.Value, kv.Value))
				continue
			}
			out = append(out, Field{Name: kv.Key.Value, Type: String(kv.Value), Line: Line(kv.Key)})
		}
	}
	return out
}

func fieldFrom(name string, n *yaml.Node) Field {
	f := Field{
		Name:        name,
		Type:        String(FindNode(n, "type")),
		Items:       itemType(FindNode(n, "items")),
		Description: String(FindNode(n, "description")),
		Default:     FindNode(n, "default"),
		Line:        Line(n),
	}
	if req := FindNode(n, "required"); Kind(req) == KindBoolean {
		f.Required = String(req) == "true"
	}
	if f.Default != nil && Kind(f.Default) == KindNull {
		f.Default = nil
	}
	return f
}

// groupsFrom accepts {group: [names]} or [{name, parameters}].
func groupsFrom(n *yaml.Node) []Group {
	var out []Group
	switch Kind(n) {
	case KindObject:
		for _, kv := range Pairs(n) {
			out = append(out, Group{Name: kv.Key.Value, Parameters: scalars(kv.Value), Line: Line(kv.Key)})
		}
	case KindArray:
		for _, item := range Items(n) {
			name := String(FindNode(item, "name"))
			if name == "" {
				continue
			}
			out = append(out, Group{Name: name, Parameters: scalars(FindNode(item, "parameters")), Line: Line(item)})
		}
	}
	return out
}

// relationsFrom accepts a list of ids, a list of {module_id|target|id, type}
// objects, or a type → id(s) mapping.
func relationsFrom(n *yaml.Node) []Relation {
	var out []Relation
	switch Kind(n) {
	case KindArray:
		for _, item := range Items(n) {
			if s, ok := Scalar(item); ok && Kind(item) == KindString {
				out = append(out, Relation{ModuleID: s, Line: Line(item)})
				continue
			}
			id := firstString(item, "module_id", "target", "id")
			if id == "" {
				continue
			}
			out = append(out, Relation{ModuleID: id, Type: String(FindNode(item, "type")), Line: Line(item)})
		}
	case KindObject:
		for _, kv := range Pairs(n) {
			if s, ok := Scalar(kv.Value); ok {
				out = append(out, Relation{ModuleID: s, Type: kv.Key.Value, Line: Line(kv.Value)})
				continue
			}
			for _, id := range Items(kv.Value) {
				if s, ok := Scalar(id); ok {
					out = append(out, Relation{ModuleID: s, Type: kv.Key.Value, Line: Line(id)})
				}
			}
		}
	}
	return out
}

func algorithmSummary(n *yaml.Node) string {
	if s, ok := Scalar(n); ok {
		return s
	}
	return firstString(n, "summary", "description", "name")
}

func firstString(n *yaml.Node, keys ...string) string {
	for _, k := range keys {
		if s := String(FindNode(n, k)); s != "" {
			return s
		}
	}
	return ""
}

func scalars(n *yaml.Node) []string {
	var out []string
	for _, item := range Items(n) {
		if s, ok := Scalar(item); ok {
			out = append(out, s)
		}
	}
	return out
}
