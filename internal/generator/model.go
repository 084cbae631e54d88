package generator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/contractkit/internal/contract"
)

// model is the render input shared by every template. All strings that end
// up inside Go source are pre-quoted so templates never escape anything.
type model struct {
	GeneratorVersion string
	RuntimeImport    string
	Package          string
	Abbr             string
	ModuleID         string
	ModuleName       string
	ContractVersion  string
	SchemaVersion    string
	SHA256           string
	Source           string
	Description      string
	Algorithm        string

	Params  []field
	Inputs  []field
	Outputs []field
	Groups  []group
	Checks  []check

	Unchecked  []string
	ErrorCodes []contract.ErrorCode
	Relations  []contract.Relation
}

// field is one generated struct field.
type field struct {
	Name     string // contract name
	GoName   string
	GoType   string
	Tag      string // struct tag including backquotes, "" when the name is unsafe
	Doc      string
	Default  string
	Coerce   string
	QName    string
	QPath    string
	Flag     string // quoted flag name, "" without a flag
	FlagFunc string
	QUsage   string
	Ranges   []string

	// README columns
	Type     string
	DefJSON  string
	Unit     string
	Range    string
	Required bool
}

type group struct {
	QName  string
	QNames []string
	Name   string
	Names  string
}

type check struct {
	Expr     string
	Code     string
	QCode    string
	QMessage string
	Rule     string
}

var safeTagName = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// buildModel derives the render model. It never fails: every contract the
// shape check accepts has a model.
func buildModel(doc *contract.Document, schemaVersion string, opts Options) *model {
	c := doc.Contract
	abbr := doc.Abbr()
	m := &model{
		GeneratorVersion: opts.Version,
		RuntimeImport:    opts.RuntimeImport,
		Package:          PackageName(abbr),
		Abbr:             abbr,
		ModuleID:         c.ModuleID,
		ModuleName:       c.ModuleName,
		ContractVersion:  c.Version,
		SchemaVersion:    schemaVersion,
		SHA256:           doc.SHA256,
		Source:           doc.Name(),
		Description:      c.Description,
		Algorithm:        c.Algorithm,
		ErrorCodes:       c.ErrorCodes,
		Relations:        c.Relations,
	}

	names := newNameSet("Param", methodNames)
	flags := &flagSet{used: make(map[string]bool)}
	operands := make(map[string]string)
	for i, p := range c.Parameters {
		f := newField(p.Name, p.Type, p.Items, p.Default, p.Description, names.take(GoName(p.Name), i))
		f.QPath = strconv.Quote("parameters." + p.Name)
		f.Unit = p.Unit
		k := kindOf(p.Type, p.Items, p.Default)
		if kindInfo[k].flag != "" {
			f.Flag = strconv.Quote(flags.take(FlagName(p.Name), i))
			f.FlagFunc = kindInfo[k].flag
		}
		f.Ranges, f.Range = ranges(p, k, f.GoName)
		if k.numeric() {
			if _, dup := operands[p.Name]; !dup {
				operands[p.Name] = f.GoName
			}
		}
		m.Params = append(m.Params, f)
	}
	m.Inputs = ioFields(c.IO.Inputs, "io_contract.inputs.")
	m.Outputs = ioFields(c.IO.Outputs, "io_contract.outputs.")

	for _, g := range c.ParameterGroups {
		gr := group{QName: strconv.Quote(g.Name), Name: g.Name, Names: strings.Join(g.Parameters, ", ")}
		for _, p := range g.Parameters {
			gr.QNames = append(gr.QNames, strconv.Quote(p))
		}
		m.Groups = append(m.Groups, gr)
	}

	addRule := func(rule, code, desc string) {
		rule = trimRule(rule)
		if rule == "" {
			return
		}
		expr, ok := compileRule(rule, operands)
		if !ok {
			m.Unchecked = append(m.Unchecked, oneLine(rule))
			return
		}
		if code == "" {
			code = "CONSTRAINT"
		}
		m.Checks = append(m.Checks, check{
			Expr:     expr,
			Code:     code,
			QCode:    strconv.Quote(code),
			QMessage: strconv.Quote(ruleMessage(rule, desc)),
			Rule:     oneLine(rule),
		})
	}
	for _, con := range c.Constraints {
		addRule(con.Rule, con.ErrorCode, con.Description)
	}
	for _, r := range c.Rules {
		addRule(r.Condition, r.ErrorCode, "")
	}
	return m
}

func newField(name, typ, items string, def *yaml.Node, desc, goName string) field {
	k := kindOf(typ, items, def)
	lit, _ := literal(k, def)
	f := field{
		Name:    name,
		GoName:  goName,
		GoType:  k.GoType(),
		Doc:     oneLine(desc),
		Default: lit,
		Coerce:  "modkit." + kindInfo[k].coerce,
		QName:   strconv.Quote(name),
		QUsage:  strconv.Quote(usage(name, desc)),
		Type:    typeLabel(typ, items),
	}
	if def != nil {
		f.DefJSON = string(contract.Canonical(def))
	}
	if safeTagName.MatchString(name) {
		f.Tag = "`json:\"" + name + "\"`"
	}
	return f
}

func ioFields(decls []contract.Field, prefix string) []field {
	names := newNameSet("Field", methodNames)
	out := make([]field, 0, len(decls))
	for i, d := range decls {
		f := newField(d.Name, d.Type, d.Items, d.Default, d.Description, names.take(GoName(d.Name), i))
		f.QPath = strconv.Quote(prefix + d.Name)
		f.Required = d.Required
		out = append(out, f)
	}
	return out
}

func usage(name, desc string) string {
	if d := oneLine(desc); d != "" {
		return d
	}
	return name
}

func typeLabel(typ, items string) string {
	switch {
	case typ == "":
		return "any"
	case items != "":
		return typ + "<" + items + ">"
	}
	return typ
}

// ranges returns the RangeReport statements for a parameter and a short
// label for documentation.
func ranges(p contract.Parameter, k valueKind, goName string) ([]string, string) {
	var stmts, label []string
	name := strconv.Quote(p.Name)
	value := "p." + goName
	switch k {
	case kindInt:
		value = "float64(p." + goName + ")"
	case kindInts:
		value = "modkit.IntsToFloats(p." + goName + ")"
	}

	switch k {
	case kindFloat, kindInt, kindFloats, kindInts:
		suffix := ""
		if k.slice() {
			suffix = "Each"
		}
		if lim, ok := finiteNumber(p.Min); ok {
			stmts = append(stmts, fmt.Sprintf("r.Min%s(%s, %s, %s)", suffix, name, value, lim))
			label = append(label, ">= "+lim)
		}
		if lim, ok := finiteNumber(p.Max); ok {
			stmts = append(stmts, fmt.Sprintf("r.Max%s(%s, %s, %s)", suffix, name, value, lim))
			label = append(label, "<= "+lim)
		}
		if allowed := numericEnum(p); len(allowed) > 0 {
			stmts = append(stmts, fmt.Sprintf("r.OneOfFloat%s(%s, %s, %s)", suffix, name, value, strings.Join(allowed, ", ")))
			label = append(label, "one of "+strings.Join(allowed, ", "))
		}
	case kindString, kindStrings:
		if allowed, plain := stringEnum(p); len(allowed) > 0 {
			fn := "OneOf"
			if k == kindStrings {
				fn = "OneOfEach"
			}
			stmts = append(stmts, fmt.Sprintf("r.%s(%s, %s, %s)", fn, name, value, strings.Join(allowed, ", ")))
			label = append(label, "one of "+strings.Join(plain, ", "))
		}
	}
	return stmts, strings.Join(label, ", ")
}

func numericEnum(p contract.Parameter) []string {
	var out []string
	for _, e := range p.Enum {
		if s, ok := finiteNumber(e); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringEnum(p contract.Parameter) (quoted, plain []string) {
	for _, e := range p.Enum {
		if s, ok := contract.Scalar(e); ok {
			quoted = append(quoted, strconv.Quote(s))
			plain = append(plain, s)
		}
	}
	return quoted, plain
}

// headerLines are the traceability lines every artifact starts with.
func (m *model) headerLines() []string {
	return []string{
		"module_id: " + oneLine(m.ModuleID),
		"module_abbr: " + m.Abbr,
		"contract_version: " + oneLine(m.ContractVersion),
		"schema_version: " + oneLine(m.SchemaVersion),
		"contract_sha256: " + m.SHA256,
		"source: " + oneLine(m.Source),
	}
}

// GoHeader renders the generated-code banner as Go comments.
func (m *model) GoHeader() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// Code generated by contractkit %s. DO NOT EDIT.\n", m.GeneratorVersion)
	for _, l := range m.headerLines() {
		sb.WriteString("// " + l + "\n")
	}
	return sb.String()
}

// MarkdownHeader renders the banner as an HTML comment.
func (m *model) MarkdownHeader() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<!-- Code generated by contractkit %s. DO NOT EDIT.\n", m.GeneratorVersion)
	for _, l := range m.headerLines() {
		sb.WriteString(strings.ReplaceAll(l, "-->", "- ->") + "\n")
	}
	sb.WriteString("-->\n")
	return sb.String()
}

// TraceConsts renders the traceability constant block with a name prefix.
func (m *model) TraceConsts(prefix string) string {
	var sb strings.Builder
	sb.WriteString("const (\n")
	for _, kv := range [][2]string{
		{"ContractID", m.ModuleID},
		{"ModuleAbbr", m.Abbr},
		{"ContractVersion", m.ContractVersion},
		{"SchemaVersion", m.SchemaVersion},
		{"ContractSHA256", m.SHA256},
	} {
		fmt.Fprintf(&sb, "\t%s%s = %s\n", prefix, kv[0], strconv.Quote(kv[1]))
	}
	sb.WriteString(")\n")
	return sb.String()
}

// Short is the one-line command description.
func (m *model) Short() string {
	if d := oneLine(m.Description); d != "" {
		return d
	}
	if m.ModuleName != "" {
		return oneLine(m.ModuleName)
	}
	return m.Abbr + " module"
}

// cell escapes a value for a Markdown table cell.
func cell(s string) string {
	s = oneLine(s)
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// recordData feeds the io_types "record" template.
type recordData struct {
	Type   string
	Lower  string
	Fields []field
}

var templateFuncs = template.FuncMap{
	"Quote": strconv.Quote,
	"Cell":  cell,
	"join":  strings.Join,
	"record": func(typ, lower string, fields []field) recordData {
		return recordData{Type: typ, Lower: lower, Fields: fields}
	},
}
