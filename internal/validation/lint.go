package validation

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ariel-frischer/contractkit/internal/contract"
	"github.com/ariel-frischer/contractkit/internal/logger"
)

// Default _schema literals identifying Stage A contracts.
const (
	DefaultSchemaName  = "A-PRACTICAL.contract"
	DefaultSchemaStage = "A.contract_only"
)

// MaturityStages are the accepted _schema.maturity_stage values.
var MaturityStages = []string{"pilot", "draft", "stable"}

// Score deductions per finding.
const (
	MaxScore            = 100
	DeductStructural    = 10
	DeductHeader        = 25
	DeductDuplicateCode = 15
	DeductUndefinedCode = 10
	DeductGlossary      = 10
	DeductParseError    = 100
	DeductAdvisory      = 5
)

// DefaultScoreThreshold is the conventional acceptance score.
const DefaultScoreThreshold = 90

// Linter runs the structural and semantic checks for single contracts.
// A Linter is immutable after construction and safe for concurrent use.
type Linter struct {
	schema      *Schema
	glossary    *contract.Glossary
	store       *contract.Store
	schemaName  string
	schemaStage string
	advisory    bool
	log         *zap.SugaredLogger
}

// LinterOption configures a Linter.
type LinterOption func(*Linter)

// WithGlossary enables the glossary coverage check.
func WithGlossary(g *contract.Glossary) LinterOption {
	return func(l *Linter) { l.glossary = g }
}

// WithStore attaches the loaded contracts for cross-module advisory checks.
func WithStore(s *contract.Store) LinterOption {
	return func(l *Linter) { l.store = s }
}

// WithAdvisory enables the advisory checks.
func WithAdvisory(enabled bool) LinterOption {
	return func(l *Linter) { l.advisory = enabled }
}

// WithHeaderLiterals overrides the expected _schema name and stage.
// Empty values keep the defaults.
func WithHeaderLiterals(name, stage string) LinterOption {
	return func(l *Linter) {
		if name != "" {
			l.schemaName = name
		}
		if stage != "" {
			l.schemaStage = stage
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) LinterOption {
	return func(l *Linter) { l.log = log }
}

// NewLinter creates a linter. A nil schema skips the structural pass.
func NewLinter(schema *Schema, opts ...LinterOption) *Linter {
	l := &Linter{
		schema:      schema,
		schemaName:  DefaultSchemaName,
		schemaStage: DefaultSchemaStage,
		log:         logger.Logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ValidateContract parses and lints the contract at path.
func (l *Linter) ValidateContract(path string) *ValidationResult {
	doc, err := contract.LoadDocument(path)
	return l.ValidateEntry(contract.Entry{Path: path, Doc: doc, Err: err})
}

// ValidateEntry lints a store entry. An entry that failed to parse yields a
// single PARSE_ERROR and score 0.
func (l *Linter) ValidateEntry(e contract.Entry) *ValidationResult {
	if e.Err != nil || e.Doc == nil {
		res := &ValidationResult{Module: moduleKey(e.Path, nil), Path: e.Path, Passed: true, Score: MaxScore}
		msg := "contract could not be parsed"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		res.AddError(&ValidationError{
			Code:    CodeParseError,
			Message: msg,
			Hint:    "Fix the syntax error; no other check runs on an unparsable contract",
		})
		res.Score = score(res)
		return res
	}
	return l.ValidateDocument(e.Doc)
}

// ValidateDocument lints a parsed contract. Errors are ordered: structural,
// _schema header, duplicate codes, undefined codes, glossary coverage.
func (l *Linter) ValidateDocument(doc *contract.Document) *ValidationResult {
	res := &ValidationResult{Module: moduleKey(doc.Path, doc), Path: doc.Path, Passed: true}

	var structural []*ValidationError
	if l.schema != nil {
		structural = ValidateStructure(doc.Root, l.schema)
	}
	for _, v := range structural {
		res.AddError(v)
	}
	for _, v := range l.checkHeader(doc, structural) {
		res.AddError(v)
	}
	for _, v := range checkDuplicateCodes(doc.Contract) {
		res.AddError(v)
	}
	for _, v := range checkUndefinedCodes(doc.Contract) {
		res.AddError(v)
	}
	if v := l.checkGlossary(doc); v != nil {
		res.AddError(v)
	}
	if l.advisory {
		for _, w := range l.advisoryChecks(doc) {
			res.AddWarning(w)
		}
	}

	res.Score = score(res)
	l.log.Debugw("contract linted",
		logger.FieldModule, res.Module,
		logger.FieldScore, res.Score,
		logger.FieldCount, len(res.Errors))
	return res
}

func moduleKey(path string, doc *contract.Document) string {
	if doc != nil && doc.Abbr() != "" {
		return doc.Abbr()
	}
	return baseName(path)
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// score applies the deductions and floors at zero.
func score(res *ValidationResult) int {
	s := MaxScore
	for _, e := range res.Errors {
		s -= deduction(e.Code)
	}
	s -= DeductAdvisory * len(res.Warnings)
	if s < 0 {
		return 0
	}
	return s
}

func deduction(code string) int {
	switch code {
	case CodeParseError:
		return DeductParseError
	case CodeSchemaHeader:
		return DeductHeader
	case CodeDuplicateErrorCode:
		return DeductDuplicateCode
	case CodeUndefinedErrorCode:
		return DeductUndefinedCode
	case CodeGlossaryMissing:
		return DeductGlossary
	default:
		return DeductStructural
	}
}

// checkHeader verifies the _schema literals. Paths the structural pass
// already reported, or that sit below one it reported, are skipped.
func (l *Linter) checkHeader(doc *contract.Document, structural []*ValidationError) []*ValidationError {
	header := contract.FindNode(doc.Root, "_schema")
	checks := []struct {
		field   string
		valid   func(string) bool
		expects string
	}{
		{"name", func(v string) bool { return v == l.schemaName }, fmt.Sprintf("'%s'", l.schemaName)},
		{"stage", func(v string) bool { return v == l.schemaStage }, fmt.Sprintf("'%s'", l.schemaStage)},
		{"maturity_stage", func(v string) bool { return contains(MaturityStages, v) }, "one of: " + strings.Join(MaturityStages, ", ")},
	}

	var out []*ValidationError
	for _, c := range checks {
		path := "_schema." + c.field
		if reported(structural, path) {
			continue
		}
		node := contract.FindNode(header, c.field)
		value, _ := contract.Scalar(node)
		if c.valid(value) {
			continue
		}
		line := contract.Line(node)
		if node == nil {
			line = contract.Line(header)
		}
		out = append(out, &ValidationError{
			Code:     CodeSchemaHeader,
			Path:     path,
			Line:     line,
			Message:  fmt.Sprintf("invalid contract header field '%s'", path),
			Expected: c.expects,
			Actual:   fmt.Sprintf("'%s'", value),
			Hint:     fmt.Sprintf("Set %s to %s", path, c.expects),
		})
	}
	return out
}

func reported(violations []*ValidationError, path string) bool {
	for _, v := range violations {
		if v.Path == path || v.Path == "" || strings.HasPrefix(path, v.Path+".") {
			return true
		}
	}
	return false
}

// checkDuplicateCodes reports every repeated occurrence of a code, grouped
// by code in first-seen order.
func checkDuplicateCodes(c *contract.Contract) []*ValidationError {
	first := make(map[string]int)
	var order []string
	repeats := make(map[string][]int)
	for i, ec := range c.ErrorCodes {
		if ec.Code == "" {
			continue
		}
		if _, seen := first[ec.Code]; !seen {
			first[ec.Code] = i
			order = append(order, ec.Code)
			continue
		}
		repeats[ec.Code] = append(repeats[ec.Code], i)
	}

	var out []*ValidationError
	for _, code := range order {
		for _, i := range repeats[code] {
			out = append(out, &ValidationError{
				Code:    CodeDuplicateErrorCode,
				Path:    indexPath("error_codes", i) + ".code",
				Line:    c.ErrorCodes[i].Line,
				Message: fmt.Sprintf("duplicate error code '%s' (first declared at error_codes[%d])", code, first[code]),
				Hint:    "Error codes must be unique within a contract",
			})
		}
	}
	return out
}

// checkUndefinedCodes reports constraint references before rule references.
func checkUndefinedCodes(c *contract.Contract) []*ValidationError {
	declared := make(map[string]bool, len(c.ErrorCodes))
	for _, ec := range c.ErrorCodes {
		declared[ec.Code] = true
	}

	var out []*ValidationError
	undefined := func(path, code string, line int) {
		out = append(out, &ValidationError{
			Code:    CodeUndefinedErrorCode,
			Path:    path,
			Line:    line,
			Message: fmt.Sprintf("error code '%s' is not declared in error_codes", code),
			Hint:    fmt.Sprintf("Declare '%s' in error_codes or reference an existing code", code),
		})
	}
	for i, con := range c.Constraints {
		if con.ErrorCode != "" && !declared[con.ErrorCode] {
			undefined(indexPath("constraints", i)+".error_code", con.ErrorCode, con.Line)
		}
	}
	for i, r := range c.Rules {
		if r.ErrorCode != "" && !declared[r.ErrorCode] {
			undefined(indexPath("validation.rules", i)+".error_code", r.ErrorCode, r.Line)
		}
	}
	return out
}

// checkGlossary matches module_abbr against the glossary terms as written.
func (l *Linter) checkGlossary(doc *contract.Document) *ValidationError {
	abbr := strings.TrimSpace(doc.Contract.ModuleAbbr)
	if l.glossary == nil || abbr == "" || l.glossary.Has(abbr) {
		return nil
	}
	return &ValidationError{
		Code:    CodeGlossaryMissing,
		Path:    "module_abbr",
		Line:    contract.Line(contract.FindNode(doc.Root, "module_abbr")),
		Message: fmt.Sprintf("module abbreviation '%s' is not a glossary term", abbr),
		Hint:    fmt.Sprintf("Add '%s' to the glossary terms", abbr),
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
