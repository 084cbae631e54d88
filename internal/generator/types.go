package generator

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/contractkit/internal/contract"
)

// valueKind is the generated Go representation of a contract type.
type valueKind int

const (
	kindAny valueKind = iota
	kindFloat
	kindInt
	kindBool
	kindString
	kindFloats
	kindInts
	kindBools
	kindStrings
	kindList
	kindObject
)

var kindInfo = map[valueKind]struct {
	goType string
	coerce string
	zero   string
	flag   string // pflag method, "" when the kind has no flag
}{
	kindAny:     {"any", "Any", "nil", ""},
	kindFloat:   {"float64", "Float", "0", "Float64Var"},
	kindInt:     {"int", "Int", "0", "IntVar"},
	kindBool:    {"bool", "Bool", "false", "BoolVar"},
	kindString:  {"string", "String", `""`, "StringVar"},
	kindFloats:  {"[]float64", "Floats", "[]float64{}", "Float64SliceVar"},
	kindInts:    {"[]int", "Ints", "[]int{}", "IntSliceVar"},
	kindBools:   {"[]bool", "Bools", "[]bool{}", "BoolSliceVar"},
	kindStrings: {"[]string", "Strings", "[]string{}", "StringSliceVar"},
	kindList:    {"[]any", "List", "[]any{}", ""},
	kindObject:  {"map[string]any", "Object", "map[string]any{}", ""},
}

func (k valueKind) GoType() string { return kindInfo[k].goType }

func (k valueKind) numeric() bool { return k == kindFloat || k == kindInt }

func (k valueKind) slice() bool {
	return k == kindFloats || k == kindInts || k == kindBools || k == kindStrings || k == kindList
}

// scalarKind maps a scalar contract type name. ok is false for non-scalars
// and unknown names.
func scalarKind(t string) (valueKind, bool) {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "float", "number", "double", "real":
		return kindFloat, true
	case "int", "integer":
		return kindInt, true
	case "bool", "boolean":
		return kindBool, true
	case "string", "str", "text", "enum":
		return kindString, true
	}
	return kindAny, false
}

// kindOf resolves a declared type. Array element types come from items,
// else from the default's elements.
func kindOf(t, items string, def *yaml.Node) valueKind {
	if k, ok := scalarKind(t); ok {
		return k
	}
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "array", "list":
		elem, ok := scalarKind(items)
		if !ok && items == "" {
			elem, ok = inferElem(def)
		}
		if !ok {
			return kindList
		}
		return sliceOf(elem)
	case "object", "dict", "map":
		return kindObject
	}
	return kindAny
}

func sliceOf(elem valueKind) valueKind {
	switch elem {
	case kindFloat:
		return kindFloats
	case kindInt:
		return kindInts
	case kindBool:
		return kindBools
	case kindString:
		return kindStrings
	}
	return kindList
}

// inferElem picks a common element type: all integers give int, numbers
// give float, otherwise every element must share one kind.
func inferElem(def *yaml.Node) (valueKind, bool) {
	items := contract.Items(def)
	if len(items) == 0 {
		return kindAny, false
	}
	kinds := make(map[string]bool)
	for _, item := range items {
		kinds[contract.Kind(item)] = true
	}
	switch {
	case len(kinds) == 1 && kinds[contract.KindInteger]:
		return kindInt, true
	case len(kinds) <= 2 && !hasOther(kinds, contract.KindInteger, contract.KindNumber):
		return kindFloat, true
	case len(kinds) == 1 && kinds[contract.KindBoolean]:
		return kindBool, true
	case len(kinds) == 1 && kinds[contract.KindString]:
		return kindString, true
	}
	return kindAny, false
}

func hasOther(kinds map[string]bool, allowed ...string) bool {
	for k := range kinds {
		ok := false
		for _, a := range allowed {
			if k == a {
				ok = true
			}
		}
		if !ok {
			return true
		}
	}
	return false
}

// literal renders n as a Go expression of kind k. Values that do not fit
// the kind render as the zero value; ok reports whether n was used.
func literal(k valueKind, n *yaml.Node) (string, bool) {
	if n == nil {
		return kindInfo[k].zero, false
	}
	switch k {
	case kindFloat:
		if s, ok := finiteNumber(n); ok {
			return s, true
		}
	case kindInt:
		if s, ok := intLiteral(n); ok {
			return s, true
		}
	case kindBool:
		if contract.Kind(n) == contract.KindBoolean {
			return contract.String(n), true
		}
	case kindString:
		if s, ok := contract.Scalar(n); ok {
			return strconv.Quote(s), true
		}
	case kindFloats, kindInts, kindBools, kindStrings:
		if contract.Kind(n) != contract.KindArray {
			break
		}
		elem := elemKind(k)
		parts := make([]string, 0, len(n.Content))
		for _, item := range contract.Items(n) {
			s, ok := literal(elem, item)
			if !ok {
				return kindInfo[k].zero, false
			}
			parts = append(parts, s)
		}
		return k.GoType() + "{" + strings.Join(parts, ", ") + "}", true
	case kindList:
		if contract.Kind(n) == contract.KindArray {
			return anyLiteral(n), true
		}
	case kindObject:
		if contract.Kind(n) == contract.KindObject {
			return anyLiteral(n), true
		}
	case kindAny:
		return anyLiteral(n), true
	}
	return kindInfo[k].zero, false
}

func elemKind(k valueKind) valueKind {
	switch k {
	case kindFloats:
		return kindFloat
	case kindInts:
		return kindInt
	case kindBools:
		return kindBool
	case kindStrings:
		return kindString
	}
	return kindAny
}

// number returns the canonical decimal text of a numeric node, which is
// also a valid Go constant.
func number(n *yaml.Node) string {
	return string(contract.Canonical(n))
}

// finiteNumber is number restricted to values representable as float64.
func finiteNumber(n *yaml.Node) (string, bool) {
	if !contract.IsNumeric(n) {
		return "", false
	}
	s := number(n)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return "", false
	}
	return s, true
}

func intLiteral(n *yaml.Node) (string, bool) {
	switch contract.Kind(n) {
	case contract.KindInteger:
		if _, err := strconv.ParseInt(number(n), 10, 64); err == nil {
			return number(n), true
		}
	case contract.KindNumber:
		f, err := strconv.ParseFloat(number(n), 64)
		if err == nil && math.Abs(f) < 1<<53 && f == math.Trunc(f) {
			return strconv.FormatInt(int64(f), 10), true
		}
	}
	return "", false
}

// anyLiteral renders n the way encoding/json would decode it into an any:
// objects as map[string]any, arrays as []any and numbers as float64.
func anyLiteral(n *yaml.Node) string {
	switch contract.Kind(n) {
	case contract.KindObject:
		pairs := contract.Pairs(n)
		parts := make([]string, len(pairs))
		for i, kv := range pairs {
			parts[i] = strconv.Quote(kv.Key.Value) + ": " + anyLiteral(kv.Value)
		}
		return "map[string]any{" + strings.Join(parts, ", ") + "}"
	case contract.KindArray:
		items := contract.Items(n)
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = anyLiteral(item)
		}
		return "[]any{" + strings.Join(parts, ", ") + "}"
	case contract.KindInteger, contract.KindNumber:
		if s, ok := finiteNumber(n); ok {
			return "float64(" + s + ")"
		}
		return strconv.Quote(number(n))
	case contract.KindBoolean:
		return contract.String(n)
	case contract.KindNull:
		return "nil"
	default:
		return strconv.Quote(contract.String(n))
	}
}
