package generator

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// comparison matches "<operand> <op> <operand>" where an operand is a
// parameter name or a numeric literal.
var comparison = regexp.MustCompile(
	`^\s*([A-Za-z_][A-Za-z0-9_]*|-?[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?)\s*(<=|>=|==|!=|<|>)\s*([A-Za-z_][A-Za-z0-9_]*|-?[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?)\s*$`)

// compileRule turns a rule into a Go boolean expression over p. operand
// maps numeric parameter names to their Go field names. ok is false for
// rules outside the grammar or naming non-numeric parameters.
func compileRule(rule string, operand map[string]string) (string, bool) {
	m := comparison.FindStringSubmatch(rule)
	if m == nil {
		return "", false
	}
	left, ok := operandExpr(m[1], operand)
	if !ok {
		return "", false
	}
	right, ok := operandExpr(m[3], operand)
	if !ok {
		return "", false
	}
	return left + " " + m[2] + " " + right, true
}

func operandExpr(tok string, operand map[string]string) (string, bool) {
	first := tok[0]
	if first == '-' || (first >= '0' && first <= '9') {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsInf(f, 0) {
			return "", false
		}
		return "float64(" + strconv.FormatFloat(f, 'g', -1, 64) + ")", true
	}
	field, ok := operand[tok]
	if !ok {
		return "", false
	}
	return "float64(p." + field + ")", true
}

// ruleMessage is the violation text for a rule.
func ruleMessage(rule, description string) string {
	rule = oneLine(rule)
	if d := oneLine(description); d != "" {
		return d + " (" + rule + ")"
	}
	return rule
}

func trimRule(rule string) string {
	return strings.TrimSpace(rule)
}
