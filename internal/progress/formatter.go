package progress

import (
	"fmt"
	"strings"
)

// formatCounter returns the [N/Total] counter string
func formatCounter(number, total int) string {
	return fmt.Sprintf("[%d/%d]", number, total)
}

// buildResultLine constructs the line printed when a module finishes
func buildResultLine(mark string, number, total int, m ModuleInfo) string {
	line := fmt.Sprintf("%s %s %s", mark, formatCounter(number, total), m.Name)
	if d := strings.TrimSpace(m.Detail); d != "" {
		line += ": " + d
	}
	return line
}

// buildSpinnerSuffix is shown next to the spinner while modules run
func buildSpinnerSuffix(action string, done, total int) string {
	return fmt.Sprintf(" %s %s", formatCounter(done, total), capitalize(action))
}

// capitalize returns the string with the first letter capitalized
func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// checkmark returns the appropriate checkmark symbol
func checkmark(symbols ProgressSymbols, supportsColor bool) string {
	mark := symbols.Checkmark
	if supportsColor && symbols.Checkmark == "✓" {
		mark = "\033[32m" + mark + "\033[0m" // Green
	}
	return mark
}

// failureMark returns the appropriate failure symbol
func failureMark(symbols ProgressSymbols, supportsColor bool) string {
	mark := symbols.Failure
	if supportsColor && symbols.Failure == "✗" {
		mark = "\033[31m" + mark + "\033[0m" // Red
	}
	return mark
}
