package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// FormatError renders a CLIError with colors for terminal output.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	return format(err, red, yellow)
}

// FormatErrorPlain renders a CLIError without ANSI escapes.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	plain := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return format(err, plain, plain)
}

func format(err *CLIError, title, hint func(a ...interface{}) string) string {
	var sb strings.Builder
	sb.WriteString(title(err.Category.String() + ":"))
	sb.WriteString(" ")
	sb.WriteString(err.Message)
	sb.WriteString("\n")

	if err.Usage != "" {
		sb.WriteString("\nUsage: ")
		sb.WriteString(err.Usage)
		sb.WriteString("\n")
	}

	steps := err.Remediation
	if err.cause != nil {
		steps = append(append([]string{}, steps...), GetHints(err.cause)...)
	}
	if len(steps) > 0 {
		sb.WriteString("\n")
		sb.WriteString(hint("To fix this:"))
		sb.WriteString("\n")
		for i, step := range steps {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}
	return sb.String()
}

// PrintError writes a formatted error to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError writes a formatted error to w. Nothing is written for nil.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	if f, ok := w.(*os.File); ok && f == os.Stderr && !color.NoColor {
		fmt.Fprint(w, FormatError(err))
		return
	}
	fmt.Fprint(w, FormatErrorPlain(err))
}

// FormatSimpleError formats any error under the given category.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return FormatErrorPlain(cliErr)
	}
	return FormatErrorPlain(&CLIError{Category: category, Message: err.Error(), cause: err})
}
