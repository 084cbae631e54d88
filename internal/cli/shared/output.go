package shared

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	clierrors "github.com/ariel-frischer/contractkit/internal/errors"
)

// PrintError reports err on w. Exit-code-only errors were reported by the
// command that returned them and print nothing.
func PrintError(w io.Writer, err error) {
	if err == nil || IsReported(err) {
		return
	}
	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		cliErr = clierrors.WrapCategory(err, clierrors.CategoryOf(err))
	}
	clierrors.FprintError(w, cliErr)
}

// PrintFinding writes one "MODULE CODE: message" line. Warnings are
// yellow, errors red.
func PrintFinding(w io.Writer, module, code, message string, warning bool) {
	attr := color.FgRed
	if warning {
		attr = color.FgYellow
	}
	codeColor := color.New(attr).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s: %s\n", bold(module), codeColor(code), message)
}

// PrintSuccess writes a green check line.
func PrintSuccess(w io.Writer, format string, args ...interface{}) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// PrintFailure writes a red cross line.
func PrintFailure(w io.Writer, format string, args ...interface{}) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", red("✗"), fmt.Sprintf(format, args...))
}
