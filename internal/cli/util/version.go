package util

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/contractkit/internal/build"
	"github.com/ariel-frischer/contractkit/internal/cli/shared"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for contractkit",
		Example: `  # Show version info
  contractkit version

  # Plain output (for scripts)
  contractkit version --plain`,
		Args: shared.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			plain, _ := cmd.Flags().GetBool("plain")
			if plain {
				printPlainVersion(cmd.OutOrStdout())
			} else {
				printPrettyVersion(cmd.OutOrStdout())
			}
		},
	}
	cmd.GroupID = shared.GroupConfiguration
	cmd.Flags().Bool("plain", false, "Plain output without formatting")
	return cmd
}

func versionInfo() [][2]string {
	return [][2]string{
		{"Version", build.Version},
		{"Commit", truncateCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "contractkit %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func printPrettyVersion(w io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()

	fmt.Fprintln(w, cyan("contractkit")+" - contract validation and module generation")
	fmt.Fprintln(w)
	for _, item := range versionInfo() {
		fmt.Fprintf(w, "  %s  %s\n", yellow(fmt.Sprintf("%10s", item[0])), white(item[1]))
	}
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
