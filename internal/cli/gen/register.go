// Package gen provides the code generation commands: generate and watch.
package gen

import (
	"github.com/spf13/cobra"
)

// Register adds the generation commands to the root command.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newWatchCmd())
}
