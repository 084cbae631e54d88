// Package check provides the contract checking commands: validate, catalog
// and verify.
package check

import (
	"github.com/spf13/cobra"
)

// Register adds the checking commands to the root command.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newVerifyCmd())
}
