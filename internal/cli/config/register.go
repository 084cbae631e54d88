// Package config provides the configuration commands: config init, set,
// show and keys.
package config

import (
	"github.com/spf13/cobra"
)

// Register adds the configuration commands to the root command.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newConfigCmd())
}
