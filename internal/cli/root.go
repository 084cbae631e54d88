// Package cli provides the Cobra-based contractkit command line: contract
// validation (validate, catalog, verify), code generation (generate, watch)
// and configuration management (config, version).
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/contractkit/internal/cli/check"
	"github.com/ariel-frischer/contractkit/internal/cli/config"
	"github.com/ariel-frischer/contractkit/internal/cli/gen"
	"github.com/ariel-frischer/contractkit/internal/cli/shared"
	"github.com/ariel-frischer/contractkit/internal/cli/util"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupContracts     = shared.GroupContracts
	GroupGeneration    = shared.GroupGeneration
	GroupConfiguration = shared.GroupConfiguration
)

// NewRootCmd builds the contractkit command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "contractkit",
		Short: "Module contract validation and Go code generation",
		Long: `contractkit checks module contracts and generates Go scaffolds from them.

Contracts are JSON (or YAML) documents describing a module's inputs, outputs,
parameters, constraints and error codes. contractkit validates them against a
structural schema and semantic rules, compares them with the module catalog and
generates one Go package per module.`,
		Example: `  # Validate every contract and write reports
  contractkit validate contracts/ --schema contract_schema_stageA_v4.json --out reports/

  # Check the catalog for drift
  contractkit catalog contracts/ --catalog katalog_4_0.json

  # Generate all modules, then verify the tree
  contractkit generate --all
  contractkit verify`,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: GroupContracts, Title: "Contracts:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupGeneration, Title: "Generation:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})

	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)
	rootCmd.SetFlagErrorFunc(shared.FlagError)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default .contractkit/config.json)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	check.Register(rootCmd)
	gen.Register(rootCmd)
	config.Register(rootCmd)
	util.Register(rootCmd)
	return rootCmd
}

// Execute runs the command line with args and returns the first error.
func Execute(ctx context.Context, args []string) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
