package check

import (
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/contractkit/internal/cli/shared"
	clierrors "github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/generator"
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the generated tree against the contracts",
		Long: `Check that every contract has an up-to-date generated module.

Reports modules that were never generated, autogen files that are missing or
were written from a different contract, unexpected files and generated
modules whose contract is gone. Nothing is written.`,
		Example:      `  contractkit verify --contracts contracts/ --out modules/`,
		Args:         shared.MaximumArgs(0),
		SilenceUsage: true,
		RunE:         runVerify,
	}
	cmd.GroupID = shared.GroupGeneration
	cmd.Flags().String("contracts", "", "Contracts directory (default from config)")
	cmd.Flags().String("out", "", "Generated modules directory (default from config)")
	return cmd
}

func runVerify(cmd *cobra.Command, _ []string) error {
	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := shared.LoadStore(shared.StringFlag(cmd, "contracts", cfg.ContractsDir), cfg.ContractGlobs)
	if err != nil {
		return err
	}
	modulesDir := shared.StringFlag(cmd, "out", cfg.ModulesDir)

	drifts, err := generator.Verify(store, modulesDir)
	if err != nil {
		return clierrors.WrapCategory(err, clierrors.Runtime)
	}

	out := cmd.OutOrStdout()
	for _, d := range drifts {
		shared.PrintFinding(out, d.Abbr, d.Code, d.Message, false)
	}
	if len(drifts) > 0 {
		shared.PrintFailure(out, "%d drift(s) in %s", len(drifts), modulesDir)
		return shared.NewExitError(shared.ExitValidationFailed)
	}
	shared.PrintSuccess(out, "%s is up to date with %d contract(s)", modulesDir, store.Len())
	return nil
}
