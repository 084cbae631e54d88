package check

import (
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/contractkit/internal/cli/shared"
	clierrors "github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/logger"
	"github.com/ariel-frischer/contractkit/internal/validation"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog [contracts_dir]",
		Short: "Compare the module catalog with the loaded contracts",
		Long: `Compare every catalog entry with the contracts in the contracts directory.

An entry drifts when its module_id has no contract, when its version differs
from the contract's version, or when its abbreviation differs. Contracts
missing from the catalog are not reported.`,
		Example:      `  contractkit catalog contracts/ --catalog katalog_4_0.json`,
		Args:         shared.MaximumArgs(1),
		SilenceUsage: true,
		RunE:         runCatalog,
	}
	cmd.GroupID = shared.GroupContracts
	cmd.Flags().String("catalog", "", "Path to the module catalog (default from config)")
	return cmd
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}
	dir := cfg.ContractsDir
	if len(args) > 0 {
		dir = args[0]
	}
	catalogPath := shared.StringFlag(cmd, "catalog", cfg.CatalogPath)
	if catalogPath == "" {
		return clierrors.NewArgumentErrorWithUsage("no catalog document given", cmd.UseLine(),
			"Pass the catalog with --catalog <path>")
	}

	catalog, err := shared.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}
	store, err := shared.LoadStore(dir, cfg.ContractGlobs)
	if err != nil {
		return err
	}

	violations := validation.CheckCatalog(catalog, store)
	logger.Named("catalog").Infow("catalog checked",
		logger.FieldPath, catalogPath, logger.FieldCount, len(catalog.Entries), logger.FieldFailed, len(violations))

	out := cmd.OutOrStdout()
	for _, v := range violations {
		shared.PrintFinding(out, v.Module, v.Code, v.Message, false)
	}
	if len(violations) > 0 {
		shared.PrintFailure(out, "%d catalog violation(s) in %d entries", len(violations), len(catalog.Entries))
		return shared.NewExitError(shared.ExitValidationFailed)
	}
	shared.PrintSuccess(out, "catalog clean: %d entries match %d contract(s)", len(catalog.Entries), store.Len())
	return nil
}
