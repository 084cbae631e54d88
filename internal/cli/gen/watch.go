package gen

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/contractkit/internal/batch"
	"github.com/ariel-frischer/contractkit/internal/cli/shared"
	"github.com/ariel-frischer/contractkit/internal/contract"
	clierrors "github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/logger"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate modules whenever a contract changes",
		Long: `Watch the contracts directory and regenerate every module when a contract
file is created, written, removed or renamed. Bursts of events are debounced.

With --validate the contracts are re-validated instead. Stop with Ctrl+C.`,
		Example: `  # Keep the generated tree in sync while editing contracts
  contractkit watch --contracts contracts/

  # Re-validate on every save
  contractkit watch --validate --schema contract_schema_stageA_v4.json`,
		Args:         shared.MaximumArgs(0),
		SilenceUsage: true,
		RunE:         runWatch,
	}
	cmd.GroupID = shared.GroupGeneration
	cmd.Flags().String("contracts", "", "Contracts directory (default from config)")
	cmd.Flags().String("out", "", "Generated modules directory (default from config)")
	cmd.Flags().String("schema", "", "Contract schema (required with --validate)")
	cmd.Flags().Bool("validate", false, "Re-validate instead of regenerating")
	cmd.Flags().Bool("gate", false, "Generate only contracts that pass validation")
	cmd.Flags().Duration("debounce", 0, "Quiet period before a run (default from config)")
	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}
	dir := shared.StringFlag(cmd, "contracts", cfg.ContractsDir)
	if !shared.DirExists(dir) {
		return clierrors.DirectoryNotFound(dir)
	}
	validate, _ := cmd.Flags().GetBool("validate")
	if validate && shared.StringFlag(cmd, "schema", cfg.SchemaPath) == "" {
		return clierrors.InvalidFlagCombination("--validate", "a schema is required (--schema or schema_path)")
	}

	debounce := cfg.WatchDebounce()
	if cmd.Flags().Changed("debounce") {
		debounce, _ = cmd.Flags().GetDuration("debounce")
	}

	out := cmd.OutOrStdout()
	run := func(ctx context.Context, store *contract.Store) error {
		if store.Len() == 0 {
			fmt.Fprintf(out, "no contracts in %s\n", dir)
			return nil
		}
		runner, opts, err := newGeneration(cmd, cfg, store)
		if err != nil {
			return err
		}
		if validate {
			report, err := runner.Validate(ctx, store)
			if err != nil {
				return err
			}
			for _, f := range report.Findings() {
				shared.PrintFinding(out, f.Module, f.Code, f.Message, f.Warning)
			}
			printWatchSummary(out, report)
			return nil
		}
		result, err := runner.Generate(ctx, store, nil, opts)
		if err != nil {
			return err
		}
		printGeneration(out, result)
		return nil
	}

	fmt.Fprintf(out, "watching %s (Ctrl+C to stop)\n", dir)
	err = batch.Watch(cmd.Context(), batch.WatchOptions{
		Dir:      dir,
		Globs:    cfg.ContractGlobs,
		Debounce: debounce,
		Logger:   logger.Named("watch"),
	}, run)
	if err != nil {
		return clierrors.WrapCategory(err, clierrors.Runtime)
	}
	return nil
}

func printWatchSummary(out io.Writer, report *batch.ValidationReport) {
	s := report.Summary
	stamp := report.GeneratedAt.Format(time.TimeOnly)
	if s.Failed == 0 {
		shared.PrintSuccess(out, "[%s] %d of %d contract(s) passed", stamp, s.Passed, s.Total)
		return
	}
	shared.PrintFailure(out, "[%s] %d of %d contract(s) failed", stamp, s.Failed, s.Total)
}
