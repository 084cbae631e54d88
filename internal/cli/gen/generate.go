package gen

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/contractkit/internal/batch"
	"github.com/ariel-frischer/contractkit/internal/cli/shared"
	"github.com/ariel-frischer/contractkit/internal/config"
	"github.com/ariel-frischer/contractkit/internal/contract"
	clierrors "github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/generator"
	"github.com/ariel-frischer/contractkit/internal/logger"
	"github.com/ariel-frischer/contractkit/internal/validation"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate (--all | --module <ABBR>...)",
		Aliases: []string{"gen"},
		Short:   "Generate Go module scaffolds from contracts (gen)",
		Long: `Generate a Go module scaffold for each requested contract.

Every module gets six autogen files under <out>/<ABBR>/: config_autogen.go,
io_types_autogen.go, validators_autogen.go, pipeline_autogen.go,
cli_autogen.go and README_autogen.md. Files are rewritten only when their
bytes change and the set is promoted by rename, so a failure leaves the
previous generation in place. Manual files in the module directory are never
touched.

With --gate a contract must pass validation before it is generated.`,
		Example: `  # Generate every module
  contractkit generate --all

  # Regenerate two modules into a custom tree
  contractkit generate --module SPS --module ABC --out internal/modules

  # Refuse contracts that fail validation
  contractkit generate --all --gate --schema contract_schema_stageA_v4.json`,
		Args:         shared.MaximumArgs(0),
		SilenceUsage: true,
		RunE:         runGenerate,
	}
	cmd.GroupID = shared.GroupGeneration
	cmd.Flags().Bool("all", false, "Generate every discovered module")
	cmd.Flags().StringSliceP("module", "m", nil, "Module abbreviation to generate (repeatable)")
	cmd.Flags().String("contracts", "", "Contracts directory (default from config)")
	cmd.Flags().String("out", "", "Generated modules directory (default from config)")
	cmd.Flags().String("schema", "", "Contract schema checked before generation")
	cmd.Flags().String("glossary", "", "Glossary used by --gate")
	cmd.Flags().Bool("gate", false, "Generate only contracts that pass validation")
	cmd.Flags().IntP("parallel", "j", 0, "Maximum modules generated at once (default from config)")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	all, _ := cmd.Flags().GetBool("all")
	modules, _ := cmd.Flags().GetStringSlice("module")
	switch {
	case all && len(modules) > 0:
		return clierrors.InvalidFlagCombination("--all/--module", "use one or the other")
	case !all && len(modules) == 0:
		return clierrors.InvalidFlagCombination("--all/--module", "one of them is required")
	}

	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := shared.LoadStore(shared.StringFlag(cmd, "contracts", cfg.ContractsDir), cfg.ContractGlobs)
	if err != nil {
		return err
	}
	for _, m := range modules {
		if !generator.ValidAbbr(contract.NormalizeAbbr(m)) {
			return clierrors.NewArgumentError(fmt.Sprintf("invalid module abbreviation: %q", m),
				"Abbreviations start with a letter and contain letters, digits and underscores")
		}
	}

	runner, opts, err := newGeneration(cmd, cfg, store)
	if err != nil {
		return err
	}
	result, err := runner.Generate(cmd.Context(), store, modules, opts)
	if err != nil {
		return clierrors.WrapCategory(err, clierrors.Runtime)
	}
	if !printGeneration(cmd.OutOrStdout(), result) {
		return shared.NewExitError(shared.ExitValidationFailed)
	}
	return nil
}

// newGeneration builds the runner and generator options shared by generate
// and watch.
func newGeneration(cmd *cobra.Command, cfg *config.Configuration, store *contract.Store) (*batch.Runner, generator.Options, error) {
	schema, err := shared.LoadSchema(shared.StringFlag(cmd, "schema", cfg.SchemaPath))
	if err != nil {
		return nil, generator.Options{}, err
	}

	lintOpts := []validation.LinterOption{
		validation.WithAdvisory(cfg.AdvisoryChecks),
		validation.WithHeaderLiterals(cfg.SchemaName, cfg.SchemaStage),
	}
	if cmd.Flags().Lookup("glossary") != nil {
		glossary, err := shared.LoadGlossary(shared.StringFlag(cmd, "glossary", cfg.GlossaryPath))
		if err != nil {
			return nil, generator.Options{}, err
		}
		if glossary != nil {
			lintOpts = append(lintOpts, validation.WithGlossary(glossary))
		}
	}

	log := logger.Named("generate")
	runner := batch.NewRunner(schema,
		batch.WithMaxParallel(shared.IntFlag(cmd, "parallel", cfg.MaxParallel)),
		batch.WithLinterOptions(lintOpts...),
		batch.WithScoreThreshold(cfg.ScoreThreshold),
		batch.WithDisplay(shared.NewDisplay(cmd)),
		batch.WithLogger(log),
	)

	opts := generator.Options{
		ModulesDir:    shared.StringFlag(cmd, "out", cfg.ModulesDir),
		RuntimeImport: cfg.RuntimeImport,
		Schema:        schema,
		Globs:         cfg.ContractGlobs,
		Logger:        log,
	}
	if gate, _ := cmd.Flags().GetBool("gate"); gate {
		opts.Gate = runner.Gate(store)
	}
	return runner, opts, nil
}

// printGeneration lists failed modules as "ABBR: reason" lines and reports
// whether every module generated.
func printGeneration(w io.Writer, result *generator.BatchResult) bool {
	failed := result.Failed()
	for _, m := range failed {
		name := m.Abbr
		if name == "" {
			name = m.Source
		}
		shared.PrintFailure(w, "%s: %v", name, m.Err)
	}

	var written int
	for _, m := range result.Modules {
		if m.Set != nil && m.Set.Changed() {
			written++
		}
	}
	ok := len(result.Modules) - len(failed)
	if len(failed) > 0 {
		shared.PrintFailure(w, "%d of %d module(s) generated, %d failed", ok, len(result.Modules), len(failed))
		return false
	}
	shared.PrintSuccess(w, "%d module(s) generated, %d changed", ok, written)
	return true
}
