package check

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/contractkit/internal/batch"
	"github.com/ariel-frischer/contractkit/internal/cli/shared"
	"github.com/ariel-frischer/contractkit/internal/config"
	clierrors "github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/logger"
	"github.com/ariel-frischer/contractkit/internal/validation"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate [contracts_dir]",
		Aliases: []string{"val"},
		Short:   "Validate contracts against the schema and semantic rules (val)",
		Long: `Validate every contract in the contracts directory.

Each contract is checked for schema conformance, then for semantic problems:
duplicate error codes, constraint and rule references to undeclared codes,
parameter ranges and defaults, header literals and glossary coverage. When a
catalog is given its entries are compared against the loaded contracts.

Findings are printed as "MODULE CODE: message" lines. With --out, JSON, YAML
and Markdown reports are written to the given directory.`,
		Example: `  # Validate the configured contracts directory
  contractkit validate --schema contract_schema_stageA_v4.json

  # Validate with glossary and catalog, writing reports
  contractkit validate contracts/ --schema schema.json --glossary glossary_v1.json \
      --catalog katalog_4_0.json --out reports/

  # Fail on contracts below the score threshold too
  contractkit validate --strict`,
		Args:         shared.MaximumArgs(1),
		SilenceUsage: true,
		RunE:         runValidate,
	}

	cmd.GroupID = shared.GroupContracts
	cmd.Flags().String("schema", "", "Path to the contract schema (default from config)")
	cmd.Flags().String("glossary", "", "Path to the glossary document")
	cmd.Flags().String("catalog", "", "Path to the module catalog")
	cmd.Flags().String("out", "", "Directory for JSON, YAML and Markdown reports")
	cmd.Flags().Bool("advisory", false, "Enable advisory checks (version format, group members, relations)")
	cmd.Flags().Bool("strict", false, "Also fail contracts scoring below the threshold")
	cmd.Flags().Int("threshold", 0, "Score threshold for --strict (default from config)")
	cmd.Flags().IntP("parallel", "j", 0, "Maximum contracts validated at once (default from config)")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}

	dir := cfg.ContractsDir
	if len(args) > 0 {
		dir = args[0]
	}
	schemaPath := shared.StringFlag(cmd, "schema", cfg.SchemaPath)
	if schemaPath == "" {
		return clierrors.NewArgumentErrorWithUsage("no schema document given", cmd.UseLine(),
			"Pass the schema with --schema <path>",
			"Or set schema_path in "+config.ProjectConfigPath())
	}

	runner, err := newRunner(cmd, cfg, schemaPath)
	if err != nil {
		return err
	}
	store, err := shared.LoadStore(dir, cfg.ContractGlobs)
	if err != nil {
		return err
	}

	report, err := runner.Validate(cmd.Context(), store)
	if err != nil {
		return clierrors.WrapCategory(err, clierrors.Runtime)
	}

	out := cmd.OutOrStdout()
	printFindings(out, report)
	printSummary(out, report)

	if reportsDir := shared.StringFlag(cmd, "out", cfg.ReportsDir); reportsDir != "" {
		paths, err := batch.WriteReports(reportsDir, report)
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Runtime, "writing reports")
		}
		for _, p := range paths {
			fmt.Fprintf(out, "report: %s\n", p)
		}
	}

	strict, _ := cmd.Flags().GetBool("strict")
	if !report.OK(strict) {
		return shared.NewExitError(shared.ExitValidationFailed)
	}
	return nil
}

// newRunner assembles a batch runner from config and flags.
func newRunner(cmd *cobra.Command, cfg *config.Configuration, schemaPath string) (*batch.Runner, error) {
	schema, err := shared.LoadSchema(schemaPath)
	if err != nil {
		return nil, err
	}
	glossary, err := shared.LoadGlossary(shared.StringFlag(cmd, "glossary", cfg.GlossaryPath))
	if err != nil {
		return nil, err
	}
	catalog, err := shared.LoadCatalog(shared.StringFlag(cmd, "catalog", cfg.CatalogPath))
	if err != nil {
		return nil, err
	}

	lintOpts := []validation.LinterOption{
		validation.WithAdvisory(shared.BoolFlag(cmd, "advisory", cfg.AdvisoryChecks)),
		validation.WithHeaderLiterals(cfg.SchemaName, cfg.SchemaStage),
	}
	if glossary != nil {
		lintOpts = append(lintOpts, validation.WithGlossary(glossary))
	}
	opts := []batch.RunnerOption{
		batch.WithMaxParallel(shared.IntFlag(cmd, "parallel", cfg.MaxParallel)),
		batch.WithLinterOptions(lintOpts...),
		batch.WithScoreThreshold(shared.IntFlag(cmd, "threshold", cfg.ScoreThreshold)),
		batch.WithDisplay(shared.NewDisplay(cmd)),
		batch.WithLogger(logger.Named("validate")),
	}
	if catalog != nil {
		opts = append(opts, batch.WithCatalog(catalog))
	}
	return batch.NewRunner(schema, opts...), nil
}

func printFindings(w io.Writer, report *batch.ValidationReport) {
	for _, f := range report.Findings() {
		shared.PrintFinding(w, f.Module, f.Code, f.Message, f.Warning)
	}
}

func printSummary(w io.Writer, report *batch.ValidationReport) {
	s := report.Summary
	line := fmt.Sprintf("%d of %d contract(s) passed, average score %.1f", s.Passed, s.Total, s.AverageScore)
	if s.BelowThreshold > 0 {
		line += fmt.Sprintf(", %d below threshold %d", s.BelowThreshold, report.Threshold)
	}
	if report.CatalogPath != "" {
		line += fmt.Sprintf(", %d catalog violation(s)", s.CatalogViolations)
	}
	if s.Failed == 0 && s.CatalogViolations == 0 {
		shared.PrintSuccess(w, "%s", line)
		return
	}
	shared.PrintFailure(w, "%s", line)
}
