// Package batch runs validation and generation over every contract in a
// store, in parallel, and writes the run reports.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/contractkit/internal/contract"
	"github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/generator"
	"github.com/ariel-frischer/contractkit/internal/git"
	"github.com/ariel-frischer/contractkit/internal/logger"
	"github.com/ariel-frischer/contractkit/internal/progress"
	"github.com/ariel-frischer/contractkit/internal/validation"
)

// DefaultMaxParallel bounds concurrent modules when no option is given.
const DefaultMaxParallel = 4

// Runner drives one validation or generation run per call. Its inputs are
// immutable snapshots, so calls may run concurrently.
type Runner struct {
	schema      *validation.Schema
	linterOpts  []validation.LinterOption
	catalog     *contract.Catalog
	maxParallel int
	threshold   int
	display     *progress.Display
	onResult    func(*validation.ValidationResult)
	revision    func(dir string) *git.Revision
	now         func() time.Time
	log         *zap.SugaredLogger
}

// RunnerOption is a functional option for configuring Runner.
type RunnerOption func(*Runner)

// WithMaxParallel sets the maximum number of modules processed at once.
func WithMaxParallel(n int) RunnerOption {
	return func(r *Runner) {
		r.maxParallel = n
	}
}

// WithLinterOptions passes options to the per-run linter.
func WithLinterOptions(opts ...validation.LinterOption) RunnerOption {
	return func(r *Runner) {
		r.linterOpts = append(r.linterOpts, opts...)
	}
}

// WithCatalog enables the catalog check.
func WithCatalog(c *contract.Catalog) RunnerOption {
	return func(r *Runner) {
		r.catalog = c
	}
}

// WithScoreThreshold sets the score below which results are flagged.
func WithScoreThreshold(score int) RunnerOption {
	return func(r *Runner) {
		r.threshold = score
	}
}

// WithDisplay reports each finished module on d.
func WithDisplay(d *progress.Display) RunnerOption {
	return func(r *Runner) {
		r.display = d
	}
}

// WithOnResult is called with each validation result as it finishes.
func WithOnResult(fn func(*validation.ValidationResult)) RunnerOption {
	return func(r *Runner) {
		r.onResult = fn
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) RunnerOption {
	return func(r *Runner) {
		r.log = log
	}
}

// NewRunner creates a Runner. A nil schema skips the structural pass.
func NewRunner(schema *validation.Schema, opts ...RunnerOption) *Runner {
	r := &Runner{
		schema:      schema,
		maxParallel: DefaultMaxParallel,
		threshold:   validation.DefaultScoreThreshold,
		revision:    git.LookupRevision,
		now:         time.Now,
		log:         logger.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxParallel < 1 {
		r.maxParallel = 1
	}
	return r
}

func (r *Runner) linter(store *contract.Store) *validation.Linter {
	opts := append([]validation.LinterOption{
		validation.WithStore(store),
		validation.WithLogger(r.log),
	}, r.linterOpts...)
	return validation.NewLinter(r.schema, opts...)
}

// Validate lints every contract in store. Results keep store order whatever
// order modules finish in. Cancellation stops scheduling and returns the
// context error.
func (r *Runner) Validate(ctx context.Context, store *contract.Store) (*ValidationReport, error) {
	start := r.now()
	runID := uuid.NewString()
	log := r.log.With(logger.FieldRunID, runID)
	linter := r.linter(store)

	entries := store.Entries()
	results := make([]*validation.ValidationResult, len(entries))
	if r.display != nil {
		r.display.Start("validating contracts", len(entries))
		defer r.display.Stop()
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.maxParallel)
	for i, e := range entries {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := linter.ValidateEntry(e)
			results[i] = res
			r.finishValidation(res)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &ValidationReport{
		RunID:        runID,
		GeneratedAt:  start.UTC(),
		ContractsDir: store.Dir(),
		Threshold:    r.threshold,
		Results:      results,
	}
	if r.schema != nil {
		report.SchemaVersion = r.schema.Version
	} else {
		report.SchemaVersion = validation.UnversionedSchema
	}
	if store.Dir() != "" {
		report.Revision = r.revision(store.Dir())
	}
	if r.catalog != nil {
		report.CatalogPath = r.catalog.Path
		report.Catalog = validation.CheckCatalog(r.catalog, store)
	}
	report.Summary = summarize(results, report.Catalog, r.threshold)

	log.Infow("validation finished",
		logger.FieldCount, report.Summary.Total,
		logger.FieldFailed, report.Summary.Failed,
		logger.FieldDurationMS, r.now().Sub(start).Milliseconds())
	return report, nil
}

func (r *Runner) finishValidation(res *validation.ValidationResult) {
	if r.onResult != nil {
		r.onResult(res)
	}
	if r.display == nil {
		return
	}
	info := progress.ModuleInfo{Name: res.Module, Status: progress.ModuleSucceeded, Detail: scoreDetail(res)}
	if !res.Passed {
		info.Status = progress.ModuleFailed
	}
	if err := r.display.Finish(info); err != nil {
		r.log.Debugw("progress update skipped", logger.FieldError, err)
	}
}

// Gate returns a generator gate that accepts only contracts passing the
// same checks Validate runs.
func (r *Runner) Gate(store *contract.Store) func(*contract.Document) error {
	linter := r.linter(store)
	return func(doc *contract.Document) error {
		res := linter.ValidateDocument(doc)
		if res.Passed {
			return nil
		}
		return errors.WithHint(
			errors.Mark(errors.Newf("contract failed validation with score %d: %s", res.Score, joinCodes(res.Codes())), errors.ErrSemantic),
			"run 'contractkit validate' for details")
	}
}

// Generate runs gen over the modules named by abbrs, or all modules when
// abbrs is empty, reporting each finished module on the display.
func (r *Runner) Generate(ctx context.Context, store *contract.Store, abbrs []string, opts generator.Options) (*generator.BatchResult, error) {
	if opts.MaxParallel == 0 {
		opts.MaxParallel = r.maxParallel
	}
	if opts.Logger == nil {
		opts.Logger = r.log
	}
	if r.display != nil {
		r.display.Start("generating modules", plannedModules(store, abbrs))
		defer r.display.Stop()

		next := opts.OnModule
		opts.OnModule = func(m generator.ModuleResult) {
			if next != nil {
				next(m)
			}
			r.finishGeneration(m)
		}
	}
	return generator.New(opts).GenerateModules(ctx, store, abbrs)
}

func (r *Runner) finishGeneration(m generator.ModuleResult) {
	info := progress.ModuleInfo{Name: m.Abbr, Status: progress.ModuleSucceeded}
	switch {
	case m.Err != nil:
		info.Status = progress.ModuleFailed
		info.Detail = m.Err.Error()
	case m.Set != nil:
		info.Detail = changeDetail(m.Set)
	}
	if info.Name == "" {
		info.Name = m.Source
	}
	if err := r.display.Finish(info); err != nil {
		r.log.Debugw("progress update skipped", logger.FieldError, err)
	}
}

// plannedModules predicts how many results GenerateModules will report.
func plannedModules(store *contract.Store, abbrs []string) int {
	if len(abbrs) == 0 {
		return len(generator.DiscoverModules(store, zap.NewNop().Sugar()))
	}
	seen := make(map[string]bool)
	for _, a := range abbrs {
		seen[contract.NormalizeAbbr(a)] = true
	}
	return len(seen)
}
