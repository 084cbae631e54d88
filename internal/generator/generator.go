// Package generator turns contracts into Go module scaffolds.
//
// For each module the generator renders a fixed set of autogenerated files
// into <modules_dir>/<ABBR>/ and commits them as one transaction. Files
// named in ManualFiles belong to the module author and are never written.
// Output depends only on the contract, the schema version and the generator
// version, so regenerating an unchanged contract rewrites nothing.
package generator

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/contractkit/internal/build"
	"github.com/ariel-frischer/contractkit/internal/contract"
	"github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/logger"
	"github.com/ariel-frischer/contractkit/internal/validation"
)

// DefaultRuntimeImport is the import path of the runtime support package
// used by generated code.
const DefaultRuntimeImport = "github.com/ariel-frischer/contractkit/pkg/modkit"

// Options configures a Generator.
type Options struct {
	// ModulesDir is the root of the generated tree.
	ModulesDir string
	// Version is stamped into file headers. Defaults to the build version.
	Version       string
	RuntimeImport string
	// Schema, when set, is checked in addition to the built-in shape and
	// provides the recorded schema version.
	Schema *validation.Schema
	Globs  []string
	// MaxParallel bounds concurrent modules. Values below 1 mean 1.
	MaxParallel int
	// Gate, when set, must accept a contract before it is generated.
	Gate func(*contract.Document) error
	// OnModule is called after each module finishes, from the worker
	// goroutine.
	OnModule func(ModuleResult)
	Logger   *zap.SugaredLogger
}

// Generator renders and commits module scaffolds.
type Generator struct {
	opts     Options
	registry *Registry
	log      *zap.SugaredLogger
	rename   renameFunc
}

// New returns a Generator with defaults applied.
func New(opts Options) *Generator {
	if opts.Version == "" {
		opts.Version = build.GeneratorVersion()
	}
	if opts.RuntimeImport == "" {
		opts.RuntimeImport = DefaultRuntimeImport
	}
	if opts.MaxParallel < 1 {
		opts.MaxParallel = 1
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Generator{opts: opts, registry: NewRegistry(), log: log.Named("generator"), rename: os.Rename}
}

// Registry returns the sets generated so far by this Generator.
func (g *Generator) Registry() *Registry {
	return g.registry
}

// ModuleDir returns the directory of a module's generated package.
func (g *Generator) ModuleDir(abbr string) string {
	return filepath.Join(g.opts.ModulesDir, abbr)
}

func (g *Generator) schemaVersion() string {
	if g.opts.Schema != nil {
		return g.opts.Schema.Version
	}
	return validation.UnversionedSchema
}

// GenerateForContract generates the scaffold of one contract. Nothing is
// written unless every artifact renders.
func (g *Generator) GenerateForContract(ctx context.Context, doc *contract.Document) (*ArtifactSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	if err := checkShape(doc, g.opts.Schema); err != nil {
		return nil, err
	}
	if g.opts.Gate != nil {
		if err := g.opts.Gate(doc); err != nil {
			return nil, err
		}
	}
	abbr := doc.Abbr()
	if !ValidAbbr(abbr) {
		return nil, safetyErrorf("module abbreviation %q must match %s", doc.Contract.ModuleAbbr, abbrPattern)
	}

	files, err := render(buildModel(doc, g.schemaVersion(), g.opts))
	if err != nil {
		return nil, err
	}

	dir := g.ModuleDir(abbr)
	arts, err := commit(dir, files, g.rename)
	if err != nil {
		return nil, errors.Wrapf(err, "module %s", abbr)
	}

	set := &ArtifactSet{
		Abbr:           abbr,
		ModuleID:       doc.Contract.ModuleID,
		Version:        doc.Contract.Version,
		ContractSHA256: doc.SHA256,
		Source:         doc.Name(),
		Dir:            dir,
		Artifacts:      arts,
		ManualPresent:  manualPresent(dir),
	}
	g.registry.put(set)
	g.log.Debugw("generated module",
		logger.FieldModule, abbr,
		logger.FieldDir, dir,
		logger.FieldSHA256, doc.SHA256,
		"changed", set.Changed(),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return set, nil
}

func manualPresent(dir string) []string {
	var out []string
	for _, name := range ManualFiles() {
		if fileExists(filepath.Join(dir, name)) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// GenerateAll generates every contract found in contractsDir.
func (g *Generator) GenerateAll(ctx context.Context, contractsDir string) (*BatchResult, error) {
	store, err := contract.LoadStore(contractsDir, g.opts.Globs)
	if err != nil {
		return nil, err
	}
	return g.GenerateModules(ctx, store, nil)
}

// GenerateModules generates the modules named by abbrs, or every discovered
// module when abbrs is empty. Results follow store order, then the order of
// unknown abbreviations.
func (g *Generator) GenerateModules(ctx context.Context, store *contract.Store, abbrs []string) (*BatchResult, error) {
	candidates := DiscoverModules(store, g.log)
	if len(abbrs) > 0 {
		candidates = selectModules(candidates, abbrs)
	}

	results := make([]ModuleResult, len(candidates))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.MaxParallel)
	for i, c := range candidates {
		results[i] = ModuleResult{Abbr: c.Abbr, Source: c.Source, Err: c.Err}
		if c.Doc == nil {
			g.report(results[i])
			continue
		}
		eg.Go(func() error {
			set, err := g.GenerateForContract(ctx, c.Doc)
			results[i].Set, results[i].Err = set, err
			if err != nil {
				g.log.Warnw("module generation failed", logger.FieldModule, c.Abbr, logger.FieldError, err)
			}
			g.report(results[i])
			// Module failures are isolated; only cancellation stops the batch.
			return ctx.Err()
		})
	}
	err := eg.Wait()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	return &BatchResult{Modules: results}, err
}

func (g *Generator) report(r ModuleResult) {
	if g.opts.OnModule != nil {
		g.opts.OnModule(r)
	}
}

// selectModules keeps the candidates named in abbrs and adds a failed
// result for each name no contract declares.
func selectModules(candidates []Discovered, abbrs []string) []Discovered {
	want := make(map[string]bool)
	var order []string
	for _, a := range abbrs {
		a = contract.NormalizeAbbr(a)
		if !want[a] {
			want[a] = true
			order = append(order, a)
		}
	}
	var out []Discovered
	found := make(map[string]bool)
	for _, c := range candidates {
		if c.Doc != nil && want[c.Abbr] {
			out = append(out, c)
			found[c.Abbr] = true
		}
	}
	for _, a := range order {
		if !found[a] {
			out = append(out, Discovered{Abbr: a, Err: errors.Newf("no contract declares module %s", a)})
		}
	}
	return out
}

// ModuleResult is the outcome of one module in a batch.
type ModuleResult struct {
	Abbr   string
	Source string
	Set    *ArtifactSet
	Err    error
}

// BatchResult collects module results in discovery order.
type BatchResult struct {
	Modules []ModuleResult
}

// Failed returns the results that carry an error.
func (b *BatchResult) Failed() []ModuleResult {
	var out []ModuleResult
	for _, m := range b.Modules {
		if m.Err != nil {
			out = append(out, m)
		}
	}
	return out
}

// OK reports whether every module generated.
func (b *BatchResult) OK() bool {
	return len(b.Failed()) == 0
}

// Err summarises failed modules, or returns nil.
func (b *BatchResult) Err() error {
	failed := b.Failed()
	if len(failed) == 0 {
		return nil
	}
	names := make([]string, len(failed))
	for i, f := range failed {
		names[i] = f.Abbr
	}
	return errors.Newf("%d module(s) failed: %s", len(failed), strings.Join(names, ", "))
}
