package batch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ariel-frischer/contractkit/internal/contract"
	"github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/logger"
)

// DefaultDebounce groups the bursts of events editors produce on save.
const DefaultDebounce = 300 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Dir      string
	Globs    []string
	Debounce time.Duration
	Logger   *zap.SugaredLogger
}

// RunFunc is invoked with a fresh store snapshot on every trigger.
type RunFunc func(ctx context.Context, store *contract.Store) error

// Watch runs fn once, then again each time a contract file in opts.Dir is
// created, written, removed or renamed. Errors from fn are logged and
// watching continues. Watch returns nil when ctx is cancelled.
func Watch(ctx context.Context, opts WatchOptions, fn RunFunc) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if len(opts.Globs) == 0 {
		opts.Globs = contract.DefaultGlobs
	}
	log := opts.Logger
	if log == nil {
		log = logger.Logger
	}
	log = log.Named("watch")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "starting file watcher")
	}
	defer w.Close()
	if err := w.Add(opts.Dir); err != nil {
		return errors.Wrapf(err, "watching %s", opts.Dir)
	}

	run := func() {
		store, err := contract.LoadStore(opts.Dir, opts.Globs)
		if err != nil {
			log.Warnw("loading contracts failed", logger.FieldDir, opts.Dir, logger.FieldError, err)
			return
		}
		if err := fn(ctx, store); err != nil && ctx.Err() == nil {
			log.Warnw("run failed", logger.FieldDir, opts.Dir, logger.FieldError, err)
		}
	}
	run()

	timer := time.NewTimer(opts.Debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, opts.Globs) {
				continue
			}
			log.Debugw("contract changed", logger.FieldPath, ev.Name, "op", ev.Op.String())
			timer.Reset(opts.Debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnw("watch error", logger.FieldError, err)
		case <-timer.C:
			run()
		}
	}
}

// relevant reports whether ev touches a contract file. Attribute-only
// changes are ignored.
func relevant(ev fsnotify.Event, globs []string) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	for _, g := range globs {
		if ok, _ := filepath.Match(g, name); ok {
			return true
		}
	}
	return false
}
