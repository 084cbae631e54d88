package generator

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ariel-frischer/contractkit/internal/contract"
	"github.com/ariel-frischer/contractkit/internal/logger"
)

// Discovered is one generation candidate. Exactly one of Doc and Err is
// set.
type Discovered struct {
	Source string
	Abbr   string
	Doc    *contract.Document
	Err    error
}

// DiscoverModules selects one contract per abbreviation from store, in
// store order. Later contracts repeating an abbreviation are logged and
// skipped. Unparsable files are returned as failed candidates keyed by
// file name.
func DiscoverModules(store *contract.Store, log *zap.SugaredLogger) []Discovered {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	seen := make(map[string]string)
	var out []Discovered
	for _, e := range store.Entries() {
		name := filepath.Base(e.Path)
		if e.Err != nil {
			out = append(out, Discovered{Source: name, Abbr: name, Err: e.Err})
			continue
		}
		abbr := e.Doc.Abbr()
		if first, dup := seen[abbr]; dup {
			log.Warnw("skipping duplicate module abbreviation",
				logger.FieldModule, abbr, logger.FieldPath, name, "first", first)
			continue
		}
		seen[abbr] = name
		out = append(out, Discovered{Source: name, Abbr: abbr, Doc: e.Doc})
	}
	return out
}
