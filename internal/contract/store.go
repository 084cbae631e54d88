package contract

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/ariel-frischer/contractkit/internal/errors"
)

// DefaultGlobs match Stage A contract files.
var DefaultGlobs = []string{"*_contract_stageA*.json"}

// Entry is one discovered contract file. Exactly one of Doc and Err is set.
type Entry struct {
	Path string
	Doc  *Document
	Err  error
}

// Store is an immutable snapshot of the contracts in one directory, ordered
// by file name.
type Store struct {
	dir     string
	entries []Entry
	byID    map[string]*Document
}

// Discover lists the regular files in dir matching any of globs, sorted by
// name and without repeats.
func Discover(dir string, globs []string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "contracts directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf("contracts path %s is not a directory", dir)
	}
	if len(globs) == 0 {
		globs = DefaultGlobs
	}

	seen := make(map[string]bool)
	var files []string
	for _, g := range globs {
		matches, err := filepath.Glob(filepath.Join(dir, g))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid contract glob %q", g)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			if fi, err := os.Stat(m); err != nil || !fi.Mode().IsRegular() {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Slice(files, func(i, j int) bool { return filepath.Base(files[i]) < filepath.Base(files[j]) })
	return files, nil
}

// LoadStore discovers and parses every contract in dir. Files that fail to
// parse are kept as entries carrying the error.
func LoadStore(dir string, globs []string) (*Store, error) {
	files, err := Discover(dir, globs)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		doc, err := LoadDocument(f)
		entries = append(entries, Entry{Path: f, Doc: doc, Err: err})
	}
	return newStore(dir, entries), nil
}

// NewStore builds a snapshot from already parsed documents.
func NewStore(docs ...*Document) *Store {
	entries := make([]Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, Entry{Path: d.Path, Doc: d})
	}
	return newStore("", entries)
}

func newStore(dir string, entries []Entry) *Store {
	s := &Store{dir: dir, entries: entries, byID: make(map[string]*Document)}
	for _, e := range entries {
		if e.Doc == nil || e.Doc.Contract.ModuleID == "" {
			continue
		}
		if _, dup := s.byID[e.Doc.Contract.ModuleID]; !dup {
			s.byID[e.Doc.Contract.ModuleID] = e.Doc
		}
	}
	return s
}

// Dir returns the scanned directory, "" for in-memory stores.
func (s *Store) Dir() string { return s.dir }

// Entries returns every discovered file in name order.
func (s *Store) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Documents returns the parsed documents in name order.
func (s *Store) Documents() []*Document {
	var out []*Document
	for _, e := range s.entries {
		if e.Doc != nil {
			out = append(out, e.Doc)
		}
	}
	return out
}

// Len returns the number of discovered files.
func (s *Store) Len() int { return len(s.entries) }

// ByID returns the first contract declaring moduleID.
func (s *Store) ByID(moduleID string) (*Document, bool) {
	d, ok := s.byID[moduleID]
	return d, ok
}

// ByAbbr returns the first contract whose normalised abbreviation is abbr.
func (s *Store) ByAbbr(abbr string) (*Document, bool) {
	abbr = NormalizeAbbr(abbr)
	for _, d := range s.Documents() {
		if d.Abbr() == abbr {
			return d, true
		}
	}
	return nil, false
}

// HasModule reports whether a contract with moduleID is loaded.
func (s *Store) HasModule(moduleID string) bool {
	_, ok := s.byID[moduleID]
	return ok
}
