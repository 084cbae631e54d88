package generator

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/contractkit/internal/contract"
	"github.com/ariel-frischer/contractkit/internal/errors"
)

// Drift codes reported by Verify.
const (
	DriftNotGenerated = "MODULE_NOT_GENERATED"
	DriftMissing      = "ARTIFACT_MISSING"
	DriftUnexpected   = "UNEXPECTED_FILE"
	DriftStale        = "CONTRACT_HASH_DRIFT"
	DriftOrphan       = "ORPHAN_MODULE"
)

// Drift is one disagreement between the generated tree and the contracts.
type Drift struct {
	Abbr    string `json:"abbr"`
	Code    string `json:"code"`
	File    string `json:"file,omitempty"`
	Message string `json:"message"`
}

// String returns "ABBR CODE: message".
func (d Drift) String() string {
	return d.Abbr + " " + d.Code + ": " + d.Message
}

const headerKey = "contract_sha256:"

// headerScanLines bounds the search for the hash line.
const headerScanLines = 16

// Verify compares the generated tree under modulesDir with the contracts in
// store. It never writes.
func Verify(store *contract.Store, modulesDir string) ([]Drift, error) {
	var drifts []Drift
	known := make(map[string]bool)
	for _, c := range DiscoverModules(store, nil) {
		if c.Doc == nil {
			continue
		}
		known[c.Abbr] = true
		d, err := verifyModule(c.Abbr, c.Doc.SHA256, filepath.Join(modulesDir, c.Abbr))
		if err != nil {
			return nil, err
		}
		drifts = append(drifts, d...)
	}

	entries, err := os.ReadDir(modulesDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(err, "reading %s", modulesDir)
	}
	for _, e := range entries {
		if e.IsDir() && ValidAbbr(e.Name()) && !known[e.Name()] {
			drifts = append(drifts, Drift{
				Abbr:    e.Name(),
				Code:    DriftOrphan,
				Message: "generated module has no contract",
			})
		}
	}
	return drifts, nil
}

func verifyModule(abbr, sha, dir string) ([]Drift, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Drift{{Abbr: abbr, Code: DriftNotGenerated, Message: "module directory " + dir + " does not exist"}}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", dir)
	}

	var drifts []Drift
	for _, name := range AutogenFiles() {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			drifts = append(drifts, Drift{Abbr: abbr, Code: DriftMissing, File: name, Message: name + " is missing"})
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", name)
		}
		got := HeaderHash(data)
		switch {
		case got == "":
			drifts = append(drifts, Drift{Abbr: abbr, Code: DriftStale, File: name, Message: name + " has no contract_sha256 header"})
		case got != sha:
			drifts = append(drifts, Drift{
				Abbr:    abbr,
				Code:    DriftStale,
				File:    name,
				Message: name + " was generated from contract " + short(got) + ", contract is now " + short(sha),
			})
		}
	}
	for _, e := range entries {
		if !isAutogen(e.Name()) && !isManual(e.Name()) {
			drifts = append(drifts, Drift{Abbr: abbr, Code: DriftUnexpected, File: e.Name(), Message: e.Name() + " is neither generated nor a manual file"})
		}
	}
	return drifts, nil
}

// HeaderHash extracts the contract_sha256 value from a generated file
// header, or returns "".
func HeaderHash(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for i := 0; i < headerScanLines && sc.Scan(); i++ {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "//"))
		if v, ok := strings.CutPrefix(line, headerKey); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func short(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
