package modkit

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/cobra"
)

// Module holds the constructors a generated package registers.
type Module struct {
	Abbr          string
	Trace         Trace
	NewParameters func() Parameters
	NewInputs     func() ContractDictLoader
	NewOutputs    func() ContractDictLoader
	NewCommand    func() *cobra.Command
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Module{}
)

// Register adds a module. It panics on an empty or duplicate abbreviation,
// which can only happen when two generated packages are linked for the same
// module.
func Register(m Module) {
	if m.Abbr == "" {
		panic("modkit: Register with empty module abbreviation")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[m.Abbr]; dup {
		panic(fmt.Sprintf("modkit: module %s registered twice", m.Abbr))
	}
	registry[m.Abbr] = m
}

// Lookup returns the module registered under abbr.
func Lookup(abbr string) (Module, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	m, ok := registry[abbr]
	return m, ok
}

// Modules returns every registered module sorted by abbreviation.
func Modules() []Module {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Module, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Abbr < out[j].Abbr })
	return out
}

// Commands returns the CLI scaffolds of all registered modules, for mounting
// under a host command.
func Commands() []*cobra.Command {
	var cmds []*cobra.Command
	for _, m := range Modules() {
		if m.NewCommand != nil {
			cmds = append(cmds, m.NewCommand())
		}
	}
	return cmds
}

func unregister(abbr string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, abbr)
}
