package generator

import (
	"sort"
	"sync"
)

// ArtifactSet is the committed autogenerated set of one module.
type ArtifactSet struct {
	Abbr           string     `json:"abbr"`
	ModuleID       string     `json:"module_id"`
	Version        string     `json:"version"`
	ContractSHA256 string     `json:"contract_sha256"`
	Source         string     `json:"source"`
	Dir            string     `json:"dir"`
	Artifacts      []Artifact `json:"artifacts"`
	ManualPresent  []string   `json:"manual_present"`
}

// Changed reports whether any artifact was created or updated.
func (s *ArtifactSet) Changed() bool {
	for _, a := range s.Artifacts {
		if a.Status != StatusUnchanged {
			return true
		}
	}
	return false
}

// Registry maps module abbreviations to the sets generated in this run.
// It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	sets map[string]*ArtifactSet
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]*ArtifactSet)}
}

func (r *Registry) put(s *ArtifactSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets[s.Abbr] = s
}

// Get returns the set generated for abbr.
func (r *Registry) Get(abbr string) (*ArtifactSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sets[abbr]
	return s, ok
}

// Abbrs returns the registered abbreviations, sorted.
func (r *Registry) Abbrs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sets))
	for a := range r.sets {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered sets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sets)
}
