// Package reflection tracks the package prefixes searched when pluggable type
// names (operations, serialisers, JSON modules) are resolved.
package reflection

import (
	"slices"
	"strings"
	"sync"
)

// DefaultPackages are always searched.
var DefaultPackages = []string{"uk.gov.gchq.gaffer", "uk.gov.gchq.koryphe"}

// Registry is a set of package names: the defaults plus everything added.
// Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	defaults []string
	added    map[string]struct{}
}

func NewRegistry(defaults ...string) *Registry {
	return &Registry{
		defaults: slices.Clone(defaults),
		added:    make(map[string]struct{}),
	}
}

// AddPackages unions pkgs into the registry. Blank names are ignored.
func (r *Registry) AddPackages(pkgs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pkgs {
		if p = strings.TrimSpace(p); p != "" {
			r.added[p] = struct{}{}
		}
	}
}

// Packages returns the sorted union of defaults and added packages.
func (r *Registry) Packages() []string {
	r.mu.RLock()
	out := slices.Clone(r.defaults)
	for p := range r.added {
		out = append(out, p)
	}
	r.mu.RUnlock()
	slices.Sort(out)
	return slices.Compact(out)
}

func (r *Registry) Contains(pkg string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.added[pkg]; ok {
		return true
	}
	return slices.Contains(r.defaults, pkg)
}

// Reset drops every added package, keeping the defaults.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.added = make(map[string]struct{})
	r.mu.Unlock()
}

var std = NewRegistry(DefaultPackages...)

// Default is the process-wide registry.
func Default() *Registry { return std }

// ResetReflectionPackages resets the process-wide registry. Intended for tests.
func ResetReflectionPackages() { std.Reset() }
