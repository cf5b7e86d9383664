// Package provider implements graph.Provider by reading .module.textproto
// files straight off disk, the concrete collaborator spec §4.1 leaves
// opaque. It is the thinnest possible binding of modpb.ReadModuleFile into
// the graph package's dependency-injected Provider seam.
package provider

import (
	"sync"

	"github.com/ebuild-dev/ebuild/internal/modpb"
)

// Filesystem loads each module description from the path the graph
// resolver already computed, caching by absolute path so a module
// referenced from several dependents is parsed once (spec §4.1's "a
// provider may return a cached record").
type Filesystem struct {
	mu    sync.Mutex
	cache map[string]*modpb.Module
}

// NewFilesystem constructs a ready-to-use Filesystem provider.
func NewFilesystem() *Filesystem {
	return &Filesystem{cache: make(map[string]*modpb.Module)}
}

// Provide implements graph.Provider.
func (f *Filesystem) Provide(absPath string) (*modpb.Module, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.cache[absPath]; ok {
		return m, nil
	}
	m, err := modpb.ReadModuleFile(absPath)
	if err != nil {
		return nil, err
	}
	f.cache[absPath] = m
	return m, nil
}
