package plan

import (
	"github.com/ebuild-dev/ebuild/internal/graph"
	"github.com/ebuild-dev/ebuild/internal/layout"
	"github.com/ebuild-dev/ebuild/internal/module"
)

// Configuration is the debug/release selection a BuildPlanner records in
// each AssemblyContext. The adapters in internal/toolchain do not read it;
// their optimization flags come from Module.OptimizationLevel alone.
type Configuration int

const (
	Debug Configuration = iota
	Release
)

func (c Configuration) String() string {
	if c == Release {
		return "release"
	}
	return "debug"
}

// AssemblyContext is what spec §4.4 calls the bundle a BuildPlanner passes
// to a toolchain adapter: everything needed to assemble one node's argv
// without the adapter itself walking the graph.
type AssemblyContext struct {
	Module        *module.Module
	Transitive    []*graph.Node // FirstLevelAndPublic(node) — visibility-projected
	Layout        *layout.Layout
	Configuration Configuration
	TargetGOOS    string
	TargetArch    string

	// ExtraCompileOptions / ExtraLinkOptions are global additions supplied
	// by the top-level driver (e.g. a -D or -L passed on the ebuild CLI),
	// appended after every module- and dependency-scoped option.
	ExtraCompileOptions []string
	ExtraLinkOptions    []string
}
