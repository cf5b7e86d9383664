package main

import (
	"path/filepath"
	"runtime"

	"github.com/ebuild-dev/ebuild/internal/graph"
	"github.com/ebuild-dev/ebuild/internal/layout"
	"github.com/ebuild-dev/ebuild/internal/modref"
	"github.com/ebuild-dev/ebuild/internal/provider"
	"github.com/ebuild-dev/ebuild/internal/toolchain"
	"golang.org/x/xerrors"
)

// loadGraph resolves rootPath (a .module.textproto file, absolute or
// relative to the working directory) and every module reachable from it
// into a graph.Graph, returning the root node.
func loadGraph(rootPath string) (*graph.Graph, *graph.Node, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, nil, xerrors.Errorf("resolving %s: %w", rootPath, err)
	}
	ref, err := modref.Parse(filepath.Base(abs))
	if err != nil {
		return nil, nil, xerrors.Errorf("parsing %s as a module reference: %w", rootPath, err)
	}

	g := graph.New(provider.NewFilesystem(), &modref.Context{}, nil)
	root, err := g.AddRoot(ref, filepath.Dir(abs))
	if err != nil {
		return nil, nil, err
	}
	return g, root, nil
}

// defaultRegistry returns the fixed-priority toolchain registry (spec
// §4.7): platform-native families first. Registry.Select is kind-aware
// (toolchain.Adapter.SupportsKind), so the resource compiler's position in
// this list no longer matters for routing .rc sources to it.
func defaultRegistry() *toolchain.Registry {
	return toolchain.NewRegistry(
		&toolchain.MSVCAdapter{},
		&toolchain.GCCAdapter{},
		&toolchain.ResourceCompilerAdapter{},
	)
}

// hostTarget returns the GOOS/GOARCH pair used when -goos/-arch are left
// at their zero value, i.e. "build for the machine running ebuild".
func hostTarget(goos, arch string) (string, string) {
	if goos == "" {
		goos = runtime.GOOS
	}
	if arch == "" {
		arch = runtime.GOARCH
	}
	return goos, arch
}

// layoutFor returns the artifact layout for root's module under goos.
func layoutFor(root *graph.Node, goos string) *layout.Layout {
	return layout.New(root.Module, goos)
}

func brokenModules(g *graph.Graph) []*graph.Node {
	var broken []*graph.Node
	for _, n := range g.Nodes() {
		if n.State == graph.StateBroken {
			broken = append(broken, n)
		}
	}
	return broken
}
