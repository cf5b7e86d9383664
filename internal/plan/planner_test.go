package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ebuild-dev/ebuild/internal/graph"
	"github.com/ebuild-dev/ebuild/internal/modpb"
	"github.com/ebuild-dev/ebuild/internal/modref"
)

type fakeProvider struct {
	byPath map[string]*modpb.Module
}

func (p *fakeProvider) Provide(path string) (*modpb.Module, error) {
	m, ok := p.byPath[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return m, nil
}

func typ(t modpb.ModuleType) *modpb.ModuleType { return &t }
func sptr(s string) *string                    { return &s }

func writeSrc(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("int x;"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// TestBuildStaticThenExecutable exercises a two-module chain: a static
// library with two sources, linked into an executable with one source —
// confirming predecessor wiring and a stable topological order.
func TestBuildStaticThenExecutable(t *testing.T) {
	dir := t.TempDir()
	libModPath := filepath.Join(dir, "lib.module.textproto")
	exeModPath := filepath.Join(dir, "exe.module.textproto")
	libSrcA := writeSrc(t, dir, "a.c")
	libSrcB := writeSrc(t, dir, "b.c")
	exeSrc := writeSrc(t, dir, "main.c")

	provider := &fakeProvider{byPath: map[string]*modpb.Module{
		libModPath: {
			Name:       sptr("lib"),
			Type:       typ(modpb.ModuleType_STATIC_LIBRARY),
			SourceFile: []string{libSrcA, libSrcB},
		},
		exeModPath: {
			Name:             sptr("exe"),
			Type:             typ(modpb.ModuleType_EXECUTABLE),
			SourceFile:       []string{exeSrc},
			DependencyPublic: []string{"lib.module.textproto"},
		},
	}}

	g := graph.New(provider, &modref.Context{}, nil)
	ref, err := modref.Parse("exe.module.textproto")
	if err != nil {
		t.Fatal(err)
	}
	root, err := g.AddRoot(ref, dir)
	if err != nil {
		t.Fatal(err)
	}

	p, err := Build(g, root, Options{GOOS: "linux"})
	if err != nil {
		t.Fatal(err)
	}

	var kinds []Kind
	pos := make(map[Kind][]int)
	for i, n := range p.Nodes {
		kinds = append(kinds, n.Kind)
		pos[n.Kind] = append(pos[n.Kind], i)
	}
	if len(kinds) != 5 { // 2 compile (lib) + 1 link static + 1 compile (exe) + 1 link executable
		t.Fatalf("got %d nodes, want 5: %v", len(kinds), kinds)
	}
	linkStaticPos := pos[KindLinkStatic][0]
	linkExecPos := pos[KindLinkExecutable][0]
	if linkStaticPos > linkExecPos {
		t.Fatalf("LinkStatic must precede LinkExecutable in topo order: static@%d exec@%d", linkStaticPos, linkExecPos)
	}

	execNode := p.Nodes[linkExecPos]
	if len(execNode.Predecessors) == 0 {
		t.Fatal("LinkExecutable has no predecessors")
	}
	libLinkNode := p.Nodes[linkStaticPos]
	found := false
	for _, pred := range execNode.Predecessors {
		if pred == libLinkNode.key {
			found = true
		}
	}
	if !found {
		t.Fatalf("LinkExecutable predecessors %v do not include LinkStatic key %q", execNode.Predecessors, libLinkNode.key)
	}
}

// TestBuildRejectsBrokenDependency confirms a reachable Broken node is a
// fatal planning error (spec §4.3/§4.4), unlike graph exploration which
// tolerates it.
func TestBuildRejectsBrokenDependency(t *testing.T) {
	dir := t.TempDir()
	rootPath := filepath.Join(dir, "root.module.textproto")
	provider := &fakeProvider{byPath: map[string]*modpb.Module{
		rootPath: {
			Type:             typ(modpb.ModuleType_EXECUTABLE),
			DependencyPublic: []string{"missing.module.textproto"},
		},
	}}
	g := graph.New(provider, &modref.Context{}, nil)
	ref, err := modref.Parse("root.module.textproto")
	if err != nil {
		t.Fatal(err)
	}
	root, err := g.AddRoot(ref, dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Build(g, root, Options{GOOS: "linux"}); err == nil {
		t.Fatal("expected a broken-dependency error")
	}
}
