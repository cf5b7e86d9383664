package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ebuild-dev/ebuild/internal/layout"
	"github.com/ebuild-dev/ebuild/internal/module"
	"github.com/ebuild-dev/ebuild/internal/plan"
	"github.com/ebuild-dev/ebuild/internal/toolchain"
)

// fakeAdapter drives /bin/cp as a stand-in compiler/linker: real argv
// shapes are internal/toolchain's job, exercised there; this package only
// needs a toolchain.Adapter that actually produces a file so the
// IncrementalOracle has something real to stat.
type fakeAdapter struct{}

func (fakeAdapter) Name() string                       { return "fake" }
func (fakeAdapter) IsAvailable(_, _ string) bool        { return true }
func (fakeAdapter) SupportsKind(_ plan.Kind) bool       { return true }
func (fakeAdapter) Setup() error                        { return nil }
func (fakeAdapter) ExecutablePath(*module.Module, *plan.AssemblyContext, plan.Kind) (string, error) {
	return "/bin/cp", nil
}
func (fakeAdapter) AssembleCompileArgv(source, output string, _ *plan.AssemblyContext) ([]string, error) {
	return []string{source, output}, nil
}
func (fakeAdapter) AssembleLinkArgv(n *plan.Node, _ *plan.AssemblyContext) ([]string, error) {
	return []string{n.Inputs[0], n.Output}, nil
}
func (fakeAdapter) ParseDiagnostic(string) (*toolchain.Diagnostic, bool) { return nil, false }

func newPlanFor(t *testing.T, dir, src string) *plan.Plan {
	t.Helper()
	m := &module.Module{Name: "foo", Dir: dir, Type: module.StaticLibrary, SourceFiles: []string{src}}
	lo := layout.New(m, "linux")
	obj := lo.ObjectPath(src)
	out := lo.OutputPath(module.StaticLibrary)
	ctx := &plan.AssemblyContext{Module: m, Layout: lo, TargetGOOS: "linux"}

	compile := plan.NewNode(plan.KindCompileSource, obj)
	compile.OwningModule, compile.SourcePath, compile.OutputObjectPath, compile.Context = m, src, obj, ctx

	link := plan.NewNode(plan.KindLinkStatic, out)
	link.OwningModule, link.Inputs, link.Output, link.Predecessors, link.Context = m, []string{obj}, out, []string{obj}, ctx

	p := &plan.Plan{Nodes: []*plan.Node{compile, link}}
	return p
}

func TestRunCompilesAndLinksThenSkipsOnRerun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.c")
	if err := os.WriteFile(src, []byte("int x;"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := newPlanFor(t, dir, src)
	reg := toolchain.NewRegistry(fakeAdapter{})
	ex := New(Options{Registry: reg, Parallelism: 2})

	res, err := ex.Run(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed != 0 {
		for _, n := range res.Nodes {
			if n.Err != nil {
				t.Logf("node %s: %v", n.Node.Key(), n.Err)
			}
		}
		t.Fatalf("got %d failed, want 0", res.Failed)
	}
	if res.Succeeded != 2 {
		t.Fatalf("got %d succeeded, want 2", res.Succeeded)
	}

	// Re-running against the same plan (sidecar records now present) should
	// skip both nodes: nothing changed.
	p2 := newPlanFor(t, dir, src)
	res2, err := ex.Run(context.Background(), p2)
	if err != nil {
		t.Fatal(err)
	}
	if res2.Skipped != 2 {
		t.Fatalf("got %d skipped on rerun, want 2", res2.Skipped)
	}
}

func TestRunMarksDependentsDependencyFailedOnFailure(t *testing.T) {
	dir := t.TempDir()
	m := &module.Module{Name: "foo", Dir: dir, Type: module.StaticLibrary}
	lo := layout.New(m, "linux")
	ctx := &plan.AssemblyContext{Module: m, Layout: lo, TargetGOOS: "linux"}

	// A compile node whose source does not exist: /bin/cp will fail.
	missing := filepath.Join(dir, "missing.c")
	obj := lo.ObjectPath(missing)
	out := lo.OutputPath(module.StaticLibrary)

	compile := plan.NewNode(plan.KindCompileSource, obj)
	compile.OwningModule, compile.SourcePath, compile.OutputObjectPath, compile.Context = m, missing, obj, ctx

	link := plan.NewNode(plan.KindLinkStatic, out)
	link.OwningModule, link.Inputs, link.Output, link.Predecessors, link.Context = m, []string{obj}, out, []string{obj}, ctx

	p := &plan.Plan{Nodes: []*plan.Node{compile, link}}
	reg := toolchain.NewRegistry(fakeAdapter{})
	ex := New(Options{Registry: reg, Parallelism: 2})

	res, err := ex.Run(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Nodes[0].Status != Failed {
		t.Fatalf("compile status = %v, want Failed", res.Nodes[0].Status)
	}
	if res.Nodes[1].Status != DependencyFailed {
		t.Fatalf("link status = %v, want DependencyFailed", res.Nodes[1].Status)
	}
}
