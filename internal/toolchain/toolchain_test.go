package toolchain

import (
	"strings"
	"testing"

	"github.com/ebuild-dev/ebuild/internal/module"
	"github.com/ebuild-dev/ebuild/internal/plan"
)

func ctxFor(m *module.Module) *plan.AssemblyContext {
	return &plan.AssemblyContext{Module: m, TargetGOOS: "linux"}
}

func TestRegistrySelectPrefersEarlierMatch(t *testing.T) {
	r := NewRegistry(&MSVCAdapter{}, &GCCAdapter{})
	a, err := r.Select("linux", "amd64", plan.KindCompileSource)
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != "gcc" {
		t.Fatalf("got %s, want gcc (msvc unavailable on linux)", a.Name())
	}
}

func TestRegistrySelectUnavailable(t *testing.T) {
	r := NewRegistry(&MSVCAdapter{}, &ResourceCompilerAdapter{})
	if _, err := r.Select("darwin", "arm64", plan.KindCompileSource); err == nil {
		t.Fatal("expected ErrToolchainUnavailable")
	}
}

// TestRegistrySelectRoutesResourceSourcesToResourceCompiler guards against
// a kind-blind Select handing a KindCompileResource node to whichever
// compiler family happens to sort first and IsAvailable on Windows.
func TestRegistrySelectRoutesResourceSourcesToResourceCompiler(t *testing.T) {
	r := NewRegistry(&MSVCAdapter{}, &ResourceCompilerAdapter{})
	a, err := r.Select("windows", "amd64", plan.KindCompileResource)
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != "rc" {
		t.Fatalf("got %s, want rc for a KindCompileResource node", a.Name())
	}

	a, err = r.Select("windows", "amd64", plan.KindCompileSource)
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != "msvc" {
		t.Fatalf("got %s, want msvc for a KindCompileSource node", a.Name())
	}
}

func TestGCCAssembleCompileArgv(t *testing.T) {
	m := &module.Module{CStandard: "C99", OptimizationLevel: "Speed"}
	a := &GCCAdapter{}
	argv, err := a.AssembleCompileArgv("/src/a.c", "/out/a.o", ctxFor(m))
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(argv, " ")
	for _, want := range []string{"-c", "/src/a.c", "-o", "/out/a.o", "-std=c99", "-O2"} {
		if !strings.Contains(joined, want) {
			t.Errorf("argv %q missing %q", joined, want)
		}
	}
}

func TestMSVCRejectsC89(t *testing.T) {
	m := &module.Module{CStandard: "C89"}
	a := &MSVCAdapter{}
	_, err := a.AssembleCompileArgv("a.c", "a.obj", ctxFor(m))
	if err == nil {
		t.Fatal("expected ArgAssembly failure for C89 on MSVC")
	}
	if _, ok := err.(*ErrArgAssembly); !ok {
		t.Fatalf("got %T, want *ErrArgAssembly", err)
	}
}

func TestMSVCAcceptsC17(t *testing.T) {
	m := &module.Module{CStandard: "C17"}
	a := &MSVCAdapter{}
	argv, err := a.AssembleCompileArgv("a.c", "a.obj", ctxFor(m))
	if err != nil {
		t.Fatal(err)
	}
	if !contains(argv, "/std:c17") {
		t.Fatalf("argv %v missing /std:c17", argv)
	}
}

func TestGCCLinkStaticUsesArchiver(t *testing.T) {
	a := &GCCAdapter{}
	node := &plan.Node{Kind: plan.KindLinkStatic, Output: "/out/libfoo.a", Inputs: []string{"/out/a.o", "/out/b.o"}}
	argv, err := a.AssembleLinkArgv(node, ctxFor(&module.Module{}))
	if err != nil {
		t.Fatal(err)
	}
	if argv[0] != "rcs" {
		t.Fatalf("got %v, want argv[0] == rcs", argv)
	}
	path, err := a.ExecutablePath(&module.Module{}, ctxFor(&module.Module{}), plan.KindLinkStatic)
	if err != nil {
		t.Fatal(err)
	}
	if path != "ar" {
		t.Fatalf("got %q, want ar", path)
	}
}

func TestParseGCCDiagnostic(t *testing.T) {
	d, ok := parseGCCDiagnostic("foo.c:10:5: error: 'x' undeclared")
	if !ok {
		t.Fatal("expected a match")
	}
	if d.Severity != Error || d.Line != 10 || d.Column != 5 || d.File != "foo.c" {
		t.Fatalf("got %+v", d)
	}
}

func TestParseGCCDiagnosticFallsThroughAsInfo(t *testing.T) {
	if _, ok := parseGCCDiagnostic("make[1]: Entering directory '/tmp'"); ok {
		t.Fatal("expected no match for a non-diagnostic line")
	}
}

func TestParseMSVCDiagnostic(t *testing.T) {
	d, ok := parseMSVCDiagnostic(`foo.c(12,3): error C2065: 'x': undeclared identifier`)
	if !ok {
		t.Fatal("expected a match")
	}
	if d.Severity != Error || d.Line != 12 || d.Column != 3 || d.Code != "C2065" {
		t.Fatalf("got %+v", d)
	}
}

func TestSelectBestVersionPrefersHigherSemver(t *testing.T) {
	got, ok := SelectBestVersion([]string{"1.2.0", "2.0.0", "1.9.9"})
	if !ok || got != "2.0.0" {
		t.Fatalf("got %q, want 2.0.0", got)
	}
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
