package toolchain

import (
	"fmt"

	"github.com/ebuild-dev/ebuild/internal/module"
	"github.com/ebuild-dev/ebuild/internal/plan"
)

// ResourceCompilerAdapter handles Windows resource-script compilation
// (CompileResource nodes only); it never appears in a Registry's link
// path, since .rc files are folded into a LinkExecutable's Inputs by the
// planner, not linked by this adapter itself.
type ResourceCompilerAdapter struct {
	RcPath string
}

func (a *ResourceCompilerAdapter) Name() string { return "rc" }

func (a *ResourceCompilerAdapter) IsAvailable(goos, arch string) bool { return goos == "windows" }

// SupportsKind: rc.exe handles .rc sources only.
func (a *ResourceCompilerAdapter) SupportsKind(kind plan.Kind) bool {
	return kind == plan.KindCompileResource
}

func (a *ResourceCompilerAdapter) Setup() error { return nil }

func (a *ResourceCompilerAdapter) rc() string {
	if a.RcPath != "" {
		return a.RcPath
	}
	return "rc.exe"
}

func (a *ResourceCompilerAdapter) ExecutablePath(m *module.Module, ctx *plan.AssemblyContext, kind plan.Kind) (string, error) {
	if kind != plan.KindCompileResource {
		return "", &ErrArgAssembly{Adapter: a.Name(), Detail: fmt.Sprintf("rc.exe cannot handle node kind %v", kind)}
	}
	return a.rc(), nil
}

func (a *ResourceCompilerAdapter) AssembleCompileArgv(source, output string, ctx *plan.AssemblyContext) ([]string, error) {
	argv := []string{"/nologo", "/fo", output}
	for _, inc := range ctx.Module.Includes.All() {
		argv = append(argv, "/I"+inc)
	}
	for _, def := range ctx.Module.Definitions.All() {
		argv = append(argv, "/D"+def)
	}
	argv = append(argv, source)
	return argv, nil
}

// AssembleLinkArgv is unreachable: the resource compiler never produces a
// link node of its own.
func (a *ResourceCompilerAdapter) AssembleLinkArgv(node *plan.Node, ctx *plan.AssemblyContext) ([]string, error) {
	return nil, &ErrArgAssembly{Adapter: a.Name(), Detail: "resource compiler has no link step"}
}

func (a *ResourceCompilerAdapter) ParseDiagnostic(line string) (*Diagnostic, bool) {
	return parseMSVCDiagnostic(line)
}
