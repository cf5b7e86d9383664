package toolchain

import (
	"fmt"
	"strings"

	"github.com/ebuild-dev/ebuild/internal/module"
	"github.com/ebuild-dev/ebuild/internal/plan"
)

// GCCAdapter is spec §4.7's GCC-style family: a single driver for compile
// and link, an archiver for static libraries. Available on every non-
// Windows target; also selectable on Windows for a MinGW-style toolchain.
type GCCAdapter struct {
	// CCPath/CXXPath/ArPath override the discovered executable names;
	// empty means "cc"/"c++"/"ar" resolved via PATH.
	CCPath, CXXPath, ArPath string
}

func (a *GCCAdapter) Name() string { return "gcc" }

func (a *GCCAdapter) IsAvailable(goos, arch string) bool {
	return true // the fallback family on every platform this spec targets
}

// SupportsKind excludes KindCompileResource: this family has no resource
// compiler of its own (windres is a separate, unmodeled concern).
func (a *GCCAdapter) SupportsKind(kind plan.Kind) bool {
	return kind != plan.KindCompileResource
}

func (a *GCCAdapter) Setup() error { return nil }

func (a *GCCAdapter) cc() string {
	if a.CCPath != "" {
		return a.CCPath
	}
	return "cc"
}

func (a *GCCAdapter) cxx() string {
	if a.CXXPath != "" {
		return a.CXXPath
	}
	return "c++"
}

func (a *GCCAdapter) ar() string {
	if a.ArPath != "" {
		return a.ArPath
	}
	return "ar"
}

func (a *GCCAdapter) ExecutablePath(m *module.Module, ctx *plan.AssemblyContext, kind plan.Kind) (string, error) {
	switch kind {
	case plan.KindLinkStatic:
		return a.ar(), nil
	default:
		if m.CppStandard != "" {
			return a.cxx(), nil
		}
		return a.cc(), nil
	}
}

func (a *GCCAdapter) AssembleCompileArgv(source, output string, ctx *plan.AssemblyContext) ([]string, error) {
	argv := []string{"-c", source, "-o", output}

	opt, err := ParseOptimization(ctx.Module.OptimizationLevel)
	if err != nil {
		return nil, &ErrArgAssembly{Adapter: a.Name(), Detail: err.Error()}
	}
	argv = append(argv, gccOptFlag(opt))

	if std, err := gccStandardFlag(source, ctx.Module); err != nil {
		return nil, &ErrArgAssembly{Adapter: a.Name(), Detail: err.Error()}
	} else if std != "" {
		argv = append(argv, std)
	}

	for _, inc := range ctx.Module.Includes.All() {
		argv = append(argv, "-I"+inc)
	}
	// force_includes widen the search path the same way includes do (I2
	// requires both to be existing directories); this family has no
	// separate "forced header" flag distinct from an extra -I in that
	// reading.
	for _, inc := range ctx.Module.ForceIncludes.All() {
		argv = append(argv, "-I"+inc)
	}
	for _, dep := range ctx.Transitive {
		if dep.Module == nil {
			continue
		}
		for _, inc := range dep.Module.Includes.Public {
			argv = append(argv, "-I"+inc)
		}
	}

	for _, def := range ctx.Module.Definitions.All() {
		argv = append(argv, "-D"+def)
	}
	for _, dep := range ctx.Transitive {
		if dep.Module == nil {
			continue
		}
		for _, def := range dep.Module.Definitions.Public {
			argv = append(argv, "-D"+def)
		}
	}

	argv = append(argv, ctx.Module.CompilerOptions.All()...)
	argv = append(argv, ctx.ExtraCompileOptions...)
	return argv, nil
}

func (a *GCCAdapter) AssembleLinkArgv(node *plan.Node, ctx *plan.AssemblyContext) ([]string, error) {
	switch node.Kind {
	case plan.KindLinkStatic:
		argv := []string{"rcs", node.Output}
		argv = append(argv, node.Inputs...)
		return argv, nil
	case plan.KindLinkShared:
		argv := []string{"-shared", "-o", node.Output}
		argv = append(argv, node.Inputs...)
		argv = append(argv, gccLibArgs(ctx)...)
		argv = append(argv, ctx.ExtraLinkOptions...)
		return argv, nil
	case plan.KindLinkExecutable:
		argv := []string{"-o", node.Output}
		argv = append(argv, node.Inputs...)
		if node.Subsystem == plan.Gui && ctx.TargetGOOS == "windows" {
			argv = append(argv, "-mwindows")
		}
		argv = append(argv, gccLibArgs(ctx)...)
		argv = append(argv, ctx.ExtraLinkOptions...)
		return argv, nil
	default:
		return nil, &ErrArgAssembly{Adapter: a.Name(), Detail: fmt.Sprintf("unsupported link node kind %v", node.Kind)}
	}
}

func (a *GCCAdapter) ParseDiagnostic(line string) (*Diagnostic, bool) {
	return parseGCCDiagnostic(line)
}

func gccLibArgs(ctx *plan.AssemblyContext) []string {
	var out []string
	for _, p := range ctx.Module.LibrarySearchPaths.All() {
		out = append(out, "-L"+p)
	}
	for _, l := range ctx.Module.Libraries.All() {
		out = append(out, "-l"+l)
	}
	return out
}

func gccOptFlag(o Optimization) string {
	switch o {
	case OptSize:
		return "-Os"
	case OptSpeed:
		return "-O2"
	case OptMax:
		return "-O3"
	default:
		return "-O0"
	}
}

func gccStandardFlag(source string, m *module.Module) (string, error) {
	if isCppSource(source) {
		std, err := ParseCppStandard(m.CppStandard)
		if err != nil {
			return "", err
		}
		switch std {
		case CppUnspecified:
			return "", nil
		case Cpp98:
			return "-std=c++98", nil
		case Cpp11:
			return "-std=c++11", nil
		case Cpp14:
			return "-std=c++14", nil
		case Cpp17:
			return "-std=c++17", nil
		case Cpp20:
			return "-std=c++20", nil
		case Cpp23:
			return "-std=c++23", nil
		case CppLatest:
			return "-std=c++2b", nil
		}
		return "", nil
	}
	std, err := ParseCStandard(m.CStandard)
	if err != nil {
		return "", err
	}
	switch std {
	case CUnspecified:
		return "", nil
	case C89:
		return "-std=c89", nil
	case C99:
		return "-std=c99", nil
	case C11:
		return "-std=c11", nil
	case C17:
		return "-std=c17", nil
	case C2x:
		return "-std=c2x", nil
	}
	return "", nil
}

func isCppSource(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range []string{".cc", ".cpp", ".cxx", ".c++"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
