package toolchain

import (
	"fmt"

	"github.com/ebuild-dev/ebuild/internal/module"
	"github.com/ebuild-dev/ebuild/internal/plan"
)

// MSVCAdapter is spec §4.7's MSVC-style family: cl.exe compiles, link.exe
// and lib.exe split linking from archiving. Windows only.
type MSVCAdapter struct {
	ClPath, LinkPath, LibPath string
}

func (a *MSVCAdapter) Name() string { return "msvc" }

func (a *MSVCAdapter) IsAvailable(goos, arch string) bool { return goos == "windows" }

// SupportsKind excludes KindCompileResource: .rc sources belong to
// ResourceCompilerAdapter, not cl.exe.
func (a *MSVCAdapter) SupportsKind(kind plan.Kind) bool {
	return kind != plan.KindCompileResource
}

func (a *MSVCAdapter) Setup() error { return nil }

func (a *MSVCAdapter) cl() string {
	if a.ClPath != "" {
		return a.ClPath
	}
	return "cl.exe"
}

func (a *MSVCAdapter) link() string {
	if a.LinkPath != "" {
		return a.LinkPath
	}
	return "link.exe"
}

func (a *MSVCAdapter) lib() string {
	if a.LibPath != "" {
		return a.LibPath
	}
	return "lib.exe"
}

func (a *MSVCAdapter) ExecutablePath(m *module.Module, ctx *plan.AssemblyContext, kind plan.Kind) (string, error) {
	switch kind {
	case plan.KindLinkStatic:
		return a.lib(), nil
	case plan.KindLinkShared, plan.KindLinkExecutable:
		return a.link(), nil
	default:
		return a.cl(), nil
	}
}

func (a *MSVCAdapter) AssembleCompileArgv(source, output string, ctx *plan.AssemblyContext) ([]string, error) {
	argv := []string{"/c", "/nologo", source, "/Fo" + output}

	opt, err := ParseOptimization(ctx.Module.OptimizationLevel)
	if err != nil {
		return nil, &ErrArgAssembly{Adapter: a.Name(), Detail: err.Error()}
	}
	argv = append(argv, msvcOptFlag(opt))

	std, err := msvcStandardFlag(source, ctx.Module)
	if err != nil {
		return nil, &ErrArgAssembly{Adapter: a.Name(), Detail: err.Error()}
	}
	if std != "" {
		argv = append(argv, std)
	}

	for _, inc := range ctx.Module.Includes.All() {
		argv = append(argv, "/I"+inc)
	}
	for _, inc := range ctx.Module.ForceIncludes.All() {
		argv = append(argv, "/I"+inc)
	}
	for _, dep := range ctx.Transitive {
		if dep.Module == nil {
			continue
		}
		for _, inc := range dep.Module.Includes.Public {
			argv = append(argv, "/I"+inc)
		}
	}

	for _, def := range ctx.Module.Definitions.All() {
		argv = append(argv, "/D"+def)
	}
	for _, dep := range ctx.Transitive {
		if dep.Module == nil {
			continue
		}
		for _, def := range dep.Module.Definitions.Public {
			argv = append(argv, "/D"+def)
		}
	}

	argv = append(argv, ctx.Module.CompilerOptions.All()...)
	argv = append(argv, ctx.ExtraCompileOptions...)
	return argv, nil
}

func (a *MSVCAdapter) AssembleLinkArgv(node *plan.Node, ctx *plan.AssemblyContext) ([]string, error) {
	switch node.Kind {
	case plan.KindLinkStatic:
		argv := []string{"/nologo", "/OUT:" + node.Output}
		argv = append(argv, node.Inputs...)
		return argv, nil
	case plan.KindLinkShared:
		argv := []string{"/nologo", "/DLL", "/OUT:" + node.Output}
		argv = append(argv, node.Inputs...)
		argv = append(argv, msvcLibArgs(ctx)...)
		argv = append(argv, ctx.ExtraLinkOptions...)
		return argv, nil
	case plan.KindLinkExecutable:
		argv := []string{"/nologo", "/OUT:" + node.Output}
		if node.Subsystem == plan.Gui {
			argv = append(argv, "/SUBSYSTEM:WINDOWS")
		} else {
			argv = append(argv, "/SUBSYSTEM:CONSOLE")
		}
		argv = append(argv, node.Inputs...)
		argv = append(argv, msvcLibArgs(ctx)...)
		argv = append(argv, ctx.ExtraLinkOptions...)
		return argv, nil
	default:
		return nil, &ErrArgAssembly{Adapter: a.Name(), Detail: fmt.Sprintf("unsupported link node kind %v", node.Kind)}
	}
}

func (a *MSVCAdapter) ParseDiagnostic(line string) (*Diagnostic, bool) {
	return parseMSVCDiagnostic(line)
}

func msvcLibArgs(ctx *plan.AssemblyContext) []string {
	var out []string
	for _, p := range ctx.Module.LibrarySearchPaths.All() {
		out = append(out, "/LIBPATH:"+p)
	}
	for _, l := range ctx.Module.Libraries.All() {
		out = append(out, l+".lib")
	}
	return out
}

func msvcOptFlag(o Optimization) string {
	switch o {
	case OptSize:
		return "/O1"
	case OptSpeed, OptMax:
		return "/O2"
	default:
		return "/Od"
	}
}

// msvcStandardFlag maps the portable standard enums to /std:..., failing
// hard (spec §7's ArgAssembly example) for standards this family cannot
// express: C89/C99 have no cl.exe equivalent.
func msvcStandardFlag(source string, m *module.Module) (string, error) {
	if isCppSource(source) {
		std, err := ParseCppStandard(m.CppStandard)
		if err != nil {
			return "", err
		}
		switch std {
		case CppUnspecified:
			return "", nil
		case Cpp98, Cpp11:
			return "", fmt.Errorf("cl.exe has no /std: flag for %v; minimum supported is Cpp14", std)
		case Cpp14:
			return "/std:c++14", nil
		case Cpp17:
			return "/std:c++17", nil
		case Cpp20:
			return "/std:c++20", nil
		case Cpp23, CppLatest:
			return "/std:c++latest", nil
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
	case C89, C99:
		return "", fmt.Errorf("cl.exe has no /std: flag for %v; minimum supported is C11", std)
	case C11:
		return "/std:c11", nil
	case C17, C2x:
		return "/std:c17", nil
	}
	return "", nil
}
