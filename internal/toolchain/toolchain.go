// Package toolchain implements spec §4.7's ToolchainAdapter contract and
// §4.8's DiagnosticParser: MSVC-style, GCC-style, and Resource-Compiler
// families, selected by platform/architecture availability.
package toolchain

import (
	"github.com/ebuild-dev/ebuild/internal/module"
	"github.com/ebuild-dev/ebuild/internal/plan"
	"golang.org/x/xerrors"
)

// Optimization is the portable optimization-level enum every family maps
// from (spec §4.7).
type Optimization int

const (
	OptNone Optimization = iota
	OptSize
	OptSpeed
	OptMax
)

// CStandard is the portable C-language-standard enum.
type CStandard int

const (
	CUnspecified CStandard = iota
	C89
	C99
	C11
	C17
	C2x
)

// CppStandard is the portable C++-language-standard enum.
type CppStandard int

const (
	CppUnspecified CppStandard = iota
	Cpp98
	Cpp11
	Cpp14
	Cpp17
	Cpp20
	Cpp23
	CppLatest
)

// Adapter is spec §4.7's ToolchainAdapter contract.
type Adapter interface {
	Name() string
	IsAvailable(goos, arch string) bool
	// SupportsKind reports whether this adapter can produce the given node
	// kind at all, e.g. the resource compiler only ever claims
	// plan.KindCompileResource. Select consults this alongside IsAvailable
	// so a platform-compatible adapter that simply cannot handle the node's
	// kind is never picked.
	SupportsKind(kind plan.Kind) bool
	Setup() error
	ExecutablePath(m *module.Module, ctx *plan.AssemblyContext, kind plan.Kind) (string, error)
	AssembleCompileArgv(source string, output string, ctx *plan.AssemblyContext) ([]string, error)
	AssembleLinkArgv(node *plan.Node, ctx *plan.AssemblyContext) ([]string, error)
	ParseDiagnostic(line string) (*Diagnostic, bool)
}

// ErrToolchainUnavailable reports that no registered adapter matches the
// requested platform/architecture.
type ErrToolchainUnavailable struct {
	GOOS, Arch string
}

func (e *ErrToolchainUnavailable) Error() string {
	return xerrors.Errorf("no toolchain adapter available for %s/%s", e.GOOS, e.Arch).Error()
}

// ErrArgAssembly reports an unsupported flag combination, e.g. a language
// standard the selected family's mapping table has no entry for.
type ErrArgAssembly struct {
	Adapter string
	Detail  string
}

func (e *ErrArgAssembly) Error() string {
	return xerrors.Errorf("%s: argument assembly: %s", e.Adapter, e.Detail).Error()
}

// Registry holds every known adapter in priority order; Select returns the
// first one available for goos/arch that also supports the node's kind.
type Registry struct {
	adapters []Adapter
}

// NewRegistry builds a registry from adapters, preserving order as
// priority (earlier entries preferred when more than one matches).
func NewRegistry(adapters ...Adapter) *Registry {
	return &Registry{adapters: adapters}
}

// Select returns the highest-priority adapter available for goos/arch that
// also claims kind, e.g. a .rc source on Windows must route to the
// resource compiler rather than whichever compiler family sorts first.
func (r *Registry) Select(goos, arch string, kind plan.Kind) (Adapter, error) {
	for _, a := range r.adapters {
		if a.IsAvailable(goos, arch) && a.SupportsKind(kind) {
			return a, nil
		}
	}
	return nil, &ErrToolchainUnavailable{GOOS: goos, Arch: arch}
}

// ByName looks up a registered adapter by its Name().
func (r *Registry) ByName(name string) (Adapter, bool) {
	for _, a := range r.adapters {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}
