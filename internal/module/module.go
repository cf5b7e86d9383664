// Package module implements spec §3/§4.2's Module record: the immutable,
// post-construction-frozen in-memory form of a module description, along
// with its lazily-computed variant id.
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ebuild-dev/ebuild/internal/modpb"
	"github.com/ebuild-dev/ebuild/internal/modref"
	"github.com/ebuild-dev/ebuild/internal/variant"
	"golang.org/x/xerrors"
)

// Type is one of the module's declared kinds (spec §3, required field).
type Type int

const (
	StaticLibrary Type = iota
	SharedLibrary
	Executable
	GuiExecutable
)

func (t Type) String() string {
	switch t {
	case StaticLibrary:
		return "StaticLibrary"
	case SharedLibrary:
		return "SharedLibrary"
	case Executable:
		return "Executable"
	case GuiExecutable:
		return "GuiExecutable"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func typeFromProto(t modpb.ModuleType) (Type, error) {
	switch t {
	case modpb.ModuleType_STATIC_LIBRARY:
		return StaticLibrary, nil
	case modpb.ModuleType_SHARED_LIBRARY:
		return SharedLibrary, nil
	case modpb.ModuleType_EXECUTABLE:
		return Executable, nil
	case modpb.ModuleType_GUI_EXECUTABLE:
		return GuiExecutable, nil
	default:
		return 0, xerrors.Errorf("unknown module type %v", t)
	}
}

// Scoped holds a visibility-split attribute: values that propagate to
// transitive consumers (Public) and values local to the declaring module
// (Private). Never use inheritance to model this.
type Scoped struct {
	Public  []string
	Private []string
}

// All returns Public followed by Private, the fixed enumeration order used
// throughout this package (spec §4.4: "public then private").
func (s Scoped) All() []string {
	out := make([]string, 0, len(s.Public)+len(s.Private))
	out = append(out, s.Public...)
	out = append(out, s.Private...)
	return out
}

// Dependency is one entry of Module.Dependencies: a parsed (but not
// necessarily yet resolved) reference plus the visibility of the edge it
// will create in the module graph.
type Dependency struct {
	Reference  *modref.Reference
	Visibility Visibility
}

// Visibility is a property of a dependency edge or of a list entry —
// never of the module itself.
type Visibility int

const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "Public"
	}
	return "Private"
}

// AdditionalDependency is the in-memory form of spec §3's
// AdditionalDependency record.
type AdditionalDependency struct {
	Kind            modpb.AdditionalDependency_Kind
	SourcePath      string // absolute
	TargetDirectory string // may still contain ${RootOutputDir}/${OutputDir}
	CustomProcessor string // output-transformer-style id, or ""
	Visibility      Visibility
}

// Module is the immutable-after-construction in-memory record from spec
// §3. Build it with FromProto; do not construct it directly from another
// package.
type Module struct {
	// Path is the absolute path to the resolved module description file.
	Path string
	// Dir is filepath.Dir(Path): every relative path in the module is
	// resolved against this directory.
	Dir string

	Name string
	Type Type

	SourceFiles []string // absolute, existing regular files (I1)

	Includes      Scoped // absolute, existing directories (I2)
	ForceIncludes Scoped // absolute, existing directories (I2)

	Definitions Scoped // NAME[=VALUE]

	Dependencies []Dependency

	Libraries          Scoped
	LibrarySearchPaths Scoped

	AdditionalDependencies []AdditionalDependency

	CompilerOptions Scoped

	CStandard         string
	CppStandard       string
	OptimizationLevel string

	UseVariants bool

	OutputDirectory string // relative

	OptionsMap map[string]string

	OutputTransformerIDs []string

	variantOnce sync.Once
	variantID   variant.ID
}

// VariantID returns the module's variant id, computing and freezing it on
// first call (spec §4.2: "computed lazily on first request and then
// frozen"). Every entry of OptionsMap is treated as output-affecting; see
// DESIGN.md for why that's the chosen interpretation of "fields explicitly
// marked changes_output_binary".
func (m *Module) VariantID() variant.ID {
	m.variantOnce.Do(func() {
		m.variantID = variant.Compute(m.OptionsMap, m.UseVariants)
	})
	return m.variantID
}

// FromProto validates and converts a parsed modpb.Module, resolved to the
// file at path, into a frozen Module. The registry of named
// output-transformer hooks is applied before any
// invariant is checked, matching spec §9's "Output transformers" design
// note: "an ordered list of (id, apply: Module → Module) callbacks applied
// before the module is frozen".
func FromProto(p *modpb.Module, path string, transformers TransformerRegistry) (*Module, error) {
	dir := filepath.Dir(path)

	typ, err := typeFromProto(p.GetType())
	if err != nil {
		return nil, err
	}

	name := p.GetName()
	if name == "" {
		name = baseModuleName(path)
	}

	m := &Module{
		Path:              path,
		Dir:               dir,
		Name:              name,
		Type:              typ,
		CStandard:         p.GetCStandard(),
		CppStandard:       p.GetCppStandard(),
		OptimizationLevel: p.GetOptimizationLevel(),
		UseVariants:       p.GetUseVariants(),
		OutputDirectory:   p.GetOutputDirectory(),
		OptionsMap:        p.OptionsMap,
		OutputTransformerIDs: append([]string(nil),
			p.OutputTransformer...),
	}

	for _, s := range p.SourceFile {
		m.SourceFiles = append(m.SourceFiles, abs(dir, s))
	}
	m.Includes = Scoped{
		Public:  absAll(dir, p.IncludePublic),
		Private: absAll(dir, p.IncludePrivate),
	}
	m.ForceIncludes = Scoped{
		Public:  absAll(dir, p.ForceIncludePublic),
		Private: absAll(dir, p.ForceIncludePrivate),
	}
	m.Definitions = Scoped{Public: p.DefinitionPublic, Private: p.DefinitionPrivate}
	m.Libraries = Scoped{Public: p.LibraryPublic, Private: p.LibraryPrivate}
	m.LibrarySearchPaths = Scoped{
		Public:  absAll(dir, p.LibrarySearchPathPublic),
		Private: absAll(dir, p.LibrarySearchPathPrivate),
	}
	m.CompilerOptions = Scoped{Public: p.CompilerOptionPublic, Private: p.CompilerOptionPrivate}

	for _, ref := range p.DependencyPublic {
		parsed, err := modref.Parse(ref)
		if err != nil {
			return nil, xerrors.Errorf("module %s: %w", path, err)
		}
		m.Dependencies = append(m.Dependencies, Dependency{Reference: parsed, Visibility: Public})
	}
	for _, ref := range p.DependencyPrivate {
		parsed, err := modref.Parse(ref)
		if err != nil {
			return nil, xerrors.Errorf("module %s: %w", path, err)
		}
		m.Dependencies = append(m.Dependencies, Dependency{Reference: parsed, Visibility: Private})
	}

	for _, ad := range p.AdditionalDependencyPublic {
		m.AdditionalDependencies = append(m.AdditionalDependencies, additionalDependencyFromProto(ad, dir, Public))
	}
	for _, ad := range p.AdditionalDependencyPrivate {
		m.AdditionalDependencies = append(m.AdditionalDependencies, additionalDependencyFromProto(ad, dir, Private))
	}

	for _, id := range m.OutputTransformerIDs {
		apply, ok := transformers[id]
		if !ok {
			return nil, xerrors.Errorf("module %s: unknown output transformer %q", path, id)
		}
		if err := apply(m); err != nil {
			return nil, xerrors.Errorf("module %s: output transformer %q: %w", path, id, err)
		}
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func additionalDependencyFromProto(ad *modpb.AdditionalDependency, dir string, vis Visibility) AdditionalDependency {
	return AdditionalDependency{
		Kind:            ad.GetKind(),
		SourcePath:      abs(dir, ad.GetSourcePath()),
		TargetDirectory: ad.GetTargetDirectory(),
		CustomProcessor: ad.GetCustomProcessor(),
		Visibility:      vis,
	}
}

func abs(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func absAll(dir string, ps []string) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, abs(dir, p))
	}
	return out
}

func baseModuleName(path string) string {
	base := filepath.Base(path)
	for _, suffix := range []string{".module.textproto", ".ebuild.cs"} {
		if trimmed := trimSuffix(base, suffix); trimmed != base {
			return trimmed
		}
	}
	return base
}

func trimSuffix(s, suffix string) string {
	if len(s) > len(suffix) && s[len(s)-len(suffix):] == suffix {
		return s[:len(s)-len(suffix)]
	}
	return s
}

// TransformerRegistry maps an output-transformer id (matching
// `[A-Za-z0-9+_.-]+`) to the hook it names.
type TransformerRegistry map[string]Transformer

// Transformer rewrites a Module in place before it is frozen (spec §9).
type Transformer func(*Module) error

// validate checks invariants I1 (sources exist) and I2 (include dirs
// exist). I3 (dependency references resolve) is checked by the graph
// builder, since resolution requires the resolver context this package
// does not have.
func (m *Module) validate() error {
	for _, src := range m.SourceFiles {
		fi, err := os.Stat(src)
		if err != nil {
			return &ErrMissingSourceFile{Module: m.Path, Path: src, Cause: err}
		}
		if !fi.Mode().IsRegular() {
			return &ErrMissingSourceFile{Module: m.Path, Path: src, Cause: xerrors.New("not a regular file")}
		}
	}
	for _, dirs := range []Scoped{m.Includes, m.ForceIncludes} {
		for _, dir := range dirs.All() {
			fi, err := os.Stat(dir)
			if err != nil {
				return &ErrMissingIncludeDir{Module: m.Path, Path: dir, Cause: err}
			}
			if !fi.IsDir() {
				return &ErrMissingIncludeDir{Module: m.Path, Path: dir, Cause: xerrors.New("not a directory")}
			}
		}
	}
	return nil
}

// ErrMissingSourceFile reports an I1 violation.
type ErrMissingSourceFile struct {
	Module, Path string
	Cause        error
}

func (e *ErrMissingSourceFile) Error() string {
	return fmt.Sprintf("%s: source file %s: %v", e.Module, e.Path, e.Cause)
}
func (e *ErrMissingSourceFile) Unwrap() error { return e.Cause }

// ErrMissingIncludeDir reports an I2 violation.
type ErrMissingIncludeDir struct {
	Module, Path string
	Cause        error
}

func (e *ErrMissingIncludeDir) Error() string {
	return fmt.Sprintf("%s: include directory %s: %v", e.Module, e.Path, e.Cause)
}
func (e *ErrMissingIncludeDir) Unwrap() error { return e.Cause }
