// Package layout computes the deterministic artifact paths from spec §6:
//
//	<module-dir>/Binaries/<variant_id?>/<name><ext>
//	<module-dir>/.ebuild/<module-name>/build/<variant_id?>/obj/<source-basename>.{o|obj}
//	<module-dir>/.ebuild/<module-name>/cache/<variant_id>/
package layout

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ebuild-dev/ebuild/internal/module"
	"github.com/ebuild-dev/ebuild/internal/variant"
)

// Ext returns the platform object/library/executable extension table from
// spec §6: ".exe|.dll|.lib" on Windows, "|.so|.a" elsewhere.
type Ext struct {
	Executable string
	Shared     string
	Static     string
	Object     string
}

// ExtFor returns the extension table for goos ("windows" or anything
// else).
func ExtFor(goos string) Ext {
	if goos == "windows" {
		return Ext{Executable: ".exe", Shared: ".dll", Static: ".lib", Object: ".obj"}
	}
	return Ext{Executable: "", Shared: ".so", Static: ".a", Object: ".o"}
}

// HostExt is ExtFor(runtime.GOOS).
func HostExt() Ext { return ExtFor(runtime.GOOS) }

// Layout computes every path for one module build, scoped to a target
// platform's extension table.
type Layout struct {
	ModuleDir string
	Name      string
	Variant   variant.ID
	UseVariants bool
	Ext       Ext
}

// New builds a Layout for m, targeting goos.
func New(m *module.Module, goos string) *Layout {
	return &Layout{
		ModuleDir:   m.Dir,
		Name:        m.Name,
		Variant:     m.VariantID(),
		UseVariants: m.UseVariants,
		Ext:         ExtFor(goos),
	}
}

// variantSegment returns the <variant_id?> path segment: omitted
// (returning "") if UseVariants is false.
func (l *Layout) variantSegment() string {
	if !l.UseVariants {
		return ""
	}
	return l.Variant.String()
}

// BinariesDir is <module-dir>/Binaries/<variant_id?>.
func (l *Layout) BinariesDir() string {
	return joinNonEmpty(l.ModuleDir, "Binaries", l.variantSegment())
}

// OutputPath returns the final artifact path for the given type, e.g.
// Binaries/<variant_id>/libfoo.a or Binaries/<variant_id>/foo.exe.
func (l *Layout) OutputPath(t module.Type) string {
	var ext string
	var name string
	switch t {
	case module.StaticLibrary:
		ext = l.Ext.Static
		name = withLibPrefix(l.Name, l.Ext)
	case module.SharedLibrary:
		ext = l.Ext.Shared
		name = withLibPrefix(l.Name, l.Ext)
	case module.Executable, module.GuiExecutable:
		ext = l.Ext.Executable
		name = l.Name
	}
	return filepath.Join(l.BinariesDir(), name+ext)
}

// withLibPrefix adds the "lib" prefix for non-Windows static/shared
// libraries, matching GCC-family convention; MSVC-family libraries keep
// the bare name.
func withLibPrefix(name string, ext Ext) string {
	if ext.Executable == ".exe" { // Windows
		return name
	}
	if strings.HasPrefix(name, "lib") {
		return name
	}
	return "lib" + name
}

// ebuildDir is <module-dir>/.ebuild/<module-name>.
func (l *Layout) ebuildDir() string {
	return filepath.Join(l.ModuleDir, ".ebuild", l.Name)
}

// ObjectDir is <module-dir>/.ebuild/<module-name>/build/<variant_id?>/obj.
func (l *Layout) ObjectDir() string {
	return joinNonEmpty(l.ebuildDir(), "build", l.variantSegment(), "obj")
}

// ObjectPath returns the object-file output path for a given source file.
func (l *Layout) ObjectPath(sourcePath string) string {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(l.ObjectDir(), base+l.Ext.Object)
}

// CacheDir is <module-dir>/.ebuild/<module-name>/cache/<variant_id>/ — note
// this one is NOT omitted when use_variants is false (spec §6 shows it
// unconditional, unlike the other two paths).
func (l *Layout) CacheDir() string {
	return filepath.Join(l.ebuildDir(), "cache", l.Variant.String())
}

func joinNonEmpty(elems ...string) string {
	var nonEmpty []string
	for _, e := range elems {
		if e != "" {
			nonEmpty = append(nonEmpty, e)
		}
	}
	return filepath.Join(nonEmpty...)
}
