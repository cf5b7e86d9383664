package layout

import (
	"strings"
	"testing"

	"github.com/ebuild-dev/ebuild/internal/module"
)

func TestOutputPathUnix(t *testing.T) {
	m := &module.Module{Dir: "/repo/zlib", Name: "zlib", UseVariants: true, OptionsMap: map[string]string{"A": "1"}}
	l := New(m, "linux")
	got := l.OutputPath(module.StaticLibrary)
	if !strings.HasPrefix(got, "/repo/zlib/Binaries/") || !strings.HasSuffix(got, "libzlib.a") {
		t.Fatalf("OutputPath() = %q", got)
	}
}

func TestOutputPathWindows(t *testing.T) {
	m := &module.Module{Dir: `C:\repo\zlib`, Name: "zlib", UseVariants: false}
	l := New(m, "windows")
	got := l.OutputPath(module.Executable)
	if !strings.HasSuffix(got, "zlib.exe") {
		t.Fatalf("OutputPath() = %q", got)
	}
	if strings.Contains(got, l.Variant.String()) && l.Variant.String() != "" {
		// use_variants=false must omit the variant segment entirely
		t.Fatalf("OutputPath() = %q, variant segment should be omitted", got)
	}
}

func TestObjectPath(t *testing.T) {
	m := &module.Module{Dir: "/repo/zlib", Name: "zlib", UseVariants: true}
	l := New(m, "linux")
	got := l.ObjectPath("/repo/zlib/src/deflate.c")
	if !strings.HasSuffix(got, "deflate.o") {
		t.Fatalf("ObjectPath() = %q", got)
	}
}

func TestCacheDirAlwaysHasVariant(t *testing.T) {
	m := &module.Module{Dir: "/repo/zlib", Name: "zlib", UseVariants: false}
	l := New(m, "linux")
	got := l.CacheDir()
	if !strings.HasSuffix(got, "/cache/"+l.Variant.String()) {
		t.Fatalf("CacheDir() = %q, want suffix /cache/%s", got, l.Variant.String())
	}
}
