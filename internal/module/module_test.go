package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ebuild-dev/ebuild/internal/modpb"
)

func mustPtr[T any](v T) *T { return &v }

func TestFromProtoValidatesSources(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.c")
	if err := os.WriteFile(src, []byte("int main(){}"), 0o644); err != nil {
		t.Fatal(err)
	}
	incDir := filepath.Join(dir, "include")
	if err := os.Mkdir(incDir, 0o755); err != nil {
		t.Fatal(err)
	}

	p := &modpb.Module{
		Type:          mustPtr(modpb.ModuleType_STATIC_LIBRARY),
		SourceFile:    []string{"a.c"},
		IncludePublic: []string{"include"},
	}
	descPath := filepath.Join(dir, "mymod.module.textproto")
	m, err := FromProto(p, descPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "mymod" {
		t.Errorf("Name = %q, want mymod", m.Name)
	}
	if len(m.SourceFiles) != 1 || m.SourceFiles[0] != src {
		t.Errorf("SourceFiles = %v, want [%s]", m.SourceFiles, src)
	}
	if !m.UseVariants {
		t.Errorf("UseVariants = false, want default true")
	}
}

func TestFromProtoMissingSource(t *testing.T) {
	dir := t.TempDir()
	p := &modpb.Module{
		Type:       mustPtr(modpb.ModuleType_STATIC_LIBRARY),
		SourceFile: []string{"missing.c"},
	}
	_, err := FromProto(p, filepath.Join(dir, "m.module.textproto"), nil)
	if err == nil {
		t.Fatal("expected ErrMissingSourceFile")
	}
	var want *ErrMissingSourceFile
	if !isMissingSourceFile(err, &want) {
		t.Fatalf("err = %v, want *ErrMissingSourceFile", err)
	}
}

func isMissingSourceFile(err error, target **ErrMissingSourceFile) bool {
	if e, ok := err.(*ErrMissingSourceFile); ok {
		*target = e
		return true
	}
	return false
}

func TestVariantIDFrozenOnFirstCall(t *testing.T) {
	m := &Module{OptionsMap: map[string]string{"A": "1"}, UseVariants: true}
	id1 := m.VariantID()
	m.OptionsMap["A"] = "2" // mutate after first call; must not affect the frozen id
	id2 := m.VariantID()
	if id1 != id2 {
		t.Fatalf("VariantID changed after freeze: %v != %v", id1, id2)
	}
}
