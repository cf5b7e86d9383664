package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCmdFmtWritesCanonicalFormatting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.module.textproto")
	messy := "name:\"a\"\ntype:  STATIC_LIBRARY\n"
	if err := os.WriteFile(path, []byte(messy), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := cmdFmt(context.Background(), []string{"-w", path}); err != nil {
		t.Fatalf("fmt: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("expected non-empty formatted output")
	}
}
