package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// TestCmdBuildStaticLibrary exercises the full build pipeline end to end
// against the host's GCC-family toolchain: resolve, plan, compile, link,
// then run the same build a second time and check that it also succeeds.
func TestCmdBuildStaticLibrary(t *testing.T) {
	if _, err := os.Stat("/usr/bin/cc"); err != nil {
		t.Skip("no host C compiler available")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "a.c")
	if err := os.WriteFile(src, []byte("int add(int a, int b) { return a + b; }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	root := writeModule(t, dir, "lib.module.textproto", `
name: "lib"
type: STATIC_LIBRARY
source_file: "a.c"
`)

	if err := cmdBuild(context.Background(), []string{"-parallelism", "2", root}); err != nil {
		t.Fatalf("build: %v", err)
	}

	// A second run over the unchanged sources must succeed as well.
	if err := cmdBuild(context.Background(), []string{"-parallelism", "2", root}); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
}
