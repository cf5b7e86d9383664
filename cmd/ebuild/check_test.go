package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func writeModule(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCmdCheckCircularDependenciesNone(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "lib.module.textproto", `
name: "lib"
type: STATIC_LIBRARY
`)
	root := writeModule(t, dir, "root.module.textproto", `
name: "root"
type: EXECUTABLE
dependency_public: "lib.module.textproto"
`)

	if err := cmdCheckCircular(context.Background(), []string{root}); err != nil {
		t.Fatalf("expected no circular dependency, got: %v", err)
	}
}

func TestCmdCheckCircularDependenciesFound(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.module.textproto", `
name: "a"
type: STATIC_LIBRARY
dependency_public: "b.module.textproto"
`)
	root := writeModule(t, dir, "b.module.textproto", `
name: "b"
type: STATIC_LIBRARY
dependency_public: "a.module.textproto"
`)

	var cmdErr error
	stdout := captureStdout(t, func() {
		cmdErr = cmdCheckCircular(context.Background(), []string{root})
	})
	if cmdErr == nil {
		t.Fatal("expected a circular dependency error")
	}
	if !strings.Contains(stdout, "Circular dependency detected") {
		t.Fatalf("stdout %q does not contain %q", stdout, "Circular dependency detected")
	}
}

func TestCmdCheckPrintDependencies(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "lib.module.textproto", `
name: "lib"
type: STATIC_LIBRARY
`)
	root := writeModule(t, dir, "root.module.textproto", `
name: "root"
type: EXECUTABLE
dependency_public: "lib.module.textproto"
`)

	if err := cmdCheckPrintDeps(context.Background(), []string{root}); err != nil {
		t.Fatalf("print-dependencies: %v", err)
	}
}
