package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCmdGenerateCompileCommands(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.c")
	if err := os.WriteFile(src, []byte("int main(){return 0;}"), 0o644); err != nil {
		t.Fatal(err)
	}
	root := writeModule(t, dir, "root.module.textproto", `
name: "root"
type: EXECUTABLE
source_file: "main.c"
`)

	out := filepath.Join(dir, "compile_commands.json")
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	if err := cmdGenerateCompileCommands(context.Background(), []string{"-o", out, root}); err != nil {
		t.Fatalf("generate compile-commands: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var commands []compileCommand
	if err := json.Unmarshal(data, &commands); err != nil {
		t.Fatal(err)
	}
	if len(commands) != 1 {
		t.Fatalf("got %d commands, want 1", len(commands))
	}
	want := []compileCommand{{
		Directory: dir,
		Arguments: commands[0].Arguments, // compiler flags vary by family; not asserted here
		File:      src,
		Output:    commands[0].Output,
	}}
	if diff := cmp.Diff(want, commands); diff != "" {
		t.Errorf("compile-commands mismatch (-want +got):\n%s", diff)
	}
}
