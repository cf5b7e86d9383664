package incremental

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func baseFacts(t *testing.T, dir string) (Facts, *Record) {
	t.Helper()
	src := filepath.Join(dir, "a.c")
	out := filepath.Join(dir, "a.o")
	writeFile(t, src, "int x;")
	writeFile(t, out, "obj")

	fi, err := os.Stat(src)
	if err != nil {
		t.Fatal(err)
	}
	facts := Facts{
		Output:          out,
		PrimarySource:   src,
		Inputs:          []string{src},
		ToolPath:        "/usr/bin/cc",
		ToolVersionHash: "toolhash1",
		ArgvHash:        "argvhash1",
		VariantID:       42,
	}
	record := &Record{
		ToolPath:        facts.ToolPath,
		ToolVersionHash: facts.ToolVersionHash,
		ArgvHash:        facts.ArgvHash,
		Inputs:          []InputRecord{{Path: src, Mtime: fi.ModTime().UnixNano(), Size: fi.Size()}},
		VariantID:       42,
	}
	return facts, record
}

func TestDecideSkipWhenNothingChanged(t *testing.T) {
	dir := t.TempDir()
	facts, record := baseFacts(t, dir)
	d := Decide(record, true, facts)
	if d.Rebuild {
		t.Fatalf("expected SKIP, got REBUILD (%s)", d.Reason)
	}
}

func TestDecideNoRecordIsOutputMissing(t *testing.T) {
	dir := t.TempDir()
	facts, _ := baseFacts(t, dir)
	d := Decide(&Record{}, false, facts)
	if !d.Rebuild || d.Reason != ReasonOutputMissing {
		t.Fatalf("got %+v, want REBUILD output-missing", d)
	}
}

func TestDecideOutputMissingTakesPriority(t *testing.T) {
	dir := t.TempDir()
	facts, record := baseFacts(t, dir)
	if err := os.Remove(facts.Output); err != nil {
		t.Fatal(err)
	}
	// Also change the argv hash, to prove output-missing is checked first.
	facts.ArgvHash = "different"
	d := Decide(record, true, facts)
	if d.Reason != ReasonOutputMissing {
		t.Fatalf("got reason %q, want output-missing", d.Reason)
	}
}

func TestDecideArgumentsChanged(t *testing.T) {
	dir := t.TempDir()
	facts, record := baseFacts(t, dir)
	facts.ArgvHash = "different"
	d := Decide(record, true, facts)
	if !d.Rebuild || d.Reason != ReasonArgumentsChanged {
		t.Fatalf("got %+v, want arguments-changed", d)
	}
}

func TestDecideToolchainChanged(t *testing.T) {
	dir := t.TempDir()
	facts, record := baseFacts(t, dir)
	facts.ToolVersionHash = "different"
	d := Decide(record, true, facts)
	if !d.Rebuild || d.Reason != ReasonToolchainChanged {
		t.Fatalf("got %+v, want toolchain-changed", d)
	}
}

func TestDecideSourceModified(t *testing.T) {
	dir := t.TempDir()
	facts, record := baseFacts(t, dir)
	// Bump the source's mtime into the future and rewrite its contents.
	future := time.Now().Add(time.Hour)
	writeFile(t, facts.PrimarySource, "int y; /* changed */")
	if err := os.Chtimes(facts.PrimarySource, future, future); err != nil {
		t.Fatal(err)
	}
	d := Decide(record, true, facts)
	if !d.Rebuild || d.Reason != ReasonSourceModified {
		t.Fatalf("got %+v, want source-modified", d)
	}
}

func TestDecideDependencyModified(t *testing.T) {
	dir := t.TempDir()
	facts, record := baseFacts(t, dir)
	hdr := filepath.Join(dir, "a.h")
	writeFile(t, hdr, "struct s;")
	fi, err := os.Stat(hdr)
	if err != nil {
		t.Fatal(err)
	}
	record.Inputs = append(record.Inputs, InputRecord{Path: hdr, Mtime: fi.ModTime().UnixNano(), Size: fi.Size()})
	facts.Inputs = append(facts.Inputs, hdr)

	future := time.Now().Add(time.Hour)
	writeFile(t, hdr, "struct s; /* changed */")
	if err := os.Chtimes(hdr, future, future); err != nil {
		t.Fatal(err)
	}
	d := Decide(record, true, facts)
	if !d.Rebuild || d.Reason != ReasonDependencyModified {
		t.Fatalf("got %+v, want dependency-modified", d)
	}
}

func TestDecideVariantChanged(t *testing.T) {
	dir := t.TempDir()
	facts, record := baseFacts(t, dir)
	facts.VariantID = 7
	d := Decide(record, true, facts)
	if !d.Rebuild || d.Reason != ReasonVariantChanged {
		t.Fatalf("got %+v, want variant-changed", d)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.json")
	_, record := baseFacts(t, dir)
	if err := Save(path, record); err != nil {
		t.Fatal(err)
	}
	got, found, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected found == true")
	}
	if got.ArgvHash != record.ArgvHash || got.VariantID != record.VariantID {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, record)
	}
}

func TestLoadMissingIsNotFoundNotError(t *testing.T) {
	dir := t.TempDir()
	_, found, err := Load(filepath.Join(dir, "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected found == false")
	}
}
