package archive

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cavaliercoder/go-cpio"
)

func TestCreateAddFileAddTreeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "Binaries", "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Binaries", "foo"), []byte("foo-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Binaries", "sub", "bar"), []byte("bar-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(dir, "out.cpio.gz")
	w, err := Create(dest)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.AddTree("", filepath.Join(dir, "Binaries")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer gz.Close()
	cr := cpio.NewReader(gz)

	got := make(map[string]string)
	for {
		hdr, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if hdr.Mode.IsDir() {
			continue
		}
		b, err := io.ReadAll(cr)
		if err != nil {
			t.Fatal(err)
		}
		got[hdr.Name] = string(b)
	}
	if got["foo"] != "foo-bytes" {
		t.Errorf("got %q, want foo-bytes", got["foo"])
	}
	if got[filepath.ToSlash(filepath.Join("sub", "bar"))] != "bar-bytes" {
		t.Errorf("got %q, want bar-bytes", got["sub/bar"])
	}
}
