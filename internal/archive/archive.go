// Package archive implements SPEC_FULL.md's supplemental "generate
// package-archive" command: bundling a module's output layout (its
// Binaries directory and any additional-dependency artifacts) into a
// single gzip-compressed cpio archive suitable for distribution —
// the same container format and compression the teacher uses for initramfs
// images (cmd/distri/initrd.go) and package archives (internal/install).
package archive

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cavaliercoder/go-cpio"
	"github.com/google/renameio"
	"github.com/klauspost/pgzip"
	"golang.org/x/xerrors"
)

// Writer accumulates files into a new archive at a temp path, committed
// atomically (write-then-rename) on Close.
type Writer struct {
	out  *renameio.PendingFile
	gz   *pgzip.Writer
	cw   *cpio.Writer
	dirs map[string]bool
}

// Create opens a new archive writer targeting dest; on success, exactly
// one of Close or Abort must be called.
func Create(dest string) (*Writer, error) {
	f, err := renameio.TempFile("", dest)
	if err != nil {
		return nil, xerrors.Errorf("creating archive temp file: %w", err)
	}
	gz := pgzip.NewWriter(f)
	return &Writer{
		out:  f,
		gz:   gz,
		cw:   cpio.NewWriter(gz),
		dirs: make(map[string]bool),
	}, nil
}

// Abort discards the in-progress archive without touching dest.
func (w *Writer) Abort() {
	w.out.Cleanup()
}

// Close finishes the cpio stream, flushes the gzip stream, and atomically
// replaces dest with the finished archive.
func (w *Writer) Close() error {
	if err := w.cw.Close(); err != nil {
		w.Abort()
		return xerrors.Errorf("closing cpio stream: %w", err)
	}
	if err := w.gz.Close(); err != nil {
		w.Abort()
		return xerrors.Errorf("closing gzip stream: %w", err)
	}
	if err := w.out.CloseAtomicallyReplace(); err != nil {
		return xerrors.Errorf("replacing archive: %w", err)
	}
	return nil
}

func (w *Writer) mkdirAll(dir string) error {
	if dir == "" || dir == "." || w.dirs[dir] {
		return nil
	}
	if err := w.mkdirAll(filepath.Dir(dir)); err != nil {
		return err
	}
	w.dirs[dir] = true
	return w.cw.WriteHeader(&cpio.Header{
		Name: dir + "/",
		Mode: cpio.ModeDir | 0755,
	})
}

// AddFile stores the file at path under archiveName.
func (w *Writer) AddFile(archiveName, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return xerrors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return xerrors.Errorf("stat %s: %w", path, err)
	}
	if err := w.mkdirAll(filepath.Dir(archiveName)); err != nil {
		return err
	}
	if err := w.cw.WriteHeader(&cpio.Header{
		Name: archiveName,
		Mode: cpio.FileMode(fi.Mode().Perm()),
		Size: fi.Size(),
	}); err != nil {
		return xerrors.Errorf("writing cpio header for %s: %w", archiveName, err)
	}
	if _, err := io.Copy(w.cw, f); err != nil {
		return xerrors.Errorf("copying %s into archive: %w", path, err)
	}
	return nil
}

// AddTree walks root and stores every regular file under it, named by
// its path relative to root joined onto prefix.
func (w *Writer) AddTree(prefix, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return xerrors.Errorf("relativizing %s: %w", path, err)
		}
		name := strings.TrimPrefix(filepath.ToSlash(filepath.Join(prefix, rel)), "/")
		return w.AddFile(name, path)
	})
}
