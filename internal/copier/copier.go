// Package copier implements spec §4.9's AuxiliaryCopier: the executor
// of plan.KindCopyAsset nodes.
package copier

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ebuild-dev/ebuild/internal/modpb"
	"github.com/ebuild-dev/ebuild/internal/plan"
	"github.com/google/renameio"
	"golang.org/x/xerrors"
)

// ProcessorFunc is a named custom_processor hook (spec §4.9): invoked with
// the source path and the final target file path instead of the default
// atomic copy.
type ProcessorFunc func(source, target string) error

// Copier performs File and Directory AdditionalDependency copies.
type Copier struct {
	Processors map[string]ProcessorFunc
}

// New builds a Copier with the given named processor hooks (may be nil).
func New(processors map[string]ProcessorFunc) *Copier {
	return &Copier{Processors: processors}
}

// Copy implements executor.Copier for a plan.Node of Kind KindCopyAsset.
// n.DestPath is the final file path for AdditionalDependency_FILE (the
// planner already appended the source's basename), and the mirror root
// for AdditionalDependency_DIRECTORY.
func (c *Copier) Copy(n *plan.Node) error {
	switch n.AssetKind {
	case modpb.AdditionalDependency_FILE:
		return c.copyFile(n.SrcPath, n.DestPath, n.Processor)
	case modpb.AdditionalDependency_DIRECTORY:
		return c.copyDir(n.SrcPath, n.DestPath, n.Processor)
	default:
		return xerrors.Errorf("copier: unknown AdditionalDependency kind %v", n.AssetKind)
	}
}

func (c *Copier) copyFile(src, destFile, processorName string) error {
	if err := os.MkdirAll(filepath.Dir(destFile), 0o755); err != nil {
		return xerrors.Errorf("creating %s: %w", filepath.Dir(destFile), err)
	}
	if processorName != "" {
		proc, ok := c.Processors[processorName]
		if !ok {
			return xerrors.Errorf("unknown custom_processor %q", processorName)
		}
		return proc(src, destFile)
	}
	return atomicCopy(src, destFile)
}

// copyDir walks src recursively and mirrors every regular file under
// destRoot at its path relative to src — never the spec §9 Open-Questions
// bug of resolving the directory root's own basename, which would nest
// the whole tree one level too deep.
func (c *Copier) copyDir(src, destRoot, processorName string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return xerrors.Errorf("relativizing %s against %s: %w", path, src, err)
		}
		return c.copyFile(path, filepath.Join(destRoot, rel), processorName)
	})
}

// atomicCopy writes dest via a temp file in the same directory, then
// renames it into place — spec §4.9's "copy atomically (write-then-
// rename)", grounded on internal/build/build.go's own renameio.TempFile
// idiom.
func atomicCopy(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return xerrors.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := renameio.TempFile("", dest)
	if err != nil {
		return xerrors.Errorf("creating temp file for %s: %w", dest, err)
	}
	defer out.Cleanup()

	if _, err := io.Copy(out, in); err != nil {
		return xerrors.Errorf("copying %s to %s: %w", src, dest, err)
	}
	if err := out.CloseAtomicallyReplace(); err != nil {
		return xerrors.Errorf("replacing %s: %w", dest, err)
	}
	return nil
}
