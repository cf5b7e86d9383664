// Package incremental implements spec §4.5's IncrementalOracle: per
// BuildNode sidecar records and the five-reason REBUILD/SKIP decision.
package incremental

import (
	"encoding/json"
	"os"

	"github.com/google/renameio"
	"golang.org/x/xerrors"
)

// InputRecord is one entry of a Record's recorded input set: a source file
// or a header discovered from a prior build's dependency scan.
type InputRecord struct {
	Path  string `json:"path"`
	Mtime int64  `json:"mtime"` // unix nanoseconds
	Size  int64  `json:"size"`
}

// OutputRecord mirrors InputRecord for the node's single output file.
type OutputRecord struct {
	Path  string `json:"path"`
	Mtime int64  `json:"mtime"`
	Size  int64  `json:"size"`
}

// Record is spec §4.5's IncrementalRecord: the sidecar persisted per
// BuildNode in its owning module's cache directory (internal/layout's
// CacheDir), one file per content key.
type Record struct {
	ToolPath        string         `json:"tool_path"`
	ToolVersionHash string         `json:"tool_version_hash"`
	ArgvHash        string         `json:"argv_hash"`
	Inputs          []InputRecord  `json:"inputs"`
	Output          OutputRecord   `json:"output"`
	VariantID       uint32         `json:"variant_id"`
}

// SidecarFileName turns a BuildNode content key (typically an absolute
// object/output path, which may contain any path separator the host
// filesystem uses) into a single safe filename component: hash it rather
// than transliterate it, since keys are arbitrary absolute paths with no
// structure an escaping scheme could rely on.
func SidecarFileName(key string) string {
	return hashKey(key) + ".json"
}

// Load reads the sidecar record at path. A missing file is reported via
// found == false, not an error.
func Load(path string) (*Record, bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, xerrors.Errorf("reading incremental record %s: %w", path, err)
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, false, xerrors.Errorf("parsing incremental record %s: %w", path, err)
	}
	return &r, true, nil
}

// Save rewrites path atomically (temp file + rename), matching spec §4.5's
// "the sidecar record is rewritten atomically" and the teacher's own
// renameio-based atomic-write idiom (internal/build/build.go).
func Save(path string, r *Record) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return xerrors.Errorf("marshaling incremental record: %w", err)
	}
	if err := renameio.WriteFile(path, b, 0o644); err != nil {
		return xerrors.Errorf("writing incremental record %s: %w", path, err)
	}
	return nil
}
