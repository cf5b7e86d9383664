package modpb

import (
	"github.com/google/renameio"
	"github.com/protocolbuffers/txtpbfmt/parser"
)

// Format canonicalizes the on-disk formatting of protobuf text format
// bytes, the same way the teacher's cmd/distri/scaffold.go normalizes
// build.textproto files after patching them.
func Format(text []byte) ([]byte, error) {
	return parser.Format(text)
}

// atomicWriteFile writes data to path by writing to a temporary file in
// the same directory and renaming it into place, so a reader never
// observes a partially-written file (spec §4.5's "temp file + rename",
// §4.9's "copy atomically"). Grounded in the teacher's use of
// github.com/google/renameio across internal/build/build.go.
func atomicWriteFile(path string, data []byte) error {
	return renameio.WriteFile(path, data, 0o644)
}
