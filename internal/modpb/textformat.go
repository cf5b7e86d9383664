package modpb

import (
	"bytes"
	"io"
	"os"
	"sync"

	proto "github.com/golang/protobuf/proto"
	"golang.org/x/xerrors"
)

// bufPool amortizes the buffer allocation of reading a .module.textproto
// file, the same pattern the teacher's pb.ReadBuildFile/pb.ReadMetaFile
// use.
var bufPool = sync.Pool{
	New: func() interface{} { return &bytes.Buffer{} },
}

// ReadModuleFile parses path's contents as a Module in protobuf text
// format.
func ReadModuleFile(path string) (*Module, error) {
	var m Module
	b := bufPool.Get().(*bytes.Buffer)
	b.Reset()
	defer bufPool.Put(b)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := io.Copy(b, f); err != nil {
		return nil, xerrors.Errorf("reading %s: %w", path, err)
	}
	if err := proto.UnmarshalText(b.String(), &m); err != nil {
		return nil, xerrors.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}

// WriteModuleFile serializes m in protobuf text format and atomically
// writes it to path (write-then-rename, the pattern used throughout this
// repository — spec §4.5/§4.9).
func WriteModuleFile(path string, m *Module) error {
	text := proto.MarshalTextString(m)
	formatted, err := Format([]byte(text))
	if err != nil {
		// Formatting is a convenience; fall back to the unformatted text
		// rather than fail the write outright.
		formatted = []byte(text)
	}
	return atomicWriteFile(path, formatted)
}
