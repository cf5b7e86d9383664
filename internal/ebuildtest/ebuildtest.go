// Package ebuildtest collects small test helpers shared across this
// module's package tests, the same role internal/distritest plays for the
// teacher's own test suite.
package ebuildtest

import (
	"os"
	"testing"

	"github.com/ebuild-dev/ebuild/internal/module"
	"github.com/ebuild-dev/ebuild/internal/plan"
	"github.com/ebuild-dev/ebuild/internal/toolchain"
)

// RemoveAll wraps os.RemoveAll and fails the test on error.
func RemoveAll(t testing.TB, path string) {
	t.Helper()
	if err := os.RemoveAll(path); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

// WriteFile writes contents to path and fails the test on error.
func WriteFile(t testing.TB, path string, contents []byte) {
	t.Helper()
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatal(err)
	}
}

// FakeAdapter is a toolchain.Adapter backed by /bin/cp: enough to drive
// internal/executor and cmd/ebuild tests end to end without a real C/C++
// toolchain installed, since it still produces a real output file for the
// IncrementalOracle to stat.
type FakeAdapter struct {
	// CopyPath overrides the program invoked; empty means "/bin/cp".
	CopyPath string
}

func (f FakeAdapter) Name() string                     { return "fake" }
func (FakeAdapter) IsAvailable(_, _ string) bool        { return true }
func (FakeAdapter) SupportsKind(_ plan.Kind) bool       { return true }
func (FakeAdapter) Setup() error                        { return nil }
func (f FakeAdapter) path() string {
	if f.CopyPath != "" {
		return f.CopyPath
	}
	return "/bin/cp"
}

func (f FakeAdapter) ExecutablePath(*module.Module, *plan.AssemblyContext, plan.Kind) (string, error) {
	return f.path(), nil
}

func (FakeAdapter) AssembleCompileArgv(source, output string, _ *plan.AssemblyContext) ([]string, error) {
	return []string{source, output}, nil
}

func (FakeAdapter) AssembleLinkArgv(n *plan.Node, _ *plan.AssemblyContext) ([]string, error) {
	if len(n.Inputs) == 0 {
		return nil, nil
	}
	return []string{n.Inputs[0], n.Output}, nil
}

func (FakeAdapter) ParseDiagnostic(string) (*toolchain.Diagnostic, bool) { return nil, false }

var _ toolchain.Adapter = FakeAdapter{}
