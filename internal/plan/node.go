// Package plan implements spec §3/§4.4's BuildNode tagged union and
// BuildPlanner.
package plan

import (
	"github.com/ebuild-dev/ebuild/internal/modpb"
	"github.com/ebuild-dev/ebuild/internal/module"
)

// Kind discriminates the BuildNode tagged union (spec §3).
type Kind int

const (
	KindCompileSource Kind = iota
	KindCompileResource
	KindLinkStatic
	KindLinkShared
	KindLinkExecutable
	KindCopyAsset
	KindVirtual
)

func (k Kind) String() string {
	switch k {
	case KindCompileSource:
		return "CompileSource"
	case KindCompileResource:
		return "CompileResource"
	case KindLinkStatic:
		return "LinkStatic"
	case KindLinkShared:
		return "LinkShared"
	case KindLinkExecutable:
		return "LinkExecutable"
	case KindCopyAsset:
		return "CopyAsset"
	case KindVirtual:
		return "Virtual"
	default:
		return "Unknown"
	}
}

// Subsystem distinguishes LinkExecutable's output kind.
type Subsystem int

const (
	Console Subsystem = iota
	Gui
)

// LibRef is one linker input named by a module (as opposed to an object
// file produced by this plan): either a bare library name resolved via the
// linker's search paths, or an absolute path to a library file.
type LibRef struct {
	Name       string // e.g. "z" for -lz / zlib.lib
	SearchPath string // "" if Name is an absolute path already
}

// Node is one vertex of the build plan — spec §3's BuildNode. Exactly one
// of the kind-specific field groups below is populated, selected by Kind.
type Node struct {
	Kind Kind

	// key is the content key used for deduplication: identical key implies
	// a single execution shared by every consumer (spec §4.4 step 3).
	key string

	OwningModule *module.Module // nil for a root Virtual barrier

	// Tool names the toolchain adapter (internal/toolchain) chosen for this
	// node at planning time; Executor resolves it to a concrete Adapter
	// through a registry, keeping this package free of an import on
	// internal/toolchain.
	Tool string

	// CompileSource / CompileResource
	SourcePath       string
	OutputObjectPath string

	// LinkStatic / LinkShared / LinkExecutable
	Inputs    []string // object paths, in compile-node emission order
	Libs      []LibRef
	Output    string
	Subsystem Subsystem // LinkExecutable only

	// CopyAsset
	AssetKind modpb.AdditionalDependency_Kind
	SrcPath   string
	DestPath  string
	Processor string

	// Virtual
	Label string

	// Predecessors holds the content keys of nodes that must complete
	// before this one may start.
	Predecessors []string

	// Context carries the per-module assembly inputs (layout, configuration,
	// transitive dependency set) that a toolchain.Adapter needs to turn this
	// node into an argv at execution time. Populated by Build; nil for a
	// Virtual barrier node.
	Context *AssemblyContext
}

// Key returns this node's content key.
func (n *Node) Key() string { return n.key }

// NewNode builds a Node with an explicit content key, for callers outside
// this package that already know the key they want (executor's tests;
// a hand-assembled plan fed straight to Executor without going through
// Build's deduplication). Every other field is exported and may be set on
// the result directly.
func NewNode(kind Kind, key string) *Node {
	return &Node{Kind: kind, key: key}
}
