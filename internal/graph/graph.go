// Package graph implements spec §3/§4.3's ModuleGraph: a directed
// multigraph of Module nodes keyed by (absolute_path, variant_id), cycle
// aware, with edges carrying visibility.
//
// The underlying representation is gonum's simple.DirectedGraph (the same
// choice the teacher's internal/batch package makes for its package
// dependency DAG), which also backs BuildPlanner's topological walk.
package graph

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ebuild-dev/ebuild/internal/modpb"
	"github.com/ebuild-dev/ebuild/internal/modref"
	"github.com/ebuild-dev/ebuild/internal/module"
	"github.com/ebuild-dev/ebuild/internal/variant"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Key is the identity of a node: I5 defines two Module records as the same
// build node iff their absolute path and variant id match.
type Key struct {
	Path      string
	VariantID variant.ID
}

func (k Key) String() string { return fmt.Sprintf("%s#%s", k.Path, k.VariantID) }

// State is a node's health, distinguishing a fully-loaded module from one
// whose provider (or whose dependency's provider) failed.
type State int

const (
	StateOK State = iota
	StateBroken
)

// Node is one vertex of the graph. It satisfies gonum's graph.Node
// interface via ID().
type Node struct {
	id int64

	Key      Key
	Module   *module.Module // nil if State == StateBroken
	State    State
	Messages []string // provider/resolution failure messages, if Broken

	// Circular is set on a node that an in-progress DFS attempted to
	// revisit: i.e. it is an ancestor of one of its own dependencies.
	Circular bool
}

func (n *Node) ID() int64 { return n.id }

// Name returns the module name for a healthy node, or the base of the
// resolved path for a broken one.
func (n *Node) Name() string {
	if n.Module != nil {
		return n.Module.Name
	}
	return filepath.Base(n.Key.Path)
}

// Edge is one dependency edge, carrying the visibility it was declared
// with.
type Edge struct {
	F, T       *Node
	Visibility module.Visibility
}

func (e Edge) From() graph.Node { return e.F }
func (e Edge) To() graph.Node   { return e.T }
func (e Edge) ReversedEdge() graph.Edge {
	return Edge{F: e.T, T: e.F, Visibility: e.Visibility}
}

// Provider is the opaque external collaborator (spec §1, §4.1):
// given a resolved absolute path, it returns a populated Module record.
// Never a problem for this package to fail to satisfy — it is deliberately
// not implemented here.
type Provider interface {
	Provide(absPath string) (*modpb.Module, error)
}

// Graph is spec §3's ModuleGraph.
type Graph struct {
	mu       sync.Mutex
	g        *simple.DirectedGraph
	byKey    map[Key]*Node
	nextID   int64
	provider Provider
	rctx     *modref.Context
	xforms   module.TransformerRegistry

	circular       []circularEdge        // recorded, not traversed
	circularChildren map[*Node][]*Node // node -> ancestors it would reopen, for tree printing

	cycleOnce  sync.Once
	cyclePath  []*Node
	hasCycle   bool
}

type circularEdge struct {
	from, to *Node // to is the ancestor being reopened
	stack    []*Node
}

// New creates an empty graph. provider supplies Module records for
// resolved paths; rctx is threaded into every reference resolution
// (ModuleDir is overridden per-node); xforms is consulted for any
// output-transformer id a module declares.
func New(provider Provider, rctx *modref.Context, xforms module.TransformerRegistry) *Graph {
	return &Graph{
		g:                simple.NewDirectedGraph(),
		byKey:            make(map[Key]*Node),
		provider:         provider,
		rctx:             rctx,
		xforms:           xforms,
		circularChildren: make(map[*Node][]*Node),
	}
}

// Underlying exposes the gonum graph for packages that need direct
// topological operations (e.g. the build planner).
func (g *Graph) Underlying() *simple.DirectedGraph { return g.g }

// Node looks up a node by key.
func (g *Graph) Node(k Key) (*Node, bool) {
	n, ok := g.byKey[k]
	return n, ok
}

// Nodes returns every node added to the graph, in creation order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.byKey))
	it := g.g.Nodes()
	for it.Next() {
		out = append(out, it.Node().(*Node))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Edges returns the outgoing dependency edges of n, ordered by the
// creation order of their target nodes. Dependencies first added to the
// graph while expanding n therefore appear in declaration order (public
// first, then private — see module.Module.Dependencies); a dependency node
// that already existed before n was expanded sorts by its earlier creation.
func (g *Graph) Edges(n *Node) []Edge {
	var out []Edge
	it := g.g.From(n.id)
	for it.Next() {
		to := it.Node().(*Node)
		e := g.g.Edge(n.id, to.id)
		if edge, ok := e.(Edge); ok {
			out = append(out, edge)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].T.id < out[j].T.id })
	return out
}

// AddRoot resolves ref (relative to fromDir) and adds the resulting module
// — and its transitive dependencies — to the graph, returning the root
// node. A provider or resolution failure on the root itself is returned as
// an error; failures on dependencies instead produce Broken nodes (spec
// §4.3's failure semantics), so that "check circular-dependencies" can
// still succeed even over a partially-broken graph.
func (g *Graph) AddRoot(ref *modref.Reference, fromDir string) (*Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.invalidateCycleCache()
	n, err, fatal := g.resolveAndAdd(ref, fromDir, nil)
	if fatal {
		return nil, err
	}
	return n, nil
}

// resolveAndAdd resolves ref, loads (or reuses) the node it names, and —
// if freshly created — recurses into its dependencies. stack is the
// current DFS ancestor chain, used for cycle detection. fatal is true only
// when the *caller* has no way to represent the failure as a Broken node
// (i.e. this is the root call).
func (g *Graph) resolveAndAdd(ref *modref.Reference, fromDir string, stack []*Node) (n *Node, err error, fatal bool) {
	ctx := *g.rctx
	ctx.ModuleDir = fromDir
	path, rerr := ref.Resolve(&ctx)
	if rerr != nil {
		if len(stack) == 0 {
			return nil, xerrors.Errorf("resolving root reference %s: %w", ref.Format(), rerr), true
		}
		return g.newBrokenNode(brokenKey(fromDir, ref), []string{rerr.Error()}), nil, false
	}

	p, perr := g.provider.Provide(path)
	if perr != nil {
		if len(stack) == 0 {
			return nil, xerrors.Errorf("provider failed for %s: %w", path, perr), true
		}
		return g.newBrokenNode(Key{Path: path}, []string{perr.Error()}), nil, false
	}

	// Merge the reference's ?k=v options onto the module's own option map
	// before computing the module and its variant id: a dependent can pin
	// a dependency's configuration through its reference.
	if overrides := ref.OptionsMap(); len(overrides) > 0 {
		merged := make(map[string]string, len(p.OptionsMap)+len(overrides))
		for k, v := range p.OptionsMap {
			merged[k] = v
		}
		for k, v := range overrides {
			merged[k] = v
		}
		// Copy rather than mutate: a provider may return a cached *Module
		// shared across lookups of the same path from different
		// referencing modules with different option overrides.
		withOverrides := *p
		withOverrides.OptionsMap = merged
		p = &withOverrides
	}

	mod, merr := module.FromProto(p, path, g.xforms)
	if merr != nil {
		if len(stack) == 0 {
			return nil, xerrors.Errorf("constructing module %s: %w", path, merr), true
		}
		return g.newBrokenNode(Key{Path: path}, []string{merr.Error()}), nil, false
	}

	key := Key{Path: path, VariantID: mod.VariantID()}

	// Cycle check: is key already an ancestor on the current DFS stack?
	for _, anc := range stack {
		if anc.Key == key {
			anc.Circular = true
			return anc, nil, false // edge recorded by the caller, not traversed
		}
	}

	if existing, ok := g.byKey[key]; ok {
		return existing, nil, false // I5 dedup: same build node
	}

	node := &Node{id: g.allocID(), Key: key, Module: mod, State: StateOK}
	g.byKey[key] = node
	g.g.AddNode(node)

	g.expand(node, mod, append(stack, node))
	return node, nil, false
}

// expand enumerates mod.Dependencies (public then private, per
// module.Module's construction order) and links or recursively adds each.
func (g *Graph) expand(node *Node, mod *module.Module, stack []*Node) {
	for _, dep := range mod.Dependencies {
		child, err, _ := g.resolveAndAdd(dep.Reference, mod.Dir, stack)
		if err != nil {
			// Dependency-level errors never reach here: resolveAndAdd only
			// returns non-nil err with fatal=true at stack depth 0.
			continue
		}
		if child == nil {
			continue
		}
		if childIsAncestor(child, stack) {
			g.circular = append(g.circular, circularEdge{from: node, to: child, stack: append([]*Node{}, stack...)})
			g.circularChildren[node] = append(g.circularChildren[node], child)
			continue // recorded, not traversed (no edge added to the DAG)
		}
		g.g.SetEdge(Edge{F: node, T: child, Visibility: dependencyVisibility(dep)})
	}
}

func dependencyVisibility(d module.Dependency) module.Visibility { return d.Visibility }

func childIsAncestor(child *Node, stack []*Node) bool {
	for _, anc := range stack {
		if anc == child {
			return true
		}
	}
	return false
}

func (g *Graph) newBrokenNode(key Key, messages []string) *Node {
	if existing, ok := g.byKey[key]; ok {
		existing.Messages = append(existing.Messages, messages...)
		return existing
	}
	node := &Node{id: g.allocID(), Key: key, State: StateBroken, Messages: messages}
	g.byKey[key] = node
	g.g.AddNode(node)
	return node
}

func brokenKey(fromDir string, ref *modref.Reference) Key {
	// A resolution failure has no absolute path; key it by the unresolved
	// text so repeated failures for the same reference dedup too.
	return Key{Path: filepath.Join(fromDir, "<unresolved>", ref.Format())}
}

// CircularChildren returns the ancestor nodes that n's expansion attempted
// to reopen (and thus did not add a real edge to), in detection order.
func (g *Graph) CircularChildren(n *Node) []*Node { return g.circularChildren[n] }

func (g *Graph) allocID() int64 {
	id := g.nextID
	g.nextID++
	return id
}

func (g *Graph) invalidateCycleCache() {
	g.cycleOnce = sync.Once{}
}
