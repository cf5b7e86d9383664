package plan

import (
	"path/filepath"
	"strings"

	"github.com/ebuild-dev/ebuild/internal/graph"
	"github.com/ebuild-dev/ebuild/internal/layout"
	"github.com/ebuild-dev/ebuild/internal/modpb"
	"github.com/ebuild-dev/ebuild/internal/module"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/graph/topo"
)

// Plan is the deduplicated, topologically-ordered output of Build.
type Plan struct {
	Nodes []*Node
	byKey map[string]*Node
}

// Lookup finds a node by its content key.
func (p *Plan) Lookup(key string) (*Node, bool) {
	n, ok := p.byKey[key]
	return n, ok
}

// ErrBrokenDependency reports a Broken node reachable from the build root —
// spec §4.3's "broken nodes propagate to ancestors as a fatal build error
// during planning".
type ErrBrokenDependency struct {
	Path     string
	Messages []string
}

func (e *ErrBrokenDependency) Error() string {
	return xerrors.Errorf("broken module %s: %s", e.Path, strings.Join(e.Messages, "; ")).Error()
}

// Options configures one Build call.
type Options struct {
	GOOS                string
	Arch                string
	Configuration       Configuration
	ExtraCompileOptions []string
	ExtraLinkOptions    []string
	// ToolFor selects the toolchain adapter name for a module; nil selects
	// "" (Executor's registry then applies its own default).
	ToolFor func(m *module.Module) string
}

// Build implements spec §4.4's BuildPlanner over the subgraph reachable
// from root.
func Build(g *graph.Graph, root *graph.Node, opts Options) (*Plan, error) {
	post, err := postOrder(g, root)
	if err != nil {
		return nil, err
	}

	rootLayout := layout.New(root.Module, opts.GOOS)

	var emitted []*Node
	byKey := make(map[string]*Node)
	terminalKeyOf := make(map[*graph.Node]string)

	emit := func(n *Node) *Node {
		if existing, ok := byKey[n.key]; ok {
			return existing
		}
		byKey[n.key] = n
		emitted = append(emitted, n)
		return n
	}

	for _, gn := range post {
		m := gn.Module
		lo := layout.New(m, opts.GOOS)
		tool := ""
		if opts.ToolFor != nil {
			tool = opts.ToolFor(m)
		}
		actx := &AssemblyContext{
			Module:              m,
			Transitive:          g.FirstLevelAndPublic(gn),
			Layout:              lo,
			Configuration:       opts.Configuration,
			TargetGOOS:          opts.GOOS,
			TargetArch:          opts.Arch,
			ExtraCompileOptions: opts.ExtraCompileOptions,
			ExtraLinkOptions:    opts.ExtraLinkOptions,
		}

		var compileKeys []string
		var objectInputs []string
		for _, src := range m.SourceFiles {
			outPath := lo.ObjectPath(src)
			if isResourceSource(src) {
				n := emit(&Node{
					Kind:             KindCompileResource,
					key:              outPath,
					OwningModule:     m,
					Tool:             tool,
					SourcePath:       src,
					OutputObjectPath: outPath,
					Context:          actx,
				})
				compileKeys = append(compileKeys, n.key)
				objectInputs = append(objectInputs, n.OutputObjectPath)
				continue
			}
			n := emit(&Node{
				Kind:             KindCompileSource,
				key:              outPath,
				OwningModule:     m,
				Tool:             tool,
				SourcePath:       src,
				OutputObjectPath: outPath,
				Context:          actx,
			})
			compileKeys = append(compileKeys, n.key)
			objectInputs = append(objectInputs, n.OutputObjectPath)
		}

		var copyKeys []string
		for _, ad := range m.AdditionalDependencies {
			dest := expandMacros(ad.TargetDirectory, lo.BinariesDir(), rootLayout.BinariesDir())
			if ad.Kind == modpb.AdditionalDependency_FILE {
				dest = filepath.Join(dest, filepath.Base(ad.SourcePath))
			}
			n := emit(&Node{
				Kind:      KindCopyAsset,
				key:       dest + "|" + ad.SourcePath,
				AssetKind: ad.Kind,
				SrcPath:   ad.SourcePath,
				DestPath:  dest,
				Processor: ad.CustomProcessor,
				Context:   actx,
			})
			copyKeys = append(copyKeys, n.key)
		}

		preds := append([]string{}, compileKeys...)
		preds = append(preds, copyKeys...)
		var libs []LibRef
		for _, l := range m.Libraries.All() {
			libs = append(libs, LibRef{Name: l})
		}
		for _, dep := range g.FirstLevelAndPublic(gn) {
			if dep.State != graph.StateOK {
				continue
			}
			switch dep.Module.Type {
			case module.StaticLibrary, module.SharedLibrary:
				if k, ok := terminalKeyOf[dep]; ok {
					preds = append(preds, k)
				}
			}
		}

		var terminal *Node
		output := lo.OutputPath(m.Type)
		switch m.Type {
		case module.StaticLibrary:
			terminal = &Node{Kind: KindLinkStatic, key: output, OwningModule: m, Tool: tool, Inputs: objectInputs, Libs: libs, Output: output, Predecessors: preds, Context: actx}
		case module.SharedLibrary:
			terminal = &Node{Kind: KindLinkShared, key: output, OwningModule: m, Tool: tool, Inputs: objectInputs, Libs: libs, Output: output, Predecessors: preds, Context: actx}
		case module.Executable:
			terminal = &Node{Kind: KindLinkExecutable, key: output, OwningModule: m, Tool: tool, Inputs: objectInputs, Libs: libs, Output: output, Subsystem: Console, Predecessors: preds, Context: actx}
		case module.GuiExecutable:
			terminal = &Node{Kind: KindLinkExecutable, key: output, OwningModule: m, Tool: tool, Inputs: objectInputs, Libs: libs, Output: output, Subsystem: Gui, Predecessors: preds, Context: actx}
		}
		terminal = emit(terminal)
		terminalKeyOf[gn] = terminal.key
	}

	ordered, err := topoSort(emitted)
	if err != nil {
		return nil, err
	}
	return &Plan{Nodes: ordered, byKey: byKey}, nil
}

// postOrder determines every node reachable from root (regardless of
// dependency visibility — every dependency must be built; visibility only
// governs what a further consumer may see), rejects the subgraph if any
// reachable node is Broken, then orders the reachable set dependency-
// before-dependent by running gonum's topo.Sort over the whole module
// graph and reversing it: the underlying graph's edges run
// module → dependency, so topo.Sort's "successors occur later" order
// places a module before what it depends on, and reversing it yields the
// post-order BuildPlanner needs (spec §4.4 step 1).
func postOrder(g *graph.Graph, root *graph.Node) ([]*graph.Node, error) {
	reachable := make(map[*graph.Node]bool)
	var walk func(n *graph.Node) error
	walk = func(n *graph.Node) error {
		if reachable[n] {
			return nil
		}
		if n.State != graph.StateOK {
			return &ErrBrokenDependency{Path: n.Key.Path, Messages: n.Messages}
		}
		reachable[n] = true
		for _, e := range g.Edges(n) {
			if err := walk(e.T); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}

	sorted, err := topo.Sort(g.Underlying())
	if err != nil {
		return nil, xerrors.Errorf("topologically sorting module graph: %w", err)
	}

	out := make([]*graph.Node, 0, len(reachable))
	for i := len(sorted) - 1; i >= 0; i-- {
		n := sorted[i].(*graph.Node)
		if reachable[n] {
			out = append(out, n)
		}
	}
	return out, nil
}

func isResourceSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".rc")
}

func expandMacros(s, outputDir, rootOutputDir string) string {
	s = strings.ReplaceAll(s, "${RootOutputDir}", rootOutputDir)
	s = strings.ReplaceAll(s, "${OutputDir}", outputDir)
	return s
}
