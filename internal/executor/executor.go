// Package executor implements spec §4.6's Executor: a bounded worker pool
// that runs a plan.Plan's nodes in dependency order, skipping any node the
// IncrementalOracle deems unchanged and failing forward: a node whose
// predecessor failed is marked DependencyFailed and never attempted.
//
// The scheduling shape mirrors internal/batch/batch.go's scheduler: an
// errgroup-bounded worker pool draining a ready-queue, with completions
// feeding a single coordinator goroutine that enqueues newly-ready
// successors and propagates failure to dependents.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ebuild-dev/ebuild/internal/incremental"
	"github.com/ebuild-dev/ebuild/internal/plan"
	"github.com/ebuild-dev/ebuild/internal/toolchain"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

// Status is a node's terminal disposition after a Run.
type Status int

const (
	Succeeded Status = iota
	Skipped          // IncrementalOracle decided SKIP
	Failed
	DependencyFailed // a predecessor failed or was DependencyFailed
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	case DependencyFailed:
		return "dependency-failed"
	default:
		return "unknown"
	}
}

// NodeResult is one node's outcome.
type NodeResult struct {
	Node        *plan.Node
	Status      Status
	Err         error
	Diagnostics []toolchain.Diagnostic
	Duration    time.Duration
}

// Copier performs the side-effecting part of a CopyAsset node; it is
// injected so internal/executor does not need to import internal/copier
// directly (copier in turn depends on nothing executor-specific).
type Copier interface {
	Copy(n *plan.Node) error
}

// Result is the outcome of one Run.
type Result struct {
	Nodes     []*NodeResult
	Succeeded int
	Failed    int
	Skipped   int
}

// Options configures an Executor.
type Options struct {
	Registry    *toolchain.Registry
	Copier      Copier
	Parallelism int // default runtime.NumCPU via Registry caller; 0 means 1
	Log         *log.Logger
	// Rebuild forces every node through the toolchain regardless of what
	// the IncrementalOracle would otherwise decide (spec §4.5's "a
	// rebuild flag bypasses the oracle").
	Rebuild bool
	// Runner executes an assembled argv; nil uses a local subprocess
	// (runLocal). internal/remote's Client implements this to dispatch a
	// node's toolchain invocation to a remote worker instead.
	Runner Runner
}

// Runner executes one toolchain invocation and returns its captured
// stdout/stderr, matching os/exec.Cmd's combined-output shape closely
// enough that runLocal and a remote dispatcher are interchangeable.
type Runner interface {
	Run(ctx context.Context, dir, execPath string, argv []string) (stdout, stderr string, err error)
}

// Executor runs a plan.Plan to completion or first unrecoverable error.
type Executor struct {
	opts Options

	versionMu sync.Mutex
	versions  map[string]string // exec path -> identity hash, memoized
}

// New constructs an Executor.
func New(opts Options) *Executor {
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if opts.Log == nil {
		opts.Log = log.New(os.Stderr, "", log.LstdFlags)
	}
	if opts.Runner == nil {
		opts.Runner = localRunner{}
	}
	return &Executor{opts: opts, versions: make(map[string]string)}
}

type workItem struct {
	node *plan.Node
	idx  int
}

// Run executes every node of p, respecting Predecessors order, and returns
// once every node has reached a terminal Status or ctx is cancelled.
func (e *Executor) Run(ctx context.Context, p *plan.Plan) (*Result, error) {
	n := len(p.Nodes)
	results := make([]*NodeResult, n)
	byKey := make(map[string]int, n)
	for i, node := range p.Nodes {
		byKey[node.Key()] = i
		results[i] = &NodeResult{Node: node}
	}

	// dependents[i] lists the indices that have p.Nodes[i] as a predecessor.
	dependents := make([][]int, n)
	remaining := make([]int, n)
	for i, node := range p.Nodes {
		for _, pk := range node.Predecessors {
			pi, ok := byKey[pk]
			if !ok {
				continue // predecessor outside the plan (shouldn't happen)
			}
			dependents[pi] = append(dependents[pi], i)
			remaining[i]++
		}
	}

	status := make([]string, e.opts.Parallelism+1)
	reporter := &statusReporter{lines: status, tty: isatty.IsTerminal(os.Stdout.Fd())}

	work := make(chan workItem, n)
	type doneMsg struct {
		idx int
		res *NodeResult
	}
	done := make(chan doneMsg)

	eg, egCtx := errgroup.WithContext(ctx)
	for w := 0; w < e.opts.Parallelism; w++ {
		w := w
		eg.Go(func() error {
			for item := range work {
				if err := egCtx.Err(); err != nil {
					return err
				}
				reporter.update(w+1, fmt.Sprintf("building %s", item.node.Key()))
				start := time.Now()
				res := e.runNode(egCtx, item.node)
				res.Duration = time.Since(start)
				reporter.update(w+1, "idle")
				select {
				case done <- doneMsg{idx: item.idx, res: res}:
				case <-egCtx.Done():
					return egCtx.Err()
				}
			}
			return nil
		})
	}

	enqueue := func(i int) {
		select {
		case work <- workItem{node: p.Nodes[i], idx: i}:
		case <-egCtx.Done():
		}
	}
	for i := range p.Nodes {
		if remaining[i] == 0 {
			enqueue(i)
		}
	}

	coordDone := make(chan struct{})
	go func() {
		defer close(coordDone)
		remainingCount := n
		marked := make([]bool, n)
		var markDependencyFailed func(i int)
		markDependencyFailed = func(i int) {
			if marked[i] {
				return
			}
			marked[i] = true
			remainingCount--
			results[i].Status = DependencyFailed
			results[i].Err = xerrors.New("a predecessor failed")
			for _, d := range dependents[i] {
				markDependencyFailed(d)
			}
		}
		for remainingCount > 0 {
			select {
			case msg := <-done:
				remainingCount--
				marked[msg.idx] = true
				results[msg.idx] = msg.res
				if msg.res.Status == Succeeded || msg.res.Status == Skipped {
					for _, dep := range dependents[msg.idx] {
						remaining[dep]--
						if remaining[dep] == 0 && !marked[dep] {
							enqueue(dep)
						}
					}
				} else {
					for _, dep := range dependents[msg.idx] {
						markDependencyFailed(dep)
					}
				}
			case <-egCtx.Done():
				return
			}
		}
	}()

	<-coordDone
	close(work)
	if err := eg.Wait(); err != nil && ctx.Err() == nil {
		return nil, err
	}

	out := &Result{Nodes: results}
	for _, r := range results {
		switch r.Status {
		case Succeeded:
			out.Succeeded++
		case Skipped:
			out.Skipped++
		default:
			out.Failed++
		}
	}
	return out, ctx.Err()
}

func (e *Executor) runNode(ctx context.Context, n *plan.Node) *NodeResult {
	res := &NodeResult{Node: n}
	switch n.Kind {
	case plan.KindVirtual:
		res.Status = Succeeded
		return res
	case plan.KindCopyAsset:
		return e.runCopy(ctx, n)
	default:
		return e.runToolchainNode(ctx, n)
	}
}

func (e *Executor) runCopy(ctx context.Context, n *plan.Node) *NodeResult {
	res := &NodeResult{Node: n}
	if e.opts.Copier == nil {
		res.Status = Failed
		res.Err = xerrors.New("no Copier configured for a CopyAsset node")
		return res
	}
	sidecarPath := n.Context.Layout.CacheDir()
	rec, found, _ := incremental.Load(filepath.Join(sidecarPath, incremental.SidecarFileName(n.Key())))
	facts := incremental.Facts{
		Output:        n.DestPath,
		PrimarySource: n.SrcPath,
		Inputs:        []string{n.SrcPath},
	}
	decision := incremental.Decide(rec, found, facts)
	if !e.opts.Rebuild && !decision.Rebuild {
		res.Status = Skipped
		return res
	}
	if err := e.opts.Copier.Copy(n); err != nil {
		res.Status = Failed
		res.Err = err
		return res
	}
	e.saveRecord(n, sidecarPath, incremental.Record{Output: outputRecordFor(n.DestPath)}, []string{n.SrcPath})
	res.Status = Succeeded
	return res
}

func (e *Executor) runToolchainNode(ctx context.Context, n *plan.Node) *NodeResult {
	res := &NodeResult{Node: n}
	if n.Context == nil {
		res.Status = Failed
		res.Err = xerrors.New("node has no AssemblyContext")
		return res
	}
	adapter, err := e.resolveAdapter(n)
	if err != nil {
		res.Status = Failed
		res.Err = err
		return res
	}

	execPath, err := adapter.ExecutablePath(n.OwningModule, n.Context, n.Kind)
	if err != nil {
		res.Status = Failed
		res.Err = err
		return res
	}

	var argv []string
	var output string
	var primarySource string
	var inputs []string
	switch n.Kind {
	case plan.KindCompileSource, plan.KindCompileResource:
		argv, err = adapter.AssembleCompileArgv(n.SourcePath, n.OutputObjectPath, n.Context)
		output = n.OutputObjectPath
		primarySource = n.SourcePath
		inputs = []string{n.SourcePath}
	default: // link nodes
		argv, err = adapter.AssembleLinkArgv(n, n.Context)
		output = n.Output
		inputs = append([]string{}, n.Inputs...)
	}
	if err != nil {
		res.Status = Failed
		res.Err = err
		return res
	}

	cacheDir := n.Context.Layout.CacheDir()
	sidecarPath := filepath.Join(cacheDir, incremental.SidecarFileName(n.Key()))
	rec, found, _ := incremental.Load(sidecarPath)

	argvHash := incremental.HashArgv(argv)
	toolHash := e.toolIdentity(execPath, adapter.Name())

	facts := incremental.Facts{
		Output:          output,
		PrimarySource:   primarySource,
		Inputs:          inputs,
		ToolPath:        execPath,
		ToolVersionHash: toolHash,
		ArgvHash:        argvHash,
		VariantID:       uint32(n.Context.Module.VariantID()),
	}
	decision := incremental.Decide(rec, found, facts)
	if !e.opts.Rebuild && !decision.Rebuild {
		res.Status = Skipped
		return res
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		res.Status = Failed
		res.Err = err
		return res
	}

	stdout, stderr, runErr := e.opts.Runner.Run(ctx, n.OwningModule.Dir, execPath, argv)
	for _, line := range strings.Split(stdout+stderr, "\n") {
		if line == "" {
			continue
		}
		if d, ok := adapter.ParseDiagnostic(line); ok {
			res.Diagnostics = append(res.Diagnostics, *d)
		} else {
			res.Diagnostics = append(res.Diagnostics, toolchain.Diagnostic{Severity: toolchain.Info, Message: line})
		}
	}

	if runErr != nil {
		// P7: an output file must never be left partially written.
		os.Remove(output)
		res.Status = Failed
		res.Err = xerrors.Errorf("%s: %w", strings.Join(argv, " "), runErr)
		return res
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		e.opts.Log.Printf("warning: could not create cache dir %s: %v", cacheDir, err)
	} else {
		e.saveRecord(n, cacheDir, incremental.Record{
			ToolPath:        execPath,
			ToolVersionHash: toolHash,
			ArgvHash:        argvHash,
			VariantID:       facts.VariantID,
		}, inputs)
	}

	res.Status = Succeeded
	return res
}

func outputRecordFor(path string) incremental.OutputRecord {
	fi, err := os.Stat(path)
	if err != nil {
		return incremental.OutputRecord{Path: path}
	}
	return incremental.OutputRecord{Path: path, Mtime: fi.ModTime().UnixNano(), Size: fi.Size()}
}

func (e *Executor) saveRecord(n *plan.Node, cacheDir string, base incremental.Record, inputs []string) {
	rec := base
	for _, in := range inputs {
		fi, err := os.Stat(in)
		if err != nil {
			continue
		}
		rec.Inputs = append(rec.Inputs, incremental.InputRecord{Path: in, Mtime: fi.ModTime().UnixNano(), Size: fi.Size()})
	}
	out := n.Output
	if out == "" {
		out = n.DestPath
	}
	rec.Output = outputRecordFor(out)
	if err := incremental.Save(filepath.Join(cacheDir, incremental.SidecarFileName(n.Key())), &rec); err != nil {
		e.opts.Log.Printf("warning: could not save incremental record for %s: %v", n.Key(), err)
	}
}

func (e *Executor) resolveAdapter(n *plan.Node) (toolchain.Adapter, error) {
	if n.Tool != "" {
		if a, ok := e.opts.Registry.ByName(n.Tool); ok {
			return a, nil
		}
		return nil, xerrors.Errorf("node %s requests unknown toolchain %q", n.Key(), n.Tool)
	}
	return e.opts.Registry.Select(n.Context.TargetGOOS, n.Context.TargetArch, n.Kind)
}

// toolIdentity memoizes a toolchain executable's identity hash by its file
// size and modification time — a proxy for "did the compiler change",
// avoiding a `--version` subprocess whose flag differs per toolchain
// family (gcc, cl.exe and rc.exe do not share one).
func (e *Executor) toolIdentity(execPath, adapterName string) string {
	e.versionMu.Lock()
	defer e.versionMu.Unlock()
	if h, ok := e.versions[execPath]; ok {
		return h
	}
	version := adapterName
	if fi, err := os.Stat(execPath); err == nil {
		version = fmt.Sprintf("%s:%d:%d", adapterName, fi.Size(), fi.ModTime().UnixNano())
	}
	h := incremental.HashToolIdentity(execPath, version)
	e.versions[execPath] = h
	return h
}

// localRunner is the default Runner: runs execPath as a local subprocess
// with argv as its arguments, Dir set to the owning module's
// directory (spec §4.6: "no shell is invoked; argv is passed directly to
// the OS"), and graceful SIGTERM-then-kill cancellation.
type localRunner struct{}

func (localRunner) Run(ctx context.Context, dir, execPath string, argv []string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, execPath, argv...)
	cmd.Dir = dir
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	setCancel(cmd) // platform-specific: SIGTERM on unix, TerminateProcess on windows
	cmd.WaitDelay = 2 * time.Second
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

// statusReporter mirrors internal/batch/batch.go's ANSI cursor status
// lines, gated on an actual terminal via go-isatty rather than an ioctl
// probe.
type statusReporter struct {
	mu    sync.Mutex
	lines []string
	tty   bool
	last  time.Time
}

func (r *statusReporter) update(idx int, text string) {
	if !r.tty {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[idx] = text
	if time.Since(r.last) < 100*time.Millisecond {
		return
	}
	r.last = time.Now()
	for _, l := range r.lines {
		fmt.Println(l)
	}
	fmt.Printf("\033[%dA", len(r.lines))
}
