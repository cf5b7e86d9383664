package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/ebuild-dev/ebuild/internal/copier"
	"github.com/ebuild-dev/ebuild/internal/executor"
	"github.com/ebuild-dev/ebuild/internal/plan"
	"github.com/ebuild-dev/ebuild/internal/remote"
	"golang.org/x/xerrors"
)

const buildHelp = `ebuild build [-flags] <module.textproto>

Resolve a module's dependency graph, construct an incremental build plan,
and execute it.

Example:
  % ebuild build -configuration=release ./myapp.module.textproto
`

func cmdBuild(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("build", flag.ExitOnError)
	fset.Usage = usage(fset, buildHelp)
	var (
		configuration = fset.String("configuration", "debug", "build configuration: debug or release")
		goos          = fset.String("goos", "", "target OS (default: host)")
		arch          = fset.String("arch", "", "target architecture (default: host)")
		parallelism   = fset.Int("parallelism", runtime.NumCPU(), "number of build nodes to run concurrently")
		rebuild       = fset.Bool("rebuild", false, "bypass the incremental oracle and rebuild every node")
		remoteAddr    = fset.String("remote", "", "unix socket path of an ebuild-worker to dispatch toolchain invocations to")
	)
	fset.Parse(args)

	if fset.NArg() != 1 {
		fset.Usage()
		return xerrors.New("build: expected exactly one module path")
	}

	cfg := plan.Debug
	switch *configuration {
	case "debug":
		cfg = plan.Debug
	case "release":
		cfg = plan.Release
	default:
		return xerrors.Errorf("unknown -configuration %q (want debug or release)", *configuration)
	}

	g, root, err := loadGraph(fset.Arg(0))
	if err != nil {
		return err
	}
	if broken := brokenModules(g); len(broken) > 0 {
		for _, n := range broken {
			log.Printf("broken module %s: %v", n.Name(), n.Messages)
		}
		return xerrors.New("build: one or more modules could not be loaded")
	}

	targetGOOS, targetArch := hostTarget(*goos, *arch)
	p, err := plan.Build(g, root, plan.Options{
		GOOS:          targetGOOS,
		Arch:          targetArch,
		Configuration: cfg,
	})
	if err != nil {
		return err
	}

	var runner executor.Runner
	if *remoteAddr != "" {
		c, err := remote.Dial(ctx, *remoteAddr)
		if err != nil {
			return xerrors.Errorf("dialing -remote %s: %w", *remoteAddr, err)
		}
		runner = c
	}

	exec := executor.New(executor.Options{
		Registry:    defaultRegistry(),
		Copier:      copier.New(nil),
		Parallelism: *parallelism,
		Log:         log.New(os.Stderr, "", log.LstdFlags),
		Rebuild:     *rebuild,
		Runner:      runner,
	})

	result, err := exec.Run(ctx, p)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%d succeeded, %d skipped, %d failed\n", result.Succeeded, result.Skipped, result.Failed)
	for _, r := range result.Nodes {
		if r.Status != executor.Failed {
			continue
		}
		fmt.Fprintf(os.Stderr, "FAILED: %s\n", r.Node.Key())
		for _, d := range r.Diagnostics {
			fmt.Fprintf(os.Stderr, "  %s\n", d.Message)
		}
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "  %v\n", r.Err)
		}
	}
	if result.Failed > 0 {
		return xerrors.New("build failed")
	}
	return nil
}
