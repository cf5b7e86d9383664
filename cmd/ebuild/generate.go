package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ebuild-dev/ebuild/internal/archive"
	"github.com/ebuild-dev/ebuild/internal/plan"
	"golang.org/x/xerrors"
)

const generateHelp = `ebuild generate <compile-commands|package-archive> [-flags] <module.textproto>

compile-commands emits a compile_commands.json (the de facto clangd/
clang-tidy format) describing every CompileSource/CompileResource node of
the plan rooted at the given module.

package-archive writes a cpio+gzip archive of a module's binaries
directory, the supplemental packaging step SPEC_FULL.md adds on top of the
distilled spec.
`

func cmdGenerate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, generateHelp)
		return xerrors.New("generate: expected a sub-verb (compile-commands or package-archive)")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "compile-commands":
		return cmdGenerateCompileCommands(ctx, rest)
	case "package-archive":
		return cmdGeneratePackageArchive(ctx, rest)
	default:
		fmt.Fprintln(os.Stderr, generateHelp)
		return xerrors.Errorf("generate: unknown sub-verb %q", sub)
	}
}

// compileCommand is one entry of a compile_commands.json file.
type compileCommand struct {
	Directory string   `json:"directory"`
	Arguments []string `json:"arguments"`
	File      string   `json:"file"`
	Output    string   `json:"output,omitempty"`
}

func cmdGenerateCompileCommands(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("generate compile-commands", flag.ExitOnError)
	fset.Usage = usage(fset, generateHelp)
	var (
		goos = fset.String("goos", "", "target OS (default: host)")
		arch = fset.String("arch", "", "target architecture (default: host)")
		out  = fset.String("o", "compile_commands.json", "output path")
	)
	fset.Parse(args)
	if fset.NArg() != 1 {
		fset.Usage()
		return xerrors.New("generate compile-commands: expected exactly one module path")
	}

	g, root, err := loadGraph(fset.Arg(0))
	if err != nil {
		return err
	}
	if broken := brokenModules(g); len(broken) > 0 {
		return xerrors.New("generate compile-commands: one or more modules could not be loaded")
	}

	targetGOOS, targetArch := hostTarget(*goos, *arch)
	p, err := plan.Build(g, root, plan.Options{GOOS: targetGOOS, Arch: targetArch})
	if err != nil {
		return err
	}

	registry := defaultRegistry()
	var commands []compileCommand
	for _, n := range p.Nodes {
		if n.Kind != plan.KindCompileSource && n.Kind != plan.KindCompileResource {
			continue
		}
		adapter, ok := registry.ByName(n.Tool)
		if !ok {
			var err error
			adapter, err = registry.Select(targetGOOS, targetArch, n.Kind)
			if err != nil {
				return err
			}
		}
		execPath, err := adapter.ExecutablePath(n.OwningModule, n.Context, n.Kind)
		if err != nil {
			return err
		}
		argv, err := adapter.AssembleCompileArgv(n.SourcePath, n.OutputObjectPath, n.Context)
		if err != nil {
			return err
		}
		commands = append(commands, compileCommand{
			Directory: n.OwningModule.Dir,
			Arguments: append([]string{execPath}, argv...),
			File:      n.SourcePath,
			Output:    n.OutputObjectPath,
		})
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(commands)
}

func cmdGeneratePackageArchive(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("generate package-archive", flag.ExitOnError)
	fset.Usage = usage(fset, generateHelp)
	var (
		goos = fset.String("goos", "", "target OS (default: host)")
		out  = fset.String("o", "", "output archive path (default: <module name>.ebuild-pkg)")
	)
	fset.Parse(args)
	if fset.NArg() != 1 {
		fset.Usage()
		return xerrors.New("generate package-archive: expected exactly one module path")
	}

	_, root, err := loadGraph(fset.Arg(0))
	if err != nil {
		return err
	}

	targetGOOS, _ := hostTarget(*goos, "")
	lo := layoutFor(root, targetGOOS)
	dest := *out
	if dest == "" {
		dest = root.Module.Name + ".ebuild-pkg"
	}

	w, err := archive.Create(dest)
	if err != nil {
		return err
	}
	if err := w.AddTree("bin", lo.BinariesDir()); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}
