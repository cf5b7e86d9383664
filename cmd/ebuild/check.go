package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/xerrors"
)

const checkHelp = `ebuild check <circular-dependencies|print-dependencies> [-flags] <module.textproto>

circular-dependencies reports whether the module graph rooted at the given
module contains a cycle, printing the cycle path if one exists (spec §4.3).

print-dependencies prints the dependency tree rooted at the given module,
marking any node that would reopen an ancestor as "(circular dependency)"
rather than recursing into it again.
`

func cmdCheck(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, checkHelp)
		return xerrors.New("check: expected a sub-verb (circular-dependencies or print-dependencies)")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "circular-dependencies":
		return cmdCheckCircular(ctx, rest)
	case "print-dependencies":
		return cmdCheckPrintDeps(ctx, rest)
	default:
		fmt.Fprintln(os.Stderr, checkHelp)
		return xerrors.Errorf("check: unknown sub-verb %q", sub)
	}
}

func cmdCheckCircular(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("check circular-dependencies", flag.ExitOnError)
	fset.Usage = usage(fset, checkHelp)
	fset.Parse(args)
	if fset.NArg() != 1 {
		fset.Usage()
		return xerrors.New("check circular-dependencies: expected exactly one module path")
	}

	g, _, err := loadGraph(fset.Arg(0))
	if err != nil {
		return err
	}
	if !g.HasCycle() {
		fmt.Println("no circular dependency found")
		return nil
	}
	fmt.Println("Circular dependency detected:")
	for i, n := range g.CyclePath() {
		if i > 0 {
			fmt.Print(" -> ")
		}
		fmt.Print(n.Name())
	}
	fmt.Println()
	return xerrors.New("circular dependency detected")
}

func cmdCheckPrintDeps(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("check print-dependencies", flag.ExitOnError)
	fset.Usage = usage(fset, checkHelp)
	fset.Parse(args)
	if fset.NArg() != 1 {
		fset.Usage()
		return xerrors.New("check print-dependencies: expected exactly one module path")
	}

	g, root, err := loadGraph(fset.Arg(0))
	if err != nil {
		return err
	}
	fmt.Print(g.DependencyTreeString(root, nil))
	return nil
}
