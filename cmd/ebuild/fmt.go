package main

import (
	"context"
	"flag"
	"io/ioutil"
	"os"

	"github.com/ebuild-dev/ebuild/internal/modpb"
	"golang.org/x/xerrors"
)

const fmtHelp = `ebuild fmt [-flags] <module.textproto>

Canonicalize a module description's on-disk formatting, the same
normalization WriteModuleFile applies after a programmatic edit.
`

func cmdFmt(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("fmt", flag.ExitOnError)
	fset.Usage = usage(fset, fmtHelp)
	write := fset.Bool("w", false, "write the formatted result back to the file instead of stdout")
	fset.Parse(args)
	if fset.NArg() != 1 {
		fset.Usage()
		return xerrors.New("fmt: expected exactly one module path")
	}
	path := fset.Arg(0)

	text, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	formatted, err := modpb.Format(text)
	if err != nil {
		return xerrors.Errorf("fmt %s: %w", path, err)
	}
	if *write {
		return ioutil.WriteFile(path, formatted, 0o644)
	}
	_, err = os.Stdout.Write(formatted)
	return err
}
