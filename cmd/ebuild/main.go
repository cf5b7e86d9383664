// Command ebuild is a C/C++ build orchestrator: it resolves a module
// graph, constructs an incremental build plan, and executes it through a
// toolchain.Adapter (spec §1).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	distri "github.com/ebuild-dev/ebuild"
)

type cmd struct {
	fn func(ctx context.Context, args []string) error
}

func funcmain() error {
	flag.Parse()

	verbs := map[string]cmd{
		"build":    {cmdBuild},
		"check":    {cmdCheck},
		"generate": {cmdGenerate},
		"fmt":      {cmdFmt},
	}

	args := flag.Args()
	verb := "build"
	if len(args) > 0 {
		verb, args = args[0], args[1:]
	}

	if verb == "help" {
		fmt.Fprintln(os.Stderr, "Usage: ebuild <verb> [flags]")
		fmt.Fprintln(os.Stderr, "\nVerbs:")
		for name := range verbs {
			fmt.Fprintf(os.Stderr, "  %s\n", name)
		}
		return nil
	}

	ctx, canc := distri.InterruptibleContext()
	defer canc()

	v, ok := verbs[verb]
	if !ok {
		return fmt.Errorf("unknown verb %q; try \"ebuild help\"", verb)
	}
	return v.fn(ctx, args)
}

func main() {
	log.SetFlags(0)
	if err := funcmain(); err != nil {
		log.Fatal(err)
	}
}
