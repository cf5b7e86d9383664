// Command ebuild-worker is the remote execution counterpart of
// internal/remote.Client: it listens on a Unix socket and runs whatever
// argv a connected ebuild -remote client asks it to run.
package main

import (
	"flag"
	"log"
	"net"
	"os"

	distri "github.com/ebuild-dev/ebuild"
	"github.com/ebuild-dev/ebuild/internal/remote"
	"github.com/ebuild-dev/ebuild/internal/rpcpb"
	"golang.org/x/xerrors"
	"google.golang.org/grpc"
)

func funcmain() error {
	sock := flag.String("sock", "", "unix socket path to listen on")
	flag.Parse()
	if *sock == "" {
		return xerrors.New("ebuild-worker: -sock is required")
	}

	_ = os.Remove(*sock) // a stale socket from a previous run must not block Listen
	lis, err := net.Listen("unix", *sock)
	if err != nil {
		return err
	}

	s := grpc.NewServer()
	rpcpb.RegisterRemoteExecutorServer(s, remote.Worker{})

	ctx, canc := distri.InterruptibleContext()
	defer canc()
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	log.Printf("ebuild-worker: listening on %s", *sock)
	return s.Serve(lis)
}

func main() {
	log.SetFlags(0)
	if err := funcmain(); err != nil {
		log.Fatal(err)
	}
}
