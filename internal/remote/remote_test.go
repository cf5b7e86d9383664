package remote

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/ebuild-dev/ebuild/internal/rpcpb"
	"google.golang.org/grpc"
)

func startWorker(t *testing.T) string {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "worker.sock")
	lis, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatal(err)
	}
	s := grpc.NewServer()
	rpcpb.RegisterRemoteExecutorServer(s, Worker{})
	go s.Serve(lis)
	t.Cleanup(s.Stop)
	return sock
}

func TestClientRunRoundTrip(t *testing.T) {
	sock := startWorker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, sock)
	if err != nil {
		t.Fatal(err)
	}
	stdout, _, err := c.Run(ctx, t.TempDir(), "/bin/echo", []string{"hello"})
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "hello\n" {
		t.Fatalf("got stdout %q, want %q", stdout, "hello\n")
	}
}

func TestClientRunReportsNonZeroExit(t *testing.T) {
	sock := startWorker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, sock)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Run(ctx, t.TempDir(), "/bin/false", nil); err == nil {
		t.Fatal("expected an error for a nonzero exit status")
	}
}
