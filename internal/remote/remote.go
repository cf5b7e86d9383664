// Package remote implements SPEC_FULL.md's supplemental remote-execution
// feature: dispatching a build node's already-assembled argv to an
// ebuild-worker process over gRPC, instead of running it as a local
// subprocess. The transport follows the teacher's own gRPC-over-Unix-
// socket pattern (internal/fuse, internal/install's FUSE control
// connection): grpc.DialContext("unix://"+path, grpc.WithInsecure()).
package remote

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/ebuild-dev/ebuild/internal/executor"
	"github.com/ebuild-dev/ebuild/internal/rpcpb"
	"golang.org/x/xerrors"
	"google.golang.org/grpc"
)

// Client implements executor.Runner by forwarding each invocation to a
// remote ebuild-worker.
type Client struct {
	rpc rpcpb.RemoteExecutorClient
}

var _ executor.Runner = (*Client)(nil)

// Dial connects to an ebuild-worker listening on a Unix socket at path.
func Dial(ctx context.Context, path string) (*Client, error) {
	cc, err := grpc.DialContext(ctx, "unix://"+path, grpc.WithBlock(), grpc.WithInsecure())
	if err != nil {
		return nil, xerrors.Errorf("dialing ebuild-worker at %s: %w", path, err)
	}
	return &Client{rpc: rpcpb.NewRemoteExecutorClient(cc)}, nil
}

// Run implements executor.Runner.
func (c *Client) Run(ctx context.Context, dir, execPath string, argv []string) (stdout, stderr string, err error) {
	req := &rpcpb.ExecuteRequest{Argv: append([]string{execPath}, argv...), Dir: &dir}
	reply, err := c.rpc.Execute(ctx, req)
	if err != nil {
		return "", "", xerrors.Errorf("remote execute: %w", err)
	}
	stdout, stderr = string(reply.GetStdout()), string(reply.GetStderr())
	if reply.GetError() != "" {
		return stdout, stderr, xerrors.New(reply.GetError())
	}
	if reply.GetExitCode() != 0 {
		return stdout, stderr, xerrors.Errorf("remote command exited with status %d", reply.GetExitCode())
	}
	return stdout, stderr, nil
}

// Worker implements rpcpb.RemoteExecutorServer: the ebuild-worker side
// that actually spawns the subprocess a Client asked for.
type Worker struct{}

// Execute runs req.Argv[0] with the rest as arguments, in req.Dir — the
// mirror image of internal/executor's own localRunner, minus the
// incremental-oracle and toolchain-resolution steps the caller already
// performed before dispatching.
func (Worker) Execute(ctx context.Context, req *rpcpb.ExecuteRequest) (*rpcpb.ExecuteReply, error) {
	argv := req.GetArgv()
	if len(argv) == 0 {
		return nil, xerrors.New("empty argv")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = req.GetDir()
	cmd.Env = req.GetEnv()
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout, cmd.Stderr = &outBuf, &errBuf

	reply := &rpcpb.ExecuteReply{}
	exitCode := int32(0)
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = int32(exitErr.ExitCode())
		} else {
			errStr := err.Error()
			reply.Error = &errStr
		}
	}
	reply.ExitCode = &exitCode
	reply.Stdout, reply.Stderr = outBuf.Bytes(), errBuf.Bytes()
	return reply, nil
}
