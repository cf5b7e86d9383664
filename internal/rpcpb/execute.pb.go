// Code in this file follows the shape protoc-gen-go and protoc-gen-go-grpc
// emit for a proto2 service; maintained by hand rather than generated,
// matching internal/modpb's own hand-maintained classic style — see
// execute.proto alongside it as documentation of record.
//
// Package rpcpb defines the wire types and gRPC service for the
// supplemental RemoteExecutor feature: offloading a single build node's
// toolchain invocation to a worker process, reached over gRPC the same
// way the teacher reaches its FUSE control socket (internal/fuse,
// internal/install) — a Unix socket, unix:// target, grpc.WithInsecure().
package rpcpb

import (
	context "context"

	proto "github.com/golang/protobuf/proto"
	grpc "google.golang.org/grpc"
)

// ExecuteRequest is one build node's fully-assembled invocation: the
// executor has already resolved the toolchain adapter and built argv
// locally, so the worker never needs to know about modules, plans, or
// toolchain families — just "run this argv in this directory".
type ExecuteRequest struct {
	Argv []string `protobuf:"bytes,1,rep,name=argv" json:"argv,omitempty"`
	Dir  *string  `protobuf:"bytes,2,req,name=dir" json:"dir,omitempty"`
	Env  []string `protobuf:"bytes,3,rep,name=env" json:"env,omitempty"`

	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *ExecuteRequest) Reset()         { *m = ExecuteRequest{} }
func (m *ExecuteRequest) String() string { return proto.CompactTextString(m) }
func (*ExecuteRequest) ProtoMessage()    {}

func (m *ExecuteRequest) GetArgv() []string {
	if m != nil {
		return m.Argv
	}
	return nil
}

func (m *ExecuteRequest) GetDir() string {
	if m != nil && m.Dir != nil {
		return *m.Dir
	}
	return ""
}

func (m *ExecuteRequest) GetEnv() []string {
	if m != nil {
		return m.Env
	}
	return nil
}

// ExecuteReply carries the worker's subprocess outcome back verbatim;
// the caller (internal/remote) is the one that interprets ExitCode and
// turns it into an executor.NodeResult.
type ExecuteReply struct {
	ExitCode *int32 `protobuf:"varint,1,req,name=exit_code,json=exitCode" json:"exit_code,omitempty"`
	Stdout   []byte `protobuf:"bytes,2,opt,name=stdout" json:"stdout,omitempty"`
	Stderr   []byte `protobuf:"bytes,3,opt,name=stderr" json:"stderr,omitempty"`
	Error    *string `protobuf:"bytes,4,opt,name=error" json:"error,omitempty"`

	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *ExecuteReply) Reset()         { *m = ExecuteReply{} }
func (m *ExecuteReply) String() string { return proto.CompactTextString(m) }
func (*ExecuteReply) ProtoMessage()    {}

func (m *ExecuteReply) GetExitCode() int32 {
	if m != nil && m.ExitCode != nil {
		return *m.ExitCode
	}
	return 0
}

func (m *ExecuteReply) GetStdout() []byte {
	if m != nil {
		return m.Stdout
	}
	return nil
}

func (m *ExecuteReply) GetStderr() []byte {
	if m != nil {
		return m.Stderr
	}
	return nil
}

func (m *ExecuteReply) GetError() string {
	if m != nil && m.Error != nil {
		return *m.Error
	}
	return ""
}

// RemoteExecutorClient is the client API for RemoteExecutor service.
type RemoteExecutorClient interface {
	Execute(ctx context.Context, in *ExecuteRequest, opts ...grpc.CallOption) (*ExecuteReply, error)
}

type remoteExecutorClient struct {
	cc *grpc.ClientConn
}

// NewRemoteExecutorClient builds a client over an established connection
// (e.g. grpc.DialContext(ctx, "unix://"+sockPath, grpc.WithInsecure())).
func NewRemoteExecutorClient(cc *grpc.ClientConn) RemoteExecutorClient {
	return &remoteExecutorClient{cc}
}

func (c *remoteExecutorClient) Execute(ctx context.Context, in *ExecuteRequest, opts ...grpc.CallOption) (*ExecuteReply, error) {
	out := new(ExecuteReply)
	if err := c.cc.Invoke(ctx, "/rpcpb.RemoteExecutor/Execute", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoteExecutorServer is the server API for RemoteExecutor service.
type RemoteExecutorServer interface {
	Execute(context.Context, *ExecuteRequest) (*ExecuteReply, error)
}

// RegisterRemoteExecutorServer attaches srv to s under the RemoteExecutor
// service name.
func RegisterRemoteExecutorServer(s *grpc.Server, srv RemoteExecutorServer) {
	s.RegisterService(&remoteExecutorServiceDesc, srv)
}

func remoteExecutorExecuteHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ExecuteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RemoteExecutorServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/rpcpb.RemoteExecutor/Execute",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RemoteExecutorServer).Execute(ctx, req.(*ExecuteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var remoteExecutorServiceDesc = grpc.ServiceDesc{
	ServiceName: "rpcpb.RemoteExecutor",
	HandlerType: (*RemoteExecutorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Execute",
			Handler:    remoteExecutorExecuteHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "execute.proto",
}
