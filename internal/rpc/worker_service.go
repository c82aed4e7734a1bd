package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// WorkerServiceName is the fully-qualified name of the service served by workers
const WorkerServiceName = "showframe.rpc.WorkerService"

// WorkerServiceServer is implemented by workers, to execute part of a DataFrame on behalf of a coordinator
type WorkerServiceServer interface {
	// AssignLoaders hands a list of serialized PartitionLoaders to a worker
	AssignLoaders(context.Context, *structpb.ListValue) (*emptypb.Empty, error)
	// Execute runs the DataFrame against every assigned PartitionLoader, returning run statistics
	Execute(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// FetchResults streams the results of Execute, compressed with the named algorithm
	FetchResults(*wrapperspb.StringValue, WorkerServiceFetchResultsServer) error
	// Stop shuts the worker down
	Stop(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

// WorkerServiceFetchResultsServer is the server side of a FetchResults stream
type WorkerServiceFetchResultsServer interface {
	Send(*wrapperspb.BytesValue) error
	grpc.ServerStream
}

type workerServiceFetchResultsServer struct {
	grpc.ServerStream
}

func (x *workerServiceFetchResultsServer) Send(m *wrapperspb.BytesValue) error {
	return x.ServerStream.SendMsg(m)
}

// WorkerServiceFetchResultsClient is the client side of a FetchResults stream
type WorkerServiceFetchResultsClient interface {
	Recv() (*wrapperspb.BytesValue, error)
	grpc.ClientStream
}

type workerServiceFetchResultsClient struct {
	grpc.ClientStream
}

func (x *workerServiceFetchResultsClient) Recv() (*wrapperspb.BytesValue, error) {
	m := new(wrapperspb.BytesValue)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// RegisterWorkerServiceServer registers a WorkerServiceServer with a gRPC server
func RegisterWorkerServiceServer(s grpc.ServiceRegistrar, srv WorkerServiceServer) {
	s.RegisterService(&WorkerServiceDesc, srv)
}

// WorkerServiceClient calls a worker's WorkerService
type WorkerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewWorkerServiceClient is a factory for WorkerServiceClients
func NewWorkerServiceClient(cc grpc.ClientConnInterface) *WorkerServiceClient {
	return &WorkerServiceClient{cc: cc}
}

// AssignLoaders hands serialized PartitionLoaders to the worker
func (c *WorkerServiceClient) AssignLoaders(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+WorkerServiceName+"/AssignLoaders", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Execute asks the worker to run its assigned PartitionLoaders
func (c *WorkerServiceClient) Execute(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+WorkerServiceName+"/Execute", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchResults opens a stream of results from the worker
func (c *WorkerServiceClient) FetchResults(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (WorkerServiceFetchResultsClient, error) {
	stream, err := c.cc.NewStream(ctx, &WorkerServiceDesc.Streams[0], "/"+WorkerServiceName+"/FetchResults", opts...)
	if err != nil {
		return nil, err
	}
	x := &workerServiceFetchResultsClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// Stop asks the worker to shut down
func (c *WorkerServiceClient) Stop(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+WorkerServiceName+"/Stop", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func workerAssignLoadersHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkerServiceServer).AssignLoaders(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + WorkerServiceName + "/AssignLoaders"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(WorkerServiceServer).AssignLoaders(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}

func workerExecuteHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkerServiceServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + WorkerServiceName + "/Execute"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(WorkerServiceServer).Execute(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func workerStopHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkerServiceServer).Stop(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + WorkerServiceName + "/Stop"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(WorkerServiceServer).Stop(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func workerFetchResultsHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(WorkerServiceServer).FetchResults(m, &workerServiceFetchResultsServer{stream})
}

// WorkerServiceDesc describes the WorkerService
var WorkerServiceDesc = grpc.ServiceDesc{
	ServiceName: WorkerServiceName,
	HandlerType: (*WorkerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AssignLoaders", Handler: workerAssignLoadersHandler},
		{MethodName: "Execute", Handler: workerExecuteHandler},
		{MethodName: "Stop", Handler: workerStopHandler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "FetchResults",
			Handler:       workerFetchResultsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "showframe/rpc/worker",
}
