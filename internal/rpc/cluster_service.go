package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ClusterServiceName is the fully-qualified name of the service served by coordinators
const ClusterServiceName = "showframe.rpc.ClusterService"

// ClusterServiceServer is implemented by coordinators, to track the workers of a cluster
type ClusterServiceServer interface {
	// RegisterWorker adds a worker to the cluster, returning the coordinator's time
	RegisterWorker(context.Context, *structpb.Struct) (*wrapperspb.Int64Value, error)
	// Log records a message from a worker
	Log(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// RegisterClusterServiceServer registers a ClusterServiceServer with a gRPC server
func RegisterClusterServiceServer(s grpc.ServiceRegistrar, srv ClusterServiceServer) {
	s.RegisterService(&ClusterServiceDesc, srv)
}

// ClusterServiceClient calls a coordinator's ClusterService
type ClusterServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewClusterServiceClient is a factory for ClusterServiceClients
func NewClusterServiceClient(cc grpc.ClientConnInterface) *ClusterServiceClient {
	return &ClusterServiceClient{cc: cc}
}

// RegisterWorker registers a worker with the coordinator
func (c *ClusterServiceClient) RegisterWorker(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, "/"+ClusterServiceName+"/RegisterWorker", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Log sends a log message to the coordinator
func (c *ClusterServiceClient) Log(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+ClusterServiceName+"/Log", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func clusterRegisterWorkerHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClusterServiceServer).RegisterWorker(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ClusterServiceName + "/RegisterWorker"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ClusterServiceServer).RegisterWorker(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func clusterLogHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClusterServiceServer).Log(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ClusterServiceName + "/Log"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ClusterServiceServer).Log(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ClusterServiceDesc describes the ClusterService
var ClusterServiceDesc = grpc.ServiceDesc{
	ServiceName: ClusterServiceName,
	HandlerType: (*ClusterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterWorker", Handler: clusterRegisterWorkerHandler},
		{MethodName: "Log", Handler: clusterLogHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "showframe/rpc/cluster",
}
