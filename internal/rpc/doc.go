// Package rpc defines the gRPC services spoken between showframe cluster nodes. Messages are
// protobuf well-known types, so no generated code is required: each service is described by a
// grpc.ServiceDesc written in the shape protoc-gen-go-grpc would produce.
package rpc
