package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "bytediff.v1.Diff"

// Full method names.
const (
	MethodSaveLeft   = "/" + ServiceName + "/SaveLeft"
	MethodSaveRight  = "/" + ServiceName + "/SaveRight"
	MethodGetDiff    = "/" + ServiceName + "/GetDiff"
	MethodDeleteDiff = "/" + ServiceName + "/DeleteDiff"
)

// DiffServer is the server API for the Diff service.
//
// Messages are protobuf well-known types (see package convert for their
// layout), so the service is described here by hand.
type DiffServer interface {
	SaveLeft(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	SaveRight(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	GetDiff(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	DeleteDiff(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
}

// UnimplementedDiffServer can be embedded to have forward compatible implementations.
type UnimplementedDiffServer struct{}

func (UnimplementedDiffServer) SaveLeft(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SaveLeft not implemented")
}
func (UnimplementedDiffServer) SaveRight(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SaveRight not implemented")
}
func (UnimplementedDiffServer) GetDiff(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDiff not implemented")
}
func (UnimplementedDiffServer) DeleteDiff(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteDiff not implemented")
}

// RegisterDiffServer registers the Diff service on a gRPC server.
func RegisterDiffServer(s grpc.ServiceRegistrar, srv DiffServer) {
	s.RegisterService(&Diff_ServiceDesc, srv)
}

// DiffClient is the client API for the Diff service.
type DiffClient interface {
	SaveLeft(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	SaveRight(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	GetDiff(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteDiff(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type diffClient struct{ cc grpc.ClientConnInterface }

// NewDiffClient wraps a connection in a DiffClient.
func NewDiffClient(cc grpc.ClientConnInterface) DiffClient { return &diffClient{cc: cc} }

func (c *diffClient) SaveLeft(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodSaveLeft, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diffClient) SaveRight(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodSaveRight, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diffClient) GetDiff(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetDiff, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diffClient) DeleteDiff(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodDeleteDiff, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Diff_SaveLeft_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DiffServer).SaveLeft(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodSaveLeft}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DiffServer).SaveLeft(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Diff_SaveRight_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DiffServer).SaveRight(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodSaveRight}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DiffServer).SaveRight(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Diff_GetDiff_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DiffServer).GetDiff(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetDiff}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DiffServer).GetDiff(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func _Diff_DeleteDiff_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DiffServer).DeleteDiff(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodDeleteDiff}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DiffServer).DeleteDiff(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

// Diff_ServiceDesc is the grpc.ServiceDesc for the Diff service.
var Diff_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DiffServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SaveLeft", Handler: _Diff_SaveLeft_Handler},
		{MethodName: "SaveRight", Handler: _Diff_SaveRight_Handler},
		{MethodName: "GetDiff", Handler: _Diff_GetDiff_Handler},
		{MethodName: "DeleteDiff", Handler: _Diff_DeleteDiff_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bytediff/v1/diff.proto",
}
