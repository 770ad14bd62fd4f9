package grpc_transport

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName = "ltngdriver.v1.Engine"

	ForeachMethod     = "/" + ServiceName + "/Foreach"
	OperateMethod     = "/" + ServiceName + "/Operate"
	IndexCreateMethod = "/" + ServiceName + "/IndexCreate"
	QueryInfoMethod   = "/" + ServiceName + "/QueryInfo"
)

// EngineServer is the server side of the engine service.
type EngineServer interface {
	Foreach(req *ForeachRequest, stream grpc.ServerStream) error
	Operate(ctx context.Context, req *OperateRequest) (*OperateResponse, error)
	IndexCreate(ctx context.Context, req *IndexCreateRequest) (*IndexCreateResponse, error)
	QueryInfo(ctx context.Context, req *QueryInfoRequest) (*QueryInfoResponse, error)
}

// ForeachStreamDesc describes the server stream of the Foreach method.
var ForeachStreamDesc = &grpc.StreamDesc{
	StreamName:    "Foreach",
	ServerStreams: true,
}

var engineServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EngineServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Operate",
			Handler:    operateHandler,
		},
		{
			MethodName: "IndexCreate",
			Handler:    indexCreateHandler,
		},
		{
			MethodName: "QueryInfo",
			Handler:    queryInfoHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Foreach",
			Handler:       foreachHandler,
			ServerStreams: true,
		},
	},
	Metadata: "ltngdriver/v1/engine",
}

func RegisterEngineServer(s grpc.ServiceRegistrar, srv EngineServer) {
	s.RegisterService(&engineServiceDesc, srv)
}

func foreachHandler(srv any, stream grpc.ServerStream) error {
	req := &ForeachRequest{}
	if err := stream.RecvMsg(req); err != nil {
		return err
	}

	return srv.(EngineServer).Foreach(req, stream)
}

func operateHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	req := &OperateRequest{}
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).Operate(ctx, req)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: OperateMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServer).Operate(ctx, req.(*OperateRequest))
	}

	return interceptor(ctx, req, info, handler)
}

func indexCreateHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	req := &IndexCreateRequest{}
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).IndexCreate(ctx, req)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: IndexCreateMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServer).IndexCreate(ctx, req.(*IndexCreateRequest))
	}

	return interceptor(ctx, req, info, handler)
}

func queryInfoHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	req := &QueryInfoRequest{}
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).QueryInfo(ctx, req)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: QueryInfoMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServer).QueryInfo(ctx, req.(*QueryInfoRequest))
	}

	return interceptor(ctx, req, info, handler)
}
