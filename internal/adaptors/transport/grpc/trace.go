package grpc_transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	grpcmiddlewares "gitlab.com/pietroski-software-company/golang/devex/middlewares/gRPC"
	"gitlab.com/pietroski-software-company/golang/devex/tracer"
)

// TraceIDMetadataKey carries the caller's trace id across the wire.
const TraceIDMetadataKey = "x-ltng-trace-id"

// OutgoingTraceContext copies the trace id of ctx into its outgoing metadata.
func OutgoingTraceContext(ctx context.Context, t tracer.Tracer) context.Context {
	info, ok := t.GetTraceInfo(ctx)
	if !ok {
		return ctx
	}

	md, ctx := grpcmiddlewares.CtxOutgoingMetadataExtractor(ctx)
	md = md.Copy()
	md.Set(TraceIDMetadataKey, info.ID.String())

	return metadata.NewOutgoingContext(ctx, md)
}

// IncomingTraceContext traces ctx and records the caller's trace id, when
// sent, in the trace metadata.
func IncomingTraceContext(ctx context.Context, t tracer.Tracer) context.Context {
	traced, err := t.Trace(ctx)
	if err != nil {
		return ctx
	}

	md, traced := grpcmiddlewares.CtxIncomingMetadataExtractor(traced)
	if ids := md.Get(TraceIDMetadataKey); len(ids) > 0 {
		if wrapped, err := t.Wrap(traced, tracer.Metadata{TraceIDMetadataKey: ids[0]}); err == nil {
			traced = wrapped
		}
	}

	return traced
}

// RemoteTraceID returns the caller's trace id recorded by IncomingTraceContext.
func RemoteTraceID(ctx context.Context, t tracer.Tracer) (string, bool) {
	info, ok := t.GetTraceInfo(ctx)
	if !ok {
		return "", false
	}

	id, ok := info.Metadata[TraceIDMetadataKey].(string)
	return id, ok
}

func UnaryServerTraceInterceptor(t tracer.Tracer) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		_ *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		return handler(IncomingTraceContext(ctx, t), req)
	}
}

func StreamServerTraceInterceptor(t tracer.Tracer) grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		_ *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		return handler(srv, &tracedServerStream{
			ServerStream: ss,
			ctx:          IncomingTraceContext(ss.Context(), t),
		})
	}
}

func UnaryClientTraceInterceptor(t tracer.Tracer) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		return invoker(OutgoingTraceContext(ctx, t), method, req, reply, cc, opts...)
	}
}

func StreamClientTraceInterceptor(t tracer.Tracer) grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		return streamer(OutgoingTraceContext(ctx, t), desc, cc, method, opts...)
	}
}

type tracedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *tracedServerStream) Context() context.Context {
	return s.ctx
}
