package grpc_transport

import (
	"context"
	"sync"

	"github.com/samber/mo"
	"google.golang.org/grpc"

	"gitlab.com/pietroski-software-company/golang/devex/options"
	"gitlab.com/pietroski-software-company/golang/devex/slogx"
	"gitlab.com/pietroski-software-company/golang/devex/tracer"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	operation_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/operation"
	query_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/query"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

var _ EngineServer = (*Server)(nil)

// Server exposes an engine.Engine over gRPC. Engine failures travel in the
// responses; gRPC errors are left to transport failures.
type Server struct {
	engine engine.Engine
	logger slogx.SLogger
	tracer tracer.Tracer
}

func NewServer(ctx context.Context, opts ...options.Option) (*Server, error) {
	s := &Server{
		logger: slogx.New(),
		tracer: tracer.New(),
	}
	options.ApplyOptions(s, opts...)

	if s.engine == nil {
		s.logger.Error(ctx, "no engine to serve")
		return nil, errs.ErrClientCreation
	}

	return s, nil
}

func (s *Server) Foreach(req *ForeachRequest, stream grpc.ServerStream) error {
	ctx := stream.Context()
	traceID, _ := RemoteTraceID(ctx, s.tracer)

	execReq, err := s.engine.NewRequest(ctx, req.Namespace, req.Set, req.Options)
	if err != nil {
		s.logger.Error(ctx, "failed to create execution request",
			"namespace", req.Namespace, "set", req.Set, "trace_id", traceID, "error", err)

		return stream.SendMsg(&Event{Type: ErrorEvent, Err: ToWireError(err)})
	}

	var (
		mtx      sync.Mutex
		finished bool
		sendErr  error
		done     = make(chan struct{})
	)
	send := func(ev *Event, terminal bool) {
		mtx.Lock()
		defer mtx.Unlock()
		if finished {
			return
		}

		if sendErr == nil {
			sendErr = stream.SendMsg(ev)
		}
		if terminal {
			finished = true
			close(done)
		}
	}

	var onResult engine.RecordCallback
	if req.DeliverRecords {
		onResult = func(rec *record_models.Record) {
			send(&Event{Type: DataEvent, Record: rec}, false)
		}
	}

	execReq.Foreach(ctx,
		onResult,
		func(err error) {
			s.logger.Debug(ctx, "execution failed", "trace_id", traceID, "error", err)
			send(&Event{Type: ErrorEvent, Err: ToWireError(err)}, true)
		},
		func(payload mo.Option[uint64]) {
			scanID, ok := payload.Get()
			send(&Event{Type: EndEvent, ScanID: scanID, HasScanID: ok}, true)
		},
	)

	select {
	case <-done:
	case <-ctx.Done():
		mtx.Lock()
		finished = true
		mtx.Unlock()

		return ctx.Err()
	}

	mtx.Lock()
	defer mtx.Unlock()

	return sendErr
}

func (s *Server) Operate(ctx context.Context, req *OperateRequest) (*OperateResponse, error) {
	metadata := mo.None[*operation_models.Metadata]()
	if req.Metadata != nil {
		metadata = mo.Some(req.Metadata)
	}
	policy := mo.None[*operation_models.Policy]()
	if req.Policy != nil {
		policy = mo.Some(req.Policy)
	}

	done := make(chan *OperateResponse, 1)
	s.engine.Operate(ctx, req.Key, req.Ops, metadata, policy,
		func(rec *record_models.Record, err error) {
			done <- &OperateResponse{Record: rec, Err: ToWireError(err)}
		})

	select {
	case resp := <-done:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Server) IndexCreate(ctx context.Context, req *IndexCreateRequest) (*IndexCreateResponse, error) {
	done := make(chan *IndexCreateResponse, 1)
	s.engine.IndexCreate(ctx, req.Request, func(err error) {
		done <- &IndexCreateResponse{Err: ToWireError(err)}
	})

	select {
	case resp := <-done:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Server) QueryInfo(ctx context.Context, req *QueryInfoRequest) (*QueryInfoResponse, error) {
	opts := req.Options
	if opts == nil {
		opts = query_models.DefaultOptions()
	}

	execReq, err := s.engine.NewRequest(ctx, req.Namespace, req.Set, opts)
	if err != nil {
		return &QueryInfoResponse{Err: ToWireError(err)}, nil
	}

	done := make(chan *QueryInfoResponse, 1)
	execReq.QueryInfo(ctx, req.ScanID, func(info *query_models.JobInfo, err error) {
		done <- &QueryInfoResponse{Info: info, Err: ToWireError(err)}
	})

	select {
	case resp := <-done:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
