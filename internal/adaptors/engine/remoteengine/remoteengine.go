// Package remoteengine runs the driver against an engine served over gRPC.
package remoteengine

import (
	"context"
	"errors"
	"io"

	"github.com/samber/mo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"gitlab.com/pietroski-software-company/golang/devex/errorsx"
	"gitlab.com/pietroski-software-company/golang/devex/options"
	"gitlab.com/pietroski-software-company/golang/devex/slogx"
	"gitlab.com/pietroski-software-company/golang/devex/tracer"

	grpc_transport "gitlab.com/pietroski-software-company/lightning-db-driver/internal/adaptors/transport/grpc"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	index_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/index"
	operation_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/operation"
	query_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/query"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

var (
	_ engine.Engine           = (*RemoteEngine)(nil)
	_ engine.ExecutionRequest = (*request)(nil)

	ErrMissingAddress  = errorsx.New("remote engine address is required")
	ErrNoTerminalEvent = errorsx.New("record stream closed without terminal event")
	ErrRemoteExecution = errorsx.New("remote execution failed")
)

type RemoteEngine struct {
	logger slogx.SLogger
	tracer tracer.Tracer

	address  string
	dialOpts []grpc.DialOption
	conn     *grpc.ClientConn
}

func New(ctx context.Context, opts ...options.Option) (*RemoteEngine, error) {
	e := &RemoteEngine{
		logger: slogx.New(),
		tracer: tracer.New(),
	}
	options.ApplyOptions(e, opts...)

	if e.address == "" {
		e.logger.Error(ctx, "no remote engine address")
		return nil, ErrMissingAddress
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(grpc_transport.CodecName)),
		grpc.WithChainUnaryInterceptor(grpc_transport.UnaryClientTraceInterceptor(e.tracer)),
		grpc.WithChainStreamInterceptor(grpc_transport.StreamClientTraceInterceptor(e.tracer)),
	}, e.dialOpts...)

	conn, err := grpc.NewClient(e.address, dialOpts...)
	if err != nil {
		e.logger.Error(ctx, "failed to create remote engine client", "address", e.address, "error", err)
		return nil, errorsx.Wrapf(err, "failed to create remote engine client for %s", e.address)
	}
	e.conn = conn

	return e, nil
}

func (e *RemoteEngine) Close() error {
	return e.conn.Close()
}

func (e *RemoteEngine) NewRequest(
	_ context.Context,
	namespace, set string,
	opts *query_models.Options,
) (engine.ExecutionRequest, error) {
	if namespace == "" {
		return nil, errs.ErrInvalidNamespace
	}
	if opts == nil {
		opts = query_models.DefaultOptions()
	}

	return &request{
		engine:    e,
		namespace: namespace,
		set:       set,
		opts:      opts,
	}, nil
}

func (e *RemoteEngine) Operate(
	ctx context.Context,
	key *record_models.Key,
	ops []operation_models.Descriptor,
	metadata mo.Option[*operation_models.Metadata],
	policy mo.Option[*operation_models.Policy],
	callback operation_models.Callback,
) {
	req := &grpc_transport.OperateRequest{
		Key:      key,
		Ops:      ops,
		Metadata: metadata.OrEmpty(),
		Policy:   policy.OrEmpty(),
	}

	go func() {
		resp := &grpc_transport.OperateResponse{}
		if err := e.conn.Invoke(ctx, grpc_transport.OperateMethod, req, resp); err != nil {
			callback(nil, errorsx.Wrap(err, "remote operate failed"))
			return
		}
		if err := grpc_transport.FromWireError(resp.Err); err != nil {
			callback(nil, err)
			return
		}

		callback(grpc_transport.NormalizeRecord(resp.Record), nil)
	}()
}

func (e *RemoteEngine) IndexCreate(
	ctx context.Context,
	req *index_models.Request,
	callback index_models.Callback,
) {
	go func() {
		resp := &grpc_transport.IndexCreateResponse{}
		if err := e.conn.Invoke(ctx, grpc_transport.IndexCreateMethod,
			&grpc_transport.IndexCreateRequest{Request: req}, resp); err != nil {
			callback(errorsx.Wrap(err, "remote index create failed"))
			return
		}

		callback(grpc_transport.FromWireError(resp.Err))
	}()
}

type request struct {
	engine    *RemoteEngine
	namespace string
	set       string
	opts      *query_models.Options
}

func (r *request) IsQuery() bool                  { return r.opts.IsQuery() }
func (r *request) HasUDF() bool                   { return r.opts.HasUDF() }
func (r *request) Namespace() string              { return r.namespace }
func (r *request) Set() string                    { return r.set }
func (r *request) Options() *query_models.Options { return r.opts }

func (r *request) Foreach(
	ctx context.Context,
	onResult engine.RecordCallback,
	onError engine.ErrorCallback,
	onEnd engine.EndCallback,
) {
	go func() {
		if err := r.foreach(ctx, onResult, onEnd); err != nil {
			onError(err)
		}
	}()
}

// foreach relays the event stream. It returns nil only after onEnd fired.
func (r *request) foreach(
	ctx context.Context,
	onResult engine.RecordCallback,
	onEnd engine.EndCallback,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := r.engine.conn.NewStream(ctx, grpc_transport.ForeachStreamDesc, grpc_transport.ForeachMethod)
	if err != nil {
		return errorsx.Wrap(err, "failed to open remote record stream")
	}
	if err = stream.SendMsg(&grpc_transport.ForeachRequest{
		Namespace:      r.namespace,
		Set:            r.set,
		Options:        r.opts,
		DeliverRecords: onResult != nil,
	}); err != nil {
		return errorsx.Wrap(err, "failed to send remote request")
	}
	if err = stream.CloseSend(); err != nil {
		return errorsx.Wrap(err, "failed to send remote request")
	}

	for {
		ev := &grpc_transport.Event{}
		if err = stream.RecvMsg(ev); err != nil {
			if errors.Is(err, io.EOF) {
				return ErrNoTerminalEvent
			}

			return errorsx.Wrap(err, "remote record stream failed")
		}

		switch ev.Type {
		case grpc_transport.DataEvent:
			if onResult != nil {
				onResult(grpc_transport.NormalizeRecord(ev.Record))
			}
		case grpc_transport.ErrorEvent:
			if err = grpc_transport.FromWireError(ev.Err); err == nil {
				err = ErrRemoteExecution
			}

			return err
		case grpc_transport.EndEvent:
			payload := mo.None[uint64]()
			if ev.HasScanID {
				payload = mo.Some(ev.ScanID)
			}
			onEnd(payload)

			return nil
		}
	}
}

func (r *request) QueryInfo(
	ctx context.Context,
	scanID uint64,
	callback query_models.InfoCallback,
) {
	go func() {
		resp := &grpc_transport.QueryInfoResponse{}
		if err := r.engine.conn.Invoke(ctx, grpc_transport.QueryInfoMethod, &grpc_transport.QueryInfoRequest{
			Namespace: r.namespace,
			Set:       r.set,
			Options:   r.opts,
			ScanID:    scanID,
		}, resp); err != nil {
			callback(nil, errorsx.Wrap(err, "remote query info failed"))
			return
		}
		if err := grpc_transport.FromWireError(resp.Err); err != nil {
			callback(nil, err)
			return
		}

		callback(resp.Info, nil)
	}()
}
