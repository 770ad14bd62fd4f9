package ltng_client

import (
	"context"
	"sync/atomic"

	"github.com/samber/mo"

	"gitlab.com/pietroski-software-company/golang/devex/slogx"
	"gitlab.com/pietroski-software-company/golang/devex/tracer"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	query_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/query"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/stream"
)

type executionMode int

const (
	foregroundScan executionMode = iota
	backgroundScan
	foregroundQuery
	queryUDF
)

func (m executionMode) String() string {
	switch m {
	case foregroundScan:
		return "foreground-scan"
	case backgroundScan:
		return "background-scan"
	case foregroundQuery:
		return "foreground-query"
	case queryUDF:
		return "query-udf"
	default:
		return "unknown"
	}
}

func classify(isQuery, hasUDF bool) executionMode {
	switch {
	case isQuery && hasUDF:
		return queryUDF
	case isQuery:
		return foregroundQuery
	case hasUDF:
		return backgroundScan
	default:
		return foregroundScan
	}
}

type (
	// Query is a scan or query request ready to be executed.
	// It is single use: Execute may only succeed once.
	Query struct {
		req engine.ExecutionRequest

		logger slogx.SLogger
		tracer tracer.Tracer

		executed  *atomic.Bool
		hasScanID *atomic.Bool
		scanID    *atomic.Uint64
	}
)

// Query creates a scan or query request on namespace and set.
// Requests carrying filters or an aggregation are queries; nil opts run a
// plain scan.
func (c *Client) Query(
	ctx context.Context,
	namespace, set string,
	opts *query_models.Options,
) (*Query, error) {
	if opts == nil {
		opts = query_models.DefaultOptions()
	}

	req, err := c.engine.NewRequest(ctx, namespace, set, opts)
	if err != nil {
		c.logger.Error(ctx, "error creating execution request",
			"namespace", namespace, "set", set, "error", err)

		return nil, err
	}

	return newQuery(req, c.logger, c.tracer), nil
}

func newQuery(
	req engine.ExecutionRequest,
	logger slogx.SLogger,
	t tracer.Tracer,
) *Query {
	return &Query{
		req:       req,
		logger:    logger,
		tracer:    t,
		executed:  &atomic.Bool{},
		hasScanID: &atomic.Bool{},
		scanID:    &atomic.Uint64{},
	}
}

func (q *Query) Namespace() string              { return q.req.Namespace() }
func (q *Query) Set() string                    { return q.req.Set() }
func (q *Query) IsQuery() bool                  { return q.req.IsQuery() }
func (q *Query) HasUDF() bool                   { return q.req.HasUDF() }
func (q *Query) Options() *query_models.Options { return q.req.Options() }

// Execute starts the request and returns the stream its results arrive on.
//
// Foreground scans and queries deliver every record; background scans
// deliver none and end with the scan id. Queries with a UDF are rejected
// with errs.ErrUnsupportedOperation before the engine is reached.
//
// The engine is driven from one goroutine started here, since the stream
// hands events over unbuffered and the caller must be free to consume them.
// That goroutine runs under the stream context: a caller that stops reading
// before the terminal event must call Close on the stream to stop it.
func (q *Query) Execute(ctx context.Context) (*stream.RecordStream, error) {
	mode := classify(q.IsQuery(), q.HasUDF())
	if mode == queryUDF {
		return nil, errs.ErrUnsupportedOperation
	}

	ctx, err := q.tracer.Trace(ctx)
	if err != nil {
		q.logger.Error(ctx, "failed to trace execution", "error", err)

		return nil, err
	}

	if !q.executed.CompareAndSwap(false, true) {
		return nil, errs.ErrStreamReused
	}

	rs := stream.New(ctx, stream.WithLogger(q.logger))
	rs.Start()
	ctx = rs.Context()

	var onResult engine.RecordCallback = func(rec *record_models.Record) {
		rs.PushData(rec)
	}
	onError := func(err error) {
		q.logger.Error(ctx, "execution failed",
			"namespace", q.Namespace(), "set", q.Set(), "mode", mode.String(), "error", err)
		rs.PushError(err)
	}
	onEnd := func(_ mo.Option[uint64]) {
		rs.PushEnd(mo.None[uint64]())
	}

	if mode == backgroundScan {
		// background scans return no records, only the job id.
		onResult = nil
		onEnd = func(payload mo.Option[uint64]) {
			if scanID, ok := payload.Get(); ok {
				q.scanID.Store(scanID)
				q.hasScanID.Store(true)
			}

			rs.PushEnd(payload)
		}
	}

	q.logger.Debug(ctx, "executing request",
		"namespace", q.Namespace(), "set", q.Set(), "mode", mode.String())
	go q.req.Foreach(ctx, onResult, onError, onEnd)

	return rs, nil
}

// Info fetches the status of a background job by its scan id.
func (q *Query) Info(
	ctx context.Context,
	scanID uint64,
	callback query_models.InfoCallback,
) {
	q.req.QueryInfo(ctx, scanID, callback)
}

// ScanID returns the id of the background job started by Execute,
// once the stream has ended.
func (q *Query) ScanID() mo.Option[uint64] {
	if !q.hasScanID.Load() {
		return mo.None[uint64]()
	}

	return mo.Some(q.scanID.Load())
}
