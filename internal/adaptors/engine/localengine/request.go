package localengine

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"gitlab.com/pietroski-software-company/golang/devex/errorsx"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	index_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/index"
	query_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/query"
)

var _ engine.ExecutionRequest = (*request)(nil)

type request struct {
	id        string
	engine    *LocalEngine
	namespace string
	set       string
	opts      *query_models.Options
}

// NewRequest creates a scan or query request. A missing set scans the whole
// namespace and nil opts fall back to the defaults.
func (e *LocalEngine) NewRequest(
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

	for idx, f := range opts.Filters {
		if f == nil || f.Bin == "" {
			return nil, errorsx.Wrapf(errs.ErrInvalidFilter, "filter %d has no bin", idx)
		}

		if f.IndexType == index_models.Geo2DSphere {
			if _, err := e.parseGeometry(f.Value); err != nil {
				return nil, errorsx.Wrapf(errs.ErrInvalidFilter, "filter %d: %v", idx, err)
			}
		}
	}

	return &request{
		id:        uuid.NewString(),
		engine:    e,
		namespace: namespace,
		set:       set,
		opts:      opts,
	}, nil
}

func (r *request) IsQuery() bool                  { return r.opts.IsQuery() }
func (r *request) HasUDF() bool                   { return r.opts.HasUDF() }
func (r *request) Namespace() string              { return r.namespace }
func (r *request) Set() string                    { return r.set }
func (r *request) Options() *query_models.Options { return r.opts }

// Foreach runs the request asynchronously.
func (r *request) Foreach(
	ctx context.Context,
	onResult engine.RecordCallback,
	onError engine.ErrorCallback,
	onEnd engine.EndCallback,
) {
	if !r.engine.async(func() {
		r.run(ctx, onResult, onError, onEnd)
	}) {
		onError(errs.ErrEngineClosed)
	}
}

func (r *request) run(
	ctx context.Context,
	onResult engine.RecordCallback,
	onError engine.ErrorCallback,
	onEnd engine.EndCallback,
) {
	e := r.engine
	e.logger.Debug(ctx, "running request",
		"request_id", r.id, "namespace", r.namespace, "set", r.set,
		"query", r.IsQuery(), "udf", r.HasUDF())

	var err error
	switch {
	case r.IsQuery() && r.HasUDF():
		err = errs.ErrUnsupportedOperation
	case r.opts.Aggregation != nil:
		err = r.aggregate(ctx, onResult)
	case r.IsQuery():
		err = r.foreground(ctx, onResult)
	case r.HasUDF():
		// background scans end as soon as the job is registered.
		err = r.background(ctx, onEnd)
		if err == nil {
			return
		}
	default:
		err = r.foreground(ctx, onResult)
	}

	if err != nil {
		onError(err)
		return
	}

	onEnd(mo.None[uint64]())
}

func (r *request) QueryInfo(
	_ context.Context,
	scanID uint64,
	callback query_models.InfoCallback,
) {
	e := r.engine
	if !e.async(func() {
		j, ok := e.jobs.Load(scanID)
		if !ok {
			callback(nil, errorsx.Wrapf(errs.ErrJobNotFound, "scan id %d", scanID))
			return
		}

		callback(j.info(scanID), nil)
	}) {
		callback(nil, errs.ErrEngineClosed)
	}
}
