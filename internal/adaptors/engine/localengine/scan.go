package localengine

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"gitlab.com/pietroski-software-company/golang/devex/errorsx"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	index_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/index"
	query_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/query"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

type compiledFilter struct {
	*query_models.Filter
	geo *geometry
}

// compileFilters checks every filter is served by a secondary index.
func (r *request) compileFilters() ([]*compiledFilter, error) {
	e := r.engine
	filters := make([]*compiledFilter, 0, len(r.opts.Filters))
	for _, f := range r.opts.Filters {
		if _, ok := e.findIndex(r.namespace, r.set, f.Bin, f.IndexType); !ok {
			return nil, errorsx.Wrapf(errs.ErrIndexNotFound,
				"%s.%s bin %s (%s)", r.namespace, r.set, f.Bin, f.IndexType.String())
		}

		cf := &compiledFilter{Filter: f}
		if f.IndexType == index_models.Geo2DSphere {
			g, err := e.parseGeometry(f.Value)
			if err != nil {
				return nil, errorsx.Wrap(errs.ErrInvalidFilter, err.Error())
			}
			cf.geo = g
		}

		filters = append(filters, cf)
	}

	return filters, nil
}

func (e *LocalEngine) matches(filters []*compiledFilter, rec *storedRecord) bool {
	for _, f := range filters {
		v, ok := rec.Bins[f.Bin]
		if !ok {
			return false
		}

		switch {
		case f.geo != nil:
			g, err := e.parseGeometry(v)
			if err != nil || !geoMatch(f.geo, g) {
				return false
			}
		case f.Predicate == query_models.Range:
			n, ok := asFloat64(v)
			if !ok || n < float64(f.Min) || n > float64(f.Max) {
				return false
			}
		case f.IndexType == index_models.Numeric:
			if _, ok := asFloat64(v); !ok || !equalValues(v, f.Value) {
				return false
			}
		default:
			if _, ok := v.(string); !ok || !equalValues(v, f.Value) {
				return false
			}
		}
	}

	return true
}

// each walks the records of the request matching filters.
// Walking stops at the first error returned by fn.
func (r *request) each(
	ctx context.Context,
	filters []*compiledFilter,
	fn func(rec *record_models.Record) error,
) error {
	e := r.engine
	prefix := scanPrefix(r.namespace, r.set)
	percent := uint64(r.opts.Percent)
	if percent == 0 || percent > 100 {
		percent = 100
	}

	return e.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		var matched uint64
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := e.alive(ctx); err != nil {
				return err
			}

			item := it.Item()
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return errorsx.Wrap(err, "failed to read record")
			}
			stored, err := e.decodeRecord(raw)
			if err != nil {
				return errorsx.Wrap(err, "failed to decode record")
			}
			if !e.matches(filters, stored) {
				continue
			}

			matched++
			if (matched-1)%100 >= percent {
				continue
			}

			rec := toRecord(r.namespace, item.KeyCopy(nil), stored, item.ExpiresAt())
			if err = fn(r.project(rec)); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *request) foreground(ctx context.Context, onResult engine.RecordCallback) error {
	filters, err := r.compileFilters()
	if err != nil {
		return err
	}

	return r.each(ctx, filters, func(rec *record_models.Record) error {
		if onResult != nil {
			onResult(rec)
		}

		return nil
	})
}

func (r *request) aggregate(ctx context.Context, onResult engine.RecordCallback) error {
	fn, err := r.engine.aggregateUDF(r.opts.Aggregation)
	if err != nil {
		return err
	}

	filters, err := r.compileFilters()
	if err != nil {
		return err
	}

	var records []*record_models.Record
	if err = r.each(ctx, filters, func(rec *record_models.Record) error {
		records = append(records, rec)
		return nil
	}); err != nil {
		return err
	}

	outputs, err := fn(records, r.opts.Aggregation.Args)
	if err != nil {
		return errorsx.Wrapf(err, "aggregation %s failed",
			udfName(r.opts.Aggregation.Module, r.opts.Aggregation.Function))
	}

	for _, out := range outputs {
		if err = r.engine.alive(ctx); err != nil {
			return err
		}

		if onResult != nil {
			onResult(&record_models.Record{Bins: normalizeBins(out)})
		}
	}

	return nil
}

func (r *request) project(rec *record_models.Record) *record_models.Record {
	switch {
	case r.opts.NoBins:
		rec.Bins = record_models.BinMap{}
	case len(r.opts.Select) > 0:
		bins := make(record_models.BinMap, len(r.opts.Select))
		for _, name := range r.opts.Select {
			if v, ok := rec.Bins[name]; ok {
				bins[name] = v
			}
		}
		rec.Bins = bins
	}

	return rec
}

// alive fails once either the caller gave up or the engine was closed.
func (e *LocalEngine) alive(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.ctx.Err() != nil {
		return errs.ErrEngineClosed
	}

	return nil
}

func toRecord(namespace string, rawKey []byte, stored *storedRecord, expiresAt uint64) *record_models.Record {
	return &record_models.Record{
		Key:        record_models.NewKey(namespace, setFromKey(namespace, rawKey), stored.UserKey),
		Bins:       stored.Bins,
		Generation: stored.Generation,
		TTL:        ttlFrom(expiresAt),
	}
}

// ttlFrom converts a badger expiry into the remaining seconds to live.
func ttlFrom(expiresAt uint64) uint32 {
	if expiresAt == 0 {
		return 0
	}

	remaining := int64(expiresAt) - time.Now().Unix()
	if remaining < 1 {
		return 1
	}

	return uint32(remaining)
}
