package localengine

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/geojson"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	index_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/index"
	operation_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/operation"
	query_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/query"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

const (
	square = `{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}`
	inside = `{"type":"Point","coordinates":[5,5]}`
	far    = `{"type":"Point","coordinates":[50,50]}`
)

func seed(t *testing.T, e *LocalEngine) {
	t.Helper()

	put(t, e, "ada", "name", "ada", "age", 36, "home", geojson.New(inside))
	put(t, e, "grace", "name", "grace", "age", 45, "home", geojson.New(far))
	put(t, e, "alan", "name", "alan", "age", 41, "area", geojson.New(square))
}

func userKeys(records []*record_models.Record) []string {
	keys := make([]string, 0, len(records))
	for _, rec := range records {
		keys = append(keys, rec.Key.UserKey.(string))
	}
	sort.Strings(keys)

	return keys
}

func TestLocalEngine_NewRequest(t *testing.T) {
	e := newTestEngine(t)

	t.Run("namespace is required", func(t *testing.T) {
		_, err := e.NewRequest(context.Background(), "", testSet, nil)
		assert.True(t, errors.Is(err, errs.ErrInvalidNamespace))
	})

	t.Run("nil options fall back to the defaults", func(t *testing.T) {
		req, err := e.NewRequest(context.Background(), testNamespace, "", nil)
		require.NoError(t, err)
		assert.Equal(t, query_models.DefaultOptions(), req.Options())
		assert.False(t, req.IsQuery())
		assert.False(t, req.HasUDF())
		assert.Equal(t, "", req.Set())
	})

	t.Run("malformed filters", func(t *testing.T) {
		_, err := e.NewRequest(context.Background(), testNamespace, testSet, &query_models.Options{
			Filters: []*query_models.Filter{nil},
		})
		assert.True(t, errors.Is(err, errs.ErrInvalidFilter))

		_, err = e.NewRequest(context.Background(), testNamespace, testSet, &query_models.Options{
			Filters: []*query_models.Filter{{
				Predicate: query_models.Range,
				IndexType: index_models.Geo2DSphere,
				Bin:       "home",
				Value:     geojson.New("not json"),
			}},
		})
		assert.True(t, errors.Is(err, errs.ErrInvalidFilter))
	})
}

func TestLocalEngine_Foreach(t *testing.T) {
	ctx := context.Background()

	t.Run("scan delivers every record of the set then ends", func(t *testing.T) {
		e := newTestEngine(t)
		seed(t, e)
		put(t, e, "other", "name", "other")
		_, err := operateSync(t, e, record_models.NewKey(testNamespace, "admins", "root"), nil, nil,
			op(operation_models.Write, "name", "root"))
		require.NoError(t, err)

		res := foreachSync(t, ctx, newRequest(t, e, nil))
		require.NoError(t, res.err)
		assert.Equal(t, 1, res.ends)
		assert.False(t, res.payload.IsPresent())
		assert.Equal(t, []string{"ada", "alan", "grace", "other"}, userKeys(res.records))
		for _, rec := range res.records {
			assert.Equal(t, testSet, rec.Key.Set)
			assert.Equal(t, uint32(1), rec.Generation)
		}

		req, err := e.NewRequest(ctx, testNamespace, "", nil)
		require.NoError(t, err)
		res = foreachSync(t, ctx, req)
		require.NoError(t, res.err)
		assert.Len(t, res.records, 5)
	})

	t.Run("select and no bins", func(t *testing.T) {
		e := newTestEngine(t)
		seed(t, e)

		res := foreachSync(t, ctx, newRequest(t, e, &query_models.Options{Select: []string{"age"}}))
		require.NoError(t, res.err)
		for _, rec := range res.records {
			assert.Len(t, rec.Bins, 1)
			assert.Contains(t, rec.Bins, "age")
		}

		res = foreachSync(t, ctx, newRequest(t, e, &query_models.Options{NoBins: true}))
		require.NoError(t, res.err)
		require.Len(t, res.records, 3)
		for _, rec := range res.records {
			assert.Empty(t, rec.Bins)
		}
	})

	t.Run("queries need a matching index", func(t *testing.T) {
		e := newTestEngine(t)
		seed(t, e)
		require.NoError(t, createIndex(t, e, "age_idx", "age", index_models.Numeric))

		res := foreachSync(t, ctx, newRequest(t, e, &query_models.Options{
			Filters: []*query_models.Filter{{
				Predicate: query_models.Equal,
				IndexType: index_models.String,
				Bin:       "age",
				Value:     "36",
			}},
		}))
		require.Error(t, res.err)
		assert.True(t, errors.Is(res.err, errs.ErrIndexNotFound))
		assert.Equal(t, 0, res.ends)
		assert.Empty(t, res.records)
	})

	t.Run("equality and range", func(t *testing.T) {
		e := newTestEngine(t)
		seed(t, e)
		require.NoError(t, createIndex(t, e, "age_idx", "age", index_models.Numeric))
		require.NoError(t, createIndex(t, e, "name_idx", "name", index_models.String))

		res := foreachSync(t, ctx, newRequest(t, e, &query_models.Options{
			Filters: []*query_models.Filter{{
				Predicate: query_models.Equal,
				IndexType: index_models.Numeric,
				Bin:       "age",
				Value:     45,
			}},
		}))
		require.NoError(t, res.err)
		assert.Equal(t, []string{"grace"}, userKeys(res.records))

		res = foreachSync(t, ctx, newRequest(t, e, &query_models.Options{
			Filters: []*query_models.Filter{{
				Predicate: query_models.Equal,
				IndexType: index_models.String,
				Bin:       "name",
				Value:     "ada",
			}},
		}))
		require.NoError(t, res.err)
		assert.Equal(t, []string{"ada"}, userKeys(res.records))

		res = foreachSync(t, ctx, newRequest(t, e, &query_models.Options{
			Filters: []*query_models.Filter{{
				Predicate: query_models.Range,
				IndexType: index_models.Numeric,
				Bin:       "age",
				Min:       40,
				Max:       45,
			}},
		}))
		require.NoError(t, res.err)
		assert.Equal(t, []string{"alan", "grace"}, userKeys(res.records))
	})

	t.Run("geo within and contains", func(t *testing.T) {
		e := newTestEngine(t)
		seed(t, e)
		require.NoError(t, createIndex(t, e, "home_idx", "home", index_models.Geo2DSphere))
		require.NoError(t, createIndex(t, e, "area_idx", "area", index_models.Geo2DSphere))

		res := foreachSync(t, ctx, newRequest(t, e, &query_models.Options{
			Filters: []*query_models.Filter{{
				Predicate: query_models.Range,
				IndexType: index_models.Geo2DSphere,
				Bin:       "home",
				Value:     geojson.New(square),
			}},
		}))
		require.NoError(t, res.err)
		assert.Equal(t, []string{"ada"}, userKeys(res.records))

		res = foreachSync(t, ctx, newRequest(t, e, &query_models.Options{
			Filters: []*query_models.Filter{{
				Predicate: query_models.Range,
				IndexType: index_models.Geo2DSphere,
				Bin:       "area",
				Value:     geojson.New(inside),
			}},
		}))
		require.NoError(t, res.err)
		assert.Equal(t, []string{"alan"}, userKeys(res.records))
	})

	t.Run("query with udf is not supported", func(t *testing.T) {
		e := newTestEngine(t)
		res := foreachSync(t, ctx, newRequest(t, e, &query_models.Options{
			Filters: []*query_models.Filter{{Bin: "age", IndexType: index_models.Numeric, Value: 1}},
			UDF:     &query_models.UDF{Module: "m", Function: "f"},
		}))
		assert.True(t, errors.Is(res.err, errs.ErrUnsupportedOperation))
	})

	t.Run("cancelled context fails the request", func(t *testing.T) {
		e := newTestEngine(t)
		seed(t, e)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		res := foreachSync(t, cctx, newRequest(t, e, nil))
		assert.ErrorIs(t, res.err, context.Canceled)
		assert.Equal(t, 0, res.ends)
	})
}

func TestLocalEngine_Aggregation(t *testing.T) {
	sum := func(records []*record_models.Record, args []any) ([]record_models.BinMap, error) {
		var total int64
		for _, rec := range records {
			total += rec.Bins["age"].(int64)
		}

		return []record_models.BinMap{{"sum": total, "label": args[0]}}, nil
	}

	e := newTestEngine(t, WithAggregateUDF("stats", "sum", sum))
	seed(t, e)

	res := foreachSync(t, context.Background(), newRequest(t, e, &query_models.Options{
		Aggregation: &query_models.UDF{Module: "stats", Function: "sum", Args: []any{"ages"}},
	}))
	require.NoError(t, res.err)
	require.Len(t, res.records, 1)
	assert.Equal(t, int64(122), res.records[0].Bins["sum"])
	assert.Equal(t, "ages", res.records[0].Bins["label"])

	res = foreachSync(t, context.Background(), newRequest(t, e, &query_models.Options{
		Aggregation: &query_models.UDF{Module: "stats", Function: "missing"},
	}))
	assert.True(t, errors.Is(res.err, errs.ErrUDFNotFound))
}

func TestLocalEngine_BackgroundScan(t *testing.T) {
	birthday := func(rec *record_models.Record, _ []any) (record_models.BinMap, error) {
		return record_models.BinMap{"age": rec.Bins["age"].(int64) + 1}, nil
	}

	e := newTestEngine(t, WithRecordUDF("users", "birthday", birthday), WithWorkers(2))
	seed(t, e)

	req := newRequest(t, e, &query_models.Options{
		UDF: &query_models.UDF{Module: "users", Function: "birthday"},
	})
	res := foreachSync(t, context.Background(), req)
	require.NoError(t, res.err)
	assert.Empty(t, res.records)

	scanID, ok := res.payload.Get()
	require.True(t, ok)
	require.NotZero(t, scanID)

	var info *query_models.JobInfo
	require.Eventually(t, func() bool {
		done := make(chan *query_models.JobInfo, 1)
		req.QueryInfo(context.Background(), scanID, func(i *query_models.JobInfo, err error) {
			assert.NoError(t, err)
			done <- i
		})
		info = <-done

		return info != nil && info.Status == query_models.ScanStatusCompleted
	}, waitFor, 10*time.Millisecond)
	assert.Equal(t, scanID, info.ScanID)
	assert.Equal(t, uint8(100), info.ProgressPct)
	assert.Equal(t, uint64(3), info.RecordsScanned)

	rec, err := operateSync(t, e, record_models.NewKey(testNamespace, testSet, "ada"), nil, nil, read("age"))
	require.NoError(t, err)
	assert.Equal(t, int64(37), rec.Bins["age"])
	assert.Equal(t, uint32(2), rec.Generation)

	t.Run("unknown scan id", func(t *testing.T) {
		done := make(chan error, 1)
		req.QueryInfo(context.Background(), scanID+1, func(_ *query_models.JobInfo, err error) {
			done <- err
		})
		assert.True(t, errors.Is(<-done, errs.ErrJobNotFound))
	})

	t.Run("unregistered udf", func(t *testing.T) {
		res := foreachSync(t, context.Background(), newRequest(t, e, &query_models.Options{
			UDF: &query_models.UDF{Module: "users", Function: "missing"},
		}))
		assert.True(t, errors.Is(res.err, errs.ErrUDFNotFound))
	})
}

func TestLocalEngine_BackgroundScanFailures(t *testing.T) {
	errGrumpy := errors.New("grace refuses to age")
	grumpy := func(rec *record_models.Record, _ []any) (record_models.BinMap, error) {
		if rec.Bins["name"] == "grace" {
			return nil, errGrumpy
		}

		return record_models.BinMap{"age": rec.Bins["age"].(int64) + 1}, nil
	}

	e := newTestEngine(t, WithRecordUDF("users", "grumpy", grumpy), WithWorkers(1))
	seed(t, e)

	req := newRequest(t, e, &query_models.Options{
		UDF: &query_models.UDF{Module: "users", Function: "grumpy"},
	})
	res := foreachSync(t, context.Background(), req)
	require.NoError(t, res.err)

	scanID, ok := res.payload.Get()
	require.True(t, ok)

	var info *query_models.JobInfo
	require.Eventually(t, func() bool {
		done := make(chan *query_models.JobInfo, 1)
		req.QueryInfo(context.Background(), scanID, func(i *query_models.JobInfo, err error) {
			assert.NoError(t, err)
			done <- i
		})
		info = <-done

		return info != nil && info.Status == query_models.ScanStatusAborted
	}, waitFor, 10*time.Millisecond)
	assert.Equal(t, uint64(3), info.RecordsScanned)

	rec, err := operateSync(t, e, record_models.NewKey(testNamespace, testSet, "grace"), nil, nil, read("age"))
	require.NoError(t, err)
	assert.Equal(t, int64(45), rec.Bins["age"])
	assert.Equal(t, uint32(1), rec.Generation)

	require.NoError(t, e.Close())
}
