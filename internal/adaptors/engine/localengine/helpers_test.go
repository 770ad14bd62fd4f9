package localengine

import (
	"context"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/require"

	"gitlab.com/pietroski-software-company/golang/devex/options"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine"
	index_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/index"
	operation_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/operation"
	query_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/query"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

const (
	testNamespace = "test"
	testSet       = "users"
	waitFor       = 5 * time.Second
)

func newTestEngine(t *testing.T, opts ...options.Option) *LocalEngine {
	t.Helper()

	e, err := New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, e.Close())
	})

	return e
}

type operateResult struct {
	rec *record_models.Record
	err error
}

func operateSync(
	t *testing.T,
	e *LocalEngine,
	key *record_models.Key,
	meta *operation_models.Metadata,
	pol *operation_models.Policy,
	ops ...operation_models.Descriptor,
) (*record_models.Record, error) {
	t.Helper()

	metadata := mo.None[*operation_models.Metadata]()
	if meta != nil {
		metadata = mo.Some(meta)
	}
	policy := mo.None[*operation_models.Policy]()
	if pol != nil {
		policy = mo.Some(pol)
	}

	done := make(chan operateResult, 1)
	e.Operate(context.Background(), key, ops, metadata, policy,
		func(rec *record_models.Record, err error) {
			done <- operateResult{rec: rec, err: err}
		})

	select {
	case res := <-done:
		return res.rec, res.err
	case <-time.After(waitFor):
		t.Fatal("operate callback never fired")
		return nil, nil
	}
}

func put(t *testing.T, e *LocalEngine, userKey any, pairs ...any) {
	t.Helper()

	var ops []operation_models.Descriptor
	for _, bin := range operation_models.NewBins(pairs...) {
		ops = append(ops, operation_models.Descriptor{
			Operation: operation_models.Write,
			Bin:       bin.Name,
			Value:     bin.Value,
		})
	}

	_, err := operateSync(t, e, record_models.NewKey(testNamespace, testSet, userKey), nil, nil, ops...)
	require.NoError(t, err)
}

func createIndex(t *testing.T, e *LocalEngine, name, bin string, indexType index_models.Type) error {
	t.Helper()

	done := make(chan error, 1)
	e.IndexCreate(context.Background(), &index_models.Request{
		Namespace: testNamespace,
		Set:       testSet,
		Bin:       bin,
		IndexName: name,
		IndexType: indexType,
	}, func(err error) {
		done <- err
	})

	select {
	case err := <-done:
		return err
	case <-time.After(waitFor):
		t.Fatal("index callback never fired")
		return nil
	}
}

type foreachResult struct {
	records []*record_models.Record
	payload mo.Option[uint64]
	err     error
	ends    int
	errs    int
}

func foreachSync(t *testing.T, ctx context.Context, req engine.ExecutionRequest) *foreachResult {
	t.Helper()

	res := &foreachResult{payload: mo.None[uint64]()}
	done := make(chan struct{})
	req.Foreach(ctx,
		func(rec *record_models.Record) {
			res.records = append(res.records, rec)
		},
		func(err error) {
			res.err = err
			res.errs++
			close(done)
		},
		func(payload mo.Option[uint64]) {
			res.payload = payload
			res.ends++
			close(done)
		},
	)

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("foreach never terminated")
	}

	return res
}

func newRequest(t *testing.T, e *LocalEngine, opts *query_models.Options) engine.ExecutionRequest {
	t.Helper()

	req, err := e.NewRequest(context.Background(), testNamespace, testSet, opts)
	require.NoError(t, err)

	return req
}

var (
	recordKeyFixture = record_models.Key{Namespace: testNamespace, Set: testSet, UserKey: "k"}
	recordKeyNoSet   = record_models.Key{Namespace: testNamespace, UserKey: int8(3)}
)
