// Package localengine is an execution engine embedded in the driver process.
// Records, secondary index definitions and background jobs live on a badger
// store, either on disk or in memory.
package localengine

import (
	"context"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/zhangyunhao116/skipmap"

	"gitlab.com/pietroski-software-company/golang/devex/errorsx"
	"gitlab.com/pietroski-software-company/golang/devex/loop"
	"gitlab.com/pietroski-software-company/golang/devex/options"
	"gitlab.com/pietroski-software-company/golang/devex/serializer"
	serializermodels "gitlab.com/pietroski-software-company/golang/devex/serializer/models"
	"gitlab.com/pietroski-software-company/golang/devex/slogx"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine"
	badgerdb_logger "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/tools/badgerdb/logger"
)

const (
	defaultWorkers       = 8
	defaultRetryCount    = 5
	defaultRetryInterval = 5 * time.Millisecond
)

var _ engine.Engine = (*LocalEngine)(nil)

type LocalEngine struct {
	ctx    context.Context
	cancel context.CancelFunc

	logger     slogx.SLogger
	serializer serializermodels.Serializer
	jsonCodec  serializermodels.Serializer
	retrier    *loop.Retry

	path        string
	inMemory    bool
	silentStore bool
	workers     int
	db          *badger.DB

	indexes       *skipmap.StringMap[*storedIndex]
	jobs          *skipmap.Uint64Map[*job]
	recordUDFs    *skipmap.StringMap[RecordUDF]
	aggregateUDFs *skipmap.StringMap[AggregateUDF]

	mtx    sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func New(ctx context.Context, opts ...options.Option) (*LocalEngine, error) {
	e := &LocalEngine{
		logger:     slogx.New(),
		serializer: serializer.NewMsgPackSerializer(),
		jsonCodec:  serializer.NewJsonSerializer(),
		retrier: loop.New(
			loop.WithMaxRetryCount(defaultRetryCount),
			loop.WithInitialBackoff(defaultRetryInterval),
			loop.WithExponentialBackoff(),
		),
		inMemory:      true,
		workers:       defaultWorkers,
		indexes:       skipmap.NewString[*storedIndex](),
		jobs:          skipmap.NewUint64[*job](),
		recordUDFs:    skipmap.NewString[RecordUDF](),
		aggregateUDFs: skipmap.NewString[AggregateUDF](),
	}
	options.ApplyOptions(e, opts...)
	e.ctx, e.cancel = context.WithCancel(ctx)

	if e.db == nil {
		db, err := e.open()
		if err != nil {
			e.cancel()
			return nil, err
		}
		e.db = db
	}

	if err := e.loadIndexes(); err != nil {
		e.cancel()
		_ = e.db.Close()
		return nil, err
	}

	return e, nil
}

func (e *LocalEngine) open() (*badger.DB, error) {
	dbOpts := badger.DefaultOptions(e.path)
	if e.inMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	var storeLogger badgerdb_logger.Logger = badgerdb_logger.NewBadgerDBSlogLogger(e.ctx, e.logger)
	if e.silentStore {
		storeLogger = badgerdb_logger.NewBadgerDBSilentLogger()
	}
	dbOpts = dbOpts.
		WithLogger(storeLogger).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(dbOpts)
	if err != nil {
		e.logger.Error(e.ctx, "failed to open local engine store",
			"path", e.path, "in_memory", e.inMemory, "error", err)

		return nil, errorsx.Wrap(err, "failed to open local engine store")
	}

	return db, nil
}

// Close stops accepting work, aborts running background jobs and waits for
// in-flight callbacks before closing the store.
func (e *LocalEngine) Close() error {
	e.mtx.Lock()
	if e.closed {
		e.mtx.Unlock()
		return nil
	}
	e.closed = true
	e.mtx.Unlock()

	e.cancel()
	e.wg.Wait()

	if err := e.db.Close(); err != nil {
		e.logger.Error(e.ctx, "failed to close local engine store", "error", err)
		return errorsx.Wrap(err, "failed to close local engine store")
	}

	return nil
}

// async runs fn off the caller's goroutine.
// It reports false, without running fn, once the engine is closed.
func (e *LocalEngine) async(fn func()) bool {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	if e.closed {
		return false
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		fn()
	}()

	return true
}

func (e *LocalEngine) encodeRecord(rec *storedRecord) ([]byte, error) {
	return e.serializer.Serialize(rec)
}

func (e *LocalEngine) decodeRecord(raw []byte) (*storedRecord, error) {
	rec := &storedRecord{}
	if err := e.serializer.Deserialize(raw, rec); err != nil {
		return nil, err
	}
	rec.UserKey = normalize(rec.UserKey)
	rec.Bins = normalizeBins(rec.Bins)

	return rec, nil
}
