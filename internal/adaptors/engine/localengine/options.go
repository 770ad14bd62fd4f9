package localengine

import (
	"github.com/dgraph-io/badger/v4"

	"gitlab.com/pietroski-software-company/golang/devex/options"
	"gitlab.com/pietroski-software-company/golang/devex/slogx"

	driver_config "gitlab.com/pietroski-software-company/lightning-db-driver/internal/config"
)

func WithLogger(logger slogx.SLogger) options.Option {
	return func(i interface{}) {
		if e, ok := i.(*LocalEngine); ok {
			e.logger = logger
		}
	}
}

// WithConfig applies the local section of the driver configuration.
func WithConfig(cfg *driver_config.Local) options.Option {
	return func(i interface{}) {
		if e, ok := i.(*LocalEngine); ok && cfg != nil {
			e.path = cfg.Path
			e.inMemory = cfg.InMemory
			e.silentStore = cfg.SilentStore
			if cfg.Workers > 0 {
				e.workers = cfg.Workers
			}
		}
	}
}

// WithPath stores records on disk under path.
func WithPath(path string) options.Option {
	return func(i interface{}) {
		if e, ok := i.(*LocalEngine); ok {
			e.path = path
			e.inMemory = false
		}
	}
}

func WithInMemory() options.Option {
	return func(i interface{}) {
		if e, ok := i.(*LocalEngine); ok {
			e.inMemory = true
		}
	}
}

// WithSilentStore discards the store's own log lines.
func WithSilentStore() options.Option {
	return func(i interface{}) {
		if e, ok := i.(*LocalEngine); ok {
			e.silentStore = true
		}
	}
}

func WithWorkers(workers int) options.Option {
	return func(i interface{}) {
		if e, ok := i.(*LocalEngine); ok && workers > 0 {
			e.workers = workers
		}
	}
}

// WithDB runs the engine on an already opened store. Close still closes it.
func WithDB(db *badger.DB) options.Option {
	return func(i interface{}) {
		if e, ok := i.(*LocalEngine); ok {
			e.db = db
		}
	}
}

func WithRecordUDF(module, function string, udf RecordUDF) options.Option {
	return func(i interface{}) {
		if e, ok := i.(*LocalEngine); ok {
			e.recordUDFs.Store(udfName(module, function), udf)
		}
	}
}

func WithAggregateUDF(module, function string, udf AggregateUDF) options.Option {
	return func(i interface{}) {
		if e, ok := i.(*LocalEngine); ok {
			e.aggregateUDFs.Store(udfName(module, function), udf)
		}
	}
}
