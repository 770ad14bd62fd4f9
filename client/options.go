package ltng_client

import (
	"gitlab.com/pietroski-software-company/golang/devex/options"
	"gitlab.com/pietroski-software-company/golang/devex/slogx"
	"gitlab.com/pietroski-software-company/golang/devex/tracer"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine"
)

func WithEngine(e engine.Engine) options.Option {
	return func(i interface{}) {
		if c, ok := i.(*Client); ok {
			c.engine = e
		}
	}
}

func WithLogger(logger slogx.SLogger) options.Option {
	return func(i interface{}) {
		if c, ok := i.(*Client); ok {
			c.logger = logger
		}
	}
}

func WithTracer(t tracer.Tracer) options.Option {
	return func(i interface{}) {
		if c, ok := i.(*Client); ok {
			c.tracer = t
		}
	}
}

// WithEngineOptions passes opts to the engine NewFromConfig and NewFromEnv
// build, e.g. localengine.WithRecordUDF.
func WithEngineOptions(opts ...options.Option) options.Option {
	return func(i interface{}) {
		if c, ok := i.(*Client); ok {
			c.engineOpts = append(c.engineOpts, opts...)
		}
	}
}
