package grpc_transport

import (
	"net"

	"gitlab.com/pietroski-software-company/golang/devex/options"
	"gitlab.com/pietroski-software-company/golang/devex/slogx"
	"gitlab.com/pietroski-software-company/golang/devex/tracer"

	driver_config "gitlab.com/pietroski-software-company/lightning-db-driver/internal/config"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine"
)

func WithEngine(e engine.Engine) options.Option {
	return func(i interface{}) {
		switch c := i.(type) {
		case *Server:
			c.engine = e
		case *Factory:
			c.engine = e
		}
	}
}

func WithLogger(logger slogx.SLogger) options.Option {
	return func(i interface{}) {
		switch c := i.(type) {
		case *Server:
			c.logger = logger
		case *Factory:
			c.logger = logger
		}
	}
}

func WithTracer(t tracer.Tracer) options.Option {
	return func(i interface{}) {
		switch c := i.(type) {
		case *Server:
			c.tracer = t
		case *Factory:
			c.tracer = t
		}
	}
}

func WithConfig(config *driver_config.Config) options.Option {
	return func(i interface{}) {
		if c, ok := i.(*Factory); ok {
			c.cfg = config
		}
	}
}

func WithListener(listener net.Listener) options.Option {
	return func(i interface{}) {
		if c, ok := i.(*Factory); ok {
			c.listener = listener
		}
	}
}
