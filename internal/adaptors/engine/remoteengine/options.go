package remoteengine

import (
	"google.golang.org/grpc"

	"gitlab.com/pietroski-software-company/golang/devex/options"
	"gitlab.com/pietroski-software-company/golang/devex/slogx"
	"gitlab.com/pietroski-software-company/golang/devex/tracer"

	driver_config "gitlab.com/pietroski-software-company/lightning-db-driver/internal/config"
)

func WithLogger(logger slogx.SLogger) options.Option {
	return func(i interface{}) {
		if e, ok := i.(*RemoteEngine); ok {
			e.logger = logger
		}
	}
}

func WithTracer(t tracer.Tracer) options.Option {
	return func(i interface{}) {
		if e, ok := i.(*RemoteEngine); ok {
			e.tracer = t
		}
	}
}

func WithAddress(address string) options.Option {
	return func(i interface{}) {
		if e, ok := i.(*RemoteEngine); ok {
			e.address = address
		}
	}
}

func WithConfig(cfg *driver_config.Remote) options.Option {
	return func(i interface{}) {
		if e, ok := i.(*RemoteEngine); ok && cfg != nil {
			e.address = cfg.Address
		}
	}
}

func WithDialOptions(opts ...grpc.DialOption) options.Option {
	return func(i interface{}) {
		if e, ok := i.(*RemoteEngine); ok {
			e.dialOpts = append(e.dialOpts, opts...)
		}
	}
}
