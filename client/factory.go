package ltng_client

import (
	"context"

	"gitlab.com/pietroski-software-company/golang/devex/errorsx"
	"gitlab.com/pietroski-software-company/golang/devex/options"
	"gitlab.com/pietroski-software-company/golang/devex/slogx"
	"gitlab.com/pietroski-software-company/golang/devex/tracer"

	"gitlab.com/pietroski-software-company/lightning-db-driver/internal/adaptors/engine/localengine"
	"gitlab.com/pietroski-software-company/lightning-db-driver/internal/adaptors/engine/remoteengine"
	driver_config "gitlab.com/pietroski-software-company/lightning-db-driver/internal/config"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
)

// NewFromEnv loads the driver configuration from the environment and builds
// a client over the engine it selects.
func NewFromEnv(ctx context.Context, opts ...options.Option) (*Client, error) {
	cfg, err := driver_config.Load()
	if err != nil {
		return nil, errorsx.Wrap(err, "failed to load driver config")
	}

	return NewFromConfig(ctx, cfg, opts...)
}

// NewFromConfig builds a client over the local or the remote engine.
func NewFromConfig(
	ctx context.Context,
	cfg *driver_config.Config,
	opts ...options.Option,
) (*Client, error) {
	base := &Client{
		logger: slogx.New(),
		tracer: tracer.New(),
	}
	options.ApplyOptions(base, opts...)

	var (
		e   engine.Engine
		err error
	)
	switch cfg.Driver.EngineKind() {
	case driver_config.LocalEngineKind:
		e, err = localengine.New(ctx, append([]options.Option{
			localengine.WithConfig(cfg.Driver.Local),
			localengine.WithLogger(base.logger),
		}, base.engineOpts...)...)
	case driver_config.RemoteEngineKind:
		e, err = remoteengine.New(ctx, append([]options.Option{
			remoteengine.WithConfig(cfg.Driver.Remote),
			remoteengine.WithLogger(base.logger),
			remoteengine.WithTracer(base.tracer),
		}, base.engineOpts...)...)
	default:
		err = errorsx.Wrapf(errs.ErrUnknownEngineKind, "%q", cfg.Driver.Engine.Kind)
	}
	if err != nil {
		base.logger.Error(ctx, "failed to build execution engine",
			"engine", cfg.Driver.Engine.Kind, "error", err)

		return nil, err
	}

	return New(ctx, append(opts, WithEngine(e))...)
}
