package ltng_client

import (
	"context"

	"github.com/samber/mo"

	"gitlab.com/pietroski-software-company/golang/devex/options"
	"gitlab.com/pietroski-software-company/golang/devex/slogx"
	"gitlab.com/pietroski-software-company/golang/devex/tracer"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	operation_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/operation"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

type (
	// Client is the application facing handle over an execution engine.
	// It holds no mutable state of its own and can be shared across goroutines.
	Client struct {
		engine engine.Engine
		logger slogx.SLogger
		tracer tracer.Tracer

		// engineOpts are handed to the engine built by NewFromConfig.
		engineOpts []options.Option
	}
)

func New(
	ctx context.Context,
	opts ...options.Option,
) (*Client, error) {
	c := &Client{
		logger: slogx.New(),
		tracer: tracer.New(),
	}
	options.ApplyOptions(c, opts...)

	if c.engine == nil {
		c.logger.Error(ctx, "failed to create client", "error", errs.ErrClientCreation)

		return nil, errs.ErrClientCreation
	}

	return c, nil
}

// Operate runs ops against key through the engine's read-modify-write primitive.
// metadata and policy may be nil.
func (c *Client) Operate(
	ctx context.Context,
	key *record_models.Key,
	ops []operation_models.Descriptor,
	metadata *operation_models.Metadata,
	policy *operation_models.Policy,
	callback operation_models.Callback,
) {
	c.operate(ctx, key, ops, optionOf(metadata), optionOf(policy), callback)
}

func (c *Client) Close() error {
	return c.engine.Close()
}

func (c *Client) operate(
	ctx context.Context,
	key *record_models.Key,
	ops []operation_models.Descriptor,
	metadata mo.Option[*operation_models.Metadata],
	policy mo.Option[*operation_models.Policy],
	callback operation_models.Callback,
) {
	c.engine.Operate(ctx, key, ops, metadata, policy,
		func(rec *record_models.Record, err error) {
			if err != nil {
				c.logger.Error(ctx, "error operating record", "key", key.String(), "error", err)
			}

			callback(rec, err)
		},
	)
}

func optionOf[T any](v *T) mo.Option[*T] {
	if v == nil {
		return mo.None[*T]()
	}

	return mo.Some(v)
}
