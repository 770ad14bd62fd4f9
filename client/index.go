package ltng_client

import (
	"context"

	index_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/index"
)

// CreateIntegerIndex creates a numeric secondary index.
// Missing namespace, bin or index name are reported by the engine through callback.
func (c *Client) CreateIntegerIndex(
	ctx context.Context,
	opts *index_models.Options,
	callback index_models.Callback,
) {
	c.createIndex(ctx, opts, index_models.Numeric, callback)
}

func (c *Client) CreateStringIndex(
	ctx context.Context,
	opts *index_models.Options,
	callback index_models.Callback,
) {
	c.createIndex(ctx, opts, index_models.String, callback)
}

func (c *Client) CreateGeo2DSphereIndex(
	ctx context.Context,
	opts *index_models.Options,
	callback index_models.Callback,
) {
	c.createIndex(ctx, opts, index_models.Geo2DSphere, callback)
}

func (c *Client) createIndex(
	ctx context.Context,
	opts *index_models.Options,
	indexType index_models.Type,
	callback index_models.Callback,
) {
	req := index_models.NewRequest(opts, indexType)
	c.engine.IndexCreate(ctx, req, func(err error) {
		if err != nil {
			c.logger.Error(ctx, "error creating index",
				"namespace", req.Namespace, "bin", req.Bin, "index", req.IndexName,
				"type", req.IndexType.String(), "error", err)
		}

		callback(err)
	})
}
