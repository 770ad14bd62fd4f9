package ltng_client

import (
	"context"

	"gitlab.com/pietroski-software-company/lightning-db-driver/internal/tools/argsresolver"
	operation_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/operation"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/operator"
)

type (
	// WriteRequest is the named form of the compound write calls.
	// Metadata and Policy are optional.
	WriteRequest struct {
		Key      *record_models.Key
		Bins     operation_models.Bins
		Metadata *operation_models.Metadata
		Policy   *operation_models.Policy
	}
)

// Add increments every bin by its value.
//
// args follows the positional shapes [metadata,] [policy,] callback:
//
//	c.Add(ctx, key, bins, cb)
//	c.Add(ctx, key, bins, metadata, cb)
//	c.Add(ctx, key, bins, metadata, policy, cb)
func (c *Client) Add(
	ctx context.Context,
	key *record_models.Key,
	bins operation_models.Bins,
	args ...any,
) error {
	return c.compound(ctx, operator.Incr, key, bins, args...)
}

// Append appends every bin value to the stored one.
// args follows the same shapes as Add.
func (c *Client) Append(
	ctx context.Context,
	key *record_models.Key,
	bins operation_models.Bins,
	args ...any,
) error {
	return c.compound(ctx, operator.Append, key, bins, args...)
}

// Prepend prepends every bin value to the stored one.
// args follows the same shapes as Add.
func (c *Client) Prepend(
	ctx context.Context,
	key *record_models.Key,
	bins operation_models.Bins,
	args ...any,
) error {
	return c.compound(ctx, operator.Prepend, key, bins, args...)
}

func (c *Client) AddWith(ctx context.Context, req *WriteRequest, callback operation_models.Callback) {
	c.compoundWith(ctx, operator.Incr, req, callback)
}

func (c *Client) AppendWith(ctx context.Context, req *WriteRequest, callback operation_models.Callback) {
	c.compoundWith(ctx, operator.Append, req, callback)
}

func (c *Client) PrependWith(ctx context.Context, req *WriteRequest, callback operation_models.Callback) {
	c.compoundWith(ctx, operator.Prepend, req, callback)
}

func (c *Client) compound(
	ctx context.Context,
	build operator.Builder,
	key *record_models.Key,
	bins operation_models.Bins,
	args ...any,
) error {
	resolved, err := argsresolver.ResolveOperateArgs(append([]any{key, bins}, args...)...)
	if err != nil {
		c.logger.Error(ctx, "error resolving operate arguments", "key", key.String(), "error", err)

		return err
	}

	c.operate(ctx, key, operator.FromBins(build, bins),
		resolved.Metadata, resolved.Policy, resolved.Callback)

	return nil
}

func (c *Client) compoundWith(
	ctx context.Context,
	build operator.Builder,
	req *WriteRequest,
	callback operation_models.Callback,
) {
	if req == nil {
		req = &WriteRequest{}
	}

	c.operate(ctx, req.Key, operator.FromBins(build, req.Bins),
		optionOf(req.Metadata), optionOf(req.Policy), callback)
}
