// Package argsresolver resolves the positional call shapes of the compound
// write calls into a callback plus optional metadata and policy.
package argsresolver

import (
	"github.com/samber/mo"

	"gitlab.com/pietroski-software-company/golang/devex/errorsx"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	operation_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/operation"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

const (
	shapeNoMetadata = 3 // key, bins, callback
	shapeMetadata   = 4 // key, bins, metadata, callback
	shapeFull       = 5 // key, bins, metadata, policy, callback
)

type OperateArgs struct {
	Callback operation_models.Callback
	Metadata mo.Option[*operation_models.Metadata]
	Policy   mo.Option[*operation_models.Policy]
}

// ResolveOperateArgs resolves the full positional argument list of a call,
// the callback always being the last one.
//
//	3 args: metadata and policy absent
//	4 args: metadata at -2
//	5 args: metadata at -3, policy at -2
//
// Any other count fails with errs.ErrInvalidArgumentCount.
func ResolveOperateArgs(args ...any) (*OperateArgs, error) {
	n := len(args)
	if n < shapeNoMetadata || n > shapeFull {
		return nil, errorsx.Wrapf(errs.ErrInvalidArgumentCount, "got %d arguments", n)
	}

	callback, err := toCallback(args[n-1])
	if err != nil {
		return nil, err
	}

	resolved := &OperateArgs{
		Callback: callback,
		Metadata: mo.None[*operation_models.Metadata](),
		Policy:   mo.None[*operation_models.Policy](),
	}

	switch n {
	case shapeMetadata:
		if resolved.Metadata, err = toMetadata(args[n-2]); err != nil {
			return nil, err
		}
	case shapeFull:
		if resolved.Metadata, err = toMetadata(args[n-3]); err != nil {
			return nil, err
		}
		if resolved.Policy, err = toPolicy(args[n-2]); err != nil {
			return nil, err
		}
	}

	return resolved, nil
}

func toCallback(arg any) (operation_models.Callback, error) {
	var callback operation_models.Callback
	switch cb := arg.(type) {
	case operation_models.Callback:
		callback = cb
	case func(*record_models.Record, error):
		callback = cb
	}

	if callback == nil {
		return nil, errorsx.Wrapf(errs.ErrInvalidArgumentType, "callback: %T", arg)
	}

	return callback, nil
}

func toMetadata(arg any) (mo.Option[*operation_models.Metadata], error) {
	switch md := arg.(type) {
	case nil:
		return mo.None[*operation_models.Metadata](), nil
	case *operation_models.Metadata:
		if md == nil {
			return mo.None[*operation_models.Metadata](), nil
		}
		return mo.Some(md), nil
	case operation_models.Metadata:
		return mo.Some(&md), nil
	default:
		return mo.None[*operation_models.Metadata](),
			errorsx.Wrapf(errs.ErrInvalidArgumentType, "metadata: %T", arg)
	}
}

func toPolicy(arg any) (mo.Option[*operation_models.Policy], error) {
	switch p := arg.(type) {
	case nil:
		return mo.None[*operation_models.Policy](), nil
	case *operation_models.Policy:
		if p == nil {
			return mo.None[*operation_models.Policy](), nil
		}
		return mo.Some(p), nil
	case operation_models.Policy:
		return mo.Some(&p), nil
	default:
		return mo.None[*operation_models.Policy](),
			errorsx.Wrapf(errs.ErrInvalidArgumentType, "policy: %T", arg)
	}
}
