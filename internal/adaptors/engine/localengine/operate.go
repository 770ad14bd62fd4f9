package localengine

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/mo"

	"gitlab.com/pietroski-software-company/golang/devex/errorsx"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	operation_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/operation"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

// Operate applies ops, in order, to the record behind key within a single
// transaction and reports the bins read by Read descriptors.
func (e *LocalEngine) Operate(
	ctx context.Context,
	key *record_models.Key,
	ops []operation_models.Descriptor,
	metadata mo.Option[*operation_models.Metadata],
	policy mo.Option[*operation_models.Policy],
	callback operation_models.Callback,
) {
	if !e.async(func() {
		rec, err := e.operate(ctx, key, ops, metadata, policy)
		if err != nil {
			callback(nil, err)
			return
		}

		callback(rec, nil)
	}) {
		callback(nil, errs.ErrEngineClosed)
	}
}

func (e *LocalEngine) operate(
	ctx context.Context,
	key *record_models.Key,
	ops []operation_models.Descriptor,
	metadata mo.Option[*operation_models.Metadata],
	policy mo.Option[*operation_models.Policy],
) (*record_models.Record, error) {
	meta, _ := metadata.Get()
	if meta == nil {
		meta = &operation_models.Metadata{}
	}
	pol, _ := policy.Get()
	if pol == nil {
		pol = &operation_models.Policy{}
	}

	if pol.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pol.Timeout)
		defer cancel()
	}

	rawKey, err := e.recordKey(key)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, errorsx.Wrap(errs.ErrInvalidOperation, "no operations")
	}

	var result *record_models.Record
	err = e.update(func(txn *badger.Txn) error {
		if err := e.alive(ctx); err != nil {
			return err
		}

		stored, expiresAt, exists, err := e.load(txn, rawKey)
		if err != nil {
			return err
		}
		if err = checkPolicies(key, exists, stored, meta, pol); err != nil {
			return err
		}

		if !exists {
			stored = &storedRecord{
				UserKey: normalize(key.UserKey),
				Bins:    record_models.BinMap{},
			}
		}
		if pol.Exists == operation_models.ExistsReplace {
			stored.Bins = record_models.BinMap{}
		}

		applied, err := apply(stored, ops)
		if err != nil {
			return err
		}

		if !applied.dirty {
			if !exists {
				return errorsx.Wrapf(errs.ErrRecordNotFound, "%s", key)
			}

			result = operateResult(key, stored, applied, ttlFrom(expiresAt))
			return nil
		}

		if len(stored.Bins) == 0 {
			// a record left without bins is removed.
			result = operateResult(key, stored, applied, 0)
			if !exists {
				return nil
			}

			return txn.Delete(rawKey)
		}

		stored.Generation++
		expiresAt = nextExpiry(expiresAt, meta.TTL, applied.touch)

		value, err := e.encodeRecord(stored)
		if err != nil {
			return err
		}
		entry := badger.NewEntry(rawKey, value)
		entry.ExpiresAt = expiresAt
		if err = txn.SetEntry(entry); err != nil {
			return err
		}

		result = operateResult(key, stored, applied, ttlFrom(expiresAt))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func checkPolicies(
	key *record_models.Key,
	exists bool,
	stored *storedRecord,
	meta *operation_models.Metadata,
	pol *operation_models.Policy,
) error {
	switch pol.Exists {
	case operation_models.ExistsCreate:
		if exists {
			return errorsx.Wrapf(errs.ErrRecordExists, "%s", key)
		}
	case operation_models.ExistsUpdate, operation_models.ExistsReplace:
		if !exists {
			return errorsx.Wrapf(errs.ErrRecordNotFound, "%s", key)
		}
	}

	var current uint32
	if exists {
		current = stored.Generation
	}

	switch pol.Generation {
	case operation_models.GenerationEQ:
		if meta.Generation != current {
			return errorsx.Wrapf(errs.ErrGenerationMismatch, "expected %d, found %d", meta.Generation, current)
		}
	case operation_models.GenerationGT:
		if meta.Generation <= current {
			return errorsx.Wrapf(errs.ErrGenerationMismatch, "expected more than %d, found %d", current, meta.Generation)
		}
	}

	return nil
}

type applied struct {
	dirty   bool
	hasRead bool
	read    record_models.BinMap
	touch   mo.Option[uint32]
}

func apply(stored *storedRecord, ops []operation_models.Descriptor) (*applied, error) {
	res := &applied{
		read:  record_models.BinMap{},
		touch: mo.None[uint32](),
	}

	for _, op := range ops {
		switch op.Operation {
		case operation_models.Read:
			res.hasRead = true
			if op.Bin == "" {
				for name, v := range stored.Bins {
					res.read[name] = v
				}
				continue
			}
			if v, ok := stored.Bins[op.Bin]; ok {
				res.read[op.Bin] = v
			}
		case operation_models.Write:
			res.dirty = true
			if v := normalize(op.Value); v != nil {
				stored.Bins[op.Bin] = v
			} else {
				delete(stored.Bins, op.Bin)
			}
		case operation_models.Incr:
			v, err := incr(stored.Bins[op.Bin], op.Value)
			if err != nil {
				return nil, errorsx.Wrapf(err, "bin %s", op.Bin)
			}
			stored.Bins[op.Bin] = v
			res.dirty = true
		case operation_models.Append:
			v, err := concat(stored.Bins[op.Bin], op.Value, false)
			if err != nil {
				return nil, errorsx.Wrapf(err, "bin %s", op.Bin)
			}
			stored.Bins[op.Bin] = v
			res.dirty = true
		case operation_models.Prepend:
			v, err := concat(stored.Bins[op.Bin], op.Value, true)
			if err != nil {
				return nil, errorsx.Wrapf(err, "bin %s", op.Bin)
			}
			stored.Bins[op.Bin] = v
			res.dirty = true
		case operation_models.Touch:
			res.touch = mo.Some(op.TTL)
			res.dirty = true
		default:
			return nil, errorsx.Wrapf(errs.ErrInvalidOperation, "%s", op.Operation.String())
		}
	}

	return res, nil
}

func incr(current, delta any) (any, error) {
	delta = normalize(delta)
	if current == nil {
		if _, ok := asFloat64(delta); !ok {
			return nil, errorsx.Wrapf(errs.ErrIncompatibleBinType, "cannot add %T", delta)
		}

		return delta, nil
	}

	ci, cIsInt := current.(int64)
	di, dIsInt := delta.(int64)
	if cIsInt && dIsInt {
		sum := ci + di
		if (di > 0 && sum < ci) || (di < 0 && sum > ci) {
			return nil, errorsx.Wrapf(errs.ErrIncompatibleBinType, "%d + %d overflows int64", ci, di)
		}

		return sum, nil
	}

	cf, okC := asFloat64(current)
	df, okD := asFloat64(delta)
	if !okC || !okD {
		return nil, errorsx.Wrapf(errs.ErrIncompatibleBinType, "cannot add %T to %T", delta, current)
	}

	return cf + df, nil
}

func concat(current, value any, prepend bool) (any, error) {
	value = normalize(value)
	if current == nil {
		switch value.(type) {
		case string, []byte:
			return value, nil
		default:
			return nil, errorsx.Wrapf(errs.ErrIncompatibleBinType, "cannot concatenate %T", value)
		}
	}

	switch c := current.(type) {
	case string:
		if v, ok := value.(string); ok {
			if prepend {
				return v + c, nil
			}
			return c + v, nil
		}
	case []byte:
		if v, ok := value.([]byte); ok {
			if prepend {
				return append(append([]byte{}, v...), c...), nil
			}
			return append(append([]byte{}, c...), v...), nil
		}
	}

	return nil, errorsx.Wrapf(errs.ErrIncompatibleBinType, "cannot concatenate %T to %T", value, current)
}

// nextExpiry picks the expiry of a written record. A positive TTL, from a
// touch or from metadata, restarts the clock; otherwise the previous expiry
// is kept.
func nextExpiry(current uint64, metaTTL uint32, touch mo.Option[uint32]) uint64 {
	ttl := metaTTL
	if t, ok := touch.Get(); ok && t > 0 {
		ttl = t
	}
	if ttl == 0 {
		return current
	}

	return uint64(time.Now().Add(time.Duration(ttl) * time.Second).Unix())
}

func operateResult(
	key *record_models.Key,
	stored *storedRecord,
	res *applied,
	ttl uint32,
) *record_models.Record {
	rec := &record_models.Record{
		Key:        key,
		Generation: stored.Generation,
		TTL:        ttl,
	}
	if res.hasRead {
		rec.Bins = res.read
	}

	return rec
}

func (e *LocalEngine) load(txn *badger.Txn, rawKey []byte) (*storedRecord, uint64, bool, error) {
	item, err := txn.Get(rawKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, errorsx.Wrap(err, "failed to read record")
	}

	raw, err := item.ValueCopy(nil)
	if err != nil {
		return nil, 0, false, errorsx.Wrap(err, "failed to read record")
	}
	stored, err := e.decodeRecord(raw)
	if err != nil {
		return nil, 0, false, errorsx.Wrap(err, "failed to decode record")
	}

	return stored, item.ExpiresAt(), true, nil
}

// update runs fn in a read-write transaction, retrying it while it
// conflicts with concurrent writers.
func (e *LocalEngine) update(fn func(txn *badger.Txn) error) error {
	var opErr error
	err := e.retrier.DoRetry(func() error {
		err := e.db.Update(fn)
		if errors.Is(err, badger.ErrConflict) {
			return err
		}

		opErr = err
		return nil
	})
	if err != nil {
		return errorsx.Wrap(err, "transaction retries exhausted")
	}

	return opErr
}
