package localengine

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"gitlab.com/pietroski-software-company/golang/devex/errorsx"
	"gitlab.com/pietroski-software-company/golang/devex/saga"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	index_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/index"
)

// loadIndexes restores the persisted secondary index definitions.
func (e *LocalEngine) loadIndexes() error {
	return e.db.View(func(txn *badger.Txn) error {
		prefix := indexKey("")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				idx := &storedIndex{}
				if err := e.serializer.Deserialize(val, idx); err != nil {
					return err
				}

				e.indexes.Store(idx.Name, idx)
				return nil
			})
			if err != nil {
				return errorsx.Wrap(err, "failed to load secondary indexes")
			}
		}

		return nil
	})
}

// IndexCreate registers a secondary index. The callback receives nil on
// success; invalid requests and duplicate names are reported through it.
func (e *LocalEngine) IndexCreate(
	ctx context.Context,
	req *index_models.Request,
	callback index_models.Callback,
) {
	if !e.async(func() {
		callback(e.indexCreate(ctx, req))
	}) {
		callback(errs.ErrEngineClosed)
	}
}

func (e *LocalEngine) indexCreate(ctx context.Context, req *index_models.Request) error {
	if err := validateIndexRequest(req); err != nil {
		return err
	}

	if req.Policy != nil && req.Policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Policy.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	idx := &storedIndex{
		Namespace: req.Namespace,
		Set:       req.Set,
		Bin:       req.Bin,
		Name:      req.IndexName,
		Type:      int(req.IndexType),
	}
	if _, loaded := e.indexes.LoadOrStore(idx.Name, idx); loaded {
		return errorsx.Wrapf(errs.ErrIndexAlreadyExists, "%s", idx.Name)
	}

	persist := []*saga.Operation{
		{
			Action: &saga.Action{
				Name: "persist-index-definition",
				Do: func() error {
					raw, err := e.serializer.Serialize(idx)
					if err != nil {
						return err
					}

					return e.db.Update(func(txn *badger.Txn) error {
						return txn.Set(indexKey(idx.Name), raw)
					})
				},
				RetrialOpts: saga.DefaultRetrialOps,
			},
			Rollback: &saga.Rollback{
				Name: "unregister-index",
				Do: func() error {
					e.indexes.Delete(idx.Name)
					return nil
				},
			},
		},
	}
	if err := saga.NewListOperator(persist...).Operate(); err != nil {
		e.logger.Error(ctx, "failed to create secondary index",
			"index", idx.Name, "namespace", idx.Namespace, "bin", idx.Bin, "error", err)

		return errorsx.Wrapf(err, "failed to create secondary index %s", idx.Name)
	}

	e.logger.Debug(ctx, "secondary index created",
		"index", idx.Name, "namespace", idx.Namespace, "set", idx.Set,
		"bin", idx.Bin, "type", req.IndexType.String())

	return nil
}

func validateIndexRequest(req *index_models.Request) error {
	switch {
	case req == nil:
		return errorsx.Wrap(errs.ErrInvalidIndexRequest, "empty request")
	case req.Namespace == "":
		return errorsx.Wrap(errs.ErrInvalidIndexRequest, "namespace is missing")
	case req.Bin == "":
		return errorsx.Wrap(errs.ErrInvalidIndexRequest, "bin is missing")
	case req.IndexName == "":
		return errorsx.Wrap(errs.ErrInvalidIndexRequest, "index name is missing")
	}

	switch req.IndexType {
	case index_models.Numeric, index_models.String, index_models.Geo2DSphere:
		return nil
	default:
		return errorsx.Wrapf(errs.ErrInvalidIndexRequest, "unknown index type %d", req.IndexType)
	}
}

// findIndex returns the index able to serve filter on namespace and set.
func (e *LocalEngine) findIndex(namespace, set, bin string, indexType index_models.Type) (*storedIndex, bool) {
	var found *storedIndex
	e.indexes.Range(func(_ string, idx *storedIndex) bool {
		if idx.Namespace == namespace &&
			idx.Bin == bin &&
			index_models.Type(idx.Type) == indexType &&
			(idx.Set == "" || idx.Set == set) {
			found = idx
			return false
		}

		return true
	})

	return found, found != nil
}
