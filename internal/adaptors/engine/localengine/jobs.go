package localengine

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/mo"

	"gitlab.com/pietroski-software-company/golang/devex/syncx"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine"
	query_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/query"
)

// job tracks a background scan.
type job struct {
	status  atomic.Int32
	total   atomic.Uint64
	scanned atomic.Uint64
}

func (j *job) info(scanID uint64) *query_models.JobInfo {
	status := query_models.ScanStatus(j.status.Load())
	scanned := j.scanned.Load()
	total := j.total.Load()

	progress := uint8(0)
	switch {
	case status == query_models.ScanStatusCompleted:
		progress = 100
	case total > 0:
		progress = uint8(scanned * 100 / total)
	}

	return &query_models.JobInfo{
		ScanID:         scanID,
		Status:         status,
		ProgressPct:    progress,
		RecordsScanned: scanned,
	}
}

func newScanID() uint64 {
	u := uuid.New()
	if id := binary.BigEndian.Uint64(u[:8]); id != 0 {
		return id
	}

	return 1
}

// background registers a job applying the request UDF to every record of
// the set, hands its scan id to onEnd and then runs it to completion. The
// job outlives ctx; only closing the engine aborts it.
func (r *request) background(ctx context.Context, onEnd engine.EndCallback) error {
	e := r.engine
	fn, err := e.recordUDF(r.opts.UDF)
	if err != nil {
		return err
	}

	scanID := newScanID()
	j := &job{}
	j.status.Store(int32(query_models.ScanStatusInProgress))
	e.jobs.Store(scanID, j)
	onEnd(mo.Some(scanID))

	keys, err := r.keys()
	if err != nil {
		j.status.Store(int32(query_models.ScanStatusAborted))
		e.logger.Error(ctx, "background scan aborted", "scan_id", scanID, "error", err)
		return nil
	}
	j.total.Store(uint64(len(keys)))

	// record failures are counted, never handed to the operator.
	var failures atomic.Uint64
	op := syncx.NewThreadOperator(fmt.Sprintf("background-scan-%d", scanID),
		syncx.WithThreadLimit(e.workers))
	for _, key := range keys {
		if e.ctx.Err() != nil {
			break
		}

		op.Op(func() {
			defer j.scanned.Add(1)
			if err := e.applyRecordUDF(r.namespace, key, fn, r.opts.UDF.Args); err != nil {
				if failures.Add(1) == 1 {
					e.logger.Error(ctx, "background scan record failed",
						"scan_id", scanID, "error", err)
				}
			}
		})
	}
	op.Wait()

	if failed := failures.Load(); failed > 0 || e.ctx.Err() != nil {
		j.status.Store(int32(query_models.ScanStatusAborted))
		e.logger.Error(ctx, "background scan aborted",
			"scan_id", scanID, "scanned", j.scanned.Load(), "failed", failed)

		return nil
	}

	j.status.Store(int32(query_models.ScanStatusCompleted))
	e.logger.Debug(ctx, "background scan completed", "scan_id", scanID, "scanned", j.scanned.Load())

	return nil
}

// keys snapshots the record keys of the request.
func (r *request) keys() ([][]byte, error) {
	prefix := scanPrefix(r.namespace, r.set)

	var keys [][]byte
	err := r.engine.db.View(func(txn *badger.Txn) error {
		itOpts := badger.DefaultIteratorOptions
		itOpts.PrefetchValues = false
		it := txn.NewIterator(itOpts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}

		return nil
	})

	return keys, err
}

func (e *LocalEngine) applyRecordUDF(namespace string, key []byte, fn RecordUDF, args []any) error {
	return e.update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		stored, err := e.decodeRecord(raw)
		if err != nil {
			return err
		}

		out, err := fn(toRecord(namespace, key, stored, item.ExpiresAt()), args)
		if err != nil || out == nil {
			return err
		}

		for name, v := range normalizeBins(out) {
			if v == nil {
				delete(stored.Bins, name)
				continue
			}
			stored.Bins[name] = v
		}
		stored.Generation++

		value, err := e.encodeRecord(stored)
		if err != nil {
			return err
		}

		entry := badger.NewEntry(key, value)
		entry.ExpiresAt = item.ExpiresAt()

		return txn.SetEntry(entry)
	})
}
