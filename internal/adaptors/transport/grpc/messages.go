package grpc_transport

import (
	"gitlab.com/pietroski-software-company/golang/devex/errorsx"

	"gitlab.com/pietroski-software-company/lightning-db-driver/internal/tools/normalizer"
	index_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/index"
	operation_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/operation"
	query_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/query"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

type EventType int

const (
	DataEvent EventType = iota
	ErrorEvent
	EndEvent
)

type (
	ForeachRequest struct {
		Namespace string                `msgpack:"ns"`
		Set       string                `msgpack:"set"`
		Options   *query_models.Options `msgpack:"opts"`
		// DeliverRecords is false when the caller passed no result callback.
		DeliverRecords bool `msgpack:"deliver"`
	}

	// Event is one message of the Foreach stream.
	Event struct {
		Type      EventType             `msgpack:"t"`
		Record    *record_models.Record `msgpack:"rec,omitempty"`
		Err       string                `msgpack:"err,omitempty"`
		ScanID    uint64                `msgpack:"scan_id,omitempty"`
		HasScanID bool                  `msgpack:"has_scan_id,omitempty"`
	}

	OperateRequest struct {
		Key      *record_models.Key            `msgpack:"key"`
		Ops      []operation_models.Descriptor `msgpack:"ops"`
		Metadata *operation_models.Metadata    `msgpack:"meta,omitempty"`
		Policy   *operation_models.Policy      `msgpack:"policy,omitempty"`
	}

	OperateResponse struct {
		Record *record_models.Record `msgpack:"rec,omitempty"`
		Err    string                `msgpack:"err,omitempty"`
	}

	IndexCreateRequest struct {
		Request *index_models.Request `msgpack:"req"`
	}

	IndexCreateResponse struct {
		Err string `msgpack:"err,omitempty"`
	}

	QueryInfoRequest struct {
		Namespace string                `msgpack:"ns"`
		Set       string                `msgpack:"set"`
		Options   *query_models.Options `msgpack:"opts"`
		ScanID    uint64                `msgpack:"scan_id"`
	}

	QueryInfoResponse struct {
		Info *query_models.JobInfo `msgpack:"info,omitempty"`
		Err  string                `msgpack:"err,omitempty"`
	}
)

// ToWireError flattens err for transport. Engine errors keep matching their
// sentinels on the other side since errorsx compares messages.
func ToWireError(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}

func FromWireError(msg string) error {
	if msg == "" {
		return nil
	}

	return errorsx.New(msg)
}

// NormalizeRecord restores the value widths lost on the wire.
func NormalizeRecord(rec *record_models.Record) *record_models.Record {
	if rec == nil {
		return nil
	}

	if rec.Key != nil {
		rec.Key.UserKey = normalizer.Value(rec.Key.UserKey)
	}
	if rec.Bins != nil {
		rec.Bins = normalizer.Bins(rec.Bins)
	}

	return rec
}
