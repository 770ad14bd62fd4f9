// Package engine defines the execution engine contract the driver runs on.
// Implementations own transport, connection handling and storage; every
// primitive returns immediately and reports through its callbacks.
package engine

import (
	"context"

	"github.com/samber/mo"

	index_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/index"
	operation_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/operation"
	query_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/query"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

type (
	// RecordCallback receives one record. A nil RecordCallback passed to
	// Foreach means records must not be delivered at all.
	RecordCallback func(rec *record_models.Record)
	ErrorCallback  func(err error)
	// EndCallback receives the completion payload. Background scans carry
	// their scan id, every other mode may leave it empty.
	EndCallback func(payload mo.Option[uint64])

	Engine interface {
		// NewRequest is the scan/query request factory.
		NewRequest(
			ctx context.Context,
			namespace, set string,
			opts *query_models.Options,
		) (ExecutionRequest, error)

		Operate(
			ctx context.Context,
			key *record_models.Key,
			ops []operation_models.Descriptor,
			metadata mo.Option[*operation_models.Metadata],
			policy mo.Option[*operation_models.Policy],
			callback operation_models.Callback,
		)

		IndexCreate(
			ctx context.Context,
			req *index_models.Request,
			callback index_models.Callback,
		)

		Close() error
	}

	// ExecutionRequest is a single scan or query as created by the engine.
	// After Foreach is called, exactly one of onError or onEnd fires, after
	// every onResult call.
	ExecutionRequest interface {
		IsQuery() bool
		HasUDF() bool
		Namespace() string
		Set() string
		Options() *query_models.Options

		Foreach(
			ctx context.Context,
			onResult RecordCallback,
			onError ErrorCallback,
			onEnd EndCallback,
		)

		QueryInfo(
			ctx context.Context,
			scanID uint64,
			callback query_models.InfoCallback,
		)
	}
)
