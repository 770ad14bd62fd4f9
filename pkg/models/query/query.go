package query_models

import (
	index_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/index"
)

type Predicate int

const (
	Equal Predicate = iota
	Range
)

func (p Predicate) String() string {
	switch p {
	case Equal:
		return "EQUAL"
	case Range:
		return "RANGE"
	default:
		return "UNKNOWN"
	}
}

type ScanStatus int

const (
	ScanStatusUndef ScanStatus = iota
	ScanStatusInProgress
	ScanStatusAborted
	ScanStatusCompleted
)

func (s ScanStatus) String() string {
	switch s {
	case ScanStatusInProgress:
		return "IN_PROGRESS"
	case ScanStatusAborted:
		return "ABORTED"
	case ScanStatusCompleted:
		return "COMPLETED"
	default:
		return "UNDEF"
	}
}

type Priority int

const (
	PriorityAuto Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

type (
	// Filter describes a secondary index predicate.
	// Equal filters use Value; Range filters use Min and Max,
	// except geo filters which carry the GeoJSON region in Value.
	Filter struct {
		Predicate Predicate
		IndexType index_models.Type
		Bin       string
		Value     any
		Min       int64
		Max       int64
	}

	// UDF names a server side function. For scans it turns the scan into a
	// background job, for queries it is not supported.
	UDF struct {
		Module   string
		Function string
		Args     []any
	}

	// Options configures a scan or query request.
	// A request carrying filters or an aggregation is a query.
	Options struct {
		Filters     []*Filter
		Aggregation *UDF
		UDF         *UDF
		Select      []string
		Priority    Priority
		Percent     uint8
		Concurrent  bool
		NoBins      bool
	}

	JobInfo struct {
		ScanID         uint64
		Status         ScanStatus
		ProgressPct    uint8
		RecordsScanned uint64
	}

	InfoCallback func(info *JobInfo, err error)
)

// IsQuery reports whether opts describe a query rather than a scan.
func (o *Options) IsQuery() bool {
	if o == nil {
		return false
	}

	return len(o.Filters) > 0 || o.Aggregation != nil
}

// HasUDF reports whether a record UDF is attached.
func (o *Options) HasUDF() bool {
	return o != nil && o.UDF != nil
}

// DefaultOptions returns the options used when none are supplied.
func DefaultOptions() *Options {
	return &Options{
		Priority: PriorityAuto,
		Percent:  100,
	}
}
