package operation_models

import (
	"time"

	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

type OpKind int

const (
	Read OpKind = iota
	Write
	Incr
	Append
	Prepend
	Touch
)

func (k OpKind) String() string {
	switch k {
	case Read:
		return "READ"
	case Write:
		return "WRITE"
	case Incr:
		return "INCR"
	case Append:
		return "APPEND"
	case Prepend:
		return "PREPEND"
	case Touch:
		return "TOUCH"
	default:
		return "UNKNOWN"
	}
}

type (
	// Descriptor is a single instruction consumed by the engine's operate primitive.
	// Touch descriptors carry TTL and leave Bin and Value empty.
	Descriptor struct {
		Operation OpKind
		Bin       string
		Value     any
		TTL       uint32
	}

	Bin struct {
		Name  string
		Value any
	}

	// Bins keeps bins in insertion order.
	Bins []Bin

	Metadata struct {
		TTL        uint32
		Generation uint32
	}

	Policy struct {
		Timeout    time.Duration
		Key        KeyPolicy
		Generation GenerationPolicy
		Exists     ExistsPolicy
	}

	// Callback receives the outcome of an operate call.
	// On failure rec is nil.
	Callback func(rec *record_models.Record, err error)
)

type KeyPolicy int

const (
	KeyDigest KeyPolicy = iota
	KeySend
)

type GenerationPolicy int

const (
	GenerationIgnore GenerationPolicy = iota
	GenerationEQ
	GenerationGT
)

type ExistsPolicy int

const (
	ExistsIgnore ExistsPolicy = iota
	ExistsCreate
	ExistsUpdate
	ExistsReplace
)

// NewBins builds Bins from alternating name/value pairs.
// A trailing name without value is ignored, as are non-string names.
func NewBins(pairs ...any) Bins {
	bins := make(Bins, 0, len(pairs)/2)
	for idx := 0; idx+1 < len(pairs); idx += 2 {
		name, ok := pairs[idx].(string)
		if !ok {
			continue
		}

		bins = append(bins, Bin{Name: name, Value: pairs[idx+1]})
	}

	return bins
}

func (b Bins) Names() []string {
	names := make([]string, len(b))
	for idx, bin := range b {
		names[idx] = bin.Name
	}

	return names
}

func (b Bins) ToBinMap() record_models.BinMap {
	bm := make(record_models.BinMap, len(b))
	for _, bin := range b {
		bm[bin.Name] = bin.Value
	}

	return bm
}
