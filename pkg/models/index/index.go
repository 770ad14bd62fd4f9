package index_models

import "time"

type Type int

const (
	Numeric Type = iota
	String
	Geo2DSphere
)

func (t Type) String() string {
	switch t {
	case Numeric:
		return "NUMERIC"
	case String:
		return "STRING"
	case Geo2DSphere:
		return "GEO2DSPHERE"
	default:
		return "UNKNOWN"
	}
}

type (
	Policy struct {
		Timeout time.Duration
	}

	// Options is what applications hand to the Create*Index calls.
	// Set and Policy are optional.
	Options struct {
		Namespace string
		Set       string
		Bin       string
		Index     string
		Policy    *Policy
	}

	// Request is the normalised index creation request handed to the engine.
	Request struct {
		Namespace string
		Set       string
		Bin       string
		IndexName string
		IndexType Type
		Policy    *Policy
	}

	Callback func(err error)
)

// NewRequest normalises opts for the given index type.
// No validation happens here; missing fields are reported by the engine.
func NewRequest(opts *Options, indexType Type) *Request {
	req := &Request{
		IndexType: indexType,
	}
	if opts == nil {
		return req
	}

	req.Namespace = opts.Namespace
	req.Set = opts.Set
	req.Bin = opts.Bin
	req.IndexName = opts.Index
	req.Policy = opts.Policy

	return req
}
