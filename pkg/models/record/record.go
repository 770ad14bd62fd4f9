package record_models

import (
	"fmt"
)

type (
	// Key identifies a record on the cluster.
	Key struct {
		Namespace string
		Set       string
		UserKey   any
	}

	// BinMap holds the bins of a record as delivered by the engine.
	BinMap map[string]any

	Record struct {
		Key        *Key
		Bins       BinMap
		Generation uint32
		// TTL is the remaining time to live in seconds; zero means it never expires.
		TTL uint32
	}
)

func NewKey(namespace, set string, userKey any) *Key {
	return &Key{
		Namespace: namespace,
		Set:       set,
		UserKey:   userKey,
	}
}

func (k *Key) String() string {
	if k == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%s:%s:%v", k.Namespace, k.Set, k.UserKey)
}

// Bin returns the bin value and whether it is present.
func (r *Record) Bin(name string) (any, bool) {
	if r == nil || r.Bins == nil {
		return nil, false
	}

	v, ok := r.Bins[name]
	return v, ok
}
