package localengine

import (
	"bytes"

	"gitlab.com/pietroski-software-company/lightning-db-driver/internal/tools/normalizer"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

func normalize(v any) any {
	return normalizer.Value(v)
}

func normalizeBins(bins record_models.BinMap) record_models.BinMap {
	return normalizer.Bins(bins)
}

func asFloat64(v any) (float64, bool) {
	switch t := normalize(v).(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

// equalValues compares two normalised bin values.
func equalValues(a, b any) bool {
	a, b = normalize(a), normalize(b)

	ai, aIsInt := a.(int64)
	bi, bIsInt := b.(int64)
	if aIsInt && bIsInt {
		return ai == bi
	}

	if af, ok := asFloat64(a); ok {
		bf, ok := asFloat64(b)
		return ok && af == bf
	}

	switch at := a.(type) {
	case string:
		bt, ok := b.(string)
		return ok && at == bt
	case []byte:
		bt, ok := b.([]byte)
		return ok && bytes.Equal(at, bt)
	case bool:
		bt, ok := b.(bool)
		return ok && at == bt
	default:
		return false
	}
}
