package normalizer

import (
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/geojson"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

// Value folds every integer width into int64 and floats into float64 so that
// values compare the same before and after a msgpack round trip.
func Value(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		return int64(t)
	case float32:
		return float64(t)
	case geojson.GeoJSON:
		return t.String()
	case *geojson.GeoJSON:
		if t == nil {
			return nil
		}
		return t.String()
	case []any:
		out := make([]any, len(t))
		for idx, item := range t {
			out[idx] = Value(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Value(item)
		}
		return out
	case record_models.BinMap:
		return Bins(t)
	default:
		return v
	}
}

// Bins normalises every bin value. The result is never nil.
func Bins(bins record_models.BinMap) record_models.BinMap {
	out := make(record_models.BinMap, len(bins))
	for name, v := range bins {
		out[name] = Value(v)
	}

	return out
}
