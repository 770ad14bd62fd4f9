// Package filter builds secondary index predicates for queries.
package filter

import (
	"reflect"

	"gitlab.com/pietroski-software-company/golang/devex/errorsx"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/geojson"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	index_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/index"
	query_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/query"
)

// Equal builds an equality filter inferring the index type from val.
// Numeric kinds map to a numeric index and strings to a string index;
// anything else fails with errs.ErrUnsupportedFilterValue.
func Equal(bin string, val any) (*query_models.Filter, error) {
	indexType, ok := InferIndexType(val)
	if !ok {
		return nil, errorsx.Wrapf(errs.ErrUnsupportedFilterValue, "bin %s: %T", bin, val)
	}

	return EqualTyped(bin, val, indexType), nil
}

// EqualTyped builds an equality filter for an explicit index type.
func EqualTyped(bin string, val any, indexType index_models.Type) *query_models.Filter {
	return &query_models.Filter{
		Predicate: query_models.Equal,
		IndexType: indexType,
		Bin:       bin,
		Value:     val,
	}
}

func Range(bin string, min, max int64) *query_models.Filter {
	return &query_models.Filter{
		Predicate: query_models.Range,
		IndexType: index_models.Numeric,
		Bin:       bin,
		Min:       min,
		Max:       max,
	}
}

// GeoWithin matches records whose geo bin lies within region.
func GeoWithin(bin string, region geojson.GeoJSON) *query_models.Filter {
	return geoFilter(bin, region)
}

// GeoContains matches records whose geo bin region contains point.
func GeoContains(bin string, point geojson.GeoJSON) *query_models.Filter {
	return geoFilter(bin, point)
}

func geoFilter(bin string, value geojson.GeoJSON) *query_models.Filter {
	return &query_models.Filter{
		Predicate: query_models.Range,
		IndexType: index_models.Geo2DSphere,
		Bin:       bin,
		Value:     value,
	}
}

// InferIndexType maps a comparison value to the index type it can be served by.
func InferIndexType(val any) (index_models.Type, bool) {
	if val == nil {
		return 0, false
	}

	switch reflect.TypeOf(val).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return index_models.Numeric, true
	case reflect.String:
		if geojson.IsGeoJSON(val) {
			return 0, false
		}

		return index_models.String, true
	default:
		return 0, false
	}
}
