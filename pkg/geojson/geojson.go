// Package geojson holds the tagged GeoJSON value used in bins and geo filters.
package geojson

// GeoJSON wraps a raw GeoJSON geometry string so that it is stored and
// compared as geometry instead of as a plain string.
type GeoJSON string

// New returns a tagged GeoJSON value.
func New(raw string) GeoJSON {
	return GeoJSON(raw)
}

func (g GeoJSON) String() string {
	return string(g)
}

// IsGeoJSON reports whether v carries the GeoJSON tag.
func IsGeoJSON(v any) bool {
	switch v.(type) {
	case GeoJSON, *GeoJSON:
		return true
	default:
		return false
	}
}
