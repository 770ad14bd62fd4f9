package localengine

import (
	"gitlab.com/pietroski-software-company/golang/devex/errorsx"
)

const (
	geoPoint   = "Point"
	geoPolygon = "Polygon"
)

type (
	geoDocument struct {
		Type        string `json:"type"`
		Coordinates any    `json:"coordinates"`
	}

	point struct {
		lng, lat float64
	}

	// polygon holds the outer ring first, then its holes.
	polygon [][]point

	geometry struct {
		kind    string
		point   point
		polygon polygon
	}
)

func (e *LocalEngine) parseGeometry(v any) (*geometry, error) {
	raw, ok := normalize(v).(string)
	if !ok {
		return nil, errorsx.Errorf("geo value must be a geojson string, got %T", v)
	}

	doc := &geoDocument{}
	if err := e.jsonCodec.Deserialize([]byte(raw), doc); err != nil {
		return nil, errorsx.Wrap(err, "invalid geojson")
	}

	switch doc.Type {
	case geoPoint:
		p, err := toPoint(doc.Coordinates)
		if err != nil {
			return nil, err
		}

		return &geometry{kind: geoPoint, point: p}, nil
	case geoPolygon:
		rings, ok := doc.Coordinates.([]any)
		if !ok || len(rings) == 0 {
			return nil, errorsx.New("polygon without rings")
		}

		poly := make(polygon, 0, len(rings))
		for _, r := range rings {
			ring, err := toRing(r)
			if err != nil {
				return nil, err
			}
			poly = append(poly, ring)
		}

		return &geometry{kind: geoPolygon, polygon: poly}, nil
	default:
		return nil, errorsx.Errorf("unsupported geojson type %q", doc.Type)
	}
}

func toPoint(v any) (point, error) {
	coords, ok := v.([]any)
	if !ok || len(coords) < 2 {
		return point{}, errorsx.New("point needs two coordinates")
	}

	lng, okLng := asFloat64(coords[0])
	lat, okLat := asFloat64(coords[1])
	if !okLng || !okLat {
		return point{}, errorsx.New("point coordinates must be numbers")
	}

	return point{lng: lng, lat: lat}, nil
}

func toRing(v any) ([]point, error) {
	coords, ok := v.([]any)
	if !ok || len(coords) < 3 {
		return nil, errorsx.New("polygon ring needs at least three points")
	}

	ring := make([]point, 0, len(coords))
	for _, c := range coords {
		p, err := toPoint(c)
		if err != nil {
			return nil, err
		}
		ring = append(ring, p)
	}

	return ring, nil
}

// contains reports whether p lies inside the polygon, outside its holes.
func (poly polygon) contains(p point) bool {
	if len(poly) == 0 || !ringContains(poly[0], p) {
		return false
	}

	for _, hole := range poly[1:] {
		if ringContains(hole, p) {
			return false
		}
	}

	return true
}

// ringContains is the even-odd ray casting test on a planar projection.
func ringContains(ring []point, p point) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.lat > p.lat) != (b.lat > p.lat) &&
			p.lng < (b.lng-a.lng)*(p.lat-a.lat)/(b.lat-a.lat)+a.lng {
			inside = !inside
		}
	}

	return inside
}

// geoMatch evaluates a geo filter. A region filter matches bins lying
// within it; a point filter matches bins whose region contains it.
func geoMatch(filterGeo, binGeo *geometry) bool {
	switch {
	case filterGeo.kind == geoPolygon && binGeo.kind == geoPoint:
		return filterGeo.polygon.contains(binGeo.point)
	case filterGeo.kind == geoPolygon && binGeo.kind == geoPolygon:
		for _, p := range binGeo.polygon[0] {
			if !filterGeo.polygon.contains(p) {
				return false
			}
		}
		return true
	case filterGeo.kind == geoPoint && binGeo.kind == geoPolygon:
		return binGeo.polygon.contains(filterGeo.point)
	default:
		return false
	}
}
