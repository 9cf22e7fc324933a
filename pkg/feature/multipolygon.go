package feature

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
)

// ErrUnsupportedGeometry is returned for geometries other than Polygon and
// MultiPolygon.
var ErrUnsupportedGeometry = errors.New("unsupported geometry type")

// Normalize returns g as a multipolygon. A Polygon becomes a multipolygon with
// a single ring group; a MultiPolygon is returned unchanged.
func Normalize(g orb.Geometry) (orb.MultiPolygon, error) {
	switch g := g.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{g}, nil
	case orb.MultiPolygon:
		return g, nil
	case nil:
		return nil, ErrNoGeometry
	default:
		return nil, errors.Wrapf(ErrUnsupportedGeometry, "%q", g.GeoJSONType())
	}
}

// MinimumCorner returns the minimum longitude and the minimum latitude seen
// over the exterior ring of every polygon. The two components may come from
// different vertices. Holes are not considered. When there are no rings both
// components are math.MaxFloat64.
func MinimumCorner(mp orb.MultiPolygon) orb.Point {
	minLon, minLat := math.MaxFloat64, math.MaxFloat64
	for _, poly := range mp {
		if len(poly) == 0 {
			continue
		}
		for _, pt := range poly[0] {
			minLon = math.Min(minLon, pt.Lon())
			minLat = math.Min(minLat, pt.Lat())
		}
	}
	return orb.Point{minLon, minLat}
}

// IsUndetermined reports whether p is the sentinel returned by MinimumCorner
// for an empty multipolygon.
func IsUndetermined(p orb.Point) bool {
	return p[0] == math.MaxFloat64 || p[1] == math.MaxFloat64
}

// Exteriors returns the exterior ring of every polygon in mp.
func Exteriors(mp orb.MultiPolygon) []orb.Ring {
	rings := make([]orb.Ring, 0, len(mp))
	for _, poly := range mp {
		if len(poly) > 0 {
			rings = append(rings, poly[0])
		}
	}
	return rings
}

// HasHoles reports whether any polygon in mp carries interior rings.
func HasHoles(mp orb.MultiPolygon) bool {
	for _, poly := range mp {
		if len(poly) > 1 {
			return true
		}
	}
	return false
}
