// Package shadow decides whether one footprint can be shadowed by another at
// some time of year.
package shadow

import (
	"iter"
	"math"
	"slices"

	"github.com/golang/geo/s1"

	"github.com/wta12/urbanopt-geojson-gem/pkg/geo"
)

// Solar declination range swept by the test, in whole degrees.
const (
	MinDeclination = -24
	MaxDeclination = 24
)

// AdjacencyDistance is the planar separation below which two points are
// always considered shadowed, in meters.
const AdjacencyDistance = 1.0

// Pair is a candidate (point, obstruction point) combination.
type Pair struct {
	From     geo.Point3D
	To       geo.Point3D
	Distance float64
}

// Pairs yields every combination of a point in points with a point in others,
// closest first.
func Pairs(points, others []geo.Point3D) iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		pairs := make([]Pair, 0, len(points)*len(others))
		for _, p := range points {
			for _, q := range others {
				pairs = append(pairs, Pair{From: p, To: q, Distance: p.Distance(q)})
			}
		}
		slices.SortStableFunc(pairs, func(a, b Pair) int {
			switch {
			case a.Distance < b.Distance:
				return -1
			case a.Distance > b.Distance:
				return 1
			}
			return 0
		})
		for _, pr := range pairs {
			if !yield(pr) {
				return
			}
		}
	}
}

// IsShadowed reports whether any point of points is shadowed by any point of
// others at some solar declination. Pairs are checked closest first and the
// search stops at the first shadowed pair.
func IsShadowed(points, others []geo.Point3D, origin geo.Origin) bool {
	for pr := range Pairs(points, others) {
		if PointIsShadowed(pr.From, pr.To, origin) {
			return true
		}
	}
	return false
}

// PointIsShadowed reports whether p is shadowed by an obstruction at q.
// The sun position is approximated by the hour angle of the direction from q
// to p, swept over the yearly declination range at the origin latitude.
func PointIsShadowed(p, q geo.Point3D, origin geo.Origin) bool {
	v := q.Sub(p)
	height := v.Z
	planar := v.PlanarLength()
	if planar < AdjacencyDistance {
		return true
	}

	hourAngle := math.Atan2(-v.X, -v.Y)
	apparent := s1.Angle(math.Atan2(height, planar))

	sinLat, cosLat := math.Sincos(origin.LatLng.Lat.Radians())
	cosHour := math.Cos(hourAngle)
	for d := MinDeclination; d <= MaxDeclination; d++ {
		decl := s1.Angle(d) * s1.Degree
		sinDecl, cosDecl := math.Sincos(decl.Radians())
		zenith := s1.Angle(math.Acos(clamp(sinLat*sinDecl + cosLat*cosDecl*cosHour)))
		elevation := 90 - zenith.Degrees()
		if elevation > 0 && elevation < apparent.Degrees() {
			return true
		}
	}
	return false
}

func clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
