package geo

import "math"

// point2 is a vertex projected onto the dominant plane of a polygon.
type point2 struct{ u, v float64 }

func cross2(o, a, b point2) float64 {
	return (a.u-o.u)*(b.v-o.v) - (a.v-o.v)*(b.u-o.u)
}

func dist2(a, b point2) float64 {
	return math.Hypot(a.u-b.u, a.v-b.v)
}

func distToSegment2(p, a, b point2) float64 {
	du, dv := b.u-a.u, b.v-a.v
	lenSq := du*du + dv*dv
	if lenSq < 1e-24 {
		return dist2(p, a)
	}
	t := ((p.u-a.u)*du + (p.v-a.v)*dv) / lenSq
	t = math.Max(0, math.Min(1, t))
	return dist2(p, point2{a.u + t*du, a.v + t*dv})
}

// segmentsIntersect reports whether segments ab and cd cross or come within tol.
func segmentsIntersect(a, b, c, d point2, tol float64) bool {
	d1 := cross2(c, d, a)
	d2 := cross2(c, d, b)
	d3 := cross2(a, b, c)
	d4 := cross2(a, b, d)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return distToSegment2(a, c, d) < tol ||
		distToSegment2(b, c, d) < tol ||
		distToSegment2(c, a, b) < tol ||
		distToSegment2(d, a, b) < tol
}

// project2 drops the coordinate axis along which the polygon normal is largest.
func (p Polygon) project2() []point2 {
	n := p.newellNormal()
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	out := make([]point2, len(p.Vertices))
	for i, v := range p.Vertices {
		switch {
		case az >= ax && az >= ay:
			out[i] = point2{v.X, v.Y}
		case ay >= ax:
			out[i] = point2{v.Z, v.X}
		default:
			out[i] = point2{v.Y, v.Z}
		}
	}
	return out
}

// SelfIntersects reports whether any two non-adjacent edges of the polygon
// intersect or pass within tol of each other.
func (p Polygon) SelfIntersects(tol float64) bool {
	n := len(p.Vertices)
	if n < 4 {
		return false
	}
	pts := p.project2()
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // shares vertex 0
			}
			c, d := pts[j], pts[(j+1)%n]
			if segmentsIntersect(a, b, c, d, tol) {
				return true
			}
		}
	}
	return false
}
