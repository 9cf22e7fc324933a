// Package zoning splits floor prints into a core zone and perimeter strips.
package zoning

import (
	"math"

	"github.com/wta12/urbanopt-geojson-gem/pkg/geo"
	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
)

// DefaultPerimeterDepth is the perimeter zone depth in meters.
const DefaultPerimeterDepth = 4.0

// SelfIntersectionTolerance is the edge proximity counted as an intersection
// when checking the offset core ring.
const SelfIntersectionTolerance = 0.01

// Divide offsets fp inward by depth and returns the core polygon followed by
// one perimeter strip per edge of fp. When the offset ring would be inverted
// the division is abandoned and fp is returned unchanged as the only element.
func Divide(fp geo.Polygon, depth float64, r *validation.Report) []geo.Polygon {
	tInv, ok := geo.AlignFace(fp)
	if !ok {
		wrongDirection(r)
		return []geo.Polygon{fp}
	}
	face := tInv.Inverse().ApplyPolygon(fp)
	core := offset(face, depth)

	normal, ok := core.OutwardNormal()
	if !ok || normal.Z < 0 {
		wrongDirection(r)
		return []geo.Polygon{fp}
	}

	if core.Reverse().SelfIntersects(SelfIntersectionTolerance) {
		r.AddWarning(validation.Result{
			Level:   validation.LevelZoning,
			Message: "self intersecting surface result",
		})
	}

	n := face.Len()
	result := make([]geo.Polygon, 0, n+1)
	result = append(result, tInv.ApplyPolygon(core))
	for i := 0; i < n; i++ {
		strip := geo.NewPolygon(face.Vertex(i), face.Vertex(i+1), core.Vertex(i+1), core.Vertex(i))
		result = append(result, tInv.ApplyPolygon(strip))
	}
	return result
}

// offset moves every vertex of a counterclockwise face-plane polygon along
// the sum of the inward normals of its two adjacent edges, scaled to depth.
func offset(face geo.Polygon, depth float64) geo.Polygon {
	n := face.Len()
	pts := make([]geo.Point3D, n)
	for i := 0; i < n; i++ {
		prev, cur, next := face.Vertex(i-1), face.Vertex(i), face.Vertex(i+1)
		in, out := cur.Sub(prev), next.Sub(cur)
		a1 := math.Atan2(in.Y, in.X) + math.Pi/2
		a2 := math.Atan2(out.Y, out.X) + math.Pi/2
		dir := geo.Pt(math.Cos(a1)+math.Cos(a2), math.Sin(a1)+math.Sin(a2), 0)
		pts[i] = cur.Add(dir.WithLength(depth))
	}
	return geo.Polygon{Vertices: pts}
}

func wrongDirection(r *validation.Report) {
	r.AddWarning(validation.Result{
		Level:   validation.LevelZoning,
		Message: "wrong direction for resulting normal, will not divide",
	})
}
