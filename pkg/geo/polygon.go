package geo

import "math"

// Tolerances used by polygon cleanup and normal computation, in meters.
const (
	CollinearTolerance = 0.001
	normalTolerance    = 1e-9
)

// Polygon is a closed planar polygon defined by its vertices in order.
type Polygon struct {
	Vertices []Point3D `json:"vertices"`
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point3D) Polygon {
	return Polygon{Vertices: pts}
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsEmpty returns true if the polygon has fewer than 3 vertices.
func (p Polygon) IsEmpty() bool {
	return len(p.Vertices) < 3
}

// Vertex returns the i-th vertex. Indices wrap in both directions.
func (p Polygon) Vertex(i int) Point3D {
	n := len(p.Vertices)
	return p.Vertices[((i%n)+n)%n]
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (p Polygon) Edge(i int) (Point3D, Point3D) {
	return p.Vertex(i), p.Vertex(i + 1)
}

// newellNormal returns the unnormalized polygon normal using Newell's method.
// Its length is twice the polygon area.
func (p Polygon) newellNormal() Point3D {
	var n Point3D
	for i := range p.Vertices {
		a, b := p.Edge(i)
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

// OutwardNormal returns the unit normal given by the right-hand rule over the
// vertex order. A counterclockwise polygon seen from above has a normal with
// positive Z. The second return value is false for degenerate polygons.
func (p Polygon) OutwardNormal() (Point3D, bool) {
	if p.IsEmpty() {
		return Point3D{}, false
	}
	n := p.newellNormal()
	if n.Length() < normalTolerance {
		return Point3D{}, false
	}
	return n.Normalize(), true
}

// Area returns the unsigned area of the polygon.
func (p Polygon) Area() float64 {
	if p.IsEmpty() {
		return 0
	}
	return p.newellNormal().Length() / 2
}

// Reverse returns the polygon with reversed vertex order.
func (p Polygon) Reverse() Polygon {
	n := len(p.Vertices)
	rev := make([]Point3D, n)
	for i, v := range p.Vertices {
		rev[n-1-i] = v
	}
	return Polygon{Vertices: rev}
}

// RemoveCollinear drops vertices that coincide with their predecessor or lie
// on the segment joining their neighbors, both within tol. The input ring may
// repeat its first vertex at the end; the duplicate is removed as well.
func (p Polygon) RemoveCollinear(tol float64) Polygon {
	pts := make([]Point3D, len(p.Vertices))
	copy(pts, p.Vertices)

	for removed := true; removed && len(pts) >= 3; {
		removed = false
		n := len(pts)
		for i := 0; i < n; i++ {
			prev := pts[(i+n-1)%n]
			next := pts[(i+1)%n]
			if pts[i].Distance(prev) < tol || distanceToSegment(pts[i], prev, next) < tol {
				pts = append(pts[:i], pts[i+1:]...)
				removed = true
				break
			}
		}
	}
	return Polygon{Vertices: pts}
}

// Centroid returns the vertex average of the polygon.
func (p Polygon) Centroid() Point3D {
	n := len(p.Vertices)
	if n == 0 {
		return Point3D{}
	}
	sum := Point3D{}
	for _, v := range p.Vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1.0 / float64(n))
}

// BoundingBox returns the axis-aligned bounding box as (min, max).
func (p Polygon) BoundingBox() (Point3D, Point3D) {
	if len(p.Vertices) == 0 {
		return Point3D{}, Point3D{}
	}
	minP := p.Vertices[0]
	maxP := p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		minP.X = math.Min(minP.X, v.X)
		minP.Y = math.Min(minP.Y, v.Y)
		minP.Z = math.Min(minP.Z, v.Z)
		maxP.X = math.Max(maxP.X, v.X)
		maxP.Y = math.Max(maxP.Y, v.Y)
		maxP.Z = math.Max(maxP.Z, v.Z)
	}
	return minP, maxP
}

// Perimeter returns the total perimeter length.
func (p Polygon) Perimeter() float64 {
	n := len(p.Vertices)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		a, b := p.Edge(i)
		total += a.Distance(b)
	}
	return total
}

// AtElevation returns a copy of the polygon with every Z set to z.
func (p Polygon) AtElevation(z float64) Polygon {
	pts := make([]Point3D, len(p.Vertices))
	for i, v := range p.Vertices {
		pts[i] = v.WithZ(z)
	}
	return Polygon{Vertices: pts}
}
