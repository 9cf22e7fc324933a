package geo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transformation is an affine transform of local Cartesian points.
type Transformation struct {
	m mgl64.Mat4
}

// Identity returns the identity transformation.
func Identity() Transformation {
	return Transformation{m: mgl64.Ident4()}
}

// Apply transforms a single point.
func (t Transformation) Apply(p Point3D) Point3D {
	return FromVec(t.m.Mul4x1(p.Vec().Vec4(1)).Vec3())
}

// ApplyPolygon transforms every vertex of poly.
func (t Transformation) ApplyPolygon(poly Polygon) Polygon {
	pts := make([]Point3D, len(poly.Vertices))
	for i, v := range poly.Vertices {
		pts[i] = t.Apply(v)
	}
	return Polygon{Vertices: pts}
}

// Inverse returns the inverse transformation.
func (t Transformation) Inverse() Transformation {
	return Transformation{m: t.m.Inv()}
}

// AlignFace returns the transformation from face coordinates to world
// coordinates for poly. In face coordinates the polygon lies in the z = 0
// plane with its outward normal along +Z and its first vertex at the origin.
// Apply the Inverse to bring world vertices into the face frame.
func AlignFace(poly Polygon) (Transformation, bool) {
	normal, ok := poly.OutwardNormal()
	if !ok {
		return Transformation{}, false
	}
	zPrime := normal.Vec()

	var xPrime mgl64.Vec3
	if math.Abs(zPrime[2]) > 1-1e-9 {
		xPrime = mgl64.Vec3{1, 0, 0}
	} else {
		xPrime = mgl64.Vec3{0, 0, 1}.Cross(zPrime).Normalize()
	}
	yPrime := zPrime.Cross(xPrime).Normalize()

	rotation := mgl64.Mat4FromCols(xPrime.Vec4(0), yPrime.Vec4(0), zPrime.Vec4(0), mgl64.Vec4{0, 0, 0, 1})
	origin := poly.Vertices[0]
	return Transformation{m: mgl64.Translate3D(origin.X, origin.Y, origin.Z).Mul4(rotation)}, true
}
