// Package floorprint projects footprint rings into oriented 3D floor prints.
package floorprint

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/wta12/urbanopt-geojson-gem/pkg/geo"
	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
)

// SnapTolerance is the distance within which projected points are merged
// when snapping is enabled, in meters.
const SnapTolerance = 1.0

// Options controls floor-print construction.
type Options struct {
	// Snap merges each projected point with an earlier point of the same
	// build lying within SnapTolerance. Used when floor prints are divided
	// into zones.
	Snap bool
}

// Build projects ring to the local frame of origin at the given elevation and
// returns a floor print whose normal points down. The second return value is
// false when the ring cannot form a floor print; the reason is recorded on r.
func Build(ring orb.Ring, elevation float64, origin geo.Origin, opts Options, r *validation.Report) (geo.Polygon, bool) {
	var seen []geo.Point3D
	pts := make([]geo.Point3D, 0, len(ring))
	for _, c := range ring {
		p := origin.ToLocal(c.Lat(), c.Lon(), 0).WithZ(elevation)
		if opts.Snap {
			p = geo.CombinedPoint(p, &seen, SnapTolerance)
		}
		pts = append(pts, p)
	}

	if len(pts) < 3 {
		warn(r, "cannot create floor print, fewer than 3 points", len(pts))
		return geo.Polygon{}, false
	}

	fp := geo.NewPolygon(pts...).RemoveCollinear(geo.CollinearTolerance)
	normal, ok := fp.OutwardNormal()
	if !ok {
		warn(r, "cannot create floor print, cannot compute outward normal", fp.Len())
		return geo.Polygon{}, false
	}

	if normal.Z > 0 {
		r.AddWarning(validation.Result{
			Level:   validation.LevelGeometry,
			Message: "reversing floor print",
		})
		fp = fp.Reverse()
	}
	return fp, true
}

// Points returns the vertices of every floor print built from rings at the
// given elevation. Rings that cannot be built are skipped.
func Points(rings []orb.Ring, elevation float64, origin geo.Origin, r *validation.Report) []geo.Point3D {
	var pts []geo.Point3D
	for i, ring := range rings {
		sub := validation.NewReport()
		fp, ok := Build(ring, elevation, origin, Options{}, sub)
		r.Merge(validation.Scoped(fmt.Sprintf("rings[%d]", i), sub))
		if ok {
			pts = append(pts, fp.Vertices...)
		}
	}
	return pts
}

func warn(r *validation.Report, msg string, actual any) {
	r.AddWarning(validation.Result{
		Level:       validation.LevelGeometry,
		Message:     msg,
		ActualValue: actual,
		Expected:    "at least 3 non-collinear points",
	})
}
