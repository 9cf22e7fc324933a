package site

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/wta12/urbanopt-geojson-gem/pkg/feature"
	"github.com/wta12/urbanopt-geojson-gem/pkg/geo"
)

// minExtent keeps degenerate bounds representable as rtree rectangles.
const minExtent = 1e-9

// footprint is a polygonal feature stored in the proximity index.
type footprint struct {
	seq int
	id  string
	raw *geojson.Feature
	box orb.Bound
}

// Bounds implements the rtreego.Spatial interface.
func (f *footprint) Bounds() rtreego.Rect {
	return rect(f.box)
}

func rect(b orb.Bound) rtreego.Rect {
	r, _ := rtreego.NewRect(
		rtreego.Point{b.Min[0], b.Min[1]},
		[]float64{max(b.Max[0]-b.Min[0], minExtent), max(b.Max[1]-b.Min[1], minExtent)},
	)
	return r
}

// Index answers proximity queries over the polygonal features of a
// collection.
type Index struct {
	tree  *rtreego.Rtree
	count int
}

// NewIndex indexes every Polygon and MultiPolygon feature of c by its lon/lat
// bounding box.
func NewIndex(c *feature.Collection) *Index {
	ix := &Index{tree: rtreego.NewTree(2, 25, 50)}
	for i, raw := range c.Features() {
		if _, err := feature.Normalize(raw.Geometry); err != nil {
			continue
		}
		ix.tree.Insert(&footprint{seq: i, id: feature.Key(raw), raw: raw, box: raw.Geometry.Bound()})
		ix.count++
	}
	return ix
}

// Len returns the number of indexed footprints.
func (ix *Index) Len() int {
	return ix.count
}

// Nearby returns the features whose bounds come within meters of target,
// in collection order. Features whose identifier equals exclude are skipped.
func (ix *Index) Nearby(target orb.Bound, exclude string, meters float64, origin geo.Origin) []*geojson.Feature {
	dLat, dLon := origin.DegreeSpan(meters)
	search := orb.Bound{
		Min: orb.Point{target.Min[0] - dLon, target.Min[1] - dLat},
		Max: orb.Point{target.Max[0] + dLon, target.Max[1] + dLat},
	}

	hits := ix.tree.SearchIntersect(rect(search))
	found := make([]*footprint, 0, len(hits))
	for _, h := range hits {
		fp := h.(*footprint)
		if fp.id == exclude {
			continue
		}
		found = append(found, fp)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].seq < found[j].seq })

	out := make([]*geojson.Feature, len(found))
	for i, fp := range found {
		out[i] = fp.raw
	}
	return out
}
