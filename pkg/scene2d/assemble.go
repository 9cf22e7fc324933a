package scene2d

import (
	"math"
	"time"

	"github.com/wta12/urbanopt-geojson-gem/pkg/geo"
	"github.com/wta12/urbanopt-geojson-gem/pkg/layout"
	"github.com/wta12/urbanopt-geojson-gem/pkg/site"
)

// Assemble2D converts conversion results into a site plan. Shading buildings
// shared by several results appear once, and never when they were also
// converted themselves.
func Assemble2D(results []*site.Result) *Plan {
	p := &Plan{
		Buildings: []Building2D{},
		Shading:   []Building2D{},
	}

	converted := make(map[string]bool)
	for _, res := range results {
		if res == nil || res.Building == nil {
			continue
		}
		if p.Metadata.Origin == nil {
			p.Metadata.Origin = res.Origin
		}
		converted[res.Building.FeatureID] = true
		p.Buildings = append(p.Buildings, assembleBuilding(res.Building))
	}

	seen := make(map[string]bool)
	for _, res := range results {
		if res == nil {
			continue
		}
		for _, b := range res.Shading {
			if converted[b.FeatureID] || seen[b.FeatureID] {
				continue
			}
			seen[b.FeatureID] = true
			p.Shading = append(p.Shading, assembleBuilding(b))
		}
	}

	p.Metadata.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	p.Metadata.Min, p.Metadata.Max = planBounds(p)
	return p
}

func assembleBuilding(b *layout.Building) Building2D {
	out := Building2D{
		ID:           b.FeatureID,
		Name:         b.Name,
		BuildingType: b.BuildingType,
		Height:       b.Plan.RoofHeight(),
		Stories:      b.Plan.Total(),
	}
	ground := groundSpace(b)
	if ground == nil {
		return out
	}
	out.Zoned = len(ground.Zones) > 0
	for _, fp := range ground.FloorPrints {
		out.Outlines = append(out.Outlines, outline(fp))
	}
	return out
}

// groundSpace returns the first story at or above grade, or the only space of
// a space-per-building layout.
func groundSpace(b *layout.Building) *layout.Space {
	for i := range b.Spaces {
		if !b.Spaces[i].Ground {
			return &b.Spaces[i]
		}
	}
	if len(b.Spaces) > 0 {
		return &b.Spaces[0]
	}
	return nil
}

func outline(p geo.Polygon) [][2]float64 {
	pts := make([][2]float64, len(p.Vertices))
	for i, v := range p.Vertices {
		pts[i] = [2]float64{v.X, v.Y}
	}
	return pts
}

func planBounds(p *Plan) (minXY, maxXY [2]float64) {
	minXY = [2]float64{math.MaxFloat64, math.MaxFloat64}
	maxXY = [2]float64{-math.MaxFloat64, -math.MaxFloat64}
	found := false
	for _, group := range [][]Building2D{p.Buildings, p.Shading} {
		for _, b := range group {
			for _, o := range b.Outlines {
				for _, pt := range o {
					found = true
					minXY = [2]float64{math.Min(minXY[0], pt[0]), math.Min(minXY[1], pt[1])}
					maxXY = [2]float64{math.Max(maxXY[0], pt[0]), math.Max(maxXY[1], pt[1])}
				}
			}
		}
	}
	if !found {
		return [2]float64{}, [2]float64{}
	}
	return minXY, maxXY
}
