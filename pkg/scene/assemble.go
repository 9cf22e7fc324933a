package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/wta12/urbanopt-geojson-gem/pkg/geo"
	"github.com/wta12/urbanopt-geojson-gem/pkg/layout"
	"github.com/wta12/urbanopt-geojson-gem/pkg/site"
	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
)

// Assemble converts conversion results into a scene graph. Results without a
// building are skipped.
func Assemble(specVersion string, results []*site.Result) *Graph {
	g := NewGraph()

	for _, res := range results {
		if res == nil || res.Building == nil {
			continue
		}
		if g.Metadata.Origin == nil {
			g.Metadata.Origin = res.Origin
		}
		g.Metadata.RunIDs = append(g.Metadata.RunIDs, res.RunID)

		assembleBuilding(res.Building, g)
		assembleShading(res.Building.FeatureID, res.Shading, g)
	}

	g.Metadata.SpecVersion = specVersion
	g.Metadata.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	g.Metadata.SiteBounds = computeBounds(g.Entities)
	return g
}

func assembleBuilding(b *layout.Building, g *Graph) {
	for si, s := range b.Spaces {
		layer := LayerAboveGrade
		if s.Ground {
			layer = LayerBelowGrade
		}
		prefix := fmt.Sprintf("%s/space_%d", b.FeatureID, si)
		var story *int
		if b.Method == spec.SpacePerFloor {
			story = &s.Story
		}

		if len(s.Zones) > 0 {
			for _, z := range s.Zones {
				addEntity(g, polygonEntity(prefix+"/"+z.ID, zoneEntityType(z.Type), b.FeatureID, story, s.Height, layer, z.Polygon))
			}
			continue
		}
		for i, fp := range s.FloorPrints {
			addEntity(g, polygonEntity(fmt.Sprintf("%s/floor_print_%d", prefix, i), EntityFloorPrint, b.FeatureID, story, s.Height, layer, fp))
		}
	}

	for i, roof := range b.Roof {
		e := polygonEntity(fmt.Sprintf("%s/roof_%d", b.FeatureID, i), EntityRoofPanel, b.FeatureID, nil, 0, LayerRoof, roof)
		e.Metadata = map[string]any{"building_type": b.BuildingType}
		addEntity(g, e)
	}
}

func assembleShading(target string, shading []*layout.Building, g *Graph) {
	for _, b := range shading {
		for si, s := range b.Spaces {
			for i, fp := range s.FloorPrints {
				id := fmt.Sprintf("%s/shading/%s/%d_%d", target, b.FeatureID, si, i)
				e := polygonEntity(id, EntityShading, b.FeatureID, nil, s.Height, LayerAboveGrade, fp)
				e.Metadata = map[string]any{"shades": target}
				addEntity(g, e)
			}
		}
	}
}

func polygonEntity(id string, t EntityType, featureID string, story *int, height float64, layer LayerType, p geo.Polygon) Entity {
	return Entity{
		ID:       id,
		Type:     t,
		Feature:  featureID,
		Story:    story,
		Layer:    layer,
		Position: p.Centroid(),
		Height:   height,
		Area:     p.Area(),
		Vertices: p.Vertices,
	}
}

func zoneEntityType(t layout.ZoneType) EntityType {
	switch t {
	case layout.ZoneCore:
		return EntityCoreZone
	case layout.ZonePerimeter:
		return EntityPerimeterZone
	default:
		return EntityFloorPrint
	}
}

// addEntity appends an entity and updates all group indices.
func addEntity(g *Graph, e Entity) {
	g.Entities = append(g.Entities, e)
	id := e.ID

	if e.Feature != "" {
		g.Groups.Features[e.Feature] = append(g.Groups.Features[e.Feature], id)
	}
	if e.Story != nil {
		key := storyKey(*e.Story)
		g.Groups.Stories[key] = append(g.Groups.Stories[key], id)
	}
	g.Groups.Layers[e.Layer] = append(g.Groups.Layers[e.Layer], id)
	g.Groups.EntityTypes[e.Type] = append(g.Groups.EntityTypes[e.Type], id)
}

func storyKey(story int) string {
	return fmt.Sprintf("story_%d", story)
}

// computeBounds calculates the AABB of all entity vertices, extruded by
// their height.
func computeBounds(entities []Entity) BoundingBox {
	if len(entities) == 0 {
		return BoundingBox{}
	}
	minV := geo.Pt(math.MaxFloat64, math.MaxFloat64, math.MaxFloat64)
	maxV := geo.Pt(-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64)

	for _, e := range entities {
		lo, hi := geo.NewPolygon(e.Vertices...).BoundingBox()
		hi.Z += e.Height
		minV = geo.Pt(math.Min(minV.X, lo.X), math.Min(minV.Y, lo.Y), math.Min(minV.Z, lo.Z))
		maxV = geo.Pt(math.Max(maxV.X, hi.X), math.Max(maxV.Y, hi.Y), math.Max(maxV.Z, hi.Z))
	}
	return BoundingBox{Min: minV, Max: maxV}
}
