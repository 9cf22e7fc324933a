package layout

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/wta12/urbanopt-geojson-gem/pkg/feature"
	"github.com/wta12/urbanopt-geojson-gem/pkg/floorprint"
	"github.com/wta12/urbanopt-geojson-gem/pkg/geo"
	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
	"github.com/wta12/urbanopt-geojson-gem/pkg/zoning"
)

// ZoneType identifies the part of a divided floor print.
type ZoneType string

const (
	ZoneCore      ZoneType = "core"
	ZonePerimeter ZoneType = "perimeter"
	// ZoneWhole marks a floor print that could not be divided.
	ZoneWhole ZoneType = "whole"
)

// Zone is one polygon of a divided floor print.
type Zone struct {
	ID      string      `json:"id"`
	Type    ZoneType    `json:"type"`
	Polygon geo.Polygon `json:"polygon"`
}

// Space is a group of floor prints extruded by Height from Elevation.
// Story is zero for a space spanning the whole building.
type Space struct {
	Name        string        `json:"name"`
	Story       int           `json:"story"`
	Elevation   float64       `json:"elevation"`
	Height      float64       `json:"height"`
	Ground      bool          `json:"ground,omitempty"`
	FloorPrints []geo.Polygon `json:"floor_prints"`
	Zones       []Zone        `json:"zones,omitempty"`
}

// Building is the laid out geometry of one footprint.
type Building struct {
	FeatureID    string            `json:"feature_id"`
	Name         string            `json:"name"`
	BuildingType string            `json:"building_type,omitempty"`
	Method       spec.CreateMethod `json:"create_method"`
	Plan         StoryPlan         `json:"plan"`
	Spaces       []Space           `json:"spaces"`
	Roof         []geo.Polygon     `json:"roof,omitempty"`
}

// Layout builds the spaces of f with the given options. Errors are fatal for
// the feature and are also recorded on the returned report.
func Layout(f *feature.Feature, origin geo.Origin, opts Options) (*Building, *validation.Report, error) {
	r := validation.NewReport()

	buildingType, err := ResolveBuildingType(f.Properties, r)
	if err != nil {
		return nil, r, err
	}
	plan, err := PlanStories(f.Properties, opts, r)
	if err != nil {
		return nil, r, err
	}

	b := &Building{
		FeatureID:    f.ID,
		Name:         f.Name(),
		BuildingType: buildingType,
		Method:       opts.Method,
		Plan:         plan,
	}

	switch opts.Method {
	case spec.SpacePerFloor, "":
		b.Method = spec.SpacePerFloor
		for story := -plan.Below + 1; story <= plan.Above; story++ {
			if s, ok := SpacePerFloor(f, story, plan.FloorToFloor, origin, opts, r); ok {
				b.Spaces = append(b.Spaces, s)
			}
		}
	case spec.SpacePerBuilding:
		minZ := -float64(plan.Below) * plan.FloorToFloor
		if s, ok := SpacePerBuilding(f, minZ, plan.RoofHeight(), origin, opts, r); ok {
			b.Spaces = append(b.Spaces, s)
		}
	default:
		err := errors.Newf("unknown create method %q", opts.Method)
		r.AddError(validation.Result{Level: validation.LevelInput, Message: err.Error(), Path: "create_method"})
		return nil, r, err
	}

	if opts.RoofPanels {
		b.Roof = RoofPrints(f, plan.RoofHeight(), origin, r)
	}
	return b, r, nil
}

// SpacePerFloor builds the floor prints of one story. The floor sits at
// (story-1) * floorToFloor; stories below 1 are below grade. With zoning each
// print is divided into core and perimeter zones.
func SpacePerFloor(f *feature.Feature, story int, floorToFloor float64, origin geo.Origin, opts Options, r *validation.Report) (Space, bool) {
	elevation := float64(story-1) * floorToFloor
	space := Space{
		Name:      fmt.Sprintf("Building Story %d Space", story),
		Story:     story,
		Elevation: elevation,
		Height:    floorToFloor,
		Ground:    story < 1,
	}
	path := fmt.Sprintf("stories[%d]", story)

	for i, poly := range f.Geometry {
		if len(poly) == 0 {
			emptyPolygon(r, fmt.Sprintf("%s.polygons[%d]", path, i))
			continue
		}
		if story == 1 && len(poly) > 1 {
			ignoreHoles(r, fmt.Sprintf("polygons[%d]", i))
		}

		sub := validation.NewReport()
		fp, ok := floorprint.Build(poly[0], elevation, origin, floorprint.Options{Snap: opts.Zoning}, sub)
		if !ok {
			sub.AddWarning(validation.Result{
				Level:   validation.LevelGeometry,
				Message: fmt.Sprintf("cannot create story %d", story),
			})
			r.Merge(validation.Scoped(fmt.Sprintf("%s.polygons[%d]", path, i), sub))
			continue
		}
		space.FloorPrints = append(space.FloorPrints, fp)

		if opts.Zoning {
			parts := zoning.Divide(fp, opts.perimeterDepth(), sub)
			space.Zones = append(space.Zones, zones(story, i, parts)...)
		}
		r.Merge(validation.Scoped(fmt.Sprintf("%s.polygons[%d]", path, i), sub))
	}
	return space, len(space.FloorPrints) > 0
}

// SpacePerBuilding builds a single space spanning minZ to maxZ.
func SpacePerBuilding(f *feature.Feature, minZ, maxZ float64, origin geo.Origin, opts Options, r *validation.Report) (Space, bool) {
	space := Space{
		Name:      fmt.Sprintf("Building %s Space", f.Name()),
		Elevation: minZ,
		Height:    maxZ - minZ,
	}
	for i, poly := range f.Geometry {
		if len(poly) == 0 {
			emptyPolygon(r, fmt.Sprintf("building.polygons[%d]", i))
			continue
		}
		if len(poly) > 1 {
			ignoreHoles(r, fmt.Sprintf("polygons[%d]", i))
		}

		sub := validation.NewReport()
		fp, ok := floorprint.Build(poly[0], minZ, origin, floorprint.Options{Snap: opts.Zoning}, sub)
		if !ok {
			sub.AddWarning(validation.Result{
				Level:   validation.LevelGeometry,
				Message: fmt.Sprintf("cannot get floor print for building %q", f.Name()),
			})
		} else {
			space.FloorPrints = append(space.FloorPrints, fp)
		}
		r.Merge(validation.Scoped(fmt.Sprintf("building.polygons[%d]", i), sub))
	}
	if len(space.FloorPrints) == 0 || space.Height <= 0 {
		r.AddWarning(validation.Result{
			Level:       validation.LevelGeometry,
			Message:     "cannot create building space",
			Path:        "building",
			ActualValue: space.Height,
		})
		return space, false
	}
	return space, true
}

// RoofPrints returns upward facing prints at height, one per polygon.
func RoofPrints(f *feature.Feature, height float64, origin geo.Origin, r *validation.Report) []geo.Polygon {
	var roof []geo.Polygon
	for i, poly := range f.Geometry {
		if len(poly) == 0 {
			emptyPolygon(r, fmt.Sprintf("roof.polygons[%d]", i))
			continue
		}
		if len(poly) > 1 {
			ignoreHoles(r, fmt.Sprintf("roof.polygons[%d]", i))
		}

		sub := validation.NewReport()
		fp, ok := floorprint.Build(poly[0], height, origin, floorprint.Options{}, sub)
		if ok {
			roof = append(roof, fp.Reverse())
		} else {
			sub.AddWarning(validation.Result{
				Level:   validation.LevelGeometry,
				Message: fmt.Sprintf("cannot create footprint for %q", f.Name()),
			})
		}
		r.Merge(validation.Scoped(fmt.Sprintf("roof.polygons[%d]", i), sub))
	}
	return roof
}

func zones(story, polygon int, parts []geo.Polygon) []Zone {
	prefix := fmt.Sprintf("story_%d_polygon_%d", story, polygon)
	if len(parts) == 1 {
		return []Zone{{ID: prefix, Type: ZoneWhole, Polygon: parts[0]}}
	}
	out := make([]Zone, 0, len(parts))
	out = append(out, Zone{ID: prefix + "_core", Type: ZoneCore, Polygon: parts[0]})
	for i, p := range parts[1:] {
		out = append(out, Zone{
			ID:      fmt.Sprintf("%s_perimeter_%d", prefix, i+1),
			Type:    ZonePerimeter,
			Polygon: p,
		})
	}
	return out
}

func ignoreHoles(r *validation.Report, path string) {
	r.AddWarning(validation.Result{
		Level:   validation.LevelGeometry,
		Message: "ignoring holes in polygon",
		Path:    path,
	})
}

func emptyPolygon(r *validation.Report, path string) {
	r.AddWarning(validation.Result{
		Level:   validation.LevelGeometry,
		Message: "skipping polygon without rings",
		Path:    path,
	})
}
