package validation

import (
	"fmt"

	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
)

// ValidateSchema performs schema validation on a parsed SiteSpec.
// It checks structural correctness before any geometry is built.
func ValidateSchema(s *spec.SiteSpec) *Report {
	r := NewReport()

	validateVersion(s, r)
	validateSite(s, r)
	validateGeometry(s, r)
	validateShading(s, r)

	return r
}

func validateVersion(s *spec.SiteSpec, r *Report) {
	if s.SpecVersion == "" {
		r.AddWarning(Result{
			Level:    LevelSchema,
			Message:  "spec_version is not set",
			Path:     "spec_version",
			Expected: "0.1.0",
		})
	}
}

func validateSite(s *spec.SiteSpec, r *Report) {
	if s.Site.GeoJSON == "" {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "site.geojson must name a GeoJSON feature collection",
			Path:     "site.geojson",
			Expected: "path to a .geojson file",
		})
	}
	if s.Site.FeatureID == "" {
		r.AddInfo(Result{
			Level:   LevelSchema,
			Message: "site.feature_id is not set, every feature in the collection will be converted",
			Path:    "site.feature_id",
		})
	}
}

func validateGeometry(s *spec.SiteSpec, r *Report) {
	g := s.Geometry

	switch g.CreateMethod {
	case "", spec.SpacePerFloor, spec.SpacePerBuilding:
	default:
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown create_method %q", g.CreateMethod),
			Path:        "geometry.create_method",
			ActualValue: g.CreateMethod,
			Expected:    fmt.Sprintf("%s or %s", spec.SpacePerFloor, spec.SpacePerBuilding),
		})
	}

	if g.PerimeterDepth < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("perimeter_depth %.2f must be non-negative", g.PerimeterDepth),
			Path:        "geometry.perimeter_depth",
			ActualValue: g.PerimeterDepth,
			Expected:    ">= 0",
		})
	}
	if g.FloorToFloorHeight < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("floor_to_floor_height %.2f must be non-negative", g.FloorToFloorHeight),
			Path:        "geometry.floor_to_floor_height",
			ActualValue: g.FloorToFloorHeight,
			Expected:    ">= 0",
		})
	}

	if g.Zoning && g.CreateMethod == spec.SpacePerBuilding {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "zoning is only applied with space_per_floor",
			Path:        "geometry.zoning",
			Suggestions: []string{"Set create_method to space_per_floor or disable zoning"},
		})
	}
}

func validateShading(s *spec.SiteSpec, r *Report) {
	sh := s.Shading

	switch sh.SurroundingBuildings {
	case "", spec.SurroundingNone, spec.SurroundingShadingOnly, spec.SurroundingAll:
	default:
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown surrounding_buildings mode %q", sh.SurroundingBuildings),
			Path:        "shading.surrounding_buildings",
			ActualValue: sh.SurroundingBuildings,
			Expected:    "None, ShadingOnly or All",
		})
	}

	if sh.ProximityDistance < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("proximity_distance %.1f must be non-negative", sh.ProximityDistance),
			Path:        "shading.proximity_distance",
			ActualValue: sh.ProximityDistance,
			Expected:    ">= 0",
		})
	}
}
