package validation

import (
	"testing"

	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
)

func validSpec() *spec.SiteSpec {
	return &spec.SiteSpec{
		SpecVersion: "0.1.0",
		Site:        spec.SiteDef{GeoJSON: "footprints.geojson", FeatureID: "b1"},
		Geometry: spec.GeometryDef{
			CreateMethod:   spec.SpacePerFloor,
			Zoning:         true,
			PerimeterDepth: 4,
		},
		Shading: spec.ShadingDef{
			SurroundingBuildings: spec.SurroundingShadingOnly,
			ProximityDistance:    100,
		},
	}
}

func TestValidateSchemaValid(t *testing.T) {
	r := ValidateSchema(validSpec())
	if !r.Valid {
		t.Errorf("expected valid report, got %d errors: %v", len(r.Errors), r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", r.Warnings)
	}
}

func TestValidateSchemaMissingGeoJSON(t *testing.T) {
	s := validSpec()
	s.Site.GeoJSON = ""
	r := ValidateSchema(s)
	if r.Valid {
		t.Error("expected invalid report for missing geojson")
	}
	assertHasError(t, r, "site.geojson")
}

func TestValidateSchemaUnknownCreateMethod(t *testing.T) {
	s := validSpec()
	s.Geometry.CreateMethod = "space_per_room"
	r := ValidateSchema(s)
	if r.Valid {
		t.Error("expected invalid report for unknown create_method")
	}
	assertHasError(t, r, "geometry.create_method")
}

func TestValidateSchemaNegativeDepth(t *testing.T) {
	s := validSpec()
	s.Geometry.PerimeterDepth = -1
	r := ValidateSchema(s)
	if r.Valid {
		t.Error("expected invalid report for negative perimeter_depth")
	}
	assertHasError(t, r, "geometry.perimeter_depth")
}

func TestValidateSchemaNegativeFloorHeight(t *testing.T) {
	s := validSpec()
	s.Geometry.FloorToFloorHeight = -3
	assertHasError(t, ValidateSchema(s), "geometry.floor_to_floor_height")
}

func TestValidateSchemaUnknownSurrounding(t *testing.T) {
	s := validSpec()
	s.Shading.SurroundingBuildings = "Everything"
	r := ValidateSchema(s)
	if r.Valid {
		t.Error("expected invalid report for unknown surrounding_buildings")
	}
	assertHasError(t, r, "shading.surrounding_buildings")
}

func TestValidateSchemaNegativeProximity(t *testing.T) {
	s := validSpec()
	s.Shading.ProximityDistance = -10
	assertHasError(t, ValidateSchema(s), "shading.proximity_distance")
}

func TestValidateSchemaZoningPerBuildingWarns(t *testing.T) {
	s := validSpec()
	s.Geometry.CreateMethod = spec.SpacePerBuilding
	r := ValidateSchema(s)
	if !r.Valid {
		t.Errorf("expected valid report, got errors: %v", r.Errors)
	}
	if len(r.Warnings) != 1 || r.Warnings[0].Path != "geometry.zoning" {
		t.Errorf("expected one geometry.zoning warning, got %v", r.Warnings)
	}
}

func TestValidateSchemaDefaultsAccepted(t *testing.T) {
	s := &spec.SiteSpec{SpecVersion: "0.1.0", Site: spec.SiteDef{GeoJSON: "a.geojson"}}
	r := ValidateSchema(s)
	if !r.Valid {
		t.Errorf("expected zero-valued options to be accepted, got %v", r.Errors)
	}
	if len(r.Info) != 1 {
		t.Errorf("expected one info for missing feature_id, got %v", r.Info)
	}
}

func TestValidateSchemaMissingVersionWarns(t *testing.T) {
	s := validSpec()
	s.SpecVersion = ""
	r := ValidateSchema(s)
	if !r.Valid || len(r.Warnings) != 1 {
		t.Errorf("expected valid report with one warning, got %s", r.Summary)
	}
}

func assertHasError(t *testing.T, r *Report, path string) {
	t.Helper()
	for _, e := range r.Errors {
		if e.Path == path {
			return
		}
	}
	t.Errorf("expected error with path %q, got errors: %v", path, r.Errors)
}
