package spec

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProject(t *testing.T) {
	s, err := LoadProject("../../examples/denver-block")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	if s.SpecVersion != "0.1.0" {
		t.Errorf("spec_version = %q, want %q", s.SpecVersion, "0.1.0")
	}
	if s.Site.GeoJSON != "footprints.geojson" {
		t.Errorf("geojson = %q, want %q", s.Site.GeoJSON, "footprints.geojson")
	}
	if s.Site.FeatureID != "b1" {
		t.Errorf("feature_id = %q, want %q", s.Site.FeatureID, "b1")
	}

	// Geometry
	if s.Geometry.CreateMethod != SpacePerFloor {
		t.Errorf("create_method = %q, want %q", s.Geometry.CreateMethod, SpacePerFloor)
	}
	if !s.Geometry.Zoning {
		t.Error("zoning = false, want true")
	}
	if s.Geometry.PerimeterDepth != 4.0 {
		t.Errorf("perimeter_depth = %v, want 4", s.Geometry.PerimeterDepth)
	}
	if s.Geometry.FloorToFloorHeight != 0 {
		t.Errorf("floor_to_floor_height = %v, want unset", s.Geometry.FloorToFloorHeight)
	}

	// Shading
	if s.Shading.SurroundingBuildings != SurroundingShadingOnly {
		t.Errorf("surrounding_buildings = %q, want %q", s.Shading.SurroundingBuildings, SurroundingShadingOnly)
	}
	if s.Shading.ProximityDistance != 100 {
		t.Errorf("proximity_distance = %v, want 100", s.Shading.ProximityDistance)
	}
}

func TestLoadProjectMissing(t *testing.T) {
	_, err := LoadProject("/nonexistent/path")
	if err == nil {
		t.Error("expected error for missing project directory")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectFile)
	if err := os.WriteFile(path, []byte("site: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error for malformed YAML")
	}
}

func TestGeoJSONPath(t *testing.T) {
	s := &SiteSpec{Site: SiteDef{GeoJSON: "footprints.geojson"}}
	if got := s.GeoJSONPath("/data/site"); got != filepath.Join("/data/site", "footprints.geojson") {
		t.Errorf("relative path resolved to %q", got)
	}

	s.Site.GeoJSON = "/abs/buildings.geojson"
	if got := s.GeoJSONPath("/data/site"); got != "/abs/buildings.geojson" {
		t.Errorf("absolute path resolved to %q", got)
	}
}
