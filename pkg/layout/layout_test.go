package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/wta12/urbanopt-geojson-gem/pkg/feature"
	"github.com/wta12/urbanopt-geojson-gem/pkg/geo"
	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
)

var origin = geo.NewOrigin(39.7497, -104.9900)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func loadFeature(t *testing.T, id string) *feature.Feature {
	t.Helper()
	c, err := feature.LoadCollection("../../examples/denver-block/footprints.geojson")
	if err != nil {
		t.Fatalf("LoadCollection failed: %v", err)
	}
	raw, err := c.Find(id)
	if err != nil {
		t.Fatalf("Find(%q) failed: %v", id, err)
	}
	f, err := feature.New(raw, validation.NewReport())
	if err != nil {
		t.Fatalf("feature.New failed: %v", err)
	}
	return f
}

func countWarnings(r *validation.Report, substr string) int {
	n := 0
	for _, w := range r.Warnings {
		if strings.Contains(w.Message, substr) {
			n++
		}
	}
	return n
}

func TestLayoutSpacePerFloor(t *testing.T) {
	f := loadFeature(t, "b1")
	b, r, err := Layout(f, origin, DefaultOptions())
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if !r.Valid {
		t.Errorf("unexpected errors: %v", r.Errors)
	}

	// 30 ft over 3 stories.
	if !approxEqual(b.Plan.FloorToFloor, 3.048, 1e-9) {
		t.Errorf("floor_to_floor = %f, want 3.048", b.Plan.FloorToFloor)
	}
	if len(b.Spaces) != 3 {
		t.Fatalf("expected 3 spaces, got %d", len(b.Spaces))
	}
	for i, s := range b.Spaces {
		want := float64(i) * 3.048
		if !approxEqual(s.Elevation, want, 1e-9) {
			t.Errorf("story %d elevation = %f, want %f", s.Story, s.Elevation, want)
		}
		if len(s.FloorPrints) != 1 {
			t.Fatalf("story %d has %d floor prints", s.Story, len(s.FloorPrints))
		}
		for _, v := range s.FloorPrints[0].Vertices {
			if !approxEqual(v.Z, want, 1e-9) {
				t.Errorf("story %d vertex %+v not at floor elevation", s.Story, v)
			}
		}
		if len(s.Zones) != 0 {
			t.Errorf("story %d unexpectedly zoned", s.Story)
		}
	}
	if b.Spaces[0].Name != "Building Story 1 Space" {
		t.Errorf("name = %q", b.Spaces[0].Name)
	}
}

func TestLayoutZoning(t *testing.T) {
	f := loadFeature(t, "b1")
	opts := DefaultOptions()
	opts.Zoning = true
	b, r, err := Layout(f, origin, opts)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}

	// Roof height is ignored when zoning.
	if b.Plan.FloorToFloor != DefaultZoningFloorToFloor {
		t.Errorf("floor_to_floor = %f, want %f", b.Plan.FloorToFloor, DefaultZoningFloorToFloor)
	}
	for _, s := range b.Spaces {
		if len(s.Zones) != 5 {
			t.Fatalf("story %d has %d zones, want 5", s.Story, len(s.Zones))
		}
		if s.Zones[0].Type != ZoneCore {
			t.Errorf("first zone type = %q, want core", s.Zones[0].Type)
		}
		for _, z := range s.Zones[1:] {
			if z.Type != ZonePerimeter {
				t.Errorf("zone %s type = %q, want perimeter", z.ID, z.Type)
			}
		}
	}
	if countWarnings(r, "will not divide") != 0 {
		t.Errorf("unexpected division failure: %v", r.Warnings)
	}
}

func TestLayoutZoningTooDeep(t *testing.T) {
	f := loadFeature(t, "b1")
	opts := DefaultOptions()
	opts.Zoning = true
	opts.PerimeterDepth = 30
	b, r, err := Layout(f, origin, opts)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	for _, s := range b.Spaces {
		if len(s.Zones) != 1 || s.Zones[0].Type != ZoneWhole {
			t.Errorf("story %d: expected one undivided zone, got %d", s.Story, len(s.Zones))
		}
	}
	if got := countWarnings(r, "will not divide"); got != len(b.Spaces) {
		t.Errorf("expected %d division warnings, got %d", len(b.Spaces), got)
	}
	if !strings.HasPrefix(r.Warnings[len(r.Warnings)-1].Path, "stories[") {
		t.Errorf("warning path %q should name the story", r.Warnings[len(r.Warnings)-1].Path)
	}
}

func TestLayoutBelowGround(t *testing.T) {
	f := loadFeature(t, "b2")
	b, _, err := Layout(f, origin, DefaultOptions())
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if b.Plan.Above != 10 || b.Plan.Below != 1 {
		t.Fatalf("plan = %+v, want 10 above and 1 below", b.Plan)
	}
	if len(b.Spaces) != 11 {
		t.Fatalf("expected 11 spaces, got %d", len(b.Spaces))
	}
	basement := b.Spaces[0]
	if basement.Story != 0 || !basement.Ground {
		t.Errorf("first space = story %d ground %v, want story 0 below grade", basement.Story, basement.Ground)
	}
	if !approxEqual(basement.Elevation, -3, 1e-9) {
		t.Errorf("basement elevation = %f, want -3", basement.Elevation)
	}
	if b.Spaces[1].Ground {
		t.Error("story 1 should not be below grade")
	}
	if b.BuildingType != "Multifamily" {
		t.Errorf("building_type = %q", b.BuildingType)
	}
}

func TestLayoutSpacePerBuilding(t *testing.T) {
	f := loadFeature(t, "b2")
	opts := DefaultOptions()
	opts.Method = spec.SpacePerBuilding
	b, r, err := Layout(f, origin, opts)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if len(b.Spaces) != 1 {
		t.Fatalf("expected 1 space, got %d", len(b.Spaces))
	}
	s := b.Spaces[0]
	if !approxEqual(s.Elevation, -3, 1e-9) || !approxEqual(s.Height, 33, 1e-9) {
		t.Errorf("space spans %f + %f, want -3 + 33", s.Elevation, s.Height)
	}
	if s.Name != "Building Tower South Space" {
		t.Errorf("name = %q", s.Name)
	}
	if !r.Valid {
		t.Errorf("unexpected errors: %v", r.Errors)
	}
}

func TestLayoutHolesWarnOnce(t *testing.T) {
	f := loadFeature(t, "b5")
	b, r, err := Layout(f, origin, DefaultOptions())
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if len(b.Spaces) != 2 {
		t.Fatalf("expected 2 spaces, got %d", len(b.Spaces))
	}
	if got := countWarnings(r, "ignoring holes"); got != 1 {
		t.Errorf("expected 1 hole warning, got %d", got)
	}
	// Only the exterior ring is used.
	if n := b.Spaces[0].FloorPrints[0].Len(); n != 4 {
		t.Errorf("expected 4 vertices from the exterior ring, got %d", n)
	}
}

func TestLayoutEmptyPolygonWarns(t *testing.T) {
	raw := geojson.NewFeature(orb.MultiPolygon{
		{{{-104.99, 39.75}, {-104.9898, 39.75}, {-104.9898, 39.7502}, {-104.99, 39.7502}, {-104.99, 39.75}}},
		{},
	})
	raw.Properties = geojson.Properties{"id": "x", "number_of_stories": 2}
	f, err := feature.New(raw, validation.NewReport())
	if err != nil {
		t.Fatalf("feature.New failed: %v", err)
	}

	opts := DefaultOptions()
	opts.RoofPanels = true
	b, r, err := Layout(f, origin, opts)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if len(b.Spaces) != 2 || len(b.Roof) != 1 {
		t.Fatalf("expected 2 spaces and 1 roof print, got %d and %d", len(b.Spaces), len(b.Roof))
	}
	// One per story plus the roof.
	if got := countWarnings(r, "without rings"); got != 3 {
		t.Errorf("expected 3 empty polygon warnings, got %d", got)
	}
	for _, w := range r.Warnings {
		if strings.Contains(w.Message, "without rings") && !strings.HasSuffix(w.Path, "polygons[1]") {
			t.Errorf("warning path %q should name the empty polygon", w.Path)
		}
	}

	opts.Method = spec.SpacePerBuilding
	opts.RoofPanels = false
	_, r, err = Layout(f, origin, opts)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if got := countWarnings(r, "without rings"); got != 1 {
		t.Errorf("expected 1 empty polygon warning for a building space, got %d", got)
	}
}

func TestLayoutRoofPanels(t *testing.T) {
	f := loadFeature(t, "b1")
	opts := DefaultOptions()
	opts.RoofPanels = true
	b, _, err := Layout(f, origin, opts)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if len(b.Roof) != 1 {
		t.Fatalf("expected 1 roof print, got %d", len(b.Roof))
	}
	n, ok := b.Roof[0].OutwardNormal()
	if !ok || n.Z <= 0 {
		t.Errorf("roof normal = %+v, want upward", n)
	}
	if !approxEqual(b.Roof[0].Vertices[0].Z, 3*3.048, 1e-9) {
		t.Errorf("roof at %f, want %f", b.Roof[0].Vertices[0].Z, 3*3.048)
	}
}

func newFeature(t *testing.T, props geojson.Properties) *feature.Feature {
	t.Helper()
	raw := geojson.NewFeature(orb.Polygon{{
		{-104.99, 39.75}, {-104.9898, 39.75}, {-104.9898, 39.7502}, {-104.99, 39.7502}, {-104.99, 39.75},
	}})
	raw.Properties = props
	f, err := feature.New(raw, validation.NewReport())
	if err != nil {
		t.Fatalf("feature.New failed: %v", err)
	}
	return f
}

func TestLayoutMissingStories(t *testing.T) {
	f := newFeature(t, geojson.Properties{"id": "x"})
	_, r, err := Layout(f, origin, DefaultOptions())
	if err == nil {
		t.Fatal("expected error for missing story count")
	}
	if r.Valid || r.Errors[0].Path != "properties.number_of_stories" {
		t.Errorf("expected story count error, got %v", r.Errors)
	}
}

func TestLayoutUnknownMethod(t *testing.T) {
	f := newFeature(t, geojson.Properties{"id": "x", "number_of_stories": 1})
	opts := DefaultOptions()
	opts.Method = "space_per_room"
	if _, _, err := Layout(f, origin, opts); err == nil {
		t.Error("expected error for unknown create method")
	}
}

func TestPlanStoriesPrecedence(t *testing.T) {
	stories, ftf, roof := 4, 4.2, 40.0
	props := feature.Properties{NumberOfStories: &stories, MaximumRoofHeight: &roof}

	plan, _ := PlanStories(props, DefaultOptions(), validation.NewReport())
	if !approxEqual(plan.FloorToFloor, 10*0.3048, 1e-9) {
		t.Errorf("roof height rule: %f", plan.FloorToFloor)
	}

	props.FloorToFloorHeight = &ftf
	plan, _ = PlanStories(props, DefaultOptions(), validation.NewReport())
	if plan.FloorToFloor != 4.2 {
		t.Errorf("property rule: %f", plan.FloorToFloor)
	}

	opts := DefaultOptions()
	opts.FloorToFloor = 5
	plan, _ = PlanStories(props, opts, validation.NewReport())
	if plan.FloorToFloor != 5 {
		t.Errorf("override rule: %f", plan.FloorToFloor)
	}

	plan, _ = PlanStories(feature.Properties{NumberOfStories: &stories}, DefaultOptions(), validation.NewReport())
	if plan.FloorToFloor != DefaultFloorToFloor || plan.RoofHeight() != 12 || plan.Total() != 4 {
		t.Errorf("default rule: %+v", plan)
	}
}

func TestResolveBuildingType(t *testing.T) {
	small, large := 30.0, 70.0
	props := feature.Properties{
		BuildingType:         feature.MixedUse,
		MixedType1:           "Retail",
		MixedType1Percentage: &small,
		MixedType2:           "Office",
		MixedType2Percentage: &large,
	}
	r := validation.NewReport()
	got, err := ResolveBuildingType(props, r)
	if err != nil || got != "Office" {
		t.Errorf("ResolveBuildingType = %q, %v; want Office", got, err)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", r.Warnings)
	}

	r = validation.NewReport()
	if _, err := ResolveBuildingType(feature.Properties{BuildingType: feature.MixedUse}, r); err == nil || r.Valid {
		t.Error("expected error for mixed use without types")
	}

	got, _ = ResolveBuildingType(feature.Properties{BuildingType: "Office"}, validation.NewReport())
	if got != "Office" {
		t.Errorf("plain type = %q", got)
	}
}
