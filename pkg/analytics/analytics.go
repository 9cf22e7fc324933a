// Package analytics derives area and height metrics from laid out buildings.
package analytics

import (
	"fmt"
	"math"

	"github.com/wta12/urbanopt-geojson-gem/pkg/geo"
	"github.com/wta12/urbanopt-geojson-gem/pkg/layout"
	"github.com/wta12/urbanopt-geojson-gem/pkg/site"
	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
)

// zoneAreaTolerance is the relative mismatch allowed between the zones of a
// floor print and the print itself.
const zoneAreaTolerance = 0.01

// BuildingMetrics holds the areas of one building in square meters.
type BuildingMetrics struct {
	FeatureID         string  `json:"feature_id"`
	BuildingType      string  `json:"building_type,omitempty"`
	Stories           int     `json:"stories"`
	Height            float64 `json:"height_m"`
	FootprintArea     float64 `json:"footprint_area_m2"`
	GrossFloorArea    float64 `json:"gross_floor_area_m2"`
	BelowGradeArea    float64 `json:"below_grade_area_m2"`
	RoofArea          float64 `json:"roof_area_m2,omitempty"`
	CoreArea          float64 `json:"core_area_m2,omitempty"`
	PerimeterArea     float64 `json:"perimeter_area_m2,omitempty"`
	ExteriorPerimeter float64 `json:"exterior_perimeter_m"`
	ShadingCount      int     `json:"shading_buildings"`
}

// PerimeterFraction returns the share of zoned floor area in perimeter zones,
// or zero when the building was not zoned.
func (m BuildingMetrics) PerimeterFraction() float64 {
	total := m.CoreArea + m.PerimeterArea
	if total == 0 {
		return 0
	}
	return m.PerimeterArea / total
}

// Summary aggregates the metrics of every converted building.
type Summary struct {
	Buildings      []BuildingMetrics `json:"buildings"`
	FootprintArea  float64           `json:"footprint_area_m2"`
	GrossFloorArea float64           `json:"gross_floor_area_m2"`
	MaxHeight      float64           `json:"max_height_m"`
}

// Summarize computes metrics for each result that produced a building.
// Zone sets whose area does not add up to their floor print are reported as
// warnings.
func Summarize(results []*site.Result) (*Summary, *validation.Report) {
	report := validation.NewReport()
	s := &Summary{Buildings: []BuildingMetrics{}}

	for _, res := range results {
		if res == nil || res.Building == nil {
			continue
		}
		m := Measure(res.Building, report)
		m.ShadingCount = len(res.Shading)

		s.Buildings = append(s.Buildings, m)
		s.FootprintArea += m.FootprintArea
		s.GrossFloorArea += m.GrossFloorArea
		s.MaxHeight = math.Max(s.MaxHeight, m.Height)
	}

	report.AddInfo(validation.Result{
		Level:   validation.LevelGeometry,
		Message: fmt.Sprintf("%d buildings, %.0f m2 gross floor area", len(s.Buildings), s.GrossFloorArea),
	})
	return s, report
}

// Measure computes the metrics of one building.
func Measure(b *layout.Building, r *validation.Report) BuildingMetrics {
	m := BuildingMetrics{
		FeatureID:    b.FeatureID,
		BuildingType: b.BuildingType,
		Stories:      b.Plan.Total(),
		Height:       b.Plan.RoofHeight(),
	}

	for i, s := range b.Spaces {
		area := sumArea(s.FloorPrints)
		if s.Story == 1 || b.Method == spec.SpacePerBuilding {
			m.FootprintArea = area
			m.ExteriorPerimeter = sumPerimeter(s.FloorPrints)
		}
		m.GrossFloorArea += area
		if s.Ground {
			m.BelowGradeArea += area
		}

		var zoned float64
		for _, z := range s.Zones {
			a := z.Polygon.Area()
			zoned += a
			switch z.Type {
			case layout.ZoneCore:
				m.CoreArea += a
			case layout.ZonePerimeter:
				m.PerimeterArea += a
			}
		}
		if len(s.Zones) > 0 && math.Abs(zoned-area) > zoneAreaTolerance*area {
			r.AddWarning(validation.Result{
				Level:       validation.LevelZoning,
				Message:     fmt.Sprintf("zones of %q cover %.1f m2 of %.1f m2", s.Name, zoned, area),
				Path:        fmt.Sprintf("features[%s].spaces[%d]", b.FeatureID, i),
				ActualValue: zoned,
			})
		}
	}
	m.RoofArea = sumArea(b.Roof)
	return m
}

func sumArea(polys []geo.Polygon) float64 {
	var total float64
	for _, p := range polys {
		total += p.Area()
	}
	return total
}

func sumPerimeter(polys []geo.Polygon) float64 {
	var total float64
	for _, p := range polys {
		total += p.Perimeter()
	}
	return total
}
