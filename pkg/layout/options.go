// Package layout stacks floor prints into stories, zones and roof surfaces
// for one building footprint.
package layout

import (
	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
	"github.com/wta12/urbanopt-geojson-gem/pkg/zoning"
)

// Options controls how a building is laid out.
type Options struct {
	Method spec.CreateMethod
	Zoning bool
	// PerimeterDepth is the depth of perimeter zones when Zoning is set.
	PerimeterDepth float64
	// FloorToFloor overrides the derived story height when positive.
	FloorToFloor float64
	// DefaultFloorToFloor and ZoningFloorToFloor replace the package
	// defaults when positive.
	DefaultFloorToFloor float64
	ZoningFloorToFloor  float64
	RoofPanels          bool
}

// DefaultOptions returns space-per-floor layout without zoning.
func DefaultOptions() Options {
	return Options{
		Method:              spec.SpacePerFloor,
		PerimeterDepth:      zoning.DefaultPerimeterDepth,
		DefaultFloorToFloor: DefaultFloorToFloor,
		ZoningFloorToFloor:  DefaultZoningFloorToFloor,
	}
}

func (o Options) defaultFloorToFloor() float64 {
	if o.DefaultFloorToFloor > 0 {
		return o.DefaultFloorToFloor
	}
	return DefaultFloorToFloor
}

func (o Options) zoningFloorToFloor() float64 {
	if o.ZoningFloorToFloor > 0 {
		return o.ZoningFloorToFloor
	}
	return DefaultZoningFloorToFloor
}

func (o Options) perimeterDepth() float64 {
	if o.PerimeterDepth > 0 {
		return o.PerimeterDepth
	}
	return zoning.DefaultPerimeterDepth
}
