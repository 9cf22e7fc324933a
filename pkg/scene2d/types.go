package scene2d

import "github.com/wta12/urbanopt-geojson-gem/pkg/geo"

// Plan is the top-down site plan for an SVG renderer. Coordinates are local
// east/north meters.
type Plan struct {
	Metadata  Metadata     `json:"metadata"`
	Buildings []Building2D `json:"buildings"`
	Shading   []Building2D `json:"shading"`
}

// Metadata holds site-level summary data.
type Metadata struct {
	Origin      *geo.Origin `json:"origin,omitempty"`
	GeneratedAt string      `json:"generated_at"`
	Min         [2]float64  `json:"min"`
	Max         [2]float64  `json:"max"`
}

// Building2D is the ground outline of one building.
type Building2D struct {
	ID           string         `json:"id"`
	Name         string         `json:"name,omitempty"`
	BuildingType string         `json:"building_type,omitempty"`
	Outlines     [][][2]float64 `json:"outlines"`
	Height       float64        `json:"height"`
	Stories      int            `json:"stories"`
	Zoned        bool           `json:"zoned,omitempty"`
}
