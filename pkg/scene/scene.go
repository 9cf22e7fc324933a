package scene

import "github.com/wta12/urbanopt-geojson-gem/pkg/geo"

// LayerType identifies the vertical position of an entity.
type LayerType string

const (
	LayerBelowGrade LayerType = "below_grade"
	LayerAboveGrade LayerType = "above_grade"
	LayerRoof       LayerType = "roof"
)

// EntityType identifies the kind of entity.
type EntityType string

const (
	EntityFloorPrint    EntityType = "floor_print"
	EntityCoreZone      EntityType = "core_zone"
	EntityPerimeterZone EntityType = "perimeter_zone"
	EntityRoofPanel     EntityType = "roof_panel"
	EntityShading       EntityType = "shading"
)

// BoundingBox defines an axis-aligned bounding box.
type BoundingBox struct {
	Min geo.Point3D `json:"min"`
	Max geo.Point3D `json:"max"`
}

// Entity is a single polygon in the scene graph. Position is the vertex
// centroid; Height is the extrusion above the polygon. Story is nil for
// entities not tied to one story.
type Entity struct {
	ID       string         `json:"id"`
	Type     EntityType     `json:"type"`
	Feature  string         `json:"feature"`
	Story    *int           `json:"story,omitempty"`
	Layer    LayerType      `json:"layer"`
	Position geo.Point3D    `json:"position"`
	Height   float64        `json:"height,omitempty"`
	Area     float64        `json:"area"`
	Vertices []geo.Point3D  `json:"vertices"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Graph is the complete scene output of a conversion.
type Graph struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
	Groups   Groups   `json:"groups"`
}

// Metadata holds scene-level information.
type Metadata struct {
	SpecVersion string      `json:"spec_version"`
	GeneratedAt string      `json:"generated_at"`
	Origin      *geo.Origin `json:"origin,omitempty"`
	RunIDs      []string    `json:"run_ids,omitempty"`
	SiteBounds  BoundingBox `json:"site_bounds"`
}

// Groups organizes entity IDs by various axes for fast filtering.
type Groups struct {
	Features    map[string][]string     `json:"features"`
	Stories     map[string][]string     `json:"stories"`
	Layers      map[LayerType][]string  `json:"layers"`
	EntityTypes map[EntityType][]string `json:"entity_types"`
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{
		Entities: []Entity{},
		Groups: Groups{
			Features:    make(map[string][]string),
			Stories:     make(map[string][]string),
			Layers:      make(map[LayerType][]string),
			EntityTypes: make(map[EntityType][]string),
		},
	}
}
