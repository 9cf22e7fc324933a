package spec

// CreateMethod selects how floor prints are grouped into spaces.
type CreateMethod string

const (
	SpacePerFloor    CreateMethod = "space_per_floor"
	SpacePerBuilding CreateMethod = "space_per_building"
)

// SurroundingBuildings selects which nearby buildings become shading geometry.
type SurroundingBuildings string

const (
	SurroundingNone        SurroundingBuildings = "None"
	SurroundingShadingOnly SurroundingBuildings = "ShadingOnly"
	SurroundingAll         SurroundingBuildings = "All"
)

// SiteSpec is the top-level project definition for one footprint conversion.
type SiteSpec struct {
	SpecVersion string      `yaml:"spec_version" json:"spec_version"`
	Site        SiteDef     `yaml:"site" json:"site"`
	Geometry    GeometryDef `yaml:"geometry" json:"geometry"`
	Shading     ShadingDef  `yaml:"shading" json:"shading"`
}

// SiteDef names the source footprints and the building to convert.
type SiteDef struct {
	GeoJSON   string `yaml:"geojson" json:"geojson"`
	FeatureID string `yaml:"feature_id" json:"feature_id"`
}

// GeometryDef controls floor-print generation. Zero values fall back to the
// runtime configuration.
type GeometryDef struct {
	CreateMethod       CreateMethod `yaml:"create_method" json:"create_method"`
	Zoning             bool         `yaml:"zoning" json:"zoning"`
	PerimeterDepth     float64      `yaml:"perimeter_depth" json:"perimeter_depth"`
	FloorToFloorHeight float64      `yaml:"floor_to_floor_height" json:"floor_to_floor_height"`
	RoofPanels         bool         `yaml:"roof_panels" json:"roof_panels"`
}

// ShadingDef controls the selection of surrounding buildings.
type ShadingDef struct {
	SurroundingBuildings SurroundingBuildings `yaml:"surrounding_buildings" json:"surrounding_buildings"`
	ProximityDistance    float64              `yaml:"proximity_distance" json:"proximity_distance"`
}
