package feature

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb/geojson"

	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
)

// Properties are the feature properties read by the geometry engine.
// Optional numeric values are nil when absent.
type Properties struct {
	// ID and SourceID may be strings or numbers in the input; they are
	// stringified the same way as Key.
	ID           string `json:"-"`
	SourceID     string `json:"-"`
	ProjectID    string `json:"project_id,omitempty"`
	Type         string `json:"type,omitempty"`
	Name         string `json:"name,omitempty"`
	BuildingType string `json:"building_type,omitempty"`

	NumberOfStories            *int `json:"number_of_stories,omitempty"`
	NumberOfStoriesAboveGround *int `json:"number_of_stories_above_ground,omitempty"`
	NumberOfStoriesBelowGround *int `json:"number_of_stories_below_ground,omitempty"`
	NumberOfResidentialUnits   *int `json:"number_of_residential_units,omitempty"`

	// MaximumRoofHeight is in feet.
	MaximumRoofHeight  *float64 `json:"maximum_roof_height,omitempty"`
	SurfaceElevation   *float64 `json:"surface_elevation,omitempty"`
	RoofElevation      *float64 `json:"roof_elevation,omitempty"`
	FloorToFloorHeight *float64 `json:"floor_to_floor_height,omitempty"`

	MixedType1           string   `json:"mixed_type_1,omitempty"`
	MixedType1Percentage *float64 `json:"mixed_type_1_percentage,omitempty"`
	MixedType2           string   `json:"mixed_type_2,omitempty"`
	MixedType2Percentage *float64 `json:"mixed_type_2_percentage,omitempty"`
	MixedType3           string   `json:"mixed_type_3,omitempty"`
	MixedType3Percentage *float64 `json:"mixed_type_3_percentage,omitempty"`
	MixedType4           string   `json:"mixed_type_4,omitempty"`
	MixedType4Percentage *float64 `json:"mixed_type_4_percentage,omitempty"`
}

// MixedUse is the building type that is resolved from the mixed_type_N
// properties.
const MixedUse = "Mixed use"

// MixedType is one component of a mixed use building.
type MixedType struct {
	Type       string
	Percentage float64
}

// MixedTypes returns the mixed use components that have both a type and a
// percentage, in property order.
func (p Properties) MixedTypes() []MixedType {
	var out []MixedType
	add := func(t string, pct *float64) {
		if t != "" && pct != nil {
			out = append(out, MixedType{Type: t, Percentage: *pct})
		}
	}
	add(p.MixedType1, p.MixedType1Percentage)
	add(p.MixedType2, p.MixedType2Percentage)
	add(p.MixedType3, p.MixedType3Percentage)
	add(p.MixedType4, p.MixedType4Percentage)
	return out
}

var knownProperties = map[string]bool{
	"id": true, "source_id": true, "project_id": true, "type": true,
	"name": true, "building_type": true,
	"number_of_stories": true, "number_of_stories_above_ground": true,
	"number_of_stories_below_ground": true, "number_of_residential_units": true,
	"maximum_roof_height": true, "surface_elevation": true,
	"roof_elevation": true, "floor_to_floor_height": true,
	"mixed_type_1": true, "mixed_type_1_percentage": true,
	"mixed_type_2": true, "mixed_type_2_percentage": true,
	"mixed_type_3": true, "mixed_type_3_percentage": true,
	"mixed_type_4": true, "mixed_type_4_percentage": true,
}

// decodeProperties converts the untyped property map into Properties.
// Keys the engine does not read are reported as info; a value of the wrong
// type is an error.
func decodeProperties(props geojson.Properties, r *validation.Report) (Properties, error) {
	var out Properties
	data, err := json.Marshal(props)
	if err != nil {
		return out, errors.Wrap(err, "encoding properties")
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, errors.Wrap(err, "decoding properties")
	}
	out.ID = identifier(props["id"])
	out.SourceID = identifier(props["source_id"])

	var unknown []string
	for k := range props {
		if !knownProperties[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		r.AddInfo(validation.Result{
			Level:       validation.LevelInput,
			Message:     fmt.Sprintf("property %q is not used", k),
			Path:        "properties." + k,
			ActualValue: props[k],
		})
	}
	return out, nil
}

// StoriesAboveGround returns the explicit above-ground story count, falling
// back to the total story count.
func (p Properties) StoriesAboveGround() (int, bool) {
	if p.NumberOfStoriesAboveGround != nil {
		return *p.NumberOfStoriesAboveGround, true
	}
	if p.NumberOfStories != nil {
		return *p.NumberOfStories, true
	}
	return 0, false
}

// StoriesBelowGround returns the number of stories below grade. It is the
// difference between the total and above-ground counts when both are given,
// and zero when the above-ground count is absent.
func (p Properties) StoriesBelowGround() int {
	if p.NumberOfStoriesAboveGround == nil || p.NumberOfStories == nil {
		return 0
	}
	if below := *p.NumberOfStories - *p.NumberOfStoriesAboveGround; below > 0 {
		return below
	}
	return 0
}
