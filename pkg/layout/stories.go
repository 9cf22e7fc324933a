package layout

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/wta12/urbanopt-geojson-gem/pkg/feature"
	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
)

// Default story heights in meters.
const (
	DefaultFloorToFloor       = 3.0
	DefaultZoningFloorToFloor = 3.6
)

const metersPerFoot = 0.3048

// ErrMissingStories is returned when a feature has no story count.
var ErrMissingStories = errors.New("number_of_stories is required")

// StoryPlan is the vertical layout of a building.
type StoryPlan struct {
	Above        int     `json:"stories_above_ground"`
	Below        int     `json:"stories_below_ground"`
	FloorToFloor float64 `json:"floor_to_floor_height"`
}

// Total returns the number of stories.
func (p StoryPlan) Total() int {
	return p.Above + p.Below
}

// RoofHeight returns the height of the roof above grade.
func (p StoryPlan) RoofHeight() float64 {
	return float64(p.Above) * p.FloorToFloor
}

// PlanStories derives the story counts and floor-to-floor height of a
// building. The height is taken, in order of preference, from opts, from the
// floor_to_floor_height property, from maximum_roof_height (feet) divided
// over the stories above ground when not zoning, or from the defaults.
func PlanStories(props feature.Properties, opts Options, r *validation.Report) (StoryPlan, error) {
	above, ok := props.StoriesAboveGround()
	if !ok {
		r.AddError(validation.Result{
			Level:    validation.LevelInput,
			Message:  ErrMissingStories.Error(),
			Path:     "properties.number_of_stories",
			Expected: "integer >= 1",
		})
		return StoryPlan{}, ErrMissingStories
	}
	plan := StoryPlan{Above: above, Below: props.StoriesBelowGround()}

	switch {
	case opts.FloorToFloor > 0:
		plan.FloorToFloor = opts.FloorToFloor
	case props.FloorToFloorHeight != nil && *props.FloorToFloorHeight > 0:
		plan.FloorToFloor = *props.FloorToFloorHeight
	case !opts.Zoning && above > 0 && props.MaximumRoofHeight != nil:
		plan.FloorToFloor = *props.MaximumRoofHeight / float64(above) * metersPerFoot
	case opts.Zoning:
		plan.FloorToFloor = opts.zoningFloorToFloor()
	default:
		plan.FloorToFloor = opts.defaultFloorToFloor()
	}

	if plan.Above < 1 {
		r.AddWarning(validation.Result{
			Level:       validation.LevelInput,
			Message:     fmt.Sprintf("building has %d stories above ground", plan.Above),
			Path:        "properties.number_of_stories_above_ground",
			ActualValue: plan.Above,
			Expected:    ">= 1",
		})
	}
	return plan, nil
}

// ResolveBuildingType returns the building type, replacing "Mixed use" with
// its largest component.
func ResolveBuildingType(props feature.Properties, r *validation.Report) (string, error) {
	if props.BuildingType != feature.MixedUse {
		return props.BuildingType, nil
	}
	mixed := props.MixedTypes()
	if len(mixed) == 0 {
		err := errors.New("'Mixed use' building type requested but no mixed types are given")
		r.AddError(validation.Result{
			Level:       validation.LevelInput,
			Message:     err.Error(),
			Path:        "properties.building_type",
			Suggestions: []string{"Set mixed_type_1 and mixed_type_1_percentage"},
		})
		return "", err
	}
	largest := mixed[0]
	for _, m := range mixed[1:] {
		if m.Percentage > largest.Percentage {
			largest = m
		}
	}
	r.AddWarning(validation.Result{
		Level:       validation.LevelInput,
		Message:     fmt.Sprintf("'Mixed use' building type requested, using largest type %q", largest.Type),
		Path:        "properties.building_type",
		ActualValue: largest.Percentage,
	})
	return largest.Type, nil
}
