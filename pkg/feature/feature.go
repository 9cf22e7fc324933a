// Package feature reads building footprints from GeoJSON and normalizes their
// geometry into multipolygons.
package feature

import (
	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
)

var (
	ErrNilFeature   = errors.New("feature is empty")
	ErrNoGeometry   = errors.New("no geometry found")
	ErrNoProperties = errors.New("no properties found")
)

// Feature is a validated building footprint.
type Feature struct {
	ID         string
	Properties Properties
	Geometry   orb.MultiPolygon
}

// New validates a GeoJSON feature and normalizes its geometry.
// Fatal problems are returned and also recorded on r.
func New(f *geojson.Feature, r *validation.Report) (*Feature, error) {
	fail := func(err error, path string) (*Feature, error) {
		r.AddError(validation.Result{
			Level:   validation.LevelInput,
			Message: err.Error(),
			Path:    path,
		})
		return nil, err
	}

	if f == nil {
		return fail(ErrNilFeature, "")
	}
	if f.Geometry == nil {
		return fail(errors.Wrapf(ErrNoGeometry, "feature %v", f.ID), "geometry")
	}
	if f.Properties == nil {
		return fail(errors.Wrapf(ErrNoProperties, "feature %v", f.ID), "properties")
	}

	mp, err := Normalize(f.Geometry)
	if err != nil {
		return fail(err, "geometry.type")
	}

	props, err := decodeProperties(f.Properties, r)
	if err != nil {
		return fail(err, "properties")
	}

	return &Feature{
		ID:         Key(f),
		Properties: props,
		Geometry:   mp,
	}, nil
}

// Name returns the display name of the feature, defaulting to its ID.
func (f *Feature) Name() string {
	if f.Properties.Name != "" {
		return f.Properties.Name
	}
	return f.ID
}

// MinimumCorner returns the minimum corner over the exterior rings.
func (f *Feature) MinimumCorner() orb.Point {
	return MinimumCorner(f.Geometry)
}

// Exteriors returns the exterior ring of every polygon.
func (f *Feature) Exteriors() []orb.Ring {
	return Exteriors(f.Geometry)
}

// HasHoles reports whether any polygon has interior rings.
func (f *Feature) HasHoles() bool {
	return HasHoles(f.Geometry)
}

// Bound returns the lon/lat bounding box of the footprint.
func (f *Feature) Bound() orb.Bound {
	return f.Geometry.Bound()
}
