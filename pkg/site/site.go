// Package site converts the buildings of a GeoJSON feature collection into
// floor prints, zones and shading geometry.
package site

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"github.com/wta12/urbanopt-geojson-gem/pkg/feature"
	"github.com/wta12/urbanopt-geojson-gem/pkg/geo"
	"github.com/wta12/urbanopt-geojson-gem/pkg/layout"
	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
)

// DefaultProximityDistance is the search radius for surrounding buildings,
// in meters.
const DefaultProximityDistance = 100.0

// ErrNoOrigin is returned when a footprint has no exterior ring to take an
// origin from.
var ErrNoOrigin = errors.New("cannot determine origin")

// Options controls a conversion.
type Options struct {
	Layout            layout.Options
	Surrounding       spec.SurroundingBuildings
	ProximityDistance float64
	// Origin, when set, replaces the per-feature origin so that every
	// result shares one local frame.
	Origin *geo.Origin
	// Workers bounds the number of features converted at once by ConvertAll.
	Workers int
	Logger  *slog.Logger
}

// DefaultOptions returns options that lay out stories without zoning or
// shading.
func DefaultOptions() Options {
	return Options{
		Layout:            layout.DefaultOptions(),
		Surrounding:       spec.SurroundingNone,
		ProximityDistance: DefaultProximityDistance,
		Workers:           4,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Result is the outcome of converting one feature. Building is nil when the
// conversion failed; Report always explains why.
type Result struct {
	RunID     string             `json:"run_id"`
	FeatureID string             `json:"feature_id"`
	Origin    *geo.Origin        `json:"origin,omitempty"`
	Building  *layout.Building   `json:"building,omitempty"`
	Shading   []*layout.Building `json:"shading,omitempty"`
	Report    *validation.Report `json:"report"`
}

// OriginFor returns the origin of the local frame for f: its minimum corner.
func OriginFor(f *feature.Feature, r *validation.Report) (geo.Origin, error) {
	corner, err := minimumCorner(f, r)
	if err != nil {
		return geo.Origin{}, err
	}
	r.AddInfo(validation.Result{
		Level:   validation.LevelInput,
		Message: fmt.Sprintf("min_lat = %f, min_lon = %f", corner.Lat(), corner.Lon()),
	})
	return geo.NewOrigin(corner.Lat(), corner.Lon()), nil
}

// minimumCorner returns the minimum corner of f, recording an error on r when
// f has no exterior ring to take it from.
func minimumCorner(f *feature.Feature, r *validation.Report) (orb.Point, error) {
	corner := f.MinimumCorner()
	if feature.IsUndetermined(corner) {
		err := errors.Wrapf(ErrNoOrigin, "feature %q has no exterior ring", f.ID)
		r.AddError(validation.Result{
			Level:   validation.LevelInput,
			Message: err.Error(),
			Path:    "geometry.coordinates",
		})
		return corner, err
	}
	return corner, nil
}

// SiteOrigin returns the minimum corner over the exterior rings of every
// polygon feature in c.
func SiteOrigin(c *feature.Collection) (geo.Origin, error) {
	corner := orb.Point{math.MaxFloat64, math.MaxFloat64}
	for _, raw := range c.Features() {
		mp, err := feature.Normalize(raw.Geometry)
		if err != nil {
			continue
		}
		fc := feature.MinimumCorner(mp)
		corner[0] = math.Min(corner[0], fc[0])
		corner[1] = math.Min(corner[1], fc[1])
	}
	if feature.IsUndetermined(corner) {
		return geo.Origin{}, errors.Wrap(ErrNoOrigin, "collection has no polygon features")
	}
	return geo.NewOrigin(corner.Lat(), corner.Lon()), nil
}

// Convert lays out the feature identified by id. Fatal problems are returned
// as an error alongside a result whose report records them.
func Convert(ctx context.Context, c *feature.Collection, id string, opts Options) (*Result, error) {
	return convert(ctx, c, NewIndex(c), id, opts)
}

// ConvertAll converts every identified feature of c concurrently, bounded by
// opts.Workers. A failed feature does not stop the others; its result carries
// the report. The returned error is only set when ctx is cancelled.
func ConvertAll(ctx context.Context, c *feature.Collection, opts Options) ([]*Result, error) {
	ix := NewIndex(c)
	ids := c.IDs()
	results := make([]*Result, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, _ := convert(ctx, c, ix, id, opts)
			results[i] = res
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func convert(ctx context.Context, c *feature.Collection, ix *Index, id string, opts Options) (*Result, error) {
	log := opts.logger().With("feature", id)
	res := &Result{RunID: uuid.NewString(), FeatureID: id, Report: validation.NewReport()}
	r := res.Report

	raw, err := c.Find(id)
	if err != nil {
		r.AddError(validation.Result{Level: validation.LevelInput, Message: err.Error(), Path: "feature_id", ActualValue: id})
		return res, err
	}
	f, err := feature.New(raw, r)
	if err != nil {
		log.Warn("invalid feature", "error", err)
		return res, err
	}

	var origin geo.Origin
	if opts.Origin != nil {
		if _, err := minimumCorner(f, r); err != nil {
			log.Warn("invalid feature", "error", err)
			return res, err
		}
		origin = *opts.Origin
	} else if origin, err = OriginFor(f, r); err != nil {
		return res, err
	}
	res.Origin = &origin

	building, lr, err := layout.Layout(f, origin, opts.Layout)
	r.Merge(lr)
	if err != nil {
		log.Warn("layout failed", "error", err)
		return res, err
	}
	res.Building = building
	log.Debug("laid out building", "spaces", len(building.Spaces), "stories", building.Plan.Total())

	shading, err := Surroundings(ctx, f, feature.Key(raw), ix, origin, opts, r)
	if err != nil {
		return res, err
	}
	res.Shading = shading

	log.Info("converted feature",
		"run_id", res.RunID,
		"spaces", len(building.Spaces),
		"shading", len(shading),
		"warnings", len(r.Warnings))
	return res, nil
}
