package site

import (
	"context"
	"fmt"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"

	"github.com/wta12/urbanopt-geojson-gem/pkg/feature"
	"github.com/wta12/urbanopt-geojson-gem/pkg/floorprint"
	"github.com/wta12/urbanopt-geojson-gem/pkg/geo"
	"github.com/wta12/urbanopt-geojson-gem/pkg/layout"
	"github.com/wta12/urbanopt-geojson-gem/pkg/shadow"
	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
)

// Surroundings returns the nearby buildings of f that become shading
// geometry, each laid out as a single space. With ShadingOnly a neighbour is
// kept only when it can shadow the ground floor of f.
func Surroundings(ctx context.Context, f *feature.Feature, key string, ix *Index, origin geo.Origin, opts Options, r *validation.Report) ([]*layout.Building, error) {
	if opts.Surrounding == "" || opts.Surrounding == spec.SurroundingNone {
		return nil, nil
	}

	distance := opts.ProximityDistance
	if distance <= 0 {
		distance = DefaultProximityDistance
	}
	nearby := ix.Nearby(f.Bound(), key, distance, origin)
	r.AddInfo(validation.Result{
		Level:   validation.LevelShading,
		Message: fmt.Sprintf("%d nearby buildings found", len(nearby)),
	})
	if len(nearby) == 0 {
		return nil, nil
	}

	var ground []geo.Point3D
	if opts.Surrounding == spec.SurroundingShadingOnly {
		sub := validation.NewReport()
		ground = floorprint.Points(f.Exteriors(), 0, origin, sub)
		r.Merge(validation.Scoped("shading.ground", sub))
	}

	kept := make([]*layout.Building, len(nearby))
	reports := make([]*validation.Report, len(nearby))
	g, ctx := errgroup.WithContext(ctx)
	for i, raw := range nearby {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = validation.NewReport()
			kept[i] = neighbour(raw, ground, origin, opts.Surrounding, reports[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*layout.Building
	for i, raw := range nearby {
		r.Merge(validation.Scoped(fmt.Sprintf("shading[%s]", feature.Key(raw)), reports[i]))
		if kept[i] != nil {
			out = append(out, kept[i])
		}
	}
	return out, nil
}

// neighbour lays out one nearby building, or returns nil when it is invalid
// or, in ShadingOnly mode, cannot shadow ground.
func neighbour(raw *geojson.Feature, ground []geo.Point3D, origin geo.Origin, mode spec.SurroundingBuildings, r *validation.Report) *layout.Building {
	// Problems with a neighbour never fail the target building.
	scratch := validation.NewReport()
	nf, err := feature.New(raw, scratch)
	if err != nil {
		skip(r, err)
		return nil
	}
	opts := layout.DefaultOptions()
	opts.Method = spec.SpacePerBuilding
	plan, err := layout.PlanStories(nf.Properties, opts, scratch)
	if err != nil {
		skip(r, err)
		return nil
	}

	if mode == spec.SurroundingShadingOnly {
		roof := floorprint.Points(nf.Exteriors(), plan.RoofHeight(), origin, validation.NewReport())
		if !shadow.IsShadowed(ground, roof, origin) {
			return nil
		}
	}

	b, lr, err := layout.Layout(nf, origin, opts)
	if err != nil || len(b.Spaces) == 0 {
		r.AddWarning(validation.Result{
			Level:   validation.LevelShading,
			Message: fmt.Sprintf("failed to create spaces for other building %q", nf.Name()),
		})
		return nil
	}
	r.Merge(demote(lr))
	return b
}

func skip(r *validation.Report, err error) {
	r.AddWarning(validation.Result{
		Level:   validation.LevelShading,
		Message: fmt.Sprintf("skipping nearby building: %v", err),
	})
}

// demote turns errors of a neighbour layout into warnings.
func demote(in *validation.Report) *validation.Report {
	out := validation.NewReport()
	for _, e := range in.Errors {
		out.AddWarning(e)
	}
	for _, w := range in.Warnings {
		out.AddWarning(w)
	}
	for _, i := range in.Info {
		out.AddInfo(i)
	}
	return out
}

// CastsShadow reports whether other, at its own roof height, can shadow the
// ground floor of f at some time of year.
func CastsShadow(f, other *feature.Feature, origin geo.Origin, r *validation.Report) (bool, error) {
	opts := layout.DefaultOptions()
	opts.Method = spec.SpacePerBuilding
	plan, err := layout.PlanStories(other.Properties, opts, r)
	if err != nil {
		return false, err
	}
	ground := floorprint.Points(f.Exteriors(), 0, origin, r)
	roof := floorprint.Points(other.Exteriors(), plan.RoofHeight(), origin, r)
	return shadow.IsShadowed(ground, roof, origin), nil
}
