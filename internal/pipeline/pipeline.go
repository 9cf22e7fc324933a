// Package pipeline runs a site project end to end: spec loading, schema
// validation, conversion and scene assembly.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/wta12/urbanopt-geojson-gem/internal/config"
	"github.com/wta12/urbanopt-geojson-gem/pkg/analytics"
	"github.com/wta12/urbanopt-geojson-gem/pkg/feature"
	"github.com/wta12/urbanopt-geojson-gem/pkg/scene"
	"github.com/wta12/urbanopt-geojson-gem/pkg/scene2d"
	"github.com/wta12/urbanopt-geojson-gem/pkg/site"
	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
)

// Output is everything a run produces. Graph, Plan and Summary are nil when
// schema validation failed.
type Output struct {
	Spec    *spec.SiteSpec     `json:"spec"`
	Results []*site.Result     `json:"results,omitempty"`
	Graph   *scene.Graph       `json:"scene,omitempty"`
	Plan    *scene2d.Plan      `json:"plan,omitempty"`
	Summary *analytics.Summary `json:"summary,omitempty"`
	Report  *validation.Report `json:"report"`
}

// Project is a loaded site directory.
type Project struct {
	Dir        string
	Spec       *spec.SiteSpec
	Collection *feature.Collection
}

// Load reads site.yaml from dir, validates it and reads the footprints it
// names. The schema report is returned even when the footprints could not be
// loaded.
func Load(dir string) (*Project, *validation.Report, error) {
	s, err := spec.LoadProject(dir)
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading spec")
	}
	r := validation.ValidateSchema(s)
	p := &Project{Dir: dir, Spec: s}
	if !r.Valid {
		return p, r, nil
	}

	c, err := feature.LoadCollection(s.GeoJSONPath(dir))
	if err != nil {
		return p, r, errors.Wrapf(err, "loading footprints for %s", dir)
	}
	p.Collection = c
	return p, r, nil
}

// Run converts the project in dir. featureID selects the building to convert
// and overrides the spec; when both are empty every feature is converted in
// a shared frame. Per-feature failures are recorded on the report; the
// returned error is reserved for load failures and cancellation.
func Run(ctx context.Context, dir, featureID string, cfg *config.Config, log *slog.Logger) (*Output, error) {
	p, r, err := Load(dir)
	if err != nil {
		return nil, err
	}
	if !r.Valid {
		log.Warn("schema validation failed", "project", dir, "errors", len(r.Errors))
		return &Output{Spec: p.Spec, Report: r}, nil
	}
	return RunProject(ctx, p, featureID, cfg, log)
}

// RunProject converts an already loaded project, such as one whose
// footprints arrived in a request body.
func RunProject(ctx context.Context, p *Project, featureID string, cfg *config.Config, log *slog.Logger) (*Output, error) {
	out := &Output{Spec: p.Spec, Report: validation.ValidateSchema(p.Spec)}
	if !out.Report.Valid {
		return out, nil
	}
	if p.Collection == nil {
		return nil, errors.Newf("project %s has no footprints", p.Dir)
	}
	if err := convert(ctx, p, featureID, cfg, log, out); err != nil {
		return nil, err
	}
	return out, nil
}

func convert(ctx context.Context, p *Project, featureID string, cfg *config.Config, log *slog.Logger, out *Output) error {
	opts := cfg.SiteOptions(p.Spec)
	opts.Logger = log

	if featureID == "" {
		featureID = p.Spec.Site.FeatureID
	}

	if featureID != "" {
		res, err := site.Convert(ctx, p.Collection, featureID, opts)
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("conversion failed", "feature", featureID, "error", err)
		}
		out.Results = []*site.Result{res}
	} else {
		origin, err := site.SiteOrigin(p.Collection)
		if err != nil {
			out.Report.AddError(validation.Result{
				Level:   validation.LevelInput,
				Message: err.Error(),
				Path:    "site.geojson",
			})
			return nil
		}
		opts.Origin = &origin
		results, err := site.ConvertAll(ctx, p.Collection, opts)
		if err != nil {
			return err
		}
		out.Results = results
	}

	for _, res := range out.Results {
		out.Report.Merge(validation.Scoped(fmt.Sprintf("features[%s]", res.FeatureID), res.Report))
	}

	out.Graph = scene.Assemble(p.Spec.SpecVersion, out.Results)
	out.Report.Merge(scene.ValidateGraph(out.Graph))
	out.Plan = scene2d.Assemble2D(out.Results)

	summary, sr := analytics.Summarize(out.Results)
	out.Summary = summary
	out.Report.Merge(sr)
	log.Info("assembled scene",
		"project", p.Dir,
		"features", len(out.Results),
		"entities", len(out.Graph.Entities),
		"gross_floor_area", summary.GrossFloorArea,
		"valid", out.Report.Valid)
	return nil
}
