package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/wta12/urbanopt-geojson-gem/internal/pipeline"
	"github.com/wta12/urbanopt-geojson-gem/internal/server"
	"github.com/wta12/urbanopt-geojson-gem/pkg/feature"
	"github.com/wta12/urbanopt-geojson-gem/pkg/layout"
	"github.com/wta12/urbanopt-geojson-gem/pkg/site"
	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
)

func (a *app) runConvert(ctx context.Context, projectPath, featureID string) error {
	out, err := pipeline.Run(ctx, projectPath, featureID, a.cfg, a.log)
	if err != nil {
		return err
	}
	if out.Graph == nil {
		printValidationReport(out.Report)
		return errors.New("spec has validation errors")
	}
	return writeJSON(map[string]any{
		"results":     out.Results,
		"validation":  out.Report,
		"scene_graph": out.Graph,
	})
}

func (a *app) runValidate(ctx context.Context, projectPath, featureID string) error {
	out, err := pipeline.Run(ctx, projectPath, featureID, a.cfg, a.log)
	if err != nil {
		return err
	}

	printValidationReport(out.Report)

	if !out.Report.Valid {
		os.Exit(1)
	}
	return nil
}

func (a *app) runShadow(path, featureID, otherID string) error {
	c, err := feature.LoadCollection(path)
	if err != nil {
		return err
	}
	r := validation.NewReport()
	target, err := findFeature(c, featureID, r)
	if err != nil {
		printValidationReport(r)
		return err
	}
	other, err := findFeature(c, otherID, r)
	if err != nil {
		printValidationReport(r)
		return err
	}
	origin, err := site.OriginFor(target, r)
	if err != nil {
		return err
	}

	shadowed, err := site.CastsShadow(target, other, origin, r)
	if err != nil {
		printValidationReport(r)
		return err
	}
	a.log.Debug("shadow check", "feature", featureID, "other", otherID, "shadowed", shadowed)
	return writeJSON(map[string]any{
		"feature":    featureID,
		"other":      otherID,
		"shadowed":   shadowed,
		"validation": r,
	})
}

func (a *app) runZones(path, featureID string, depth float64) error {
	c, err := feature.LoadCollection(path)
	if err != nil {
		return err
	}
	r := validation.NewReport()
	f, err := findFeature(c, featureID, r)
	if err != nil {
		printValidationReport(r)
		return err
	}
	origin, err := site.OriginFor(f, r)
	if err != nil {
		return err
	}

	opts := a.cfg.SiteOptions(nil).Layout
	opts.Zoning = true
	if depth > 0 {
		opts.PerimeterDepth = depth
	}
	b, lr, err := layout.Layout(f, origin, opts)
	r.Merge(lr)
	if err != nil {
		printValidationReport(r)
		return err
	}
	return writeJSON(map[string]any{
		"origin":     origin,
		"building":   b,
		"validation": r,
	})
}

func (a *app) runServe(ctx context.Context, projectPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(projectPath, a.cfg, a.log, nil)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

func findFeature(c *feature.Collection, id string, r *validation.Report) (*feature.Feature, error) {
	raw, err := c.Find(id)
	if err != nil {
		r.AddError(validation.Result{Level: validation.LevelInput, Message: err.Error(), ActualValue: id})
		return nil, err
	}
	sub := validation.NewReport()
	f, err := feature.New(raw, sub)
	r.Merge(validation.Scoped(id, sub))
	return f, err
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
