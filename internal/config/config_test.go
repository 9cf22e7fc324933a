package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
)

func loadDefaults(t *testing.T) *Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := loadDefaults(t)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.ServerAddr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.InDelta(t, 4.0, cfg.Geometry.PerimeterDepth, 1e-9)
	assert.InDelta(t, 3.0, cfg.Geometry.FloorToFloorHeight, 1e-9)
	assert.InDelta(t, 3.6, cfg.Geometry.ZoningFloorToFloorHeight, 1e-9)
	assert.InDelta(t, 100.0, cfg.Geometry.ProximityDistance, 1e-9)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floorprint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
log:
  format: json
geometry:
  perimeter_depth: 5.5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.InDelta(t, 5.5, cfg.Geometry.PerimeterDepth, 1e-9)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FLOORPRINT_LOG_LEVEL", "debug")
	t.Setenv("FLOORPRINT_PIPELINE_WORKERS", "8")
	cfg := loadDefaults(t)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}
	var buf bytes.Buffer
	log := cfg.NewLogger(&buf)

	log.Info("hidden")
	log.Warn("shown", "feature", "b1")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"feature":"b1"`)
}

func TestSiteOptionsDefaults(t *testing.T) {
	cfg := loadDefaults(t)
	opts := cfg.SiteOptions(nil)

	assert.Equal(t, spec.SpacePerFloor, opts.Layout.Method)
	assert.False(t, opts.Layout.Zoning)
	assert.Equal(t, spec.SurroundingNone, opts.Surrounding)
	assert.InDelta(t, 100.0, opts.ProximityDistance, 1e-9)
	assert.InDelta(t, 4.0, opts.Layout.PerimeterDepth, 1e-9)
	assert.Zero(t, opts.Layout.FloorToFloor)
}

func TestSiteOptionsSpecOverrides(t *testing.T) {
	cfg := loadDefaults(t)
	s := &spec.SiteSpec{
		Geometry: spec.GeometryDef{
			CreateMethod:       spec.SpacePerBuilding,
			Zoning:             true,
			PerimeterDepth:     2.5,
			FloorToFloorHeight: 4.2,
			RoofPanels:         true,
		},
		Shading: spec.ShadingDef{
			SurroundingBuildings: spec.SurroundingAll,
			ProximityDistance:    250,
		},
	}
	opts := cfg.SiteOptions(s)

	assert.Equal(t, spec.SpacePerBuilding, opts.Layout.Method)
	assert.True(t, opts.Layout.Zoning)
	assert.True(t, opts.Layout.RoofPanels)
	assert.InDelta(t, 2.5, opts.Layout.PerimeterDepth, 1e-9)
	assert.InDelta(t, 4.2, opts.Layout.FloorToFloor, 1e-9)
	assert.Equal(t, spec.SurroundingAll, opts.Surrounding)
	assert.InDelta(t, 250.0, opts.ProximityDistance, 1e-9)
}
