package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wta12/urbanopt-geojson-gem/internal/config"
	"github.com/wta12/urbanopt-geojson-gem/pkg/scene"
)

const exampleDir = "../../examples/denver-block"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeProject creates a site directory pointing at the example footprints.
func writeProject(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	abs, err := filepath.Abs(filepath.Join(exampleDir, "footprints.geojson"))
	require.NoError(t, err)
	content := "spec_version: \"0.1.0\"\nsite:\n  geojson: " + abs + "\n" + yaml
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yaml"), []byte(content), 0o644))
	return dir
}

func TestRunExample(t *testing.T) {
	out, err := Run(context.Background(), exampleDir, "", testConfig(t), discard())
	require.NoError(t, err)

	assert.True(t, out.Report.Valid, "errors: %v", out.Report.Errors)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "b1", out.Results[0].FeatureID)

	g := out.Graph
	require.NotNil(t, g)
	assert.Len(t, g.Groups.EntityTypes[scene.EntityCoreZone], 3)
	assert.Len(t, g.Groups.EntityTypes[scene.EntityPerimeterZone], 12)
	assert.Len(t, g.Groups.EntityTypes[scene.EntityRoofPanel], 1)
	assert.Len(t, g.Groups.EntityTypes[scene.EntityShading], 2)

	require.NotNil(t, out.Plan)
	assert.Len(t, out.Plan.Buildings, 1)
	assert.Len(t, out.Plan.Shading, 2)

	require.NotNil(t, out.Summary)
	require.Len(t, out.Summary.Buildings, 1)
	m := out.Summary.Buildings[0]
	assert.Equal(t, 2, m.ShadingCount)
	assert.InDelta(t, 3*m.FootprintArea, m.GrossFloorArea, 1e-6)
	assert.InDelta(t, 10.8, m.Height, 1e-9)
}

func TestRunFeatureOverride(t *testing.T) {
	out, err := Run(context.Background(), exampleDir, "b3", testConfig(t), discard())
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "b3", out.Results[0].FeatureID)
}

func TestRunUnknownFeature(t *testing.T) {
	out, err := Run(context.Background(), exampleDir, "missing", testConfig(t), discard())
	require.NoError(t, err)
	assert.False(t, out.Report.Valid)
	require.NotEmpty(t, out.Report.Errors)
	assert.Equal(t, "features[missing].feature_id", out.Report.Errors[0].Path)
}

func TestRunAllFeatures(t *testing.T) {
	dir := writeProject(t, "geometry:\n  zoning: true\n")
	out, err := Run(context.Background(), dir, "", testConfig(t), discard())
	require.NoError(t, err)

	assert.True(t, out.Report.Valid, "errors: %v", out.Report.Errors)
	require.Len(t, out.Results, 5)
	origin := out.Results[0].Origin
	for _, res := range out.Results {
		assert.Equal(t, *origin, *res.Origin, "feature %s should share the site origin", res.FeatureID)
	}
	assert.Len(t, out.Graph.Groups.Features, 5)
}

func TestRunSchemaInvalid(t *testing.T) {
	dir := writeProject(t, "geometry:\n  create_method: space_per_room\n")
	out, err := Run(context.Background(), dir, "", testConfig(t), discard())
	require.NoError(t, err)
	assert.False(t, out.Report.Valid)
	assert.Nil(t, out.Graph)
	assert.Nil(t, out.Summary)
	assert.Empty(t, out.Results)
}

func TestRunMissingProject(t *testing.T) {
	_, err := Run(context.Background(), t.TempDir(), "", testConfig(t), discard())
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	dir := writeProject(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, dir, "", testConfig(t), discard())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunProjectWithoutFootprints(t *testing.T) {
	p, _, err := Load(exampleDir)
	require.NoError(t, err)
	p.Collection = nil
	_, err = RunProject(context.Background(), p, "", testConfig(t), discard())
	assert.Error(t, err)
}
