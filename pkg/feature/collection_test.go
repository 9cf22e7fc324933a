package feature

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
)

const sample = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "f-1", "properties": {"name": "anonymous"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}},
    {"type": "Feature", "properties": {"id": "b2", "source_id": "src-2"},
     "geometry": {"type": "Polygon", "coordinates": [[[2,2],[3,2],[3,3],[2,2]]]}},
    {"type": "Feature", "properties": {"id": "b3"},
     "geometry": {"type": "Point", "coordinates": [5,5]}}
  ]
}`

func TestParseCollectionFind(t *testing.T) {
	c, err := ParseCollection([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	f, err := c.Find("src-2")
	require.NoError(t, err)
	assert.Equal(t, "b2", f.Properties["id"])

	f, err = c.Find("b2")
	require.NoError(t, err)
	assert.Equal(t, "src-2", f.Properties["source_id"])

	f, err = c.Find("f-1")
	require.NoError(t, err)
	assert.Equal(t, "anonymous", f.Properties["name"])

	_, err = c.Find("missing")
	assert.True(t, errors.Is(err, ErrFeatureNotFound))
}

func TestCollectionIDs(t *testing.T) {
	c, err := ParseCollection([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"f-1", "src-2", "b3"}, c.IDs())
}

func TestCollectionPointFeatureRejected(t *testing.T) {
	c, err := ParseCollection([]byte(sample))
	require.NoError(t, err)
	raw, err := c.Find("b3")
	require.NoError(t, err)

	_, err = New(raw, validation.NewReport())
	assert.True(t, errors.Is(err, ErrUnsupportedGeometry))
}

func TestParseCollectionInvalid(t *testing.T) {
	_, err := ParseCollection([]byte(`{"type": "FeatureCollection", "features": [`))
	assert.Error(t, err)
}

func TestLoadCollectionExample(t *testing.T) {
	c, err := LoadCollection("../../examples/denver-block/footprints.geojson")
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())

	raw, err := c.Find("b5")
	require.NoError(t, err)
	f, err := New(raw, validation.NewReport())
	require.NoError(t, err)
	assert.True(t, f.HasHoles())
	assert.Len(t, f.Exteriors(), 1)
}

func TestLoadCollectionMissing(t *testing.T) {
	_, err := LoadCollection("/nonexistent/footprints.geojson")
	assert.Error(t, err)
}
