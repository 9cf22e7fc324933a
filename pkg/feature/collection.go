package feature

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb/geojson"
)

// ErrFeatureNotFound is returned by Find when no feature matches.
var ErrFeatureNotFound = errors.New("feature not found")

// Collection is a parsed GeoJSON feature collection.
type Collection struct {
	fc *geojson.FeatureCollection
}

// LoadCollection reads a GeoJSON feature collection from disk.
func LoadCollection(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading geojson file")
	}
	return ParseCollection(data)
}

// ParseCollection parses a GeoJSON feature collection.
func ParseCollection(data []byte) (*Collection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing geojson")
	}
	return &Collection{fc: fc}, nil
}

// Len returns the number of features.
func (c *Collection) Len() int {
	return len(c.fc.Features)
}

// Features returns the raw features in document order.
func (c *Collection) Features() []*geojson.Feature {
	return c.fc.Features
}

// Find returns the feature whose properties.source_id, properties.id or
// feature id equals id, in that order of preference.
func (c *Collection) Find(id string) (*geojson.Feature, error) {
	for _, key := range []string{"source_id", "id"} {
		for _, f := range c.fc.Features {
			if v := identifier(f.Properties[key]); v != "" && v == id {
				return f, nil
			}
		}
	}
	for _, f := range c.fc.Features {
		if v := identifier(f.ID); v != "" && v == id {
			return f, nil
		}
	}
	return nil, errors.Wrapf(ErrFeatureNotFound, "%q", id)
}

// IDs returns the identifier of every feature that has one, as Find would
// match it.
func (c *Collection) IDs() []string {
	ids := make([]string, 0, len(c.fc.Features))
	for _, f := range c.fc.Features {
		if id := Key(f); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Key returns the identifier Find prefers for f: properties.source_id, then
// properties.id, then the feature id. It is empty when none is set.
func Key(f *geojson.Feature) string {
	for _, v := range []any{f.Properties["source_id"], f.Properties["id"], f.ID} {
		if id := identifier(v); id != "" {
			return id
		}
	}
	return ""
}

// identifier formats a string or numeric identifier. It is empty for nil.
func identifier(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
