package spec

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ProjectFile is the file LoadProject looks for in a project directory.
const ProjectFile = "site.yaml"

// Load reads a site spec from a YAML file.
func Load(path string) (*SiteSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading spec file")
	}

	var spec SiteSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrap(err, "parsing spec YAML")
	}

	return &spec, nil
}

// LoadProject loads a site spec from a project directory.
// It looks for site.yaml in the given directory.
func LoadProject(projectDir string) (*SiteSpec, error) {
	return Load(filepath.Join(projectDir, ProjectFile))
}

// GeoJSONPath resolves the footprint file relative to the project directory.
func (s *SiteSpec) GeoJSONPath(projectDir string) string {
	if filepath.IsAbs(s.Site.GeoJSON) {
		return s.Site.GeoJSON
	}
	return filepath.Join(projectDir, s.Site.GeoJSON)
}
