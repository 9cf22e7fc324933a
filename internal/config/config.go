// Package config loads runtime settings from floorprint.yaml and the
// environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/wta12/urbanopt-geojson-gem/pkg/layout"
	"github.com/wta12/urbanopt-geojson-gem/pkg/site"
	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
)

// EnvPrefix prefixes every environment override, e.g. FLOORPRINT_LOG_LEVEL.
const EnvPrefix = "FLOORPRINT"

// Config holds all runtime configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Geometry GeometryConfig
	Pipeline PipelineConfig
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// GeometryConfig holds the geometry defaults a site spec may override.
type GeometryConfig struct {
	PerimeterDepth           float64 `mapstructure:"perimeter_depth"`
	FloorToFloorHeight       float64 `mapstructure:"floor_to_floor_height"`
	ZoningFloorToFloorHeight float64 `mapstructure:"zoning_floor_to_floor_height"`
	ProximityDistance        float64 `mapstructure:"proximity_distance"`
}

// PipelineConfig controls batch conversion.
type PipelineConfig struct {
	Workers int
}

// Load reads configuration from path, or from floorprint.yaml in the working
// directory or $HOME/.floorprint when path is empty, then applies environment
// overrides. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("floorprint")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.floorprint")
	}

	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("geometry.perimeter_depth", 4.0)
	v.SetDefault("geometry.floor_to_floor_height", layout.DefaultFloorToFloor)
	v.SetDefault("geometry.zoning_floor_to_floor_height", layout.DefaultZoningFloorToFloor)
	v.SetDefault("geometry.proximity_distance", site.DefaultProximityDistance)
	v.SetDefault("pipeline.workers", 4)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	return &cfg, nil
}

// ServerAddr returns the listen address in the form ":port".
func (c *Config) ServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a logger writing to w at the configured level and format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// SiteOptions returns conversion options from the configured defaults with
// the non-zero settings of s applied on top. s may be nil.
func (c *Config) SiteOptions(s *spec.SiteSpec) site.Options {
	opts := site.DefaultOptions()
	opts.Layout.PerimeterDepth = c.Geometry.PerimeterDepth
	opts.Layout.DefaultFloorToFloor = c.Geometry.FloorToFloorHeight
	opts.Layout.ZoningFloorToFloor = c.Geometry.ZoningFloorToFloorHeight
	opts.ProximityDistance = c.Geometry.ProximityDistance
	if c.Pipeline.Workers > 0 {
		opts.Workers = c.Pipeline.Workers
	}
	if s == nil {
		return opts
	}

	g := s.Geometry
	if g.CreateMethod != "" {
		opts.Layout.Method = g.CreateMethod
	}
	opts.Layout.Zoning = g.Zoning
	opts.Layout.RoofPanels = g.RoofPanels
	if g.PerimeterDepth > 0 {
		opts.Layout.PerimeterDepth = g.PerimeterDepth
	}
	if g.FloorToFloorHeight > 0 {
		opts.Layout.FloorToFloor = g.FloorToFloorHeight
	}
	if s.Shading.SurroundingBuildings != "" {
		opts.Surrounding = s.Shading.SurroundingBuildings
	}
	if s.Shading.ProximityDistance > 0 {
		opts.ProximityDistance = s.Shading.ProximityDistance
	}
	return opts
}
